package actions

import (
	"context"
	"testing"
	"time"

	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/bt/btdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, def *btdef.Definition, opts ...bt.TreeOption) *bt.Tree {
	t.Helper()
	f, err := NewFactory()
	require.NoError(t, err)
	tree, err := btdef.BuildTree(def, f, opts...)
	require.NoError(t, err)
	return tree
}

func leaf(kind string, params map[string]any) btdef.Definition {
	return btdef.Definition{Kind: btdef.KindLeaf, Leaf: kind, Params: params}
}

func TestRegister(t *testing.T) {
	f, err := NewFactory()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"check", "counter", "failure", "idle", "log", "score", "set", "success", "wait"},
		f.Kinds())

	// 重复注册报错
	assert.Error(t, Register(f))
}

func TestWait(t *testing.T) {
	now := time.Unix(0, 0)
	w := NewWait("", 100*time.Millisecond)
	w.now = func() time.Time { return now }
	assert.Equal(t, "wait", w.Name())
	assert.Equal(t, "duration=100ms", w.Describe())

	ctx := context.Background()
	assert.Equal(t, bt.StatusRunning, bt.Execute(ctx, w))
	now = now.Add(50 * time.Millisecond)
	assert.Equal(t, bt.StatusRunning, bt.Execute(ctx, w))
	now = now.Add(50 * time.Millisecond)
	assert.Equal(t, bt.StatusSuccess, bt.Execute(ctx, w))

	// 成功后重新计时
	assert.Equal(t, bt.StatusRunning, bt.Execute(ctx, w))

	// Reset 清除计时
	now = now.Add(time.Second)
	w.Reset()
	assert.Equal(t, bt.StatusIdle, w.Status())
	assert.Equal(t, bt.StatusRunning, bt.Execute(ctx, w))
}

func TestWaitParams(t *testing.T) {
	f, err := NewFactory()
	require.NoError(t, err)

	n, err := f.Create("wait", "pause", map[string]any{"duration": "250ms"})
	require.NoError(t, err)
	w, ok := n.(*Wait)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, w.duration)

	_, err = f.Create("wait", "pause", map[string]any{"duration": "soon"})
	assert.Error(t, err)
	_, err = f.Create("wait", "pause", map[string]any{"duration": "-1s"})
	assert.Error(t, err)
	_, err = f.Create("idle", "nothing", map[string]any{"extra": 1})
	assert.Error(t, err, "unknown params are rejected")
}

func TestSetCheckCounter(t *testing.T) {
	def := &btdef.Definition{
		Name: "counting",
		Kind: btdef.KindSequence,
		Children: []btdef.Definition{
			leaf("set", map[string]any{"key": "mode", "value": "patrol"}),
			leaf("check", map[string]any{"key": "mode", "value": "patrol"}),
			leaf("counter", map[string]any{"key": "laps", "limit": 2}),
			leaf("log", map[string]any{"message": "lap done", "keys": []any{"laps"}}),
		},
	}
	tree := buildTree(t, def)
	ctx := context.Background()
	bb := tree.Blackboard()

	assert.Equal(t, bt.StatusSuccess, tree.Tick(ctx))
	assert.Equal(t, bt.StatusSuccess, tree.Tick(ctx))
	laps, ok := bb.GetInt("laps")
	require.True(t, ok)
	assert.Equal(t, 2, laps)

	// 达到上限后失败
	assert.Equal(t, bt.StatusFailure, tree.Tick(ctx))
	laps, _ = bb.GetInt("laps")
	assert.Equal(t, 2, laps)

	// set 在 check 之前覆盖 mode
	bb.Set("mode", "guard")
	bb.Delete("laps")
	assert.Equal(t, bt.StatusSuccess, tree.Tick(ctx))
	laps, _ = bb.GetInt("laps")
	assert.Equal(t, 1, laps)
}

func TestCheck(t *testing.T) {
	f, err := NewFactory()
	require.NoError(t, err)

	tests := []struct {
		name   string
		params map[string]any
		value  any
		set    bool
		want   bt.Status
	}{
		{name: "missing key", params: map[string]any{"key": "hp"}, want: bt.StatusFailure},
		{name: "exists", params: map[string]any{"key": "hp"}, value: 3, set: true, want: bt.StatusSuccess},
		{name: "equal across int types", params: map[string]any{"key": "hp", "value": 3}, value: int64(3), set: true, want: bt.StatusSuccess},
		{name: "not equal", params: map[string]any{"key": "hp", "value": 4}, value: 3, set: true, want: bt.StatusFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := f.Create("check", "", tt.params)
			require.NoError(t, err)
			tree, err := bt.NewTree("check", n)
			require.NoError(t, err)
			if tt.set {
				tree.Blackboard().Set("hp", tt.value)
			}
			assert.Equal(t, tt.want, tree.Tick(context.Background()))
		})
	}

	_, err = f.Create("check", "", map[string]any{})
	assert.Error(t, err, "key is required")
}

func TestCounterRejectsNonInteger(t *testing.T) {
	f, err := NewFactory()
	require.NoError(t, err)
	n, err := f.Create("counter", "", map[string]any{"key": "laps"})
	require.NoError(t, err)
	tree, err := bt.NewTree("counter", n)
	require.NoError(t, err)

	tree.Blackboard().Set("laps", "many")
	assert.Equal(t, bt.StatusFailure, tree.Tick(context.Background()))
	assert.Error(t, n.(*bt.Action).Diagnostic())

	tree.Blackboard().Set("laps", uint64(4))
	assert.Equal(t, bt.StatusSuccess, tree.Tick(context.Background()))
	laps, _ := tree.Blackboard().GetInt("laps")
	assert.Equal(t, 5, laps)
}

func TestLogLevel(t *testing.T) {
	f, err := NewFactory()
	require.NoError(t, err)
	_, err = f.Create("log", "", map[string]any{"message": "hi", "level": "trace"})
	assert.Error(t, err)
	_, err = f.Create("log", "", map[string]any{"level": "info"})
	assert.Error(t, err, "message is required")
}

func TestScore(t *testing.T) {
	def := &btdef.Definition{
		Name: "scoring",
		Kind: btdef.KindLeaf,
		Leaf: "score",
		Params: map[string]any{
			"input_key":    "features",
			"output_key":   "score",
			"resource_key": "model",
		},
	}
	tree := buildTree(t, def, bt.WithResource("model", &LinearScorer{Weights: []float64{2, 0.5}, Bias: 1}))
	ctx := context.Background()

	tree.Blackboard().Set("features", []any{int64(3), 4.0})
	require.Equal(t, bt.StatusSuccess, tree.Tick(ctx))
	score, err := bt.Value[float64](tree.Blackboard(), "score")
	require.NoError(t, err)
	assert.InDelta(t, 9.0, score, 1e-9)

	// 特征数量不匹配
	tree.Blackboard().Set("features", 1.0)
	assert.Equal(t, bt.StatusFailure, tree.Tick(ctx))

	// 非数值输入
	tree.Blackboard().Set("features", []any{"x", 1})
	assert.Equal(t, bt.StatusFailure, tree.Tick(ctx))
}

func TestScoreWrongResource(t *testing.T) {
	out, err := invokeScorer(context.Background(), "not a scorer", []float64{1})
	assert.Nil(t, out)
	assert.Error(t, err)

	s := ScorerFunc(func(_ context.Context, f []float64) (float64, error) { return f[0] * 10, nil })
	out, err = invokeScorer(context.Background(), s, []float64{1.5})
	require.NoError(t, err)
	assert.Equal(t, 15.0, out)
}
