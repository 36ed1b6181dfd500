package conf

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lk2023060901/xdooria-bt/app/agent/internal/actions"
	"github.com/lk2023060901/xdooria-bt/pkg/bt/btdef"
	"github.com/lk2023060901/xdooria-bt/pkg/config"
	"github.com/lk2023060901/xdooria-bt/pkg/logger"
	"github.com/lk2023060901/xdooria-bt/pkg/otel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agentYAML = `
log:
  level: debug
agent:
  tick_interval: 50ms
  workers: 2
  scorers:
    threat:
      weights: [0.5, 2]
      bias: 1
  trees:
    - name: patrol
      kind: sequence
      children:
        - {kind: leaf, leaf: check, params: {key: alert, value: false}}
        - {kind: leaf, leaf: wait, params: {duration: 200ms}}
    - name: guard
      kind: leaf
      leaf: idle
snapshot:
  enabled: true
  ttl: 1h
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, mgr, err := Load(writeConfig(t, agentYAML), nil)
	require.NoError(t, err)
	require.NotNil(t, mgr)

	assert.Equal(t, 50*time.Millisecond, cfg.Agent.TickInterval)
	assert.Equal(t, 2, cfg.Agent.Workers)
	require.Len(t, cfg.Agent.Trees, 2)
	assert.Equal(t, "patrol", cfg.Agent.Trees[0].Name)
	assert.Equal(t, "200ms", cfg.Agent.Trees[0].Children[1].Params["duration"])
	assert.Equal(t, []float64{0.5, 2}, cfg.Agent.Scorers["threat"].Weights)

	// 默认值
	assert.Equal(t, "debug", string(cfg.Log.Level))
	assert.Equal(t, "console", string(cfg.Log.Format))
	assert.Equal(t, "btagent", cfg.Metrics.Namespace)
	assert.Equal(t, "memory", cfg.Snapshot.Backend)
	assert.Equal(t, "msgpack", cfg.Snapshot.Format)
	assert.Equal(t, time.Hour, cfg.Snapshot.TTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BTAGENT_AGENT_WORKERS", "8")

	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--agent-tick-interval=10ms", "--agent-stop-on-terminal"}))

	cfg, _, err := Load(writeConfig(t, agentYAML), fs)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Agent.TickInterval)
	assert.True(t, cfg.Agent.StopOnTerminal)
	assert.Equal(t, 8, cfg.Agent.Workers)
}

func TestLoadKeepsExplicitFalse(t *testing.T) {
	content := strings.Replace(agentYAML, "log:\n  level: debug\n", `log:
  level: debug
  enable_console: false
  enable_stacktrace: false
  enable_file: true
  output_path: LOG_PATH
tracing:
  insecure: false
`, 1)
	content = strings.Replace(content, "LOG_PATH", filepath.Join(t.TempDir(), "agent.log"), 1)

	cfg, _, err := Load(writeConfig(t, content), nil)
	require.NoError(t, err)
	assert.False(t, cfg.Log.EnableConsole)
	assert.False(t, cfg.Log.EnableStacktrace)
	assert.True(t, cfg.Log.EnableFile)
	assert.False(t, cfg.Tracing.Insecure)

	// 未出现的键保留默认值
	assert.True(t, cfg.Log.Rotation.Compress)
	assert.Equal(t, logger.DefaultConfig().TimeFormat, cfg.Log.TimeFormat)
	assert.Equal(t, otel.DefaultConfig().ShutdownTimeout, cfg.Tracing.ShutdownTimeout)

	l, err := logger.New(&cfg.Log, logger.WithWriter(io.Discard))
	require.NoError(t, err)
	_ = l.Sync()
}

func TestLoadErrors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	tests := []struct {
		name    string
		content string
	}{
		{name: "no trees", content: "agent:\n  tick_interval: 1s\n"},
		{
			name: "duplicate tree names",
			content: `
agent:
  trees:
    - {name: a, kind: leaf, leaf: idle}
    - {name: a, kind: leaf, leaf: idle}
`,
		},
		{
			name:    "unnamed tree",
			content: "agent:\n  trees:\n    - {kind: leaf, leaf: idle}\n",
		},
		{
			name:    "unknown kind",
			content: "agent:\n  trees:\n    - {name: a, kind: loop}\n",
		},
		{
			name: "bad snapshot backend",
			content: `
agent:
  trees:
    - {name: a, kind: leaf, leaf: idle}
snapshot:
  backend: disk
`,
		},
		{
			name: "redis backend without address",
			content: `
agent:
  trees:
    - {name: a, kind: leaf, leaf: idle}
snapshot:
  enabled: true
  backend: redis
`,
		},
		{
			name: "scorer without weights",
			content: `
agent:
  scorers:
    threat: {bias: 1}
  trees:
    - {name: a, kind: leaf, leaf: idle}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.content), nil)
			assert.ErrorIs(t, err, config.ErrValidationFailed)
		})
	}
}

func TestAgentWatcher(t *testing.T) {
	_, mgr, err := Load(writeConfig(t, agentYAML), nil)
	require.NoError(t, err)

	w, err := NewAgentWatcher(mgr)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, w.Current().TickInterval)
}

func TestShippedConfig(t *testing.T) {
	cfg, _, err := Load(filepath.Join("..", "..", "configs", "agent.yaml"), nil)
	require.NoError(t, err)

	f, err := actions.NewFactory()
	require.NoError(t, err)
	for i := range cfg.Agent.Trees {
		_, err := btdef.BuildTree(&cfg.Agent.Trees[i], f)
		assert.NoError(t, err, cfg.Agent.Trees[i].Name)
	}
}
