package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/checksum"
	"github.com/lk2023060901/xdooria-bt/pkg/compress"
	"github.com/lk2023060901/xdooria-bt/pkg/database/redis"
	"github.com/lk2023060901/xdooria-bt/pkg/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV 内存版 kv，行为与 redis.Client 一致（键不存在返回 redis.ErrNil）
type fakeKV struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeKV) GetBytes(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, redis.ErrNil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

func newTree(t *testing.T, name string) *bt.Tree {
	t.Helper()
	tree, err := bt.NewTree(name, bt.AlwaysSuccess(""))
	require.NoError(t, err)
	return tree
}

// testSnapshotStore 对任意 SnapshotStore 执行的通用用例
func testSnapshotStore(t *testing.T, s SnapshotStore) {
	ctx := context.Background()
	tree := newTree(t, "patrol")
	tree.Blackboard().Set("mode", "guard")
	tree.Blackboard().Set("laps", 3)
	tree.Tick(ctx)

	_, err := s.Load(ctx, "patrol")
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := NewRecord(tree)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.Tick)
	assert.Equal(t, "Success", rec.Status)
	assert.Equal(t, tree.ID(), rec.TreeID)
	require.NoError(t, s.Save(ctx, rec))

	loaded, err := s.Load(ctx, "patrol")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, rec.SavedAt, loaded.SavedAt)

	// 恢复到同名的新树实例
	restored := newTree(t, "patrol")
	require.NoError(t, loaded.Apply(restored))
	mode, _ := restored.Blackboard().GetString("mode")
	assert.Equal(t, "guard", mode)
	laps, err := restored.Blackboard().Get("laps")
	require.NoError(t, err)
	assert.EqualValues(t, 3, laps)

	assert.Error(t, loaded.Apply(newTree(t, "guard")))

	require.NoError(t, s.Delete(ctx, "patrol"))
	_, err = s.Load(ctx, "patrol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	testSnapshotStore(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestRedisStoreFake(t *testing.T) {
	kv := newFakeKV()
	s := newRedisStore(kv, WithKeyPrefix("test:"), WithTTL(time.Minute))
	testSnapshotStore(t, s)

	require.NoError(t, s.Save(context.Background(), &Record{Tree: "guard"}))
	assert.Contains(t, kv.data, "test:guard")
	assert.Equal(t, time.Minute, kv.ttls["test:guard"])
}

func TestRedisStoreJSON(t *testing.T) {
	kv := newFakeKV()
	s := newRedisStore(kv, WithCodec(NewCodec(serializer.NewJSON(), nil, nil)))
	testSnapshotStore(t, s)

	require.NoError(t, s.Save(context.Background(), &Record{Tree: "guard", Tick: 7}))
	assert.Contains(t, string(kv.data[DefaultKeyPrefix+"guard"]), `"tick":7`)
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	kv := newFakeKV()
	kv.data[DefaultKeyPrefix+"patrol"] = []byte{0xc1}
	s := newRedisStore(kv)

	_, err := s.Load(context.Background(), "patrol")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreIntegration(t *testing.T) {
	c, err := redis.NewClient(&redis.Config{
		Standalone: &redis.NodeConfig{Host: "localhost", Port: 16379},
		Pool:       redis.PoolConfig{DialTimeout: 500 * time.Millisecond},
	})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	testSnapshotStore(t, NewRedisStore(c, WithKeyPrefix("bttest:"+uuid.NewString()+":")))
}

func TestMemoryStoreCompressed(t *testing.T) {
	c, err := checksum.New(checksum.TypeCRC32C)
	require.NoError(t, err)
	testSnapshotStore(t, NewMemoryStore(NewCodec(nil, compress.MustNew(compress.TypeSnappy), c)))
}

func TestCodec(t *testing.T) {
	tree := newTree(t, "patrol")
	tree.Blackboard().Set("route", []any{"gate", "tower", "gate", "tower"})
	rec, err := NewRecord(tree)
	require.NoError(t, err)
	original := append([]byte(nil), rec.Blackboard...)

	codec := NewCodec(serializer.NewJSON(), compress.MustNew(compress.TypeZstd), nil)
	data, err := codec.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, original, rec.Blackboard, "Encode does not modify the record")
	assert.Empty(t, rec.Compression)

	// 解码端按记录中的算法名称解压，与自身配置无关
	decoded, err := NewCodec(serializer.NewJSON(), nil, nil).Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded.Blackboard)
	assert.Equal(t, "zstd", decoded.Compression)
	assert.Equal(t, "xxhash", decoded.ChecksumType)
}

func TestCodecChecksumMismatch(t *testing.T) {
	json := serializer.NewJSON()
	codec := NewCodec(json, nil, nil)

	data, err := codec.Encode(&Record{Tree: "patrol", Blackboard: []byte{0x80}})
	require.NoError(t, err)

	rec := &Record{}
	require.NoError(t, json.Deserialize(data, rec))
	rec.Checksum++
	tampered, err := json.Serialize(rec)
	require.NoError(t, err)

	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	rec.Checksum--
	rec.Compression = "brotli"
	unknown, err := json.Serialize(rec)
	require.NoError(t, err)
	_, err = codec.Decode(unknown)
	assert.Error(t, err)
}
