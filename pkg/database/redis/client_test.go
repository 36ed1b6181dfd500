package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Standalone: &NodeConfig{Host: "localhost", Port: 16379},
		Pool: PoolConfig{
			DialTimeout:  500 * time.Millisecond,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

// newTestClient 连接本地 Redis，不可用时跳过
func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConfigValidate(t *testing.T) {
	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrNilConfig)
	assert.ErrorIs(t, (&Config{}).Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, (&Config{
		Standalone: &NodeConfig{},
		Cluster:    &ClusterConfig{Addrs: []string{"a:1"}},
	}).Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, (&Config{Cluster: &ClusterConfig{}}).Validate(), ErrInvalidConfig)
	assert.NoError(t, testConfig().Validate())

	cfg := &Config{Cluster: &ClusterConfig{Addrs: []string{"localhost:17001"}}}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	assert.True(t, cfg.IsCluster())
	assert.NoError(t, c.Close())
}

func TestClientCommands(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := "bt:test:" + uuid.NewString() + ":snapshot"
	t.Cleanup(func() { _, _ = c.Del(context.Background(), key) })

	_, err := c.GetBytes(ctx, key)
	assert.True(t, errors.Is(err, ErrNil))

	require.NoError(t, c.Set(ctx, key, []byte{0x81, 0xa1, 'k', 0x01}, time.Minute))

	data, err := c.GetBytes(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 0xa1, 'k', 0x01}, data)

	deleted, err := c.Del(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = c.GetBytes(ctx, key)
	assert.True(t, errors.Is(err, ErrNil))
}
