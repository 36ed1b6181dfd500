package store

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/xdooria-bt/pkg/database/redis"
)

// DefaultKeyPrefix 默认键前缀
const DefaultKeyPrefix = "btagent:snapshot:"

// kv RedisStore 用到的命令
type kv interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
}

var _ kv = (*redis.Client)(nil)

// RedisStore 基于 Redis 的快照存储，每棵树一个键
type RedisStore struct {
	client kv
	prefix string
	ttl    time.Duration
	codec  *Codec
}

var _ SnapshotStore = (*RedisStore)(nil)

// RedisOption RedisStore 选项
type RedisOption func(*RedisStore)

// WithKeyPrefix 设置键前缀
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL 设置快照过期时间，0 表示不过期
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithCodec 替换记录的编解码方式
func WithCodec(c *Codec) RedisOption {
	return func(s *RedisStore) {
		if c != nil {
			s.codec = c
		}
	}
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	return newRedisStore(client, opts...)
}

func newRedisStore(client kv, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultKeyPrefix,
		codec:  NewCodec(nil, nil, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(tree string) string {
	return s.prefix + tree
}

func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	data, err := s.codec.Encode(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(rec.Tree), data, s.ttl)
}

func (s *RedisStore) Load(ctx context.Context, tree string) (*Record, error) {
	data, err := s.client.GetBytes(ctx, s.key(tree))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.codec.Decode(data)
}

func (s *RedisStore) Delete(ctx context.Context, tree string) error {
	_, err := s.client.Del(ctx, s.key(tree))
	return err
}
