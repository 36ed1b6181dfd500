package store

import (
	"context"
	"sync"
)

// MemoryStore 进程内存储，记录以序列化形式保存，Load 得到的是副本
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	codec   *Codec
}

var _ SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储，codec 为 nil 时使用默认编解码
func NewMemoryStore(codec ...*Codec) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string][]byte),
		codec:   NewCodec(nil, nil, nil),
	}
	if len(codec) > 0 && codec[0] != nil {
		s.codec = codec[0]
	}
	return s
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	data, err := s.codec.Encode(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Tree] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, tree string) (*Record, error) {
	s.mu.RLock()
	data, ok := s.records[tree]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	return s.codec.Decode(data)
}

func (s *MemoryStore) Delete(_ context.Context, tree string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, tree)
	return nil
}

// Len 返回保存的树数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
