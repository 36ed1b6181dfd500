// Package store 行为树黑板快照的持久化
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
)

// ErrNotFound 没有该树的快照
var ErrNotFound = errors.New("store: snapshot not found")

// Record 快照记录，按树名存取
type Record struct {
	ID         string `json:"id"`
	Tree       string `json:"tree"`
	TreeID     string `json:"tree_id"`
	Tick       uint64 `json:"tick"`
	Status     string `json:"status"`
	SavedAt    int64  `json:"saved_at"`   // unix 毫秒
	Blackboard []byte `json:"blackboard"` // msgpack 编码的黑板内容

	// 以下字段由 Codec 填写
	Compression  string `json:"compression,omitempty"`
	Checksum     uint64 `json:"checksum,omitempty"`
	ChecksumType string `json:"checksum_type,omitempty"`
}

// NewRecord 对当前树状态生成快照
func NewRecord(t *bt.Tree) (*Record, error) {
	data, err := t.Blackboard().MarshalSnapshot()
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:         uuid.NewString(),
		Tree:       t.Name(),
		TreeID:     t.ID(),
		Tick:       t.TickCount(),
		Status:     t.Status().String(),
		SavedAt:    time.Now().UnixMilli(),
		Blackboard: data,
	}, nil
}

// Apply 用快照覆盖树的黑板
func (r *Record) Apply(t *bt.Tree) error {
	if r.Tree != t.Name() {
		return fmt.Errorf("store: snapshot of %q cannot be applied to %q", r.Tree, t.Name())
	}
	return t.Blackboard().UnmarshalSnapshot(r.Blackboard)
}

// SnapshotStore 快照存储
type SnapshotStore interface {
	Save(ctx context.Context, rec *Record) error
	// Load 返回树最近一次的快照，不存在时返回 ErrNotFound
	Load(ctx context.Context, tree string) (*Record, error)
	Delete(ctx context.Context, tree string) error
}
