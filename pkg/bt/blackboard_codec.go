package bt

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-bt/pkg/serializer"
)

// MarshalSnapshot 将黑板内容编码为 msgpack
// 值必须是 msgpack 可编码的类型，解码后数值类型可能变宽（如 int -> int64）。
func (bb *Blackboard) MarshalSnapshot() ([]byte, error) {
	data, err := serializer.Encode(bb.Snapshot())
	if err != nil {
		return nil, errors.Wrap(err, "bt: encode blackboard snapshot")
	}
	return data, nil
}

// UnmarshalSnapshot 从 msgpack 数据恢复黑板内容
func (bb *Blackboard) UnmarshalSnapshot(data []byte) error {
	snapshot := make(map[string]any)
	if err := serializer.Decode(data, &snapshot); err != nil {
		return errors.Wrap(err, "bt: decode blackboard snapshot")
	}
	bb.Restore(snapshot)
	return nil
}
