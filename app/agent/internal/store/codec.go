package store

import (
	"errors"
	"fmt"

	"github.com/lk2023060901/xdooria-bt/pkg/checksum"
	"github.com/lk2023060901/xdooria-bt/pkg/compress"
	"github.com/lk2023060901/xdooria-bt/pkg/serializer"
)

// ErrChecksumMismatch 快照内容与校验和不一致
var ErrChecksumMismatch = errors.New("store: snapshot checksum mismatch")

// Codec 记录编解码：黑板数据先计算校验和再压缩，整条记录用 Serializer 序列化
type Codec struct {
	ser        serializer.Serializer
	compressor compress.Compressor
	hasher     checksum.Hasher
}

// NewCodec 创建编解码器，nil 参数使用默认值（msgpack、不压缩、xxhash）
func NewCodec(ser serializer.Serializer, c compress.Compressor, h checksum.Hasher) *Codec {
	if ser == nil {
		ser = serializer.NewMsgpack()
	}
	if c == nil {
		c = compress.MustNew(compress.TypeNone)
	}
	if h == nil {
		h = checksum.Default()
	}
	return &Codec{ser: ser, compressor: c, hasher: h}
}

// Encode 编码记录，不修改 rec
func (c *Codec) Encode(rec *Record) ([]byte, error) {
	out := *rec
	out.Checksum = c.hasher.Sum(rec.Blackboard)
	out.ChecksumType = c.hasher.Name()

	data, err := c.compressor.Compress(rec.Blackboard)
	if err != nil {
		return nil, fmt.Errorf("store: compress blackboard: %w", err)
	}
	out.Blackboard = data
	out.Compression = c.compressor.Name()

	b, err := c.ser.Serialize(&out)
	if err != nil {
		return nil, fmt.Errorf("store: serialize %s record: %w", c.ser.ContentType(), err)
	}
	return b, nil
}

// Decode 解码记录，按记录中保存的算法解压和校验
func (c *Codec) Decode(data []byte) (*Record, error) {
	rec := &Record{}
	if err := c.ser.Deserialize(data, rec); err != nil {
		return nil, fmt.Errorf("store: deserialize %s record: %w", c.ser.ContentType(), err)
	}

	comp, err := compress.New(compress.Type(rec.Compression))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if rec.Blackboard, err = comp.Decompress(rec.Blackboard); err != nil {
		return nil, fmt.Errorf("store: decompress blackboard: %w", err)
	}

	hasher, err := checksum.New(checksum.Type(rec.ChecksumType))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if !hasher.Verify(rec.Blackboard, rec.Checksum) {
		return nil, fmt.Errorf("%w: tree %q", ErrChecksumMismatch, rec.Tree)
	}
	return rec, nil
}
