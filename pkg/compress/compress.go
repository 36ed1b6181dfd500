// Package compress 快照数据压缩
package compress

import "fmt"

// Compressor 压缩器
type Compressor interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	// Name 算法名称，随数据一起保存，用于解压时选择算法
	Name() string
}

// Type 压缩算法类型
type Type string

const (
	TypeNone   Type = "none"
	TypeSnappy Type = "snappy"
	TypeZstd   Type = "zstd"
	TypeLZ4    Type = "lz4"
)

// New 创建压缩器，空类型等同于 none
func New(t Type) (Compressor, error) {
	switch t {
	case TypeNone, "":
		return noneCompressor{}, nil
	case TypeSnappy:
		return snappyCompressor{}, nil
	case TypeZstd:
		return newZstdCompressor()
	case TypeLZ4:
		return lz4Compressor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

// MustNew 创建压缩器，失败时 panic
func MustNew(t Type) Compressor {
	c, err := New(t)
	if err != nil {
		panic(err)
	}
	return c
}

type noneCompressor struct{}

func (noneCompressor) Compress(src []byte) ([]byte, error) {
	return src, nil
}

func (noneCompressor) Decompress(src []byte) ([]byte, error) {
	return src, nil
}

func (noneCompressor) Name() string {
	return string(TypeNone)
}
