// Package checksum 快照数据校验
package checksum

import (
	"fmt"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// Hasher 校验和计算器
type Hasher interface {
	Sum(data []byte) uint64
	Verify(data []byte, expected uint64) bool
	Name() string
}

// Type 校验算法类型
type Type string

const (
	// TypeXXHash 64 位 xxhash（默认）
	TypeXXHash Type = "xxhash"
	// TypeCRC32C Castagnoli 多项式，现代 CPU 有硬件加速
	TypeCRC32C Type = "crc32c"
)

// New 创建校验器，空类型等同于 xxhash
func New(t Type) (Hasher, error) {
	switch t {
	case TypeXXHash, "":
		return xxhashHasher{}, nil
	case TypeCRC32C:
		return crc32cHasher{table: crc32.MakeTable(crc32.Castagnoli)}, nil
	default:
		return nil, fmt.Errorf("unsupported checksum type: %s", t)
	}
}

// Default 返回 xxhash 校验器
func Default() Hasher {
	return xxhashHasher{}
}

type xxhashHasher struct{}

func (xxhashHasher) Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func (h xxhashHasher) Verify(data []byte, expected uint64) bool {
	return h.Sum(data) == expected
}

func (xxhashHasher) Name() string {
	return string(TypeXXHash)
}

type crc32cHasher struct {
	table *crc32.Table
}

func (h crc32cHasher) Sum(data []byte) uint64 {
	return uint64(crc32.Checksum(data, h.table))
}

func (h crc32cHasher) Verify(data []byte, expected uint64) bool {
	return h.Sum(data) == expected
}

func (crc32cHasher) Name() string {
	return string(TypeCRC32C)
}
