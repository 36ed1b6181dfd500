package compress

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// lz4Compressor LZ4 块格式
// 输出格式: 4 字节原始长度（小端） + 压缩块；块长度为 0 表示数据不可压缩，后面直接是原始数据。
type lz4Compressor struct{}

const lz4HeaderSize = 4

func (lz4Compressor) Compress(src []byte) ([]byte, error) {
	if src == nil {
		return nil, nil
	}

	dst := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(src)))
	binary.LittleEndian.PutUint32(dst, uint32(len(src)))

	n, err := lz4.CompressBlock(src, dst[lz4HeaderSize:], nil)
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(src) {
		// 不可压缩：原样保存
		dst = append(dst[:lz4HeaderSize], src...)
		return append(dst, 0), nil
	}
	return dst[:lz4HeaderSize+n], nil
}

func (lz4Compressor) Decompress(src []byte) ([]byte, error) {
	if src == nil {
		return nil, nil
	}
	if len(src) < lz4HeaderSize {
		return nil, fmt.Errorf("lz4: truncated header")
	}

	size := int(binary.LittleEndian.Uint32(src))
	body := src[lz4HeaderSize:]
	if len(body) == size+1 && body[size] == 0 {
		out := make([]byte, size)
		copy(out, body[:size])
		return out, nil
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(body, out)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("lz4: expected %d bytes, got %d", size, n)
	}
	return out, nil
}

func (lz4Compressor) Name() string {
	return string(TypeLZ4)
}
