package serializer

import (
	"reflect"

	"github.com/hashicorp/go-msgpack/v2/codec"
	"github.com/valyala/bytebufferpool"
)

// msgpackHandle msgpack 编解码配置
// RawToString=true, MapType=map[string]any，解码到 any 时得到字符串键的 map
var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]any{})
	msgpackHandle.RawToString = true
	msgpackHandle.WriteExt = true
}

// bufPool 编码缓冲池，按使用情况自动校准容量
var bufPool bytebufferpool.Pool

// Encode 使用 msgpack 编码数据
func Encode(v any) ([]byte, error) {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	if err := codec.NewEncoder(buf, msgpackHandle).Encode(v); err != nil {
		return nil, err
	}

	// buf 会被复用，返回副本
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// Decode 使用 msgpack 解码数据
func Decode(data []byte, v any) error {
	return codec.NewDecoderBytes(data, msgpackHandle).Decode(v)
}
