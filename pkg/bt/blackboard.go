package bt

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Blackboard 黑板，用于节点间共享数据
//
// tick 在单个 goroutine 中同步执行，读写顺序由执行顺序保证；
// 读写锁只用于宿主在两次 tick 之间从其他 goroutine 读取（如快照持久化）。
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewBlackboard 创建黑板
func NewBlackboard() *Blackboard {
	return &Blackboard{
		data: make(map[string]any),
	}
}

// Set 设置数据，无条件覆盖
func (bb *Blackboard) Set(key string, value any) {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	bb.data[key] = value
}

// Get 获取数据，键不存在时返回 ErrKeyNotFound
func (bb *Blackboard) Get(key string) (any, error) {
	val, ok := bb.Lookup(key)
	if !ok {
		return nil, errors.Wrapf(ErrKeyNotFound, "key %q", key)
	}
	return val, nil
}

// Lookup 获取数据
func (bb *Blackboard) Lookup(key string) (any, bool) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	val, ok := bb.data[key]
	return val, ok
}

// GetString 获取字符串
func (bb *Blackboard) GetString(key string) (string, bool) {
	val, ok := bb.Lookup(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt 获取整数
func (bb *Blackboard) GetInt(key string) (int, bool) {
	val, ok := bb.Lookup(key)
	if !ok {
		return 0, false
	}
	i, ok := val.(int)
	return i, ok
}

// GetBool 获取布尔值
func (bb *Blackboard) GetBool(key string) (bool, bool) {
	val, ok := bb.Lookup(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Value 按类型获取数据
// 键不存在返回 ErrKeyNotFound，类型不匹配返回普通错误。
func Value[T any](bb *Blackboard, key string) (T, error) {
	var zero T
	val, err := bb.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := val.(T)
	if !ok {
		return zero, errors.Newf("bt: blackboard key %q holds %T, want %T", key, val, zero)
	}
	return typed, nil
}

// Has 检查是否存在
func (bb *Blackboard) Has(key string) bool {
	_, ok := bb.Lookup(key)
	return ok
}

// Delete 删除数据
func (bb *Blackboard) Delete(key string) {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	delete(bb.data, key)
}

// Keys 返回所有键（无序）
func (bb *Blackboard) Keys() []string {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	keys := make([]string, 0, len(bb.data))
	for k := range bb.data {
		keys = append(keys, k)
	}
	return keys
}

// Len 返回键数量
func (bb *Blackboard) Len() int {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	return len(bb.data)
}

// Clear 清空黑板
func (bb *Blackboard) Clear() {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	bb.data = make(map[string]any)
}

// Snapshot 返回浅拷贝
// 切片、map、指针等可变值与黑板共享底层数据。
func (bb *Blackboard) Snapshot() map[string]any {
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	result := make(map[string]any, len(bb.data))
	for k, v := range bb.data {
		result[k] = v
	}
	return result
}

// Restore 用快照替换全部内容
func (bb *Blackboard) Restore(snapshot map[string]any) {
	data := make(map[string]any, len(snapshot))
	for k, v := range snapshot {
		data[k] = v
	}

	bb.mu.Lock()
	defer bb.mu.Unlock()
	bb.data = data
}
