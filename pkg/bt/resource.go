package bt

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// ResourceRegistry 外部资源注册表（如模型句柄、服务客户端）
// 内核不关心资源的具体类型，只负责按键存取。
type ResourceRegistry struct {
	mu        sync.RWMutex
	resources map[string]any
}

// NewResourceRegistry 创建资源注册表
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		resources: make(map[string]any),
	}
}

// Register 注册资源，同名覆盖
func (r *ResourceRegistry) Register(key string, resource any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[key] = resource
}

// Resolve 按键获取资源，不存在时返回 ErrResourceNotFound
func (r *ResourceRegistry) Resolve(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resource, ok := r.resources[key]
	if !ok {
		return nil, errors.Wrapf(ErrResourceNotFound, "key %q", key)
	}
	return resource, nil
}

// Unregister 移除资源
func (r *ResourceRegistry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resources, key)
}

// Keys 返回所有资源键
func (r *ResourceRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.resources))
	for k := range r.resources {
		keys = append(keys, k)
	}
	return keys
}

// Resolve 从行为树按类型获取资源
func Resolve[T any](t *Tree, key string) (T, error) {
	var zero T
	resource, err := t.ResolveResource(key)
	if err != nil {
		return zero, err
	}
	typed, ok := resource.(T)
	if !ok {
		return zero, errors.Newf("bt: resource %q is %T, want %T", key, resource, zero)
	}
	return typed, nil
}
