package bt

import (
	"sort"
	"strconv"
)

// NameRegistry 名称注册表，保证同一棵树内节点名称唯一
//
// 每棵树持有独立的注册表，树之间互不干扰。
type NameRegistry struct {
	used map[string]struct{}
}

// NewNameRegistry 创建名称注册表
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		used: make(map[string]struct{}),
	}
}

// Claim 登记名称并返回实际使用的名称
// 冲突时追加最小的未使用数字后缀：name_0、name_1 ...
func (r *NameRegistry) Claim(name string) string {
	if _, taken := r.used[name]; taken {
		for suffix := 0; ; suffix++ {
			candidate := name + "_" + strconv.Itoa(suffix)
			if _, taken := r.used[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	r.used[name] = struct{}{}
	return name
}

// Release 释放名称
func (r *NameRegistry) Release(name string) {
	delete(r.used, name)
}

// Contains 名称是否已被占用
func (r *NameRegistry) Contains(name string) bool {
	_, ok := r.used[name]
	return ok
}

// Len 已登记的名称数量
func (r *NameRegistry) Len() int {
	return len(r.used)
}

// Names 返回排序后的全部名称
func (r *NameRegistry) Names() []string {
	names := make([]string, 0, len(r.used))
	for name := range r.used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
