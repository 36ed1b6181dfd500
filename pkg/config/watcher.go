package config

import (
	"sync"
)

// Watcher 监听配置文件中某个键，文件变化时重新解析并验证
// 解析或验证失败时保留旧值，并通过 OnError 回调报告。
type Watcher[T any] struct {
	mgr       Manager
	key       string
	validator *Validator

	mu        sync.RWMutex
	current   *T
	callbacks []func(*T)
	onError   func(error)
}

// NewWatcher 创建监听器并立即解析一次
// validator 为 nil 时跳过验证
func NewWatcher[T any](mgr Manager, key string, validator *Validator) (*Watcher[T], error) {
	w := &Watcher[T]{
		mgr:       mgr,
		key:       key,
		validator: validator,
		onError:   func(error) {},
	}

	cfg, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current = cfg

	if err := mgr.Watch(w.reload); err != nil {
		return nil, err
	}
	return w, nil
}

// Current 返回当前配置
func (w *Watcher[T]) Current() *T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange 注册配置变化回调
func (w *Watcher[T]) OnChange(callback func(*T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// OnError 设置重新加载失败时的回调
func (w *Watcher[T]) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

func (w *Watcher[T]) load() (*T, error) {
	cfg := new(T)
	if err := w.mgr.UnmarshalKey(w.key, cfg); err != nil {
		return nil, err
	}
	if w.validator != nil {
		if err := w.validator.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (w *Watcher[T]) reload() {
	cfg, err := w.load()

	w.mu.Lock()
	onError := w.onError
	if err == nil {
		w.current = cfg
	}
	callbacks := append([]func(*T){}, w.callbacks...)
	w.mu.Unlock()

	if err != nil {
		onError(err)
		return
	}
	for _, cb := range callbacks {
		cb(cfg)
	}
}
