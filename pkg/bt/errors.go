package bt

import "github.com/cockroachdb/errors"

var (
	// ErrKeyNotFound 黑板中不存在该键
	ErrKeyNotFound = errors.New("bt: blackboard key not found")

	// ErrResourceNotFound 资源注册表中不存在该键
	ErrResourceNotFound = errors.New("bt: resource not found")

	// ErrConstruction 节点构造参数无效（如装饰节点缺少子节点、未知的并行策略）
	ErrConstruction = errors.New("bt: invalid node construction")
)

// IsKeyNotFound 判断是否为黑板键不存在错误
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsResourceNotFound 判断是否为资源不存在错误
func IsResourceNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsConstruction 判断是否为构造错误
func IsConstruction(err error) bool {
	return errors.Is(err, ErrConstruction)
}

func constructionErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrConstruction, format, args...)
}

// mustBeTickResult tick 只能返回 Running、Success 或 Failure，
// 其他值视为内部一致性错误，直接 panic
func mustBeTickResult(n Node, s Status) Status {
	if !s.Valid() || s == StatusIdle {
		panic(errors.AssertionFailedf("bt: node %q returned invalid tick status %s(%d)", n.Name(), s, int(s)))
	}
	return s
}
