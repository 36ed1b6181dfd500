package bt

// Status 节点执行状态
type Status int

const (
	StatusIdle    Status = iota // 空闲（尚未执行或已重置）
	StatusRunning               // 运行中
	StatusSuccess               // 成功
	StatusFailure               // 失败
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunning:
		return "Running"
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	default:
		return "Invalid"
	}
}

// Valid 是否为四种合法状态之一
func (s Status) Valid() bool {
	return s >= StatusIdle && s <= StatusFailure
}

// IsTerminal 是否为终止状态（成功或失败）
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// NodeType 节点分类，仅用于诊断
type NodeType int

const (
	TypeAction NodeType = iota
	TypeCondition
	TypeControl
	TypeDecorator
)

func (t NodeType) String() string {
	switch t {
	case TypeAction:
		return "Action"
	case TypeCondition:
		return "Condition"
	case TypeControl:
		return "Control"
	case TypeDecorator:
		return "Decorator"
	default:
		return "Unknown"
	}
}
