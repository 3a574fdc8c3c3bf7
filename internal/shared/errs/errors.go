package errs

import "fmt"

type Kind string

const (
	KindUnknown Kind = "unknown"
	KindInfra   Kind = "infra"
)

// Error 是基础设施层错误的统一包装：
// Op 标记发生位置（repo.city.GetByID），Meta 携带关键参数，Cause 保留根因。
type Error struct {
	Op    string
	Kind  Kind
	Meta  map[string]any
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap 统一包装入口；cause 为 nil 时返回 nil。
func Wrap(op string, kind Kind, cause error, meta map[string]any) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause, Meta: meta}
}
