package contract

import (
	"errors"
	"fmt"
)

// 配置期错误：装配阶段即失败，任何记录都不会被处理。
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidEnum      = errors.New("value not in enumeration")
	ErrInvalidField     = errors.New("invalid field value")
	ErrUnknownComponent = errors.New("unknown component")
	ErrReferenceInvalid = errors.New("reference list invalid")
)

// I/O 相关最小错误分类。
var (
	// ErrPathInvalid: 目标标识映射为无效/越界路径（例如绝对路径或 '..' 逃逸）。
	ErrPathInvalid = errors.New("path invalid")
)

func fieldErr(name, value string) error {
	return fmt.Errorf("%w: attribute %q = %q", ErrInvalidField, name, value)
}
