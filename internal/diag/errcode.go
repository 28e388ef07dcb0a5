package diag

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"bookstruct/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志/指标汇总，与退出码映射一一对应。
type Code string

const (
	CodeUnknown   Code = "unknown"
	CodeConfig    Code = "config"
	CodeInvariant Code = "invariant"
	CodeCancel    Code = "cancel"
	CodeIO        Code = "io"
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	if errors.Is(err, contract.ErrInvalidConfig) ||
		errors.Is(err, contract.ErrMissingField) ||
		errors.Is(err, contract.ErrInvalidEnum) ||
		errors.Is(err, contract.ErrInvalidField) ||
		errors.Is(err, contract.ErrUnknownComponent) ||
		errors.Is(err, contract.ErrReferenceInvalid) {
		return CodeConfig
	}
	if errors.Is(err, contract.ErrPathInvalid) {
		return CodeInvariant
	}
	var perr *os.PathError
	if errors.As(err, &perr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return CodeIO
	}
	return CodeUnknown
}

// ExitCode 将分类映射为进程退出码：配置错误 3，其余运行期错误 4。
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if Classify(err) == CodeConfig {
		return 3
	}
	return 4
}

// NowUTC 返回 RFC3339 UTC 时间字符串。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
