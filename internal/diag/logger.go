package diag

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options: 日志输出配置。
type Options struct {
	CorrID string
	// Level: debug|info|warn|error；非法值按 info 处理。
	Level string
	// File: 日志文件路径；为空则不写文件。按大小轮转。
	File string
	// MaxSizeMB: 单个日志文件上限（MiB）；<=0 使用 10。
	MaxSizeMB int
	// Console: 是否同时以可读格式输出到 stderr。
	Console bool
}

// Logger 为结构化日志器：事件固定携带 corr_id/comp/stage 字段。
type Logger struct {
	z *zap.Logger
}

// NewLogger 通过配置初始化；File 与 Console 均未开启时丢弃全部输出。
func NewLogger(opts Options) *Logger {
	lvl := parseLevel(strings.TrimSpace(opts.Level))
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	var cores []zapcore.Core
	if opts.File != "" {
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		sink := &lumberjack.Logger{Filename: opts.File, MaxSize: size, MaxBackups: 5}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(sink), lvl))
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl))
	}
	z := zap.New(zapcore.NewTee(cores...))
	if opts.CorrID != "" {
		z = z.With(zap.String("corr_id", opts.CorrID))
	}
	return &Logger{z: z}
}

// FromZap 包装已有 zap.Logger（测试中配合 zaptest/observer 使用）。
func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop 返回丢弃全部输出的日志器。
func Nop() *Logger { return FromZap(nil) }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Zap 暴露底层 zap.Logger。
func (l *Logger) Zap() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.z
}

// Sync 刷出缓冲日志。
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.z.Sync()
}

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Logger) Start(comp, msg string, fields ...zap.Field) *Timer {
	if l == nil {
		return nil
	}
	l.z.Info(msg, append([]zap.Field{zap.String("comp", comp), zap.String("stage", "start")}, fields...)...)
	return &Timer{l: l, comp: comp, fields: fields, t0: time.Now()}
}

// Debug 输出调试事件（仅 level=debug 时生效）。
func (l *Logger) Debug(comp, msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.z.Debug(msg, append([]zap.Field{zap.String("comp", comp)}, fields...)...)
}

// Warn 记录可恢复异常（例如序号纠正），不影响运行。
func (l *Logger) Warn(comp, msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.z.Warn(msg, append([]zap.Field{zap.String("comp", comp), zap.String("stage", "anomaly")}, fields...)...)
}

// Error 记录 error 事件；durSince 非空时附带耗时。
func (l *Logger) Error(comp string, code Code, msg string, err error, durSince *time.Time) {
	if l == nil {
		return
	}
	fs := []zap.Field{zap.String("comp", comp), zap.String("stage", "error"), zap.String("code", string(code))}
	if durSince != nil {
		fs = append(fs, zap.Duration("dur_ms", time.Since(*durSince)))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	l.z.Error(msg, fs...)
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	fields []zap.Field
	t0     time.Time
}

// Finish 记录 finish；count 为处理条数。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	dur := time.Since(t.t0)
	fs := append([]zap.Field{
		zap.String("comp", t.comp), zap.String("stage", "finish"),
		zap.Duration("dur_ms", dur), zap.Int64("count", count),
	}, t.fields...)
	t.l.z.Info(msg, fs...)
	ObserveDuration(t.comp, dur)
}
