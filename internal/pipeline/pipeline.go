package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookstruct/internal/diag"
	"bookstruct/pkg/contract"
)

// - 单线程顺序执行：一条记录完整经过处理链并交付全部输出后，才拉取下一条。
// - 处理器失败不终止：记录原样返回（可能附带 error 属性）。
// - 输入/输出错误致命：立即终止并返回该错误，不再 Finalize。
// - 组件状态（校验计数、游标）归属单次运行。

// Named 为组件附带名称（日志/终端提示使用）。
type Named[T any] struct {
	Name string
	Impl T
}

// Components 聚合一次运行所需的组件；Processors 按列表顺序串联。
type Components struct {
	Sources    []Named[contract.Source]
	Processors []Named[contract.Processor]
	Sinks      []Named[contract.Sink]
}

// Stats 运行汇总。
type Stats struct {
	Records   int
	Anomalies int
	ByType    map[contract.Type]int
}

// Run 执行完整流水线：Sources → Processors… → Sinks（逐条交付）→ Finalize。
// Sources 的输出按配置顺序拼接。
func Run(ctx context.Context, comp Components, logger *diag.Logger) (Stats, error) {
	st := Stats{ByType: make(map[contract.Type]int)}
	if err := sanity(comp); err != nil {
		return st, fmt.Errorf("sanity: %w", err)
	}
	runStart := time.Now()
	timer := logger.Start("pipeline", "run",
		zap.Int("sources", len(comp.Sources)),
		zap.Int("processors", len(comp.Processors)),
		zap.Int("sinks", len(comp.Sinks)))
	term := diag.GetTerminal()

	deliver := func(rec contract.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, p := range comp.Processors {
			rec = p.Impl.Process(rec)
		}
		st.Records++
		st.ByType[rec.Type]++
		diag.IncRecord(string(rec.Type))
		if rec.Attrs.Error != "" {
			st.Anomalies++
			diag.IncAnomaly(anomalyKind(rec.Attrs.Error))
			logger.Warn("pipeline", rec.Attrs.Error,
				zap.String("type", string(rec.Type)),
				zap.String("content", rec.Content),
				zap.String("file", rec.Attrs.File),
				zap.Int("line", rec.Attrs.Line))
		}
		for _, s := range comp.Sinks {
			// 每个输出拿到独立副本，互不可见后续修改
			if err := s.Impl.Accept(ctx, rec.Clone()); err != nil {
				return &stageError{comp: "sink", name: s.Name, op: "accept", err: err}
			}
		}
		term.Progress(st.Records, st.Anomalies)
		return nil
	}

	fail := func(err error) (Stats, error) {
		comp := "pipeline"
		var se *stageError
		if errors.As(err, &se) {
			comp = se.comp
		}
		code := diag.Classify(err)
		logger.Error(comp, code, "run failed", err, &runStart)
		diag.IncError(comp, code)
		return st, err
	}

	for _, src := range comp.Sources {
		term.SourceStart(src.Name)
		stimer := logger.Start("source", "iterate", zap.String("name", src.Name))
		before := st.Records
		err := src.Impl.Iterate(ctx, deliver)
		if err != nil {
			var se *stageError
			if !errors.As(err, &se) {
				err = &stageError{comp: "source", name: src.Name, op: "iterate", err: err}
			}
			return fail(err)
		}
		stimer.Finish("iterate", int64(st.Records-before))
	}

	var firstErr error
	for _, s := range comp.Sinks {
		ftimer := logger.Start("sink", "finalize", zap.String("name", s.Name))
		if err := s.Impl.Finalize(ctx); err != nil {
			if firstErr == nil {
				firstErr = &stageError{comp: "sink", name: s.Name, op: "finalize", err: err}
			}
			continue
		}
		ftimer.Finish("finalize", int64(st.Records))
	}
	if firstErr != nil {
		return fail(firstErr)
	}
	timer.Finish("run", int64(st.Records))
	return st, nil
}

// stageError 标注出错的阶段与组件名；Unwrap 保留原始哨兵用于分类。
type stageError struct {
	comp string
	name string
	op   string
	err  error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.comp, e.name, e.op, e.err)
}

func (e *stageError) Unwrap() error { return e.err }

// anomalyKind 将 error 属性归为 duplicate|missing|other。
func anomalyKind(msg string) string {
	switch {
	case strings.HasPrefix(msg, "duplicate index"):
		return "duplicate"
	case strings.HasPrefix(msg, "missing index"):
		return "missing"
	default:
		return "other"
	}
}

func sanity(c Components) error {
	if len(c.Sources) == 0 {
		return errors.New("pipeline: no sources")
	}
	if len(c.Sinks) == 0 {
		return errors.New("pipeline: no sinks")
	}
	for _, s := range c.Sources {
		if s.Impl == nil {
			return fmt.Errorf("pipeline: source %q is nil", s.Name)
		}
	}
	for _, p := range c.Processors {
		if p.Impl == nil {
			return fmt.Errorf("pipeline: processor %q is nil", p.Name)
		}
	}
	for _, s := range c.Sinks {
		if s.Impl == nil {
			return fmt.Errorf("pipeline: sink %q is nil", s.Name)
		}
	}
	return nil
}
