package config

import (
	"fmt"
	"slices"
	"strings"

	"bookstruct/internal/match"
	"bookstruct/internal/pipeline"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/pkg/registry"
)

// Mode: 运行方式，决定装配哪些类别。
type Mode string

const (
	// Create: 输入直接写出（格式转换）。
	Create Mode = "create"
	// Analyze: 完整链路（匹配、校验、转换）。
	Analyze Mode = "analyze"
	// Check: 只识别与校验，不做转换。
	Check Mode = "check"
)

// Modes 返回全部运行方式。
func Modes() []Mode { return []Mode{Create, Analyze, Check} }

// ParseMode 解析运行方式名。
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Modes(), m) {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", contract.ErrInvalidConfig, s)
}

// Categories 返回该运行方式参与装配的类别（流水线顺序）。
func (m Mode) Categories() []registry.Category {
	switch m {
	case Create:
		return []registry.Category{registry.Source, registry.Sink}
	case Check:
		return []registry.Category{registry.Source, registry.Matcher, registry.Validator, registry.Sink}
	case Analyze:
		return registry.Categories()
	}
	return nil
}

// Runtime: 运行期上下文；非空值在对象未声明同名键时注入。
type Runtime struct {
	WorkingDir string
	OutputDir  string
	Input      string
}

func (r Runtime) values() map[string]any {
	out := map[string]any{}
	if r.WorkingDir != "" {
		out[field.WorkingDir] = r.WorkingDir
	}
	if r.OutputDir != "" {
		out[field.OutputDir] = r.OutputDir
	}
	if r.Input != "" {
		out[field.Input] = r.Input
	}
	return out
}

// Validate 对配置做静态校验：类别存在；运行方式涉及的类别中注册名存在；输入/输出非空。
func Validate(cfg Config, mode Mode) error {
	if mode.Categories() == nil {
		return fmt.Errorf("%w: unknown mode %q", contract.ErrInvalidConfig, mode)
	}
	for cat, objs := range cfg.Objects {
		c := registry.Category(cat)
		if !slices.Contains(registry.Categories(), c) {
			return fmt.Errorf("%w: unknown category %q", contract.ErrInvalidConfig, cat)
		}
		if !slices.Contains(mode.Categories(), c) {
			continue
		}
		for i, o := range objs {
			class := o.Class()
			if class == "" {
				return fmt.Errorf("%w: %s[%d]: missing %q", contract.ErrInvalidConfig, cat, i, ClassKey)
			}
			if _, err := registry.Lookup(c, class); err != nil {
				return fmt.Errorf("%s[%d]: %w", cat, i, err)
			}
		}
	}
	if len(cfg.Objects[string(registry.Source)]) == 0 {
		return fmt.Errorf("%w: no %s configured", contract.ErrInvalidConfig, registry.Source)
	}
	if len(cfg.Objects[string(registry.Sink)]) == 0 {
		return fmt.Errorf("%w: no %s configured", contract.ErrInvalidConfig, registry.Sink)
	}
	return nil
}

// Assemble 按运行方式构造 Components。
// 处理器顺序：聚合匹配器 → 校验器 → 转换器（各自按配置顺序）。
// 任一组件构造失败即整体失败，错误中带类别、序号与注册名。
func Assemble(cfg Config, mode Mode, rt Runtime) (pipeline.Components, error) {
	var comp pipeline.Components
	if err := Validate(cfg, mode); err != nil {
		return comp, err
	}
	ctx := rt.values()
	var matchers []pipeline.Named[contract.Matcher]
	for _, cat := range mode.Categories() {
		objs := cfg.Objects[string(cat)]
		var err error
		switch cat {
		case registry.Source:
			comp.Sources, err = buildAll(cat, objs, ctx, registry.Sources)
		case registry.Matcher:
			matchers, err = buildAll(cat, objs, ctx, registry.Matchers)
		case registry.Validator:
			var ps []pipeline.Named[contract.Processor]
			ps, err = buildAll(cat, objs, ctx, registry.Validators)
			comp.Processors = append(comp.Processors, ps...)
		case registry.Transformer:
			var ps []pipeline.Named[contract.Processor]
			ps, err = buildAll(cat, objs, ctx, registry.Transformers)
			comp.Processors = append(comp.Processors, ps...)
		case registry.Sink:
			comp.Sinks, err = buildAll(cat, objs, ctx, registry.Sinks)
		}
		if err != nil {
			return pipeline.Components{}, err
		}
		if cat == registry.Matcher && len(matchers) > 0 {
			comp.Processors = append(comp.Processors, aggregate(matchers, cfg.FillContent()))
		}
	}
	return comp, nil
}

// aggregate 将匹配器按配置顺序合并为单个处理器（首个命中者生效）。
func aggregate(ms []pipeline.Named[contract.Matcher], fill bool) pipeline.Named[contract.Processor] {
	impls := make([]contract.Matcher, len(ms))
	names := make([]string, len(ms))
	for i, m := range ms {
		impls[i] = m.Impl
		names[i] = m.Name
	}
	return pipeline.Named[contract.Processor]{
		Name: "match(" + strings.Join(names, ",") + ")",
		Impl: match.NewAggregate(impls, fill),
	}
}

func buildAll[T any](cat registry.Category, objs []Object, ctx map[string]any, reg map[string]registry.Entry[T]) ([]pipeline.Named[T], error) {
	out := make([]pipeline.Named[T], 0, len(objs))
	for i, o := range objs {
		class := o.Class()
		e, ok := reg[class]
		if !ok {
			return nil, fmt.Errorf("%s[%d]: %w: %q", cat, i, contract.ErrUnknownComponent, class)
		}
		v, err := field.Extract(e.Fields, inject(o, ctx))
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %s: %w", cat, i, class, err)
		}
		impl, err := e.New(v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %s: %w", cat, i, class, err)
		}
		out = append(out, pipeline.Named[T]{Name: fmt.Sprintf("%s[%d]:%s", cat, i, class), Impl: impl})
	}
	return out, nil
}

// inject 合并对象字段与运行期上下文；对象自身的键优先。
func inject(o Object, ctx map[string]any) map[string]any {
	out := make(map[string]any, len(o)+len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	for k, v := range o {
		if k == ClassKey {
			continue
		}
		out[k] = v
	}
	return out
}
