// Package registry 维护组件的静态注册表：类别 → 名称 → 工厂与字段契约。
// 全部入口在编译期显式列出（零反射、零目录扫描）。
package registry

import (
	"fmt"
	"io"
	"sort"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/matcher/numbered"
	"bookstruct/plugins/matcher/reflist"
	"bookstruct/plugins/matcher/special"
	mtoc "bookstruct/plugins/matcher/toc"
	sinkcsv "bookstruct/plugins/sink/csv"
	sinkdir "bookstruct/plugins/sink/dir"
	"bookstruct/plugins/sink/markdown"
	"bookstruct/plugins/sink/report"
	sinktext "bookstruct/plugins/sink/text"
	sinktoc "bookstruct/plugins/sink/toc"
	srccsv "bookstruct/plugins/source/csv"
	srcdir "bookstruct/plugins/source/dir"
	srcepub "bookstruct/plugins/source/epub"
	srctext "bookstruct/plugins/source/text"
	"bookstruct/plugins/transformer/format"
	"bookstruct/plugins/transformer/strip"
	"bookstruct/plugins/validator/chapter"
	"bookstruct/plugins/validator/volume"
)

// Category: 组件类别（配置中 objects 的键）。
type Category string

const (
	Source      Category = "source"
	Matcher     Category = "matcher"
	Validator   Category = "validator"
	Transformer Category = "transformer"
	Sink        Category = "sink"
)

// Categories 按流水线顺序返回全部类别。
func Categories() []Category {
	return []Category{Source, Matcher, Validator, Transformer, Sink}
}

// Entry 单个组件入口：说明、字段契约与工厂。
// 工厂接收已按 Fields 抽取的参数。
type Entry[T any] struct {
	Description string
	Fields      []field.Field
	New         func(field.Values) (T, error)
}

// build 将具体构造函数适配为接口工厂；出错时返回接口零值（避免携带类型的 nil）。
func build[T any, C any](fn func(field.Values) (C, error)) func(field.Values) (T, error) {
	return func(v field.Values) (T, error) {
		var zero T
		c, err := fn(v)
		if err != nil {
			return zero, err
		}
		t, ok := any(c).(T)
		if !ok {
			return zero, fmt.Errorf("%w: %T does not implement %T", contract.ErrInvalidConfig, c, zero)
		}
		return t, nil
	}
}

// Sources 输入注册表。
var Sources = map[string]Entry[contract.Source]{
	// text: 逐行文本（支持 gbk/gb18030/utf-16）
	"text": {srctext.Description, srctext.Fields, build[contract.Source](srctext.FromValues)},
	"dir":  {srcdir.Description, srcdir.Fields, build[contract.Source](srcdir.FromValues)},
	"csv":  {srccsv.Description, srccsv.Fields, build[contract.Source](srccsv.FromValues)},
	"epub": {srcepub.Description, srcepub.Fields, build[contract.Source](srcepub.FromValues)},
}

// Matchers 匹配器注册表；装配时按配置顺序聚合。
var Matchers = map[string]Entry[contract.Matcher]{
	"numbered": {numbered.Description, numbered.Fields, build[contract.Matcher](numbered.FromValues)},
	"special":  {special.Description, special.Fields, build[contract.Matcher](special.FromValues)},
	// reflist/toc: 参照清单单向归并
	"reflist": {reflist.Description, reflist.Fields, build[contract.Matcher](reflist.FromValues)},
	"toc":     {mtoc.Description, mtoc.Fields, build[contract.Matcher](mtoc.FromValues)},
}

// Validators 序号校验器注册表。
var Validators = map[string]Entry[contract.Processor]{
	"chapter": {chapter.Description, chapter.Fields, build[contract.Processor](chapter.FromValues)},
	"volume":  {volume.Description, volume.Fields, build[contract.Processor](volume.FromValues)},
}

// Transformers 转换器注册表。
var Transformers = map[string]Entry[contract.Processor]{
	"format": {format.Description, format.Fields, build[contract.Processor](format.FromValues)},
	"strip":  {strip.Description, strip.Fields, build[contract.Processor](strip.FromValues)},
}

// Sinks 输出注册表。
var Sinks = map[string]Entry[contract.Sink]{
	"csv":      {sinkcsv.Description, sinkcsv.Fields, build[contract.Sink](sinkcsv.FromValues)},
	"toc":      {sinktoc.Description, sinktoc.Fields, build[contract.Sink](sinktoc.FromValues)},
	"text":     {sinktext.Description, sinktext.Fields, build[contract.Sink](sinktext.FromValues)},
	"markdown": {markdown.Description, markdown.Fields, build[contract.Sink](markdown.FromValues)},
	"dir":      {sinkdir.Description, sinkdir.Fields, build[contract.Sink](sinkdir.FromValues)},
	// report: 终端异常报告（不写文件）
	"report": {report.Description, report.Fields, build[contract.Sink](report.FromValues)},
}

// Info 组件的只读描述（清单与文档用）。
type Info struct {
	Category    Category
	Class       string
	Description string
	Fields      []field.Field
}

func infos[T any](cat Category, m map[string]Entry[T]) []Info {
	out := make([]Info, 0, len(m))
	for name, e := range m {
		out = append(out, Info{Category: cat, Class: name, Description: e.Description, Fields: e.Fields})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

// List 返回某类别的全部组件（按名称排序）；未知类别返回 nil。
func List(cat Category) []Info {
	switch cat {
	case Source:
		return infos(cat, Sources)
	case Matcher:
		return infos(cat, Matchers)
	case Validator:
		return infos(cat, Validators)
	case Transformer:
		return infos(cat, Transformers)
	case Sink:
		return infos(cat, Sinks)
	}
	return nil
}

// All 按类别顺序返回全部组件。
func All() []Info {
	var out []Info
	for _, c := range Categories() {
		out = append(out, List(c)...)
	}
	return out
}

// Lookup 按类别与名称查找组件描述。
func Lookup(cat Category, class string) (Info, error) {
	for _, in := range List(cat) {
		if in.Class == class {
			return in, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %s %q", contract.ErrUnknownComponent, cat, class)
}

// WriteDoc 以 Markdown 输出全部组件的字段契约。
func WriteDoc(w io.Writer) error {
	var last Category
	for _, in := range All() {
		if in.Category != last {
			if _, err := fmt.Fprintf(w, "## %s\n\n", in.Category); err != nil {
				return err
			}
			last = in.Category
		}
		if err := field.WriteMarkdown(w, in.Class, in.Description, in.Fields); err != nil {
			return err
		}
	}
	return nil
}
