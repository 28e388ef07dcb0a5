// Package volume 提供卷序号校验器（无跨作用域重置）。
package volume

import (
	"bookstruct/internal/indexcheck"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "校验卷序号的唯一性与连续性，自动纠正重号与缺号。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "tag", Kind: field.String, Description: "仅校验 tag 属性等于该值的卷"},
	{Name: "begin_index", Kind: field.Int, Default: 1, Description: "首个期望序号"},
	{Name: "overwrite", Kind: field.Bool, Default: true, Description: "改写序号并保存 original_index；否则写入 corrected_index"},
}

// Options 校验器参数。
type Options struct {
	Tag        string
	BeginIndex int
	Overwrite  bool
}

// Validator 卷校验器。
type Validator struct {
	checker *indexcheck.Checker
}

var _ contract.Processor = (*Validator)(nil)

// New 构造卷校验器。
func New(opts Options) *Validator {
	gate := func(rec contract.Record) bool {
		return rec.Type == contract.VolumeTitle && rec.HasIndex && rec.Index >= 0 && rec.Attrs.Tag == opts.Tag
	}
	return &Validator{checker: indexcheck.New(gate, indexcheck.Options{BeginIndex: opts.BeginIndex, Overwrite: opts.Overwrite})}
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Validator, error) {
	return New(Options{Tag: v.String("tag"), BeginIndex: v.Int("begin_index"), Overwrite: v.Bool("overwrite")}), nil
}

// Process 校验卷标题；其余记录原样返回。
func (v *Validator) Process(rec contract.Record) contract.Record { return v.checker.Check(rec) }
