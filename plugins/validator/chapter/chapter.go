// Package chapter 提供章节序号校验器。
//
// 作用域：同一 tag 的章节标题；discard_chapters 开启时每遇到卷标题即重新计数；
// volume_tag 非空时仅校验 tag 相符的卷下的章节。
package chapter

import (
	"bookstruct/internal/indexcheck"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "校验章节序号的唯一性与连续性，自动纠正重号与缺号。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "tag", Kind: field.String, Description: "仅校验 tag 属性等于该值的章节"},
	{Name: "begin_index", Kind: field.Int, Default: 1, Description: "作用域内首个期望序号"},
	{Name: "overwrite", Kind: field.Bool, Default: true, Description: "改写序号并保存 original_index；否则写入 corrected_index"},
	{Name: "discard_chapters", Kind: field.Bool, Default: false, Description: "每遇到卷标题重新计数"},
	{Name: "volume_tag", Kind: field.String, Description: "仅校验 tag 等于该值的卷下的章节；为空表示任意卷"},
}

// Options 校验器参数。
type Options struct {
	Tag             string
	BeginIndex      int
	Overwrite       bool
	DiscardChapters bool
	VolumeTag       string
}

// Validator 章节校验器（运行期独占状态）。
type Validator struct {
	opts     Options
	checker  *indexcheck.Checker
	inVolume bool
}

var _ contract.Processor = (*Validator)(nil)

// New 构造章节校验器。
func New(opts Options) *Validator {
	v := &Validator{opts: opts, inVolume: opts.VolumeTag == ""}
	v.checker = indexcheck.New(v.admit, indexcheck.Options{BeginIndex: opts.BeginIndex, Overwrite: opts.Overwrite})
	return v
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Validator, error) {
	return New(Options{
		Tag:             v.String("tag"),
		BeginIndex:      v.Int("begin_index"),
		Overwrite:       v.Bool("overwrite"),
		DiscardChapters: v.Bool("discard_chapters"),
		VolumeTag:       v.String("volume_tag"),
	}), nil
}

func (v *Validator) admit(rec contract.Record) bool {
	return v.inVolume &&
		rec.Type == contract.ChapterTitle &&
		rec.HasIndex && rec.Index >= 0 &&
		rec.Attrs.Tag == v.opts.Tag
}

// Process 观察卷标题以维护作用域，并校验章节标题。
func (v *Validator) Process(rec contract.Record) contract.Record {
	if rec.Type == contract.VolumeTitle {
		if v.opts.DiscardChapters {
			v.checker.Reset()
		}
		if v.opts.VolumeTag != "" {
			v.inVolume = rec.Attrs.Tag == v.opts.VolumeTag
		}
		return rec
	}
	return v.checker.Check(rec)
}
