// Package strip 提供内容清理转换器：去除首尾空白并合并内部连续空白。
package strip

import (
	"slices"
	"strings"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "清理内容空白：去首尾并将内部连续空白（含全角空格）合并为一个空格。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "types", Kind: field.List, Default: contract.TypeNames(), Enum: contract.TypeNames(), Description: "参与清理的记录类型"},
}

// Transformer 内容清理。
type Transformer struct {
	types []contract.Type
}

var _ contract.Processor = (*Transformer)(nil)

// New 构造转换器；types 为空表示全部类型。
func New(types []contract.Type) *Transformer {
	if len(types) == 0 {
		types = contract.Types()
	}
	return &Transformer{types: slices.Clone(types)}
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Transformer, error) {
	var ts []contract.Type
	for _, s := range v.List("types") {
		ts = append(ts, contract.Type(s))
	}
	return New(ts), nil
}

// Process 清理目标类型记录的内容。
func (t *Transformer) Process(rec contract.Record) contract.Record {
	if !slices.Contains(t.types, rec.Type) {
		return rec
	}
	out := rec.Clone()
	// strings.Fields 以 unicode.IsSpace 切分，覆盖全角空格 U+3000
	out.Content = strings.Join(strings.Fields(rec.Content), " ")
	return out
}
