// Package format 提供标题格式化转换器：按模板生成 formatted 属性。
package format

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"bookstruct/internal/numeral"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Attr 输出属性名。
const Attr = "formatted"

// Description 用于组件清单与文档。
const Description = "按模板为标题生成 formatted 属性；占位符 {index} {numeral} {content} {tag}。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "types", Kind: field.List, Default: []string{string(contract.VolumeTitle), string(contract.ChapterTitle)},
		Enum: []string{string(contract.BookTitle), string(contract.VolumeTitle), string(contract.ChapterTitle)}, Description: "参与格式化的记录类型"},
	{Name: "templates", Kind: field.Group, Description: "各类型标题模板", Fields: []field.Field{
		{Name: "chapter", Kind: field.String, Default: "第{numeral}章 {content}", Description: "章标题模板"},
		{Name: "volume", Kind: field.String, Default: "第{numeral}卷 {content}", Description: "卷标题模板"},
		{Name: "book", Kind: field.String, Default: "{content}", Description: "书名模板"},
		{Name: "special", Kind: field.String, Default: "{content}", Description: "特殊序号（<=0）使用的模板"},
	}},
}

// Options 转换器参数。
type Options struct {
	Types []contract.Type
	// Template: 章标题模板（必需）；卷与书名模板为空时回退为 {content}。
	Template        string
	VolumeTemplate  string
	BookTemplate    string
	SpecialTemplate string
}

// Transformer 标题格式化。
type Transformer struct {
	types   []contract.Type
	tpls    map[contract.Type]string
	special string
}

var _ contract.Processor = (*Transformer)(nil)

// New 构造转换器。
func New(opts Options) (*Transformer, error) {
	if strings.TrimSpace(opts.Template) == "" {
		return nil, fmt.Errorf("%w: template is empty", contract.ErrInvalidField)
	}
	orContent := func(s string) string {
		if s == "" {
			return "{content}"
		}
		return s
	}
	tpls := map[contract.Type]string{
		contract.ChapterTitle: opts.Template,
		contract.VolumeTitle:  orContent(opts.VolumeTemplate),
		contract.BookTitle:    orContent(opts.BookTemplate),
	}
	return &Transformer{types: slices.Clone(opts.Types), tpls: tpls, special: orContent(opts.SpecialTemplate)}, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Transformer, error) {
	var ts []contract.Type
	for _, s := range v.List("types") {
		ts = append(ts, contract.Type(s))
	}
	tpl := v.Group("templates")
	return New(Options{
		Types:           ts,
		Template:        tpl.String("chapter"),
		VolumeTemplate:  tpl.String("volume"),
		BookTemplate:    tpl.String("book"),
		SpecialTemplate: tpl.String("special"),
	})
}

// Process 为目标类型的记录写入 formatted；其余原样返回。
func (t *Transformer) Process(rec contract.Record) contract.Record {
	if !slices.Contains(t.types, rec.Type) {
		return rec
	}
	tpl, ok := t.tpls[rec.Type]
	if !ok {
		return rec
	}
	if rec.Special() {
		tpl = t.special
	}
	out := rec.Clone()
	_ = out.Attrs.Set(Attr, Render(tpl, rec))
	return out
}

// Render 替换模板占位符；无序号时 {index}/{numeral} 为空。
func Render(tpl string, rec contract.Record) string {
	idx, num := "", ""
	if rec.HasIndex {
		idx = strconv.Itoa(rec.Index)
		num = numeral.Format(rec.Index)
	}
	r := strings.NewReplacer(
		"{index}", idx,
		"{numeral}", num,
		"{content}", rec.Content,
		"{tag}", rec.Attrs.Tag,
	)
	return strings.TrimSpace(r.Replace(tpl))
}
