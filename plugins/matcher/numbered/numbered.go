// Package numbered 提供带序号的标题匹配器（正则 + 数字解析）。
package numbered

import (
	"fmt"
	"regexp"
	"strings"

	"bookstruct/internal/match"
	"bookstruct/internal/numeral"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "以正则识别带序号的标题；序号组按阿拉伯或中文数字解析，解析失败视为未命中。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "type", Kind: field.String, Required: true,
		Enum:        []string{string(contract.BookTitle), string(contract.BookIntro), string(contract.VolumeTitle), string(contract.VolumeIntro), string(contract.ChapterTitle)},
		Description: "命中后赋予的记录类型"},
	{Name: "regex", Kind: field.String, Required: true, Description: "匹配正则（RE2 语法）"},
	{Name: "index_group", Kind: field.Int, Default: 1, Description: "序号捕获组编号"},
	{Name: "content_group", Kind: field.Int, Default: -1, Description: "内容捕获组编号；-1 表示无内容"},
	{Name: "tag", Kind: field.String, Description: "命中记录附加的 tag 属性（用于划分校验作用域）"},
}

// Options 匹配器参数。
type Options struct {
	Type  contract.Type
	Regex string
	// IndexGroup <= 0 视为 1。
	IndexGroup int
	// ContentGroup < 0 表示不提取内容。
	ContentGroup int
	Tag          string
}

// Matcher 带序号标题匹配器。
type Matcher struct {
	typ     contract.Type
	re      *regexp.Regexp
	idx     int
	content int
	tag     string
}

var _ contract.Matcher = (*Matcher)(nil)

// New 编译正则并校验捕获组编号。
func New(opts Options) (*Matcher, error) {
	if !opts.Type.Valid() {
		return nil, fmt.Errorf("%w: type %q", contract.ErrInvalidEnum, opts.Type)
	}
	re, err := regexp.Compile(opts.Regex)
	if err != nil {
		return nil, fmt.Errorf("%w: regex: %v", contract.ErrInvalidField, err)
	}
	idx := opts.IndexGroup
	if idx <= 0 {
		idx = 1
	}
	if idx > re.NumSubexp() {
		return nil, fmt.Errorf("%w: index_group %d exceeds %d groups", contract.ErrInvalidField, idx, re.NumSubexp())
	}
	if opts.ContentGroup > re.NumSubexp() {
		return nil, fmt.Errorf("%w: content_group %d exceeds %d groups", contract.ErrInvalidField, opts.ContentGroup, re.NumSubexp())
	}
	return &Matcher{typ: opts.Type, re: re, idx: idx, content: opts.ContentGroup, tag: opts.Tag}, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Matcher, error) {
	return New(Options{
		Type:         contract.Type(v.String("type")),
		Regex:        v.String("regex"),
		IndexGroup:   v.Int("index_group"),
		ContentGroup: v.Int("content_group"),
		Tag:          v.String("tag"),
	})
}

// Match 命中时返回类型、序号、内容与 tag 已填充的新记录。
// 已归为其它类型的记录原样跳过。
func (m *Matcher) Match(rec contract.Record) (contract.Record, bool) {
	if !match.Accepts(rec, m.typ) {
		return rec, false
	}
	sub := m.re.FindStringSubmatch(rec.Content)
	if sub == nil {
		return rec, false
	}
	n, err := numeral.Parse(strings.TrimSpace(sub[m.idx]))
	if err != nil {
		return rec, false
	}
	out := rec.WithIndex(n)
	out.Type = m.typ
	if m.content >= 0 {
		out.Content = strings.TrimSpace(sub[m.content])
	} else {
		out.Content = ""
	}
	if m.tag != "" {
		out.Attrs.Tag = m.tag
	}
	return out, true
}
