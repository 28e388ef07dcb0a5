// Package special 提供特殊单元（序章、番外等）的匹配器。
// 序号取词缀在列表中的位置：-(1+位置)，同一词缀的每次出现序号相同，不参与连续性校验。
package special

import (
	"fmt"
	"regexp"
	"strings"

	"bookstruct/internal/match"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "按固定词缀列表识别特殊单元（序章/楔子/番外等），序号为词缀位置的负值。"

// DefaultAffixes 默认词缀（顺序即序号来源）。
var DefaultAffixes = []string{"序章", "楔子", "引子", "序", "前言", "后记", "尾声", "番外"}

// DefaultTemplate 默认正则模板；{affixes} 替换为词缀交替式。
// 词缀组必须写作 ({affixes})；内容取命名组 content，否则取词缀组之后的第一个捕获组。
const DefaultTemplate = `^\s*({affixes})\s*(.*)$`

// affixGroup 词缀组占位写法。
const affixGroup = "({affixes})"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "type", Kind: field.String, Default: string(contract.ChapterTitle),
		Enum:        []string{string(contract.BookTitle), string(contract.VolumeTitle), string(contract.ChapterTitle)},
		Description: "命中后赋予的记录类型"},
	{Name: "affixes", Kind: field.List, Default: DefaultAffixes, Description: "有序词缀列表"},
	{Name: "template", Kind: field.String, Default: DefaultTemplate, Description: "正则模板；须含捕获组 ({affixes})，内容取 (?P<content>...) 或其后第一个捕获组"},
	{Name: "tag", Kind: field.String, Description: "命中记录附加的 tag 属性"},
}

// Options 匹配器参数。
type Options struct {
	Type     contract.Type
	Affixes  []string
	Template string
	Tag      string
}

// Matcher 特殊单元匹配器。
type Matcher struct {
	typ     contract.Type
	re      *regexp.Regexp
	affix   int
	content int
	pos     map[string]int
	tag     string
}

var _ contract.Matcher = (*Matcher)(nil)

// New 将词缀插入模板并编译；空值使用默认词缀与模板。
func New(opts Options) (*Matcher, error) {
	typ := opts.Type
	if typ == "" {
		typ = contract.ChapterTitle
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: type %q", contract.ErrInvalidEnum, typ)
	}
	affixes := opts.Affixes
	if len(affixes) == 0 {
		affixes = DefaultAffixes
	}
	tpl := opts.Template
	if tpl == "" {
		tpl = DefaultTemplate
	}
	if !strings.Contains(tpl, affixGroup) {
		return nil, fmt.Errorf("%w: template must contain the capture group %s", contract.ErrInvalidField, affixGroup)
	}
	pos := make(map[string]int, len(affixes))
	for i, a := range affixes {
		if _, dup := pos[a]; !dup {
			pos[a] = i
		}
	}
	alt := alternation(affixes)
	expr := strings.Replace(tpl, affixGroup, "(?P<affix>"+alt+")", 1)
	expr = strings.ReplaceAll(expr, "{affixes}", "(?:"+alt+")")
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: template: %v", contract.ErrInvalidField, err)
	}
	m := &Matcher{typ: typ, re: re, pos: pos, tag: opts.Tag}
	m.affix = re.SubexpIndex("affix")
	m.content = re.SubexpIndex("content")
	if m.content < 0 && m.affix < re.NumSubexp() {
		m.content = m.affix + 1
	}
	return m, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Matcher, error) {
	return New(Options{
		Type:     contract.Type(v.String("type")),
		Affixes:  v.List("affixes"),
		Template: v.String("template"),
		Tag:      v.String("tag"),
	})
}

// alternation 按长度降序拼接词缀，保证“序章”先于“序”尝试。
func alternation(affixes []string) string {
	qs := make([]string, 0, len(affixes))
	for _, a := range affixes {
		qs = append(qs, regexp.QuoteMeta(a))
	}
	// 稳定插入排序：长者在前
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && len([]rune(qs[j])) > len([]rune(qs[j-1])); j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
	return strings.Join(qs, "|")
}

// Match 命中时序号为 -(1+词缀位置)；内容组为空或缺失时取词缀本身。
func (m *Matcher) Match(rec contract.Record) (contract.Record, bool) {
	if !match.Accepts(rec, m.typ) {
		return rec, false
	}
	sub := m.re.FindStringSubmatch(rec.Content)
	if sub == nil {
		return rec, false
	}
	affix := sub[m.affix]
	p, ok := m.pos[affix]
	if !ok {
		return rec, false
	}
	content := ""
	if m.content > 0 {
		content = strings.TrimSpace(sub[m.content])
	}
	if content == "" {
		content = affix
	}
	out := rec.WithIndex(-(1 + p))
	out.Type = m.typ
	out.Content = content
	if m.tag != "" {
		out.Attrs.Tag = m.tag
	}
	return out, true
}
