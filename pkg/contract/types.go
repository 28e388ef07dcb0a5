package contract

import (
	"maps"
	"sort"
	"strconv"
)

// Type: 记录的语义类型（封闭枚举）。
type Type string

const (
	BookTitle      Type = "book_title"
	BookIntro      Type = "book_intro"
	VolumeTitle    Type = "volume_title"
	VolumeIntro    Type = "volume_intro"
	ChapterTitle   Type = "chapter_title"
	ChapterContent Type = "chapter_content"
	Unrecognized   Type = "unrecognized"
	Blank          Type = "blank"
)

// Types 按结构层级顺序返回全部类型。
func Types() []Type {
	return []Type{BookTitle, BookIntro, VolumeTitle, VolumeIntro, ChapterTitle, ChapterContent, Unrecognized, Blank}
}

// TypeNames 返回全部类型名（用于字段枚举）。
func TypeNames() []string {
	ts := Types()
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

// Valid 判断是否属于封闭枚举。
func (t Type) Valid() bool {
	for _, x := range Types() {
		if x == t {
			return true
		}
	}
	return false
}

// IsTitle 判断是否为书/卷/章标题。
func (t Type) IsTitle() bool {
	return t == BookTitle || t == VolumeTitle || t == ChapterTitle
}

// 约定的属性名（Attrs.Get/Set 按名访问时使用）。
const (
	AttrFile           = "file"
	AttrLine           = "line"
	AttrRaw            = "raw"
	AttrTag            = "tag"
	AttrError          = "error"
	AttrOriginalIndex  = "original_index"
	AttrCorrectedIndex = "corrected_index"
)

// Attrs: 记录的附加属性。
// 常用键为强类型字段；其余适配器自定义的键落在 Extra。
type Attrs struct {
	File           string
	Line           int // 1 起；0 表示缺省
	Raw            string
	Tag            string
	Error          string
	OriginalIndex  *int
	CorrectedIndex *int
	Extra          map[string]string
}

// Record: 流水线中流动的唯一数据单元。
// 约束：
//   - Index 仅在 HasIndex 为真时有意义；
//   - 普通结构单元 Index > 0，特殊单元（序章/番外等）Index <= 0；
//   - 所有阶段间传递使用值拷贝，Clone 保证深拷贝。
type Record struct {
	Type     Type
	Content  string
	Index    int
	HasIndex bool
	Attrs    Attrs
}

// NewRecord 创建一个未分类记录。
func NewRecord(content string) Record {
	return Record{Type: Unrecognized, Content: content}
}

// WithIndex 返回设置了索引的副本。
func (r Record) WithIndex(i int) Record {
	out := r.Clone()
	out.Index = i
	out.HasIndex = true
	return out
}

// Special 判断是否为特殊索引（非正）。
func (r Record) Special() bool { return r.HasIndex && r.Index <= 0 }

// Clone 深拷贝。
func (r Record) Clone() Record {
	out := r
	out.Attrs = r.Attrs.Clone()
	return out
}

// Equal 结构相等：类型、内容、索引与全部属性一致。
func (r Record) Equal(o Record) bool {
	if r.Type != o.Type || r.Content != o.Content || r.HasIndex != o.HasIndex {
		return false
	}
	if r.HasIndex && r.Index != o.Index {
		return false
	}
	return r.Attrs.Equal(o.Attrs)
}

// Clone 深拷贝属性。
func (a Attrs) Clone() Attrs {
	out := a
	out.OriginalIndex = cloneInt(a.OriginalIndex)
	out.CorrectedIndex = cloneInt(a.CorrectedIndex)
	out.Extra = cloneMeta(a.Extra)
	return out
}

// Equal 比较全部属性。nil 与空 Extra 视为相等。
func (a Attrs) Equal(o Attrs) bool {
	if a.File != o.File || a.Line != o.Line || a.Raw != o.Raw || a.Tag != o.Tag || a.Error != o.Error {
		return false
	}
	if !eqInt(a.OriginalIndex, o.OriginalIndex) || !eqInt(a.CorrectedIndex, o.CorrectedIndex) {
		return false
	}
	return len(a.Extra) == len(o.Extra) && maps.Equal(a.Extra, o.Extra)
}

// Get 按名读取属性；未设置时 ok=false。
func (a Attrs) Get(name string) (string, bool) {
	switch name {
	case AttrFile:
		return a.File, a.File != ""
	case AttrLine:
		if a.Line <= 0 {
			return "", false
		}
		return strconv.Itoa(a.Line), true
	case AttrRaw:
		return a.Raw, a.Raw != ""
	case AttrTag:
		return a.Tag, a.Tag != ""
	case AttrError:
		return a.Error, a.Error != ""
	case AttrOriginalIndex:
		if a.OriginalIndex == nil {
			return "", false
		}
		return strconv.Itoa(*a.OriginalIndex), true
	case AttrCorrectedIndex:
		if a.CorrectedIndex == nil {
			return "", false
		}
		return strconv.Itoa(*a.CorrectedIndex), true
	}
	v, ok := a.Extra[name]
	return v, ok
}

// Set 按名写入属性。整数型常用键解析失败时返回 ErrInvalidField。
// 空值等价于删除。
func (a *Attrs) Set(name, value string) error {
	switch name {
	case AttrFile:
		a.File = value
	case AttrLine:
		if value == "" {
			a.Line = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fieldErr(name, value)
		}
		a.Line = n
	case AttrRaw:
		a.Raw = value
	case AttrTag:
		a.Tag = value
	case AttrError:
		a.Error = value
	case AttrOriginalIndex, AttrCorrectedIndex:
		var p *int
		if value != "" {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fieldErr(name, value)
			}
			p = &n
		}
		if name == AttrOriginalIndex {
			a.OriginalIndex = p
		} else {
			a.CorrectedIndex = p
		}
	default:
		if value == "" {
			delete(a.Extra, name)
			return nil
		}
		if a.Extra == nil {
			a.Extra = make(map[string]string)
		}
		a.Extra[name] = value
	}
	return nil
}

// Names 返回已设置属性名（排序，便于稳定输出）。
func (a Attrs) Names() []string {
	var out []string
	for _, n := range []string{AttrFile, AttrLine, AttrRaw, AttrTag, AttrError, AttrOriginalIndex, AttrCorrectedIndex} {
		if _, ok := a.Get(n); ok {
			out = append(out, n)
		}
	}
	for k := range a.Extra {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Merge 返回 a 与 over 的并集；冲突时 over 优先。
func (a Attrs) Merge(over Attrs) Attrs {
	out := a.Clone()
	for _, n := range over.Names() {
		v, _ := over.Get(n)
		// over 的值来自 Get，整数键必然可解析
		_ = out.Set(n, v)
	}
	return out
}

// IntPtr 返回 n 的指针（构造属性时使用）。
func IntPtr(n int) *int { return &n }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
