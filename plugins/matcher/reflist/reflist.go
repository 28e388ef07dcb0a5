// Package reflist 提供参照清单匹配器：以 csv 输出（上一次运行或人工整理）为参照，
// 按单向游标与输入流归并。
package reflist

import (
	"fmt"
	"os"

	"bookstruct/internal/listing"
	"bookstruct/internal/match"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "读取 csv 参照清单，按 file+line、line、原始行、内容的顺序回退比较，单向归并。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "path", Kind: field.Path, Required: true, Description: "参照清单路径（csv 输出格式）"},
}

// Matcher 参照清单匹配器；游标到达末尾后永久不命中。
type Matcher struct {
	cur *match.Cursor
}

var _ contract.Matcher = (*Matcher)(nil)

// New 以内存中的参照记录构造。
func New(refs []contract.Record) *Matcher {
	return &Matcher{cur: match.NewCursor(refs)}
}

// Load 从文件读取参照清单。
func Load(path string) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", contract.ErrReferenceInvalid, path, err)
	}
	defer f.Close()
	refs, err := listing.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(refs), nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Matcher, error) { return Load(v.String("path")) }

// Match 与下一条未消费参照比较。
func (m *Matcher) Match(rec contract.Record) (contract.Record, bool) { return m.cur.Match(rec) }

// Remaining 返回尚未消费的参照条目数。
func (m *Matcher) Remaining() int { return m.cur.Len() - m.cur.Pos() }
