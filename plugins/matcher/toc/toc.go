// Package toc 提供目录匹配器：以缩进目录（toc 输出格式）为参照清单。
package toc

import (
	"fmt"
	"os"

	"bookstruct/internal/listing"
	"bookstruct/internal/match"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "读取缩进目录（0 书名/1 卷/2 章），以原始行或内容与输入单向归并。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "path", Kind: field.Path, Required: true, Description: "目录文件路径（toc 输出格式）"},
	{Name: "indent", Kind: field.Int, Default: 2, Description: "每级缩进空格数"},
}

// Matcher 目录匹配器。
type Matcher struct {
	cur *match.Cursor
}

var _ contract.Matcher = (*Matcher)(nil)

// Load 读取目录文件。
func Load(path string, indent int) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", contract.ErrReferenceInvalid, path, err)
	}
	defer f.Close()
	refs, err := listing.ReadTOC(f, indent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Matcher{cur: match.NewCursor(refs)}, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Matcher, error) {
	return Load(v.String("path"), v.Int("indent"))
}

// Match 与下一条未消费目录条目比较。
func (m *Matcher) Match(rec contract.Record) (contract.Record, bool) { return m.cur.Match(rec) }
