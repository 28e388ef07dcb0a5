package match

import (
	"strings"

	"bookstruct/pkg/contract"
)

// Cursor: 参照清单上的单向游标（一次性归并连接）。
// 假设输入流与参照清单相对顺序一致，只与下一个未消费条目比较，从不回退；
// 游标到达末尾后永久不再匹配。
type Cursor struct {
	refs []contract.Record
	pos  int
}

// NewCursor 以参照清单构造游标（深拷贝）。
func NewCursor(refs []contract.Record) *Cursor {
	cp := make([]contract.Record, len(refs))
	for i, r := range refs {
		cp[i] = r.Clone()
	}
	return &Cursor{refs: cp}
}

// Pos 返回已消费条目数。
func (c *Cursor) Pos() int { return c.pos }

// Len 返回参照条目总数。
func (c *Cursor) Len() int { return len(c.refs) }

// Done 判断游标是否已到末尾。
func (c *Cursor) Done() bool { return c.pos >= len(c.refs) }

// Match 比较输入与下一个参照条目；命中则前进一步并返回合并记录。
// 合并结果取参照记录的结构字段，属性为两者并集（参照值优先）。
func (c *Cursor) Match(rec contract.Record) (contract.Record, bool) {
	if c.Done() {
		return rec, false
	}
	ref := c.refs[c.pos]
	if !Same(rec, ref) {
		return rec, false
	}
	c.pos++
	out := ref.Clone()
	out.Attrs = rec.Attrs.Merge(ref.Attrs)
	return out, true
}

// Same 按优先级回退的比较键判断输入是否对应参照条目：
//  1. 双方都有 file 与 line：两者均相等；
//  2. 双方都有 line：line 相等；
//  3. 原始行文本相等，否则语义内容相等。
func Same(rec, ref contract.Record) bool {
	a, b := rec.Attrs, ref.Attrs
	if a.File != "" && b.File != "" && a.Line > 0 && b.Line > 0 {
		return contract.NormalizePath(a.File) == contract.NormalizePath(b.File) && a.Line == b.Line
	}
	if a.Line > 0 && b.Line > 0 {
		return a.Line == b.Line
	}
	ra, rb := strings.TrimSpace(a.Raw), strings.TrimSpace(b.Raw)
	if ra != "" && ra == rb {
		return true
	}
	ca, cb := strings.TrimSpace(rec.Content), strings.TrimSpace(ref.Content)
	return ca != "" && ca == cb
}
