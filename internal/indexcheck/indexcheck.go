// Package indexcheck 实现作用域内序号的连续性与唯一性校验及自动纠正。
//
// 一个 Checker 对应一个作用域（同一类型、同一 tag、同一实例）；
// 不同作用域之间从不共享状态。
package indexcheck

import (
	"fmt"

	"bookstruct/pkg/contract"
)

// Gate: 判定记录是否归本作用域校验。
type Gate func(rec contract.Record) bool

// Options: Checker 构造参数。
type Options struct {
	// BeginIndex: 作用域内首个期望序号，按原值使用（0 也是合法起点）。
	BeginIndex int
	// Overwrite: 为真时改写记录序号并保存原值；否则仅记录纠正值。
	Overwrite bool
}

// Checker: 运行期独占状态（当前序号与已提交集合）。
type Checker struct {
	gate      Gate
	begin     int
	overwrite bool
	current   int
	committed map[int]struct{}
}

// New 构造 Checker。
func New(gate Gate, opts Options) *Checker {
	c := &Checker{gate: gate, begin: opts.BeginIndex, overwrite: opts.Overwrite}
	c.Reset()
	return c
}

// Reset 清空作用域状态（例如跨卷重新计章）。
func (c *Checker) Reset() {
	c.current = c.begin - 1
	c.committed = make(map[int]struct{})
}

// Current 返回最近一次提交的序号。
func (c *Checker) Current() int { return c.current }

// Check 校验并纠正一条记录；门控拒绝的记录原样返回。
// 检查顺序固定：先重号（递增至未占用），再缺号（对齐 current+1）；
// 缺号信息覆盖重号信息。
func (c *Checker) Check(rec contract.Record) contract.Record {
	if c.gate != nil && !c.gate(rec) {
		return rec
	}
	orig := rec.Index
	corrected := orig
	msg := ""
	if _, dup := c.committed[corrected]; dup {
		for {
			corrected++
			if _, used := c.committed[corrected]; !used {
				break
			}
		}
		msg = fmt.Sprintf("duplicate index %d, corrected to %d", orig, corrected)
	}
	if corrected != c.current+1 {
		corrected = c.current + 1
		msg = fmt.Sprintf("missing index: expected %d, got %d", corrected, orig)
	}
	c.committed[corrected] = struct{}{}
	c.current = corrected

	out := rec.Clone()
	if c.overwrite {
		out.Index = corrected
		out.Attrs.OriginalIndex = contract.IntPtr(orig)
	} else {
		out.Attrs.CorrectedIndex = contract.IntPtr(corrected)
	}
	if msg != "" {
		out.Attrs.Error = msg
	}
	return out
}
