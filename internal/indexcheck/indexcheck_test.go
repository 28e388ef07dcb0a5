package indexcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/pkg/contract"
)

func chapter(i int, tag string) contract.Record {
	r := contract.Record{Type: contract.ChapterTitle, Content: "c", Index: i, HasIndex: true}
	r.Attrs.Tag = tag
	return r
}

func tagGate(tag string) Gate {
	return func(r contract.Record) bool {
		return r.Type == contract.ChapterTitle && r.HasIndex && r.Index >= 0 && r.Attrs.Tag == tag
	}
}

// TestContiguousNoError 连续序号不产生错误属性。
func TestContiguousNoError(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	for i := 1; i <= 5; i++ {
		out := c.Check(chapter(i, ""))
		assert.Equal(t, i, out.Index)
		assert.Empty(t, out.Attrs.Error)
		require.NotNil(t, out.Attrs.OriginalIndex)
		assert.Equal(t, i, *out.Attrs.OriginalIndex)
	}
}

// TestDuplicateLaw 同一序号第二次出现：纠正值大于已提交的全部序号且带错误。
func TestDuplicateLaw(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	seen := []int{}
	for _, i := range []int{1, 2, 3} {
		seen = append(seen, c.Check(chapter(i, "")).Index)
	}
	out := c.Check(chapter(2, ""))
	for _, s := range seen {
		assert.Greater(t, out.Index, s)
	}
	assert.Equal(t, 4, out.Index)
	assert.NotEmpty(t, out.Attrs.Error)
	assert.Equal(t, 2, *out.Attrs.OriginalIndex)
}

// TestDuplicateMessage 首个重号的纠正与信息。
func TestDuplicateMessage(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	c.Check(chapter(1, ""))
	out := c.Check(chapter(1, ""))
	assert.Equal(t, 2, out.Index)
	assert.Equal(t, "duplicate index 1, corrected to 2", out.Attrs.Error)
}

// TestMissingLaw 跳号纠正为 current+1。
func TestMissingLaw(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	c.Check(chapter(1, ""))
	out := c.Check(chapter(3, ""))
	assert.Equal(t, 2, out.Index)
	assert.Equal(t, "missing index: expected 2, got 3", out.Attrs.Error)
	assert.Equal(t, 2, c.Current())
	// 之后的 3 视为连续
	out = c.Check(chapter(3, ""))
	assert.Equal(t, 3, out.Index)
	assert.Empty(t, out.Attrs.Error)
}

// TestNoOverwrite 不改写时保留原序号，仅记录纠正值。
func TestNoOverwrite(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: false})
	c.Check(chapter(1, ""))
	out := c.Check(chapter(5, ""))
	assert.Equal(t, 5, out.Index)
	require.NotNil(t, out.Attrs.CorrectedIndex)
	assert.Equal(t, 2, *out.Attrs.CorrectedIndex)
	assert.Nil(t, out.Attrs.OriginalIndex)
	assert.NotEmpty(t, out.Attrs.Error)
}

// TestBeginIndex 首个期望序号由 BeginIndex 决定，不对首条记录特殊处理。
func TestBeginIndex(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	out := c.Check(chapter(0, ""))
	assert.Equal(t, 1, out.Index, "begin=1 时 0 被纠正")
	assert.NotEmpty(t, out.Attrs.Error)

	// 从 0 开始编号的稿件
	c = New(tagGate(""), Options{BeginIndex: 0, Overwrite: true})
	for i := 0; i < 3; i++ {
		out = c.Check(chapter(i, ""))
		assert.Equal(t, i, out.Index)
		assert.Empty(t, out.Attrs.Error, "index %d", i)
	}

	c = New(tagGate(""), Options{BeginIndex: 5, Overwrite: true})
	out = c.Check(chapter(5, ""))
	assert.Empty(t, out.Attrs.Error)
	out = c.Check(chapter(1, ""))
	assert.Equal(t, 6, out.Index)
}

// TestScopeIsolation 不同 tag 的实例互不影响。
func TestScopeIsolation(t *testing.T) {
	a := New(tagGate("A"), Options{BeginIndex: 1, Overwrite: true})
	b := New(tagGate("B"), Options{BeginIndex: 1, Overwrite: true})
	ra := a.Check(chapter(1, "A"))
	rb := b.Check(chapter(1, "B"))
	assert.Empty(t, ra.Attrs.Error)
	assert.Empty(t, rb.Attrs.Error)
	assert.Equal(t, 1, rb.Index)

	// A 实例不处理 B 的记录
	passthrough := a.Check(chapter(1, "B"))
	assert.True(t, passthrough.Equal(chapter(1, "B")))
}

// TestReset 重置后重新计数。
func TestReset(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	c.Check(chapter(1, ""))
	c.Check(chapter(2, ""))
	c.Reset()
	out := c.Check(chapter(1, ""))
	assert.Equal(t, 1, out.Index)
	assert.Empty(t, out.Attrs.Error)
}

// TestInputNotMutated 输入记录不被修改。
func TestInputNotMutated(t *testing.T) {
	c := New(tagGate(""), Options{BeginIndex: 1, Overwrite: true})
	in := chapter(3, "")
	_ = c.Check(in)
	assert.Equal(t, 3, in.Index)
	assert.Nil(t, in.Attrs.OriginalIndex)
}
