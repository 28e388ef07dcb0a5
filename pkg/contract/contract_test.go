package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizePath 验证路径规范化逻辑。
func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Windows路径", "C:\\Users\\test\\file.txt", "C:/Users/test/file.txt"},
		{"清理多余斜杠", "path//to///file.txt", "path/to/file.txt"},
		{"处理父目录", "path/to/../from/file.txt", "path/from/file.txt"},
		{"空串", "", "."},
		{"中文路径", "小说\\第一卷/第一章.txt", "小说/第一卷/第一章.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.input))
		})
	}
}

// TestRecordCloneIsDeep 拷贝后修改原值不影响副本。
func TestRecordCloneIsDeep(t *testing.T) {
	r := NewRecord("第一章 开端").WithIndex(1)
	r.Attrs.OriginalIndex = IntPtr(3)
	require.NoError(t, r.Attrs.Set("formatted", "x"))

	c := r.Clone()
	*r.Attrs.OriginalIndex = 9
	r.Attrs.Extra["formatted"] = "y"

	assert.Equal(t, 3, *c.Attrs.OriginalIndex)
	assert.Equal(t, "x", c.Attrs.Extra["formatted"])
	assert.False(t, r.Equal(c))
}

// TestRecordEqual 结构相等覆盖全部属性。
func TestRecordEqual(t *testing.T) {
	a := Record{Type: ChapterTitle, Content: "c", Index: 1, HasIndex: true}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Attrs.Extra = map[string]string{}
	assert.True(t, a.Equal(b), "nil 与空 Extra 等价")

	b.Attrs.Tag = "t"
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Attrs.CorrectedIndex = IntPtr(2)
	assert.False(t, a.Equal(c))

	d := a
	d.HasIndex = false
	assert.False(t, a.Equal(d))
}

// TestAttrsGetSet 按名访问常用键与扩展键。
func TestAttrsGetSet(t *testing.T) {
	var a Attrs
	require.NoError(t, a.Set(AttrLine, "12"))
	require.NoError(t, a.Set(AttrOriginalIndex, "-2"))
	require.NoError(t, a.Set("formatted", "第一章"))
	require.NoError(t, a.Set(AttrFile, "a.txt"))

	v, ok := a.Get(AttrLine)
	assert.True(t, ok)
	assert.Equal(t, "12", v)
	assert.Equal(t, -2, *a.OriginalIndex)
	assert.Equal(t, []string{"file", "formatted", "line", "original_index"}, a.Names())

	_, ok = a.Get(AttrCorrectedIndex)
	assert.False(t, ok)

	err := a.Set(AttrLine, "x")
	assert.True(t, errors.Is(err, ErrInvalidField))

	require.NoError(t, a.Set("formatted", ""))
	_, ok = a.Get("formatted")
	assert.False(t, ok)
}

// TestAttrsMerge 冲突时 over 优先，其余取并集。
func TestAttrsMerge(t *testing.T) {
	base := Attrs{File: "in.txt", Line: 3, Raw: "第1章", Extra: map[string]string{"k": "v"}}
	over := Attrs{Raw: "第一章", Tag: "main", Extra: map[string]string{"k": "w", "z": "1"}}
	m := base.Merge(over)
	assert.Equal(t, "in.txt", m.File)
	assert.Equal(t, 3, m.Line)
	assert.Equal(t, "第一章", m.Raw)
	assert.Equal(t, "main", m.Tag)
	assert.Equal(t, map[string]string{"k": "w", "z": "1"}, m.Extra)
	assert.Equal(t, "v", base.Extra["k"], "Merge 不修改原值")
}

// TestTypeHelpers 类型枚举辅助函数。
func TestTypeHelpers(t *testing.T) {
	assert.True(t, ChapterTitle.Valid())
	assert.False(t, Type("chapter").Valid())
	assert.True(t, VolumeTitle.IsTitle())
	assert.False(t, ChapterContent.IsTitle())
	assert.Len(t, TypeNames(), 8)
	assert.True(t, Record{Index: -1, HasIndex: true}.Special())
	assert.False(t, Record{Index: 1, HasIndex: true}.Special())
}
