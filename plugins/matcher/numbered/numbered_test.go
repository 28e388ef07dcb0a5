package numbered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

func chapterMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := New(Options{Type: contract.ChapterTitle, Regex: `^第(.+?)章\s*(.*)$`, IndexGroup: 1, ContentGroup: 2, Tag: "main"})
	require.NoError(t, err)
	return m
}

func TestMatchChinese(t *testing.T) {
	m := chapterMatcher(t)
	cases := []struct {
		in      string
		index   int
		content string
	}{
		{"第一章 风起", 1, "风起"},
		{"第十二章 云涌", 12, "云涌"},
		{"第一百二十章", 120, ""},
		{"第12章 数字", 12, "数字"},
		{"第２３章 全角", 23, "全角"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			in := contract.NewRecord(c.in)
			in.Attrs.Line = 7
			out, ok := m.Match(in)
			require.True(t, ok)
			assert.Equal(t, contract.ChapterTitle, out.Type)
			assert.True(t, out.HasIndex)
			assert.Equal(t, c.index, out.Index)
			assert.Equal(t, c.content, out.Content)
			assert.Equal(t, "main", out.Attrs.Tag)
			assert.Equal(t, 7, out.Attrs.Line)
		})
	}
}

// TestMatchDeclines 序号无法解析或不匹配时原样返回。
func TestMatchDeclines(t *testing.T) {
	m := chapterMatcher(t)
	for _, s := range []string{"第几章 未知", "正文", ""} {
		in := contract.NewRecord(s)
		out, ok := m.Match(in)
		assert.False(t, ok, s)
		assert.True(t, out.Equal(in))
	}
}

// TestMatchSkipsOtherTypes 已分类为其它类型的记录不被改写。
func TestMatchSkipsOtherTypes(t *testing.T) {
	m := chapterMatcher(t)
	in := contract.NewRecord("第一章 风起")
	in.Type = contract.VolumeTitle
	_, ok := m.Match(in)
	assert.False(t, ok)

	in.Type = contract.ChapterTitle
	_, ok = m.Match(in)
	assert.True(t, ok, "同类型重复匹配幂等")
}

func TestNoContentGroup(t *testing.T) {
	m, err := New(Options{Type: contract.VolumeTitle, Regex: `^卷(\S+)`, ContentGroup: -1})
	require.NoError(t, err)
	out, ok := m.Match(contract.NewRecord("卷三 残阳"))
	require.True(t, ok)
	assert.Equal(t, 3, out.Index)
	assert.Empty(t, out.Content)
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{Type: "bogus", Regex: `(\d+)`})
	assert.ErrorIs(t, err, contract.ErrInvalidEnum)
	_, err = New(Options{Type: contract.ChapterTitle, Regex: `(`})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
	_, err = New(Options{Type: contract.ChapterTitle, Regex: `\d+`})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
	_, err = New(Options{Type: contract.ChapterTitle, Regex: `(\d+)`, ContentGroup: 3})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
}

func TestFromValuesDefaults(t *testing.T) {
	v, err := field.Extract(Fields, map[string]any{"type": "chapter_title", "regex": `^Chapter (\d+)`})
	require.NoError(t, err)
	m, err := FromValues(v)
	require.NoError(t, err)
	out, ok := m.Match(contract.NewRecord("Chapter 4 Title"))
	require.True(t, ok)
	assert.Equal(t, 4, out.Index)
	assert.Empty(t, out.Content)

	_, err = field.Extract(Fields, map[string]any{"type": "blank", "regex": "x"})
	assert.ErrorIs(t, err, contract.ErrInvalidEnum)
}
