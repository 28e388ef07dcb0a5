package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

func TestMatchDefaults(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)
	cases := []struct {
		in      string
		index   int
		content string
	}{
		{"序章 开端", -1, "开端"},
		{"楔子", -2, "楔子"},
		{"序", -4, "序"},
		{"番外 旧事", -8, "旧事"},
	}
	for _, c := range cases {
		out, ok := m.Match(contract.NewRecord(c.in))
		require.True(t, ok, c.in)
		assert.Equal(t, contract.ChapterTitle, out.Type)
		assert.Equal(t, c.index, out.Index, c.in)
		assert.Equal(t, c.content, out.Content, c.in)
		assert.True(t, out.Special())
	}
}

// TestSameAffixSameIndex 同一词缀每次出现序号相同（非计数器）。
func TestSameAffixSameIndex(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)
	a, _ := m.Match(contract.NewRecord("番外 一"))
	b, _ := m.Match(contract.NewRecord("番外 二"))
	assert.Equal(t, a.Index, b.Index)
}

func TestCustomAffixes(t *testing.T) {
	m, err := New(Options{Type: contract.VolumeTitle, Affixes: []string{"Prelude", "Interlude"}, Template: `^({affixes}):\s*(.*)$`, Tag: "x"})
	require.NoError(t, err)
	out, ok := m.Match(contract.NewRecord("Interlude: Rain"))
	require.True(t, ok)
	assert.Equal(t, -2, out.Index)
	assert.Equal(t, "Rain", out.Content)
	assert.Equal(t, contract.VolumeTitle, out.Type)
	assert.Equal(t, "x", out.Attrs.Tag)

	_, ok = m.Match(contract.NewRecord("Chapter 1"))
	assert.False(t, ok)
}

// TestTemplateGroups 词缀组不必是第 1 组；内容可用命名组指定。
func TestTemplateGroups(t *testing.T) {
	m, err := New(Options{Template: `^(【(.+?)】)?\s*({affixes})\s*(.*)$`})
	require.NoError(t, err)
	out, ok := m.Match(contract.NewRecord("【卷外】番外 旧事"))
	require.True(t, ok)
	assert.Equal(t, -8, out.Index)
	assert.Equal(t, "旧事", out.Content)

	m, err = New(Options{Template: `^(?P<content>.+?)\s*[-:]\s*({affixes})$`})
	require.NoError(t, err)
	out, ok = m.Match(contract.NewRecord("旧事 - 番外"))
	require.True(t, ok)
	assert.Equal(t, -8, out.Index)
	assert.Equal(t, "旧事", out.Content)

	m, err = New(Options{Template: `^({affixes})$`})
	require.NoError(t, err)
	out, ok = m.Match(contract.NewRecord("楔子"))
	require.True(t, ok)
	assert.Equal(t, "楔子", out.Content, "无内容组时取词缀")
}

func TestSkipsOtherTypes(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)
	in := contract.NewRecord("序章")
	in.Type = contract.ChapterContent
	_, ok := m.Match(in)
	assert.False(t, ok)
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{Template: "^x$"})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
	_, err = New(Options{Template: "^{affixes}$"})
	assert.ErrorIs(t, err, contract.ErrInvalidField, "词缀未包在捕获组中")
	_, err = New(Options{Template: "^({affixes}$"})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
	_, err = New(Options{Type: "bogus"})
	assert.ErrorIs(t, err, contract.ErrInvalidEnum)
}

func TestFromValues(t *testing.T) {
	v, err := field.Extract(Fields, map[string]any{"affixes": "尾声,后记"})
	require.NoError(t, err)
	m, err := FromValues(v)
	require.NoError(t, err)
	out, ok := m.Match(contract.NewRecord("后记"))
	require.True(t, ok)
	assert.Equal(t, -2, out.Index)
}
