package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

func TestProcess(t *testing.T) {
	v, err := field.Extract(Fields, map[string]any{})
	require.NoError(t, err)
	tr, err := FromValues(v)
	require.NoError(t, err)

	ch := contract.Record{Type: contract.ChapterTitle, Content: "风起", Index: 12, HasIndex: true}
	out := tr.Process(ch)
	got, ok := out.Attrs.Get(Attr)
	require.True(t, ok)
	assert.Equal(t, "第十二章 风起", got)
	_, ok = ch.Attrs.Get(Attr)
	assert.False(t, ok, "输入不被修改")

	sp := contract.Record{Type: contract.ChapterTitle, Content: "番外", Index: -8, HasIndex: true}
	got, _ = tr.Process(sp).Attrs.Get(Attr)
	assert.Equal(t, "番外", got)

	vol := contract.Record{Type: contract.VolumeTitle, Content: "卷", Index: 1, HasIndex: true}
	got, _ = tr.Process(vol).Attrs.Get(Attr)
	assert.Equal(t, "第一卷 卷", got)

	book := contract.Record{Type: contract.BookTitle, Content: "山河"}
	assert.True(t, tr.Process(book).Equal(book), "默认不含书名")
}

func TestRender(t *testing.T) {
	rec := contract.Record{Type: contract.VolumeTitle, Content: "风起", Index: 105, HasIndex: true, Attrs: contract.Attrs{Tag: "正篇"}}
	assert.Equal(t, "[正篇] 105 一百零五 风起", Render("[{tag}] {index} {numeral} {content}", rec))
	assert.Equal(t, "风起", Render("{numeral} {content}", contract.Record{Content: "风起"}))
}

func TestOptions(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
	_, err = field.Extract(Fields, map[string]any{"types": []any{"blank"}})
	assert.ErrorIs(t, err, contract.ErrInvalidEnum)

	tr, err := New(Options{Types: []contract.Type{contract.VolumeTitle}, Template: "x", VolumeTemplate: "Volume {index}: {content}"})
	require.NoError(t, err)
	got, _ := tr.Process(contract.Record{Type: contract.VolumeTitle, Content: "Dawn", Index: 2, HasIndex: true}).Attrs.Get(Attr)
	assert.Equal(t, "Volume 2: Dawn", got)
}

func TestTemplatesGroup(t *testing.T) {
	v, err := field.Extract(Fields, map[string]any{
		"types":     "chapter_title",
		"templates": map[string]any{"chapter": "Chapter {index}. {content}"},
	})
	require.NoError(t, err)
	tr, err := FromValues(v)
	require.NoError(t, err)
	got, _ := tr.Process(contract.Record{Type: contract.ChapterTitle, Content: "Dawn", Index: 3, HasIndex: true}).Attrs.Get(Attr)
	assert.Equal(t, "Chapter 3. Dawn", got)
	assert.Equal(t, "{content}", v.Group("templates").String("special"))

	_, err = field.Extract(Fields, map[string]any{"templates": "x"})
	assert.ErrorIs(t, err, contract.ErrInvalidField)
}
