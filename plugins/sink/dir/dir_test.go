package dir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

func rec(typ contract.Type, content string) contract.Record {
	return contract.Record{Type: typ, Content: content}
}

func stream() []contract.Record {
	return []contract.Record{
		rec(contract.BookTitle, "山河"),
		rec(contract.BookIntro, "一部小说"),
		rec(contract.ChapterTitle, "序章"),
		rec(contract.ChapterContent, "开端"),
		rec(contract.VolumeTitle, "第一卷 风起"),
		rec(contract.VolumeIntro, "卷首语"),
		rec(contract.ChapterTitle, "第一章 初见"),
		rec(contract.ChapterContent, "正文一"),
		rec(contract.ChapterContent, "正文二"),
		rec(contract.ChapterTitle, "第二章 a/b"),
	}
}

func TestLayout(t *testing.T) {
	files := Layout(stream(), "ignored")
	got := map[string]string{}
	var order []string
	for _, f := range files {
		got[f.Path] = string(f.Body)
		order = append(order, f.Path)
	}
	assert.Equal(t, []string{
		"山河/intro.txt",
		"山河/0001 序章.txt",
		"山河/001 第一卷 风起/intro.txt",
		"山河/001 第一卷 风起/0001 第一章 初见.txt",
		"山河/001 第一卷 风起/0002 第二章 a_b.txt",
	}, order)
	assert.Equal(t, "一部小说\n", got["山河/intro.txt"])
	assert.Equal(t, "第一章 初见\n\n正文一\n正文二\n", got["山河/001 第一卷 风起/0001 第一章 初见.txt"])
}

func TestLayoutDefaultBook(t *testing.T) {
	files := Layout([]contract.Record{rec(contract.ChapterTitle, "一")}, "")
	require.Len(t, files, 1)
	assert.Equal(t, "book/0001 一.txt", files[0].Path)
}

func TestFinalize(t *testing.T) {
	out := t.TempDir()
	v, err := field.Extract(Fields, map[string]any{field.OutputDir: out})
	require.NoError(t, err)
	s, err := FromValues(v)
	require.NoError(t, err)
	ctx := context.Background()
	for _, r := range stream() {
		require.NoError(t, s.Accept(ctx, r))
	}
	require.NoError(t, s.Finalize(ctx))
	b, err := os.ReadFile(filepath.Join(out, "山河", "0001 序章.txt"))
	require.NoError(t, err)
	assert.Equal(t, "序章\n\n开端\n", string(b))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a_b_c", SafeName(" a/b:c "))
	assert.Equal(t, "x", SafeName("..x.."))
}
