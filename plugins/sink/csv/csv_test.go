package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/internal/listing"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

func records() []contract.Record {
	ch := contract.Record{Type: contract.ChapterTitle, Content: "初见", Index: 1, HasIndex: true, Attrs: contract.Attrs{Raw: "第一章 初见", Line: 3}}
	_ = ch.Attrs.Set("formatted", "第一章 初见!")
	return []contract.Record{
		{Type: contract.BookTitle, Content: "山河", Attrs: contract.Attrs{Line: 1}},
		{Type: contract.Blank, Attrs: contract.Attrs{Line: 2}},
		ch,
		{Type: contract.ChapterContent, Content: "# 不是标题", Attrs: contract.Attrs{Line: 4}},
	}
}

func feed(t *testing.T, s contract.Sink) {
	t.Helper()
	ctx := context.Background()
	for _, r := range records() {
		require.NoError(t, s.Accept(ctx, r))
	}
	require.NoError(t, s.Finalize(ctx))
}

func readBack(t *testing.T, p string) []contract.Record {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	recs, err := listing.ReadCSV(f)
	require.NoError(t, err)
	return recs
}

func TestTitlesOnly(t *testing.T) {
	dir := t.TempDir()
	v, err := field.Extract(Fields, map[string]any{field.OutputDir: dir})
	require.NoError(t, err)
	s, err := FromValues(v)
	require.NoError(t, err)
	feed(t, s)

	got := readBack(t, filepath.Join(dir, "structure.csv"))
	require.Len(t, got, 2)
	assert.Equal(t, contract.ChapterTitle, got[1].Type)
	assert.Equal(t, "第一章 初见", got[1].Attrs.Raw)
	assert.Equal(t, 1, got[1].Index)
}

func TestAll(t *testing.T) {
	dir := t.TempDir()
	v, err := field.Extract(Fields, map[string]any{field.OutputDir: dir, "all": true, "name": "all.csv"})
	require.NoError(t, err)
	s, err := FromValues(v)
	require.NoError(t, err)
	feed(t, s)
	assert.Len(t, readBack(t, filepath.Join(dir, "all.csv")), 4)
}
