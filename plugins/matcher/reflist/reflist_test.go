package reflist

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/internal/listing"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

func line(content string, n int) contract.Record {
	r := contract.NewRecord(content)
	r.Attrs.File = "book.txt"
	r.Attrs.Line = n
	r.Attrs.Raw = content
	return r
}

func writeRefs(t *testing.T, refs []contract.Record) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, listing.WriteCSV(&buf, refs))
	p := filepath.Join(t.TempDir(), "refs.csv")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

// TestMergeJoin 按 file+line 单向归并，参照值优先。
func TestMergeJoin(t *testing.T) {
	ref := line("第一章 风起", 2)
	ref.Type = contract.ChapterTitle
	ref.Content = "风起"
	ref.Index, ref.HasIndex = 1, true
	ref.Attrs.Tag = "main"
	path := writeRefs(t, []contract.Record{ref})

	v, err := field.Extract(Fields, map[string]any{"path": path})
	require.NoError(t, err)
	m, err := FromValues(v)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Remaining())

	_, ok := m.Match(line("正文", 1))
	assert.False(t, ok)

	in := line("第一章 风起", 2)
	in.Attrs.Extra = map[string]string{"source": "x"}
	out, ok := m.Match(in)
	require.True(t, ok)
	assert.Equal(t, contract.ChapterTitle, out.Type)
	assert.Equal(t, "风起", out.Content)
	assert.Equal(t, 1, out.Index)
	assert.Equal(t, "main", out.Attrs.Tag)
	assert.Equal(t, "x", out.Attrs.Extra["source"])
	assert.Equal(t, 0, m.Remaining())

	// 游标到达末尾后永久不命中
	_, ok = m.Match(line("第一章 风起", 2))
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.csv"))
	assert.ErrorIs(t, err, contract.ErrReferenceInvalid)

	p := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,b\n"), 0o644))
	_, err = Load(p)
	assert.ErrorIs(t, err, contract.ErrReferenceInvalid)

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, contract.ErrReferenceInvalid)

	_, err = field.Extract(Fields, map[string]any{})
	assert.ErrorIs(t, err, contract.ErrMissingField)
}

func TestNewNoBacktrack(t *testing.T) {
	a := contract.Record{Type: contract.VolumeTitle, Content: "卷一", Attrs: contract.Attrs{Raw: "卷一"}}
	b := contract.Record{Type: contract.ChapterTitle, Content: "章一", Attrs: contract.Attrs{Raw: "章一"}}
	m := New([]contract.Record{a, b})
	// 与第二条相同但游标仍指向第一条
	_, ok := m.Match(contract.NewRecord("章一"))
	assert.False(t, ok)
	_, ok = m.Match(contract.Record{Type: contract.Unrecognized, Content: "卷一"})
	assert.True(t, ok)
	_, ok = m.Match(contract.Record{Type: contract.Unrecognized, Content: "章一"})
	assert.True(t, ok)
}
