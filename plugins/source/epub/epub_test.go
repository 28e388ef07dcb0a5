package epub

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

const container = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`

const opf = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>山河</dc:title></metadata>
  <manifest>
    <item id="c1" href="text/c1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/c2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/><itemref idref="c2"/></spine>
</package>`

const c1 = `<html><body><h1>第一卷 风起</h1><h2>第一章  初见</h2><p>正文一</p><p>  </p></body></html>`
const c2 = `<html><body><h2>第二章 再会</h2><p>正文<b>二</b></p></body></html>`

func writeEPUB(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range []struct{ name, body string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", container},
		{"OEBPS/content.opf", opf},
		{"OEBPS/text/c1.xhtml", c1},
		{"OEBPS/text/c2.xhtml", c2},
	} {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func TestIterate(t *testing.T) {
	p := writeEPUB(t)
	v, err := field.Extract(Fields, map[string]any{field.Input: p})
	require.NoError(t, err)
	s, err := FromValues(v)
	require.NoError(t, err)

	var recs []contract.Record
	require.NoError(t, s.Iterate(context.Background(), func(r contract.Record) error {
		recs = append(recs, r)
		return nil
	}))
	var contents []string
	for _, r := range recs {
		contents = append(contents, r.Content)
	}
	assert.Equal(t, []string{"第一卷 风起", "第一章 初见", "正文一", "第二章 再会", "正文二"}, contents)
	assert.Equal(t, "text/c1.xhtml", recs[0].Attrs.File)
	assert.Equal(t, "h1", recs[0].Attrs.Extra["element"])
	assert.Equal(t, 3, recs[2].Attrs.Line)
	assert.Equal(t, "text/c2.xhtml", recs[3].Attrs.File)
	assert.Equal(t, 1, recs[3].Attrs.Line)
}

func TestErrors(t *testing.T) {
	_, err := New("", "")
	assert.ErrorIs(t, err, contract.ErrMissingField)

	s, err := New(filepath.Join(t.TempDir(), "none.epub"), "")
	require.NoError(t, err)
	assert.Error(t, s.Iterate(context.Background(), func(contract.Record) error { return nil }))
}
