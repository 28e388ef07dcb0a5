// Package epub 提供 EPUB 输入：按 spine 顺序抽取标题与段落文本，每个块一条记录。
package epub

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/taylorskalyo/goreader/epub"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "按 spine 顺序读取 EPUB，抽取标题与段落文本；file 为条目 href，line 为块序号。"

// DefaultSelector 文本块选择器。
const DefaultSelector = "h1,h2,h3,h4,h5,h6,p"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "path", Kind: field.Path, Description: "EPUB 文件；为空时使用运行期输入 input"},
	{Name: field.Input, Kind: field.Path, Description: "运行期注入的主输入路径"},
	{Name: "selector", Kind: field.String, Default: DefaultSelector, Description: "文本块 CSS 选择器"},
}

// Source EPUB 输入。
type Source struct {
	path     string
	selector string
}

var _ contract.Source = (*Source)(nil)

// New 构造 EPUB 输入。
func New(path, selector string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path", contract.ErrMissingField)
	}
	if selector == "" {
		selector = DefaultSelector
	}
	return &Source{path: path, selector: selector}, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Source, error) {
	p := v.String("path")
	if p == "" {
		p = v.String(field.Input)
	}
	return New(p, v.String("selector"))
}

// Iterate 逐条目、逐块产出记录。
func (s *Source) Iterate(ctx context.Context, yield func(contract.Record) error) error {
	rc, err := epub.OpenReader(s.path)
	if err != nil {
		return fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()
	if len(rc.Rootfiles) == 0 {
		return fmt.Errorf("open epub %s: no rootfiles", s.path)
	}
	book := rc.Rootfiles[0]
	for _, ref := range book.Spine.Itemrefs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", ref.Item.HREF, err)
		}
		err = s.blocks(r, ref.Item.HREF, yield)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) blocks(r io.Reader, href string, yield func(contract.Record) error) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse %s: %w", href, err)
	}
	var yerr error
	n := 0
	doc.Find(s.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return true
		}
		n++
		rec := contract.NewRecord(text)
		rec.Attrs.File = contract.NormalizePath(href)
		rec.Attrs.Line = n
		rec.Attrs.Raw = text
		if goquery.NodeName(sel) != "p" {
			rec.Attrs.Extra = map[string]string{"element": goquery.NodeName(sel)}
		}
		yerr = yield(rec)
		return yerr == nil
	})
	return yerr
}
