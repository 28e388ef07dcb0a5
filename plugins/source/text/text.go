// Package text 提供纯文本稿件输入：逐行产出记录，支持常见中文编码。
package text

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"bookstruct/internal/fsx"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "逐行读取文本文件（或目录下全部文件），附带 file/line/raw 属性；空白行为 blank。"

// Encodings 支持的编码名。
var Encodings = []string{"utf-8", "gbk", "gb18030", "utf-16le", "utf-16be"}

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "path", Kind: field.Path, Description: "文件或目录；为空时使用运行期输入 input"},
	{Name: field.Input, Kind: field.Path, Description: "运行期注入的主输入路径"},
	{Name: "encoding", Kind: field.String, Default: "utf-8", Enum: Encodings, Description: "文本编码"},
	{Name: "exclude_dir_names", Kind: field.List, Default: []string{".git"}, Description: "遍历目录时跳过的目录名"},
}

// Options 输入参数。
type Options struct {
	Path            string
	Encoding        string
	ExcludeDirNames []string
}

// Source 文本输入（单次遍历，不可重放）。
type Source struct {
	path   string
	enc    encoding.Encoding
	walker *fsx.Walker
}

var _ contract.Source = (*Source)(nil)

// New 构造文本输入。
func New(opts Options) (*Source, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("%w: path", contract.ErrMissingField)
	}
	enc, err := Lookup(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Source{path: opts.Path, enc: enc, walker: fsx.NewWalker(opts.ExcludeDirNames)}, nil
}

// FromValues 由抽取后的字段构造；path 缺省时回退到 input。
func FromValues(v field.Values) (*Source, error) {
	p := v.String("path")
	if p == "" {
		p = v.String(field.Input)
	}
	return New(Options{Path: p, Encoding: v.String("encoding"), ExcludeDirNames: v.List("exclude_dir_names")})
}

// Lookup 按名称返回解码用编码；空名为 utf-8。
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	}
	return nil, fmt.Errorf("%w: encoding %q", contract.ErrInvalidEnum, name)
}

// Iterate 按稳定顺序逐文件、逐行产出记录。
func (s *Source) Iterate(ctx context.Context, yield func(contract.Record) error) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}
	base := filepath.Dir(s.path)
	if info.IsDir() {
		base = s.path
	}
	return s.walker.Files(ctx, s.path, func(p string) error {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			rel = filepath.Base(p)
		}
		return s.readFile(ctx, p, contract.NormalizePath(rel), yield)
	})
}

func (s *Source) readFile(ctx context.Context, p, name string, yield func(contract.Record) error) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	return Lines(ctx, transform.NewReader(f, s.enc.NewDecoder()), name, yield)
}

// Lines 将已解码的文本逐行转为记录。
func Lines(ctx context.Context, r io.Reader, name string, yield func(contract.Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := strings.TrimRight(sc.Text(), "\r")
		rec := contract.Record{Type: contract.Unrecognized, Content: strings.TrimSpace(raw)}
		if rec.Content == "" {
			rec.Type = contract.Blank
		}
		rec.Attrs.File = name
		rec.Attrs.Line = n
		rec.Attrs.Raw = raw
		if err := yield(rec); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
