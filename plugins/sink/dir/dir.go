// Package dir 提供目录树输出：<书名>/<NNN 卷>/<NNNN 章>.txt。
// 无卷的章节直接位于书目录下；书/卷简介写入对应目录的 intro.txt。
package dir

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/sink/internal/buffer"
)

// Description 用于组件清单与文档。
const Description = "按书/卷/章写出目录树，每章一个文本文件。"

// Fields 字段契约（name 为书目录名，书名记录存在时以书名为准）。
var Fields = buffer.OutputFields("book")

// IntroName 简介文件名。
const IntroName = "intro.txt"

// Sink 目录树输出。
type Sink struct {
	*buffer.Buffer
}

var _ contract.Sink = (*Sink)(nil)

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Sink, error) {
	b, err := buffer.New(v)
	if err != nil {
		return nil, err
	}
	return &Sink{Buffer: b}, nil
}

// File 单个待写出文件（相对输出根目录，以 / 分隔）。
type File struct {
	Path string
	Body []byte
}

// Finalize 写出全部文件。
func (s *Sink) Finalize(ctx context.Context) error {
	for _, f := range Layout(s.Records, s.Name) {
		if err := s.W.WriteBytes(ctx, contract.ArtifactID(f.Path), f.Body); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// Layout 计算目录树；卷/章编号为出现顺序（从 1 起），与记录序号无关。
func Layout(recs []contract.Record, defaultBook string) []File {
	book := SafeName(defaultBook)
	if book == "" {
		book = "book"
	}
	type node struct {
		path string
		body bytes.Buffer
	}
	var files []*node
	byPath := map[string]*node{}
	get := func(p string) *node {
		if n, ok := byPath[p]; ok {
			return n
		}
		n := &node{path: p}
		byPath[p] = n
		files = append(files, n)
		return n
	}
	var cur *node
	bookDir, volDir := "", ""
	vols, chapters := 0, 0
	root := func() string {
		if bookDir == "" {
			bookDir = book
		}
		return bookDir
	}
	base := func() string {
		if volDir != "" {
			return volDir
		}
		return root()
	}
	for _, r := range recs {
		switch r.Type {
		case contract.BookTitle:
			if name := SafeName(r.Content); name != "" && bookDir == "" {
				bookDir = name
			}
			cur = nil
		case contract.BookIntro:
			cur = get(path.Join(root(), IntroName))
			writeLine(&cur.body, r.Content)
		case contract.VolumeTitle:
			vols++
			chapters = 0
			volDir = path.Join(root(), fmt.Sprintf("%03d %s", vols, SafeName(buffer.TitleText(r))))
			cur = nil
		case contract.VolumeIntro:
			cur = get(path.Join(base(), IntroName))
			writeLine(&cur.body, r.Content)
		case contract.ChapterTitle:
			chapters++
			title := buffer.TitleText(r)
			cur = get(path.Join(base(), fmt.Sprintf("%04d %s.txt", chapters, SafeName(title))))
			writeLine(&cur.body, title)
			cur.body.WriteByte('\n')
		case contract.ChapterContent:
			if cur != nil {
				writeLine(&cur.body, r.Content)
			}
		}
	}
	out := make([]File, 0, len(files))
	for _, f := range files {
		out = append(out, File{Path: f.path, Body: f.body.Bytes()})
	}
	return out
}

func writeLine(b *bytes.Buffer, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

// SafeName 替换路径非法字符并去除首尾空白与点。
func SafeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
	return strings.Trim(strings.TrimSpace(s), ".")
}
