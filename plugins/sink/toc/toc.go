// Package toc 提供缩进目录输出（可被 toc 匹配器读回）。
package toc

import (
	"bytes"
	"context"

	"bookstruct/internal/listing"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/sink/internal/buffer"
)

// Description 用于组件清单与文档。
const Description = "输出缩进目录：书名/卷/章逐级缩进，带序号前缀。"

// Fields 字段契约。
var Fields = append(buffer.OutputFields("toc.txt"),
	field.Field{Name: "indent", Kind: field.Int, Default: 2, Description: "每级缩进空格数"},
)

// Sink 目录输出。
type Sink struct {
	*buffer.Buffer
	indent int
}

var _ contract.Sink = (*Sink)(nil)

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Sink, error) {
	b, err := buffer.New(v)
	if err != nil {
		return nil, err
	}
	return &Sink{Buffer: b, indent: v.Int("indent")}, nil
}

// Finalize 写出目录。
func (s *Sink) Finalize(ctx context.Context) error {
	var buf bytes.Buffer
	if err := listing.WriteTOC(&buf, s.Records, s.indent); err != nil {
		return err
	}
	return s.Write(ctx, buf.Bytes())
}
