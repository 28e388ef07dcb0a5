// Package csv 提供结构清单输出（可被 csv 输入与 reflist 匹配器读回）。
package csv

import (
	"bytes"
	"context"

	"bookstruct/internal/listing"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/sink/internal/buffer"
)

// Description 用于组件清单与文档。
const Description = "输出结构清单 csv：type,index,content + 全部属性列（排序）。"

// Fields 字段契约。
var Fields = append(buffer.OutputFields("structure.csv"),
	field.Field{Name: "all", Kind: field.Bool, Default: false, Description: "包含非标题记录"},
)

// Sink csv 输出。
type Sink struct {
	*buffer.Buffer
	all bool
}

var _ contract.Sink = (*Sink)(nil)

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Sink, error) {
	b, err := buffer.New(v)
	if err != nil {
		return nil, err
	}
	return &Sink{Buffer: b, all: v.Bool("all")}, nil
}

// Finalize 写出清单。
func (s *Sink) Finalize(ctx context.Context) error {
	recs := s.Records
	if !s.all {
		recs = buffer.Titles(recs)
	}
	var buf bytes.Buffer
	if err := listing.WriteCSV(&buf, recs); err != nil {
		return err
	}
	return s.Write(ctx, buf.Bytes())
}
