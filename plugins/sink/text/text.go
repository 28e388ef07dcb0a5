// Package text 提供纯文本输出：标题优先使用 formatted，章节之间空一行。
package text

import (
	"context"
	"strings"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/sink/internal/buffer"
)

// Description 用于组件清单与文档。
const Description = "输出整理后的纯文本；空白行被丢弃，标题前空一行。"

// Fields 字段契约。
var Fields = buffer.OutputFields("book.txt")

// Sink 纯文本输出。
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

// Finalize 写出文本。
func (s *Sink) Finalize(ctx context.Context) error {
	return s.Write(ctx, []byte(Render(s.Records)))
}

// Render 渲染全部记录。
func Render(recs []contract.Record) string {
	var b strings.Builder
	for _, r := range recs {
		switch {
		case r.Type == contract.Blank:
			continue
		case r.Type.IsTitle():
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(buffer.TitleText(r))
		default:
			b.WriteString(r.Content)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
