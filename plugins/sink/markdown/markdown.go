// Package markdown 提供 Markdown 输出：# 书名，## 卷，### 章，其余为段落。
package markdown

import (
	"context"
	"strings"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/sink/internal/buffer"
)

// Description 用于组件清单与文档。
const Description = "输出 Markdown：书名/卷/章映射为 1~3 级标题，其余内容为段落。"

// Fields 字段契约。
var Fields = buffer.OutputFields("book.md")

// Sink Markdown 输出。
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

// Finalize 写出文档。
func (s *Sink) Finalize(ctx context.Context) error {
	return s.Write(ctx, []byte(Render(s.Records)))
}

var heading = map[contract.Type]string{
	contract.BookTitle:    "# ",
	contract.VolumeTitle:  "## ",
	contract.ChapterTitle: "### ",
}

// Render 渲染全部记录；块之间以空行分隔。
func Render(recs []contract.Record) string {
	var blocks []string
	for _, r := range recs {
		if r.Type == contract.Blank {
			continue
		}
		if h, ok := heading[r.Type]; ok {
			blocks = append(blocks, h+buffer.TitleText(r))
			continue
		}
		if c := strings.TrimSpace(r.Content); c != "" {
			blocks = append(blocks, escape(c))
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// escape 防止正文行首被解析为标题或列表。
func escape(s string) string {
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") || strings.HasPrefix(s, "> ") {
		return `\` + s
	}
	return s
}
