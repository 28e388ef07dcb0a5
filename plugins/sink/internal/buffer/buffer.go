// Package buffer 为文件类输出提供公共部分：记录缓冲、输出目录字段与原子写入。
package buffer

import (
	"context"
	"strings"

	"bookstruct/internal/fsx"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
	"bookstruct/plugins/transformer/format"
)

// OutputFields 返回文件类输出的公共字段（name 默认值因输出而异）。
func OutputFields(defaultName string) []field.Field {
	return []field.Field{
		{Name: field.OutputDir, Kind: field.Path, Required: true, Description: "输出根目录（运行期注入，可覆盖）"},
		{Name: "name", Kind: field.String, Default: defaultName, Description: "输出文件名（相对输出根目录）"},
	}
}

// Buffer 收集全部记录，Finalize 时一次性物化。
type Buffer struct {
	Records []contract.Record
	W       *fsx.Writer
	Name    string
}

// New 由抽取后的字段构造缓冲与写入器。
func New(v field.Values) (*Buffer, error) {
	w, err := fsx.NewWriter(fsx.Options{Root: v.String(field.OutputDir)})
	if err != nil {
		return nil, err
	}
	return &Buffer{W: w, Name: v.String("name")}, nil
}

// Accept 缓冲一条记录（深拷贝）。
func (b *Buffer) Accept(ctx context.Context, rec contract.Record) error {
	b.Records = append(b.Records, rec.Clone())
	return nil
}

// Write 将内容原子写入 Name。
func (b *Buffer) Write(ctx context.Context, data []byte) error {
	return b.W.WriteBytes(ctx, contract.ArtifactID(b.Name), data)
}

// Titles 过滤出书/卷/章标题。
func Titles(recs []contract.Record) []contract.Record {
	var out []contract.Record
	for _, r := range recs {
		if r.Type.IsTitle() {
			out = append(out, r)
		}
	}
	return out
}

// TitleText 返回标题的显示文本：formatted 优先，其次原始行，最后内容。
func TitleText(r contract.Record) string {
	if s, ok := r.Attrs.Get(format.Attr); ok && s != "" {
		return s
	}
	if r.Attrs.Raw != "" {
		return strings.TrimSpace(r.Attrs.Raw)
	}
	return r.Content
}
