// Package csv 提供清单回放输入：读取 csv 输出并按原顺序产出记录。
package csv

import (
	"context"
	"fmt"
	"os"

	"bookstruct/internal/listing"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "回放 csv 输出（含类型、序号与全部属性）。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "path", Kind: field.Path, Description: "csv 清单路径；为空时使用运行期输入 input"},
	{Name: field.Input, Kind: field.Path, Description: "运行期注入的主输入路径"},
}

// Source 清单回放输入。
type Source struct {
	path string
}

var _ contract.Source = (*Source)(nil)

// New 构造清单回放输入。
func New(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path", contract.ErrMissingField)
	}
	return &Source{path: path}, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Source, error) {
	p := v.String("path")
	if p == "" {
		p = v.String(field.Input)
	}
	return New(p)
}

// Iterate 读取整个清单后逐条产出。
func (s *Source) Iterate(ctx context.Context, yield func(contract.Record) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	recs, err := listing.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	for _, r := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := yield(r); err != nil {
			return err
		}
	}
	return nil
}
