// Package dir 提供目录结构输入：每个目录条目产出一条记录（按稳定顺序先序遍历）。
// 适用于已按“书/卷/章”拆分为目录与文件的稿件。
package dir

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bookstruct/internal/fsx"
	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "遍历目录树，每个目录或文件产出一条记录（内容为去扩展名的基名）。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "path", Kind: field.Path, Description: "根目录；为空时使用运行期输入 input"},
	{Name: field.Input, Kind: field.Path, Description: "运行期注入的主输入路径"},
	{Name: "exclude_dir_names", Kind: field.List, Default: []string{".git"}, Description: "跳过的目录名"},
}

// Source 目录输入。
type Source struct {
	root   string
	walker *fsx.Walker
}

var _ contract.Source = (*Source)(nil)

// New 构造目录输入。
func New(root string, exclude []string) (*Source, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: path", contract.ErrMissingField)
	}
	return &Source{root: root, walker: fsx.NewWalker(exclude)}, nil
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Source, error) {
	p := v.String("path")
	if p == "" {
		p = v.String(field.Input)
	}
	return New(p, v.List("exclude_dir_names"))
}

// Iterate 产出条目记录：file 为相对路径，line 为遍历序号，raw 为基名。
func (s *Source) Iterate(ctx context.Context, yield func(contract.Record) error) error {
	n := 0
	return s.walker.Walk(ctx, s.root, func(p string, isDir bool) error {
		n++
		rel, err := filepath.Rel(s.root, p)
		if err != nil || rel == "." {
			rel = filepath.Base(p)
		}
		name := filepath.Base(p)
		content := name
		if !isDir {
			content = strings.TrimSuffix(name, filepath.Ext(name))
		}
		rec := contract.NewRecord(strings.TrimSpace(content))
		rec.Attrs.File = contract.NormalizePath(rel)
		rec.Attrs.Line = n
		rec.Attrs.Raw = name
		return yield(rec)
	})
}
