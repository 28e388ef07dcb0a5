// Package listing 读写结构清单：csv 输出/参照清单与缩进目录（toc）。
// 两种格式都可由上一次运行产出，再作为参照清单读回。
package listing

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"bookstruct/pkg/contract"
)

// 固定列；其后为按名排序的属性列。
var csvHead = []string{"type", "index", "content"}

// AttrColumns 收集记录中出现过的全部属性名（排序）。
func AttrColumns(recs []contract.Record) []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range recs {
		for _, n := range r.Attrs.Names() {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				cols = append(cols, n)
			}
		}
	}
	slices.Sort(cols)
	return cols
}

// WriteCSV 写出表头与全部记录；无序号的记录 index 列为空。
func WriteCSV(w io.Writer, recs []contract.Record) error {
	cols := AttrColumns(recs)
	cw := csv.NewWriter(w)
	if err := cw.Write(append(slices.Clone(csvHead), cols...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(csvHead)+len(cols))
	for _, r := range recs {
		row[0] = string(r.Type)
		row[1] = ""
		if r.HasIndex {
			row[1] = strconv.Itoa(r.Index)
		}
		row[2] = r.Content
		for i, c := range cols {
			v, _ := r.Attrs.Get(c)
			row[len(csvHead)+i] = v
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV 读回 WriteCSV 的输出；格式错误返回 ErrReferenceInvalid（带行号）。
// WriteCSV 总会写出表头，缺少表头的空文件同样视为格式错误。
func ReadCSV(r io.Reader) ([]contract.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", contract.ErrReferenceInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", contract.ErrReferenceInvalid, err)
	}
	if len(head) < len(csvHead) || !slices.Equal(head[:len(csvHead)], csvHead) {
		return nil, fmt.Errorf("%w: header must start with %v", contract.ErrReferenceInvalid, csvHead)
	}
	cols := head[len(csvHead):]
	var out []contract.Record
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", contract.ErrReferenceInvalid, row, err)
		}
		if len(rec) != len(head) {
			return nil, fmt.Errorf("%w: row %d: %d columns, want %d", contract.ErrReferenceInvalid, row, len(rec), len(head))
		}
		r := contract.Record{Type: contract.Type(rec[0]), Content: rec[2]}
		if !r.Type.Valid() {
			return nil, fmt.Errorf("%w: row %d: unknown type %q", contract.ErrReferenceInvalid, row, rec[0])
		}
		if rec[1] != "" {
			n, err := strconv.Atoi(rec[1])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: index %q", contract.ErrReferenceInvalid, row, rec[1])
			}
			r.Index, r.HasIndex = n, true
		}
		for i, c := range cols {
			if err := r.Attrs.Set(c, rec[len(csvHead)+i]); err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", contract.ErrReferenceInvalid, row, err)
			}
		}
		out = append(out, r)
	}
}
