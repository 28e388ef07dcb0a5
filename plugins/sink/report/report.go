// Package report 提供终端异常报告：列出带 error 属性的记录并输出汇总。
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bookstruct/pkg/contract"
	"bookstruct/pkg/field"
)

// Description 用于组件清单与文档。
const Description = "在终端（stderr）输出异常记录清单与按类型汇总。"

// Fields 字段契约。
var Fields = []field.Field{
	{Name: "limit", Kind: field.Int, Default: 50, Description: "最多列出的异常条数；<=0 表示不限"},
	{Name: "quiet", Kind: field.Bool, Default: false, Description: "只输出汇总行"},
}

// Options 报告参数。
type Options struct {
	Out   io.Writer
	Limit int
	Quiet bool
}

// Sink 异常报告输出。
type Sink struct {
	out       io.Writer
	limit     int
	quiet     bool
	anomalies []contract.Record
	counts    map[contract.Type]int
	total     int

	title, loc, msg, dim lipgloss.Style
}

var _ contract.Sink = (*Sink)(nil)

// New 构造报告；Out 为空时写 stderr。样式按 Out 的终端能力降级。
func New(opts Options) *Sink {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	r := lipgloss.NewRenderer(out)
	return &Sink{
		out:    out,
		limit:  opts.Limit,
		quiet:  opts.Quiet,
		counts: make(map[contract.Type]int),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFAA00")),
		loc:    r.NewStyle().Foreground(lipgloss.Color("#888888")),
		msg:    r.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// FromValues 由抽取后的字段构造。
func FromValues(v field.Values) (*Sink, error) {
	return New(Options{Limit: v.Int("limit"), Quiet: v.Bool("quiet")}), nil
}

// Accept 统计记录，缓存异常记录。
func (s *Sink) Accept(ctx context.Context, rec contract.Record) error {
	s.total++
	s.counts[rec.Type]++
	if rec.Attrs.Error != "" {
		s.anomalies = append(s.anomalies, rec.Clone())
	}
	return nil
}

// Finalize 输出报告。
func (s *Sink) Finalize(ctx context.Context) error {
	var b strings.Builder
	if !s.quiet && len(s.anomalies) > 0 {
		b.WriteString(s.title.Render(fmt.Sprintf("异常 %d 条", len(s.anomalies))))
		b.WriteByte('\n')
		for i, r := range s.anomalies {
			if s.limit > 0 && i >= s.limit {
				b.WriteString(s.dim.Render(fmt.Sprintf("… 另有 %d 条未列出", len(s.anomalies)-s.limit)))
				b.WriteByte('\n')
				break
			}
			fmt.Fprintf(&b, "%s %s %s\n", s.loc.Render(location(r)), describe(r), s.msg.Render(r.Attrs.Error))
		}
	}
	b.WriteString(s.summary())
	b.WriteByte('\n')
	_, err := io.WriteString(s.out, b.String())
	return err
}

func (s *Sink) summary() string {
	parts := []string{fmt.Sprintf("记录 %d", s.total)}
	for _, t := range contract.Types() {
		if n := s.counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", t, n))
		}
	}
	parts = append(parts, fmt.Sprintf("异常 %d", len(s.anomalies)))
	return s.dim.Render(strings.Join(parts, " | "))
}

func location(r contract.Record) string {
	switch {
	case r.Attrs.File != "" && r.Attrs.Line > 0:
		return fmt.Sprintf("%s:%d", r.Attrs.File, r.Attrs.Line)
	case r.Attrs.Line > 0:
		return fmt.Sprintf("line %d", r.Attrs.Line)
	case r.Attrs.File != "":
		return r.Attrs.File
	}
	return "-"
}

func describe(r contract.Record) string {
	if r.HasIndex {
		return fmt.Sprintf("%s#%d %s", r.Type, r.Index, r.Content)
	}
	return fmt.Sprintf("%s %s", r.Type, r.Content)
}
