package field

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown 将字段契约渲染为 Markdown 表格（参考文档）。
// 嵌套组以 parent.child 形式展开。
func WriteMarkdown(w io.Writer, title, description string, fields []Field) error {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", title)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}
	if len(fields) == 0 {
		b.WriteString("_no fields_\n\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("| field | type | required | default | values | description |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	writeRows(&b, "", fields)
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRows(b *strings.Builder, prefix string, fields []Field) {
	for _, f := range fields {
		req := ""
		if f.Required {
			req = "yes"
		}
		def := ""
		if f.Default != nil {
			def = "`" + fmt.Sprint(f.Default) + "`"
		}
		fmt.Fprintf(b, "| `%s%s` | %s | %s | %s | %s | %s |\n",
			prefix, f.Name, f.Kind, req, def, strings.Join(f.Enum, ", "), escape(f.Description))
		if f.Kind == Group {
			writeRows(b, prefix+f.Name+".", f.Fields)
		}
	}
}

func escape(s string) string { return strings.ReplaceAll(s, "|", "\\|") }
