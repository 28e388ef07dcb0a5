package listing

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"bookstruct/pkg/contract"
)

// 目录层级：0 书名，1 卷，2 章。
var tocLevels = []contract.Type{contract.BookTitle, contract.VolumeTitle, contract.ChapterTitle}

var tocIndex = regexp.MustCompile(`^(~?)(\d+)\. (.*)$`)

// tocSep 分隔原始行与抽取内容。
const tocSep = "\t"

// TOCText 返回标题在目录中的文本：原始行优先，否则为内容。
// 原始行与内容不同时追加 "\t<内容>"，读回时两者都能还原。
func TOCText(r contract.Record) string {
	content := strings.TrimSpace(r.Content)
	raw := strings.TrimSpace(r.Attrs.Raw)
	switch {
	case content == "":
		return raw
	case raw == "" || raw == content || strings.Contains(raw, tocSep):
		return content
	}
	return raw + tocSep + content
}

// WriteTOC 按层级缩进写出标题记录；非标题记录被忽略。
// 普通序号前缀为 "<n>. "，特殊序号为 "~<n>. "（n 为序号绝对值）。
func WriteTOC(w io.Writer, recs []contract.Record, indent int) error {
	if indent <= 0 {
		indent = 2
	}
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		lvl := tocLevel(r.Type)
		if lvl < 0 {
			continue
		}
		bw.WriteString(strings.Repeat(" ", lvl*indent))
		if r.HasIndex {
			if r.Index < 0 {
				fmt.Fprintf(bw, "~%d. ", -r.Index)
			} else {
				fmt.Fprintf(bw, "%d. ", r.Index)
			}
		}
		bw.WriteString(TOCText(r))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadTOC 读回目录；"<原始行>\t<内容>" 分别还原为 raw 与 content，
// 无分隔符时文本同时作为两者，供参照匹配按原始行比较。
func ReadTOC(r io.Reader, indent int) ([]contract.Record, error) {
	if indent <= 0 {
		indent = 2
	}
	var out []contract.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if n == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		text := strings.TrimLeft(line, " ")
		spaces := len(line) - len(text)
		if spaces%indent != 0 || spaces/indent >= len(tocLevels) {
			return nil, fmt.Errorf("%w: line %d: bad indentation %d", contract.ErrReferenceInvalid, n, spaces)
		}
		rec := contract.Record{Type: tocLevels[spaces/indent]}
		if m := tocIndex.FindStringSubmatch(text); m != nil {
			v, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: index %q", contract.ErrReferenceInvalid, n, m[2])
			}
			if m[1] == "~" {
				v = -v
			}
			rec.Index, rec.HasIndex = v, true
			text = m[3]
		}
		raw, content, ok := strings.Cut(text, tocSep)
		raw = strings.TrimSpace(raw)
		rec.Content, rec.Attrs.Raw = raw, raw
		if c := strings.TrimSpace(content); ok && c != "" {
			rec.Content = c
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read toc: %w", err)
	}
	return out, nil
}

func tocLevel(t contract.Type) int {
	for i, x := range tocLevels {
		if x == t {
			return i
		}
	}
	return -1
}
