// Package numeral 解析章节序号中的数字：先按十进制整数解析，
// 失败时按中文位值记数法（一二三…十百千，含 廿/卅/卌 简写）解析。
package numeral

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax: 含有符号表以外的字符，或为空串。
var ErrSyntax = errors.New("numeral: invalid syntax")

// 数字符号（值 0..9）。
var digits = map[rune]int{
	'〇': 0, '零': 0,
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// 单位符号（量级 >= 10）。
var units = map[rune]int{
	'十': 10, '廿': 20, '卅': 30, '卌': 40,
	'百': 100, '千': 1000,
}

// Parse 将短数字串解析为整数。
//
// 位值扫描：value 为累计值，digit 为待乘系数（初始 1）。
// 遇单位符号时 value += digit*单位，并将 digit 复位为 1；
// 遇数字符号时若为末字符则直接累加，否则作为下一个单位的系数。
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrSyntax
	}
	if n, err := strconv.Atoi(halfWidth(s)); err == nil {
		return n, nil
	}
	rs := []rune(s)
	value, digit := 0, 1
	for i, r := range rs {
		if u, ok := units[r]; ok {
			value += digit * u
			digit = 1
			continue
		}
		d, ok := digits[r]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		if i == len(rs)-1 {
			value += d
		} else {
			digit = d
		}
	}
	return value, nil
}

// halfWidth 将全角数字归一为 ASCII 数字。
func halfWidth(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, s)
}

var digitNames = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// Format 将 0..9999 的整数渲染为中文数字（十一、一百零五、一千二百）；
// 超出范围或负数按十进制输出。
func Format(n int) string {
	if n < 0 || n > 9999 {
		return strconv.Itoa(n)
	}
	if n < 10 {
		return digitNames[n]
	}
	if n < 20 {
		// 十、十一…十九 省略“一”
		if n == 10 {
			return "十"
		}
		return "十" + digitNames[n-10]
	}
	type place struct {
		v    int
		name string
	}
	places := []place{{1000, "千"}, {100, "百"}, {10, "十"}, {1, ""}}
	var b strings.Builder
	zero := false
	started := false
	for _, p := range places {
		d := n / p.v % 10
		if d == 0 {
			if started {
				zero = true
			}
			continue
		}
		if zero {
			b.WriteString("零")
			zero = false
		}
		b.WriteString(digitNames[d])
		b.WriteString(p.name)
		started = true
	}
	return b.String()
}
