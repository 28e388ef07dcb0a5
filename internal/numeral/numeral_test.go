package numeral

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDecimal 十进制串按字面解析。
func TestParseDecimal(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 42, 105, 1000, 2048} {
		got, err := Parse(strconv.Itoa(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
	got, err := Parse("１２")
	require.NoError(t, err)
	assert.Equal(t, 12, got)
}

// TestParseCompound 复合中文数字。
func TestParseCompound(t *testing.T) {
	cases := map[string]int{
		"一":    1,
		"九":    9,
		"十":    10,
		"十二":   12,
		"二十":   20,
		"廿":    20,
		"廿一":   21,
		"卅":    30,
		"卌五":   45,
		"二十一":  21,
		"九十九":  99,
		"一百":   100,
		"百":    100,
		"一百零五": 105,
		"一百二十": 120,
		"三百十":  310,
		"两千":   2000,
		"一千二百": 1200,
		"一千零一": 1001,
		"〇":    0,
		" 十三 ": 13,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

// TestParseSyntax 符号表以外的字符解析失败。
func TestParseSyntax(t *testing.T) {
	for _, in := range []string{"", "  ", "十a", "abc", "第一", "一万", "1.5"} {
		_, err := Parse(in)
		assert.True(t, errors.Is(err, ErrSyntax), "input %q", in)
	}
}

// TestFormatRoundTrip Format 的输出可被 Parse 还原。
func TestFormatRoundTrip(t *testing.T) {
	assert.Equal(t, "十一", Format(11))
	assert.Equal(t, "一百零五", Format(105))
	assert.Equal(t, "一千二百", Format(1200))
	assert.Equal(t, "二十", Format(20))
	assert.Equal(t, "-3", Format(-3))
	for n := 0; n <= 9999; n++ {
		got, err := Parse(Format(n))
		require.NoError(t, err, "n=%d %s", n, Format(n))
		require.Equal(t, n, got, "n=%d %s", n, Format(n))
	}
}
