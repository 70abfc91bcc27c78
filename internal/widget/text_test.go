package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawText(t *testing.T, text *Text, w, h int) *Buffer {
	t.Helper()
	buf := NewBuffer(Rect{W: w, H: h})
	text.Draw(buf.Area(), buf)
	return buf
}

func rowsOf(buf *Buffer) []string {
	return strings.Split(buf.String(), "\n")
}

func TestTextHeight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  int
	}{
		{"empty", "", 10, 1},
		{"fits", "abc", 3, 1},
		{"wraps", "abcdef", 3, 2},
		{"wide glyphs", "你好世界", 4, 2},
		{"wide glyph never split", "你好世界", 3, 4},
		{"newline", "a\nb", 10, 2},
		{"crlf is one break", "a\r\nb", 10, 2},
		{"double break collapses", "a\n\nb", 10, 2},
		{"leading break", "\nb", 10, 2},
		{"zero width", "abc", 0, 0},
		{"negative width", "abc", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewText(tt.text).Height(tt.width))
		})
	}
}

func TestTextDrawWideGlyphContinuation(t *testing.T) {
	buf := drawText(t, NewText("你a"), 4, 1)

	require.Equal(t, "你", buf.Cell(0, 0).Symbol)
	assert.Equal(t, "", buf.Cell(1, 0).Symbol)
	assert.Equal(t, "a", buf.Cell(2, 0).Symbol)
	assert.Equal(t, " ", buf.Cell(3, 0).Symbol)
}

func TestTextDrawWraps(t *testing.T) {
	buf := drawText(t, NewText("你好世界"), 5, 2)

	rows := rowsOf(buf)
	assert.Equal(t, "你好 ", rows[0])
	assert.Equal(t, "世界 ", rows[1])
}

func TestTextDrawStopsAtAreaHeight(t *testing.T) {
	text := NewText("abcdefghi")
	require.Equal(t, 3, text.Height(3))

	buf := NewBuffer(Rect{W: 3, H: 3})
	text.Draw(Rect{W: 3, H: 2}, buf)

	rows := rowsOf(buf)
	assert.Equal(t, []string{"abc", "def", "   "}, rows)
}

func TestTextDrawZeroArea(t *testing.T) {
	buf := NewBuffer(Rect{W: 3, H: 1})
	assert.NotPanics(t, func() {
		NewText("abc").Draw(Rect{W: 0, H: 1}, buf)
		NewText("abc").Draw(Rect{W: 3, H: 0}, buf)
	})
	assert.Equal(t, "   ", buf.String())
}

func TestTextHeightMatchesDrawnRows(t *testing.T) {
	samples := []string{
		"abcdefghijklmnop",
		"你好世界abcdefg一二三四五",
		"bgm.tv番组计划",
		"line one\nline two\r\nthree",
		"混合width文字とカタカナ",
	}
	for _, s := range samples {
		for width := 1; width <= 12; width++ {
			text := NewText(s)
			h := text.Height(width)
			buf := drawText(t, text, width, h+3)

			lastRow := -1
			for i, row := range rowsOf(buf) {
				if strings.TrimSpace(row) != "" {
					lastRow = i
				}
			}
			if width == 1 && strings.ContainsAny(s, "你好世界混合文字とカタカナ番组计划一二三四五") {
				// wide glyphs cannot be drawn into a single column
				continue
			}
			assert.Equal(t, h, lastRow+1, "text %q at width %d", s, width)
		}
	}
}

func TestTextRunsKeepStyles(t *testing.T) {
	label := Style{Fg: "4"}
	text := RawText(Run{Text: "评分: ", Style: label}, Run{Text: "8"})
	buf := drawText(t, text, 10, 1)

	assert.Equal(t, label, buf.Cell(0, 0).Style)
	assert.Equal(t, Style{}, buf.Cell(6, 0).Style)
	assert.Equal(t, "8", buf.Cell(6, 0).Symbol)
}

func TestTextSetStylePatchesRuns(t *testing.T) {
	text := RawText(Run{Text: "a", Style: Style{Fg: "4"}}, Run{Text: "b"})
	text.SetStyle(Style{Bold: true})

	buf := drawText(t, text, 2, 1)
	assert.Equal(t, Style{Fg: "4", Bold: true}, buf.Cell(0, 0).Style)
	assert.Equal(t, Style{Bold: true}, buf.Cell(1, 0).Style)
}

func TestTextOnelineMinWidth(t *testing.T) {
	assert.Equal(t, 0, NewText("").OnelineMinWidth())
	assert.Equal(t, 5, NewText("hello").OnelineMinWidth())
	assert.Equal(t, 6, NewText("ab\n你好好").OnelineMinWidth())
	assert.Equal(t, "ab\n你好好", NewText("ab\n你好好").Plain())
}
