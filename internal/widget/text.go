package widget

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Run is a piece of text drawn with a single style.
type Run struct {
	Text  string
	Style Style
}

// Text is styled, wrapping text laid out by grapheme cluster.
type Text struct {
	runs []Run
}

// NewText returns unstyled text.
func NewText(s string) *Text {
	return &Text{runs: []Run{{Text: s}}}
}

// RawText returns text built from styled runs.
func RawText(runs ...Run) *Text {
	return &Text{runs: append([]Run(nil), runs...)}
}

// SetStyle patches style onto every run.
func (t *Text) SetStyle(style Style) *Text {
	for i := range t.runs {
		t.runs[i].Style = t.runs[i].Style.Patch(style)
	}
	return t
}

// Plain returns the concatenated run text.
func (t *Text) Plain() string {
	var sb strings.Builder
	for _, r := range t.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// OnelineMinWidth returns the width of the widest line when nothing wraps.
func (t *Text) OnelineMinWidth() int {
	widest, line := 0, 0
	for _, r := range t.runs {
		g := uniseg.NewGraphemes(r.Text)
		for g.Next() {
			cluster := g.Str()
			if isBreak(cluster) {
				widest = max(widest, line)
				line = 0
				continue
			}
			line += ClusterWidth(cluster)
		}
	}
	return max(widest, line)
}

// Height returns the number of rows the text occupies at width.
func (t *Text) Height(width int) int {
	if width <= 0 {
		return 0
	}
	return t.layout(width, nil) + 1
}

// Draw lays the text out inside area. Rows past the bottom of area are
// dropped.
func (t *Text) Draw(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	t.layout(area.W, func(dx, dy int, cluster string, w int, style Style) bool {
		if dy >= area.H {
			return false
		}
		if w <= area.W {
			buf.SetCluster(area.X+dx, area.Y+dy, cluster, w, style)
		}
		return true
	})
}

type emitFunc func(dx, dy int, cluster string, w int, style Style) bool

// layout walks every cluster and returns the final row index. emit may be
// nil; a false return from emit stops the walk.
func (t *Text) layout(width int, emit emitFunc) int {
	dx, dy := 0, 0
	afterBreak := false
	for _, r := range t.runs {
		g := uniseg.NewGraphemes(r.Text)
		for g.Next() {
			cluster := g.Str()
			if isBreak(cluster) {
				n := countBreaks(cluster)
				if dx == 0 && afterBreak {
					n--
				}
				dy += n
				dx = 0
				afterBreak = true
				continue
			}
			w := ClusterWidth(cluster)
			if w == 0 {
				continue
			}
			afterBreak = false
			if dx > 0 && dx+w > width {
				dx = 0
				dy++
			}
			if emit != nil && !emit(dx, dy, cluster, w, r.Style) {
				return dy
			}
			dx += w
		}
	}
	return dy
}

func countBreaks(cluster string) int {
	if cluster == "\r\n" {
		return 1
	}
	return strings.Count(cluster, "\n") + strings.Count(cluster, "\r")
}
