package widget

import (
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"
)

// TabAction is the kind of a TabEvent.
type TabAction int

const (
	TabSelect TabAction = iota + 1
	TabClose
	TabScrollLeft
	TabScrollRight
)

// TabEvent is the result of intercepting a pointer event on a TabBar.
type TabEvent struct {
	Action TabAction
	Index  int
}

const (
	tabGap        = 2
	maxLabelWidth = 24
)

// TabBar lays tab labels out on one row and scrolls horizontally when they
// do not fit.
type TabBar struct {
	Bounded
	labels    []string
	widths    []int
	selected  int
	offset    int
	Normal    Style
	Highlight Style
}

// NewTabBar returns a bar with the given labels, selection and offset.
// Long labels are truncated.
func NewTabBar(labels []string, selected, offset int) *TabBar {
	t := &TabBar{selected: selected, offset: max(offset, 0), Highlight: Style{Bold: true}}
	for _, l := range labels {
		l = truncate.StringWithTail(l, maxLabelWidth, "…")
		t.labels = append(t.labels, l)
		t.widths = append(t.widths, StringWidth(l))
	}
	return t
}

// Offset returns the horizontal scroll offset.
func (t *TabBar) Offset() int { return t.offset }

// Height is always a single row.
func (t *TabBar) Height(int) int { return 1 }

// span returns the [start, end) columns of label i before scrolling.
func (t *TabBar) span(i int) (int, int) {
	start := 0
	for j := 0; j < i; j++ {
		start += t.widths[j] + tabGap
	}
	return start, start + t.widths[i]
}

// InnerWidth returns the width of all labels and gaps.
func (t *TabBar) InnerWidth() int {
	if len(t.labels) == 0 {
		return 0
	}
	_, end := t.span(len(t.labels) - 1)
	return end
}

// SetBound records the rectangle and clamps the horizontal offset.
func (t *TabBar) SetBound(area Rect) {
	t.Bounded.SetBound(area)
	inner := t.InnerWidth()
	if inner <= area.W {
		t.offset = 0
	} else if inner <= area.W+t.offset {
		t.offset = inner - area.W
	}
}

// ScrollBy moves the offset by delta columns within the valid range.
func (t *TabBar) ScrollBy(delta int) {
	t.offset = min(max(t.offset+delta, 0), max(t.InnerWidth()-t.bound.W, 0))
}

// ScrollIntoView makes label i fully visible.
func (t *TabBar) ScrollIntoView(i int) {
	if i < 0 || i >= len(t.labels) {
		return
	}
	start, end := t.span(i)
	switch {
	case start < t.offset:
		t.offset = start
	case end > t.offset+t.bound.W:
		t.offset = max(end-t.bound.W, 0)
		if end-start > t.bound.W {
			t.offset = start
		}
	}
}

// Draw renders the visible labels.
func (t *TabBar) Draw(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	for i, label := range t.labels {
		start, end := t.span(i)
		if end <= t.offset || start-t.offset >= area.W {
			continue
		}
		style := t.Normal
		if i == t.selected {
			style = style.Patch(t.Highlight)
		}
		x := start - t.offset
		if x < 0 {
			label = dropColumns(label, -x)
			x = 0
		}
		buf.SetString(area.X+x, area.Y, label, area.W-x, style)
	}
}

// Intercept maps clicks to the label under the pointer.
func (t *TabBar) Intercept(x, y int, btn Button) (TabEvent, bool) {
	if !t.bound.Contains(x, y) {
		return TabEvent{}, false
	}
	switch btn {
	case WheelUp, WheelLeft:
		return TabEvent{Action: TabScrollLeft}, true
	case WheelDown, WheelRight:
		return TabEvent{Action: TabScrollRight}, true
	}
	col := x - t.bound.X + t.offset
	for i := range t.labels {
		start, end := t.span(i)
		if col < start || col >= end {
			continue
		}
		switch btn {
		case ButtonLeft:
			return TabEvent{Action: TabSelect, Index: i}, true
		case ButtonMiddle:
			return TabEvent{Action: TabClose, Index: i}, true
		}
	}
	return TabEvent{}, false
}

// dropColumns removes the leading n columns of s, padding with spaces when
// a wide glyph is split.
func dropColumns(s string, n int) string {
	var sb strings.Builder
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := ClusterWidth(cluster)
		switch {
		case col >= n:
			sb.WriteString(cluster)
		case col+w > n:
			sb.WriteString(strings.Repeat(" ", col+w-n))
		}
		col += w
	}
	return sb.String()
}
