package widget

import "fmt"

// FilterEvent asks the caller to toggle the filter at Index.
type FilterEvent struct {
	Index int
}

// FilterList is a column of checkbox rows.
type FilterList struct {
	Bounded
	names   []string
	checked []bool
	counts  []int
	Style   Style
	Count   Style
}

// NewFilterList returns rows for names; checked[i] marks row i enabled.
func NewFilterList(names []string, checked []bool) *FilterList {
	return &FilterList{names: names, checked: checked}
}

// WithCounts attaches a live count to each row.
func (f *FilterList) WithCounts(counts []int) *FilterList {
	f.counts = counts
	return f
}

// Height is one row per filter.
func (f *FilterList) Height(int) int { return len(f.names) }

// Draw renders the rows.
func (f *FilterList) Draw(area Rect, buf *Buffer) {
	for i, name := range f.names {
		if i >= area.H {
			return
		}
		box := "[ ] "
		if i < len(f.checked) && f.checked[i] {
			box = "[x] "
		}
		y := area.Y + i
		x := area.X
		x += buf.SetString(x, y, box, area.W, f.Style)
		x += buf.SetString(x, y, name, area.X+area.W-x, f.Style)
		if i < len(f.counts) {
			buf.SetString(x, y, fmt.Sprintf(" (%d)", f.counts[i]), area.X+area.W-x, f.Count)
		}
	}
}

// Intercept maps a primary click on a row to a toggle.
func (f *FilterList) Intercept(x, y int, btn Button) (FilterEvent, bool) {
	if btn != ButtonLeft || !f.bound.Contains(x, y) {
		return FilterEvent{}, false
	}
	row := y - f.bound.Y
	if row >= len(f.names) {
		return FilterEvent{}, false
	}
	return FilterEvent{Index: row}, true
}
