package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Rect is a rectangle of terminal cells. X and Y are absolute screen
// coordinates unless a buffer was created with a local origin.
type Rect struct {
	X, Y int
	W, H int
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Empty reports whether the rectangle has no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// PadH shrinks the rectangle by p columns on both horizontal sides.
func (r Rect) PadH(p int) Rect {
	return Rect{X: r.X + p, Y: r.Y, W: max(r.W-2*p, 0), H: r.H}
}

// PadLeft shrinks the rectangle by p columns on the left.
func (r Rect) PadLeft(p int) Rect {
	return Rect{X: r.X + p, Y: r.Y, W: max(r.W-p, 0), H: r.H}
}

// SplitTop returns the first n rows and the remainder.
func (r Rect) SplitTop(n int) (Rect, Rect) {
	n = min(max(n, 0), r.H)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: n}, Rect{X: r.X, Y: r.Y + n, W: r.W, H: r.H - n}
}

// SplitBottom returns the remainder and the last n rows.
func (r Rect) SplitBottom(n int) (Rect, Rect) {
	n = min(max(n, 0), r.H)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H - n}, Rect{X: r.X, Y: r.Y + r.H - n, W: r.W, H: n}
}

// SplitLeft returns the first n columns and the remainder.
func (r Rect) SplitLeft(n int) (Rect, Rect) {
	n = min(max(n, 0), r.W)
	return Rect{X: r.X, Y: r.Y, W: n, H: r.H}, Rect{X: r.X + n, Y: r.Y, W: r.W - n, H: r.H}
}

// Style is the visual attribute set of a cell. Colors are lipgloss color
// strings (ANSI index or hex); the empty string keeps the terminal default.
type Style struct {
	Fg   string
	Bg   string
	Bold bool
}

// Patch overlays the non-zero fields of o onto s.
func (s Style) Patch(o Style) Style {
	if o.Fg != "" {
		s.Fg = o.Fg
	}
	if o.Bg != "" {
		s.Bg = o.Bg
	}
	if o.Bold {
		s.Bold = true
	}
	return s
}

func (s Style) lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Fg != "" {
		st = st.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		st = st.Background(lipgloss.Color(s.Bg))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	return st
}

// Cell is one terminal column. An empty Symbol marks the trailing column of
// a wide glyph drawn in the cell to its left.
type Cell struct {
	Symbol string
	Style  Style
}

func blank() Cell { return Cell{Symbol: " "} }

// widthCond measures East Asian wide glyphs as two columns and ambiguous
// ones as a single column, so box drawing and block glyphs stay narrow.
var widthCond = &runewidth.Condition{EastAsianWidth: false}

// ClusterWidth returns the display width of a single grapheme cluster.
func ClusterWidth(cluster string) int {
	return widthCond.StringWidth(cluster)
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		width += ClusterWidth(g.Str())
	}
	return width
}

// Buffer is a rectangular grid of cells addressed by absolute coordinates.
type Buffer struct {
	area  Rect
	cells []Cell
}

// NewBuffer returns a buffer covering area, filled with blanks.
func NewBuffer(area Rect) *Buffer {
	b := &Buffer{}
	b.Resize(area)
	return b
}

// Resize reallocates the buffer for area and clears it.
func (b *Buffer) Resize(area Rect) {
	area.W = max(area.W, 0)
	area.H = max(area.H, 0)
	b.area = area
	b.cells = make([]Cell, area.W*area.H)
	b.Clear()
}

// Clear resets every cell to a blank.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = blank()
	}
}

// Area returns the rectangle covered by the buffer.
func (b *Buffer) Area() Rect {
	return b.area
}

// Size returns the buffer width and height.
func (b *Buffer) Size() (int, int) {
	return b.area.W, b.area.H
}

// Cell returns the cell at (x, y), or nil when outside the buffer.
func (b *Buffer) Cell(x, y int) *Cell {
	if !b.area.Contains(x, y) {
		return nil
	}
	return &b.cells[(y-b.area.Y)*b.area.W+(x-b.area.X)]
}

// Set writes a single-column symbol at (x, y).
func (b *Buffer) Set(x, y int, symbol string, style Style) {
	b.SetCluster(x, y, symbol, 1, style)
}

// SetCluster writes a grapheme cluster occupying width columns at (x, y).
// The trailing columns become continuation cells. A cluster that does not
// fit horizontally is not written.
func (b *Buffer) SetCluster(x, y int, cluster string, width int, style Style) {
	width = max(width, 1)
	if !b.area.Contains(x, y) || !b.area.Contains(x+width-1, y) {
		return
	}
	for i := 0; i < width; i++ {
		b.release(x+i, y)
	}
	b.Cell(x, y).Symbol = cluster
	b.Cell(x, y).Style = style
	for i := 1; i < width; i++ {
		c := b.Cell(x+i, y)
		c.Symbol = ""
		c.Style = style
	}
}

// release blanks any wide glyph partially covered by a write at (x, y).
func (b *Buffer) release(x, y int) {
	c := b.Cell(x, y)
	if c == nil {
		return
	}
	if c.Symbol == "" {
		for lx := x - 1; lx >= b.area.X; lx-- {
			lead := b.Cell(lx, y)
			if lead.Symbol != "" {
				lead.Symbol = " "
				break
			}
			lead.Symbol = " "
		}
	}
	for rx := x + 1; rx < b.area.X+b.area.W; rx++ {
		next := b.Cell(rx, y)
		if next.Symbol != "" {
			break
		}
		next.Symbol = " "
	}
}

// SetString writes s starting at (x, y) without wrapping and returns the
// number of columns written. Writing stops at maxWidth columns or at the
// buffer edge, whichever comes first.
func (b *Buffer) SetString(x, y int, s string, maxWidth int, style Style) int {
	limit := b.area.X + b.area.W - x
	if maxWidth >= 0 {
		limit = min(limit, maxWidth)
	}
	written := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := ClusterWidth(cluster)
		if w == 0 || isBreak(cluster) {
			continue
		}
		if written+w > limit {
			break
		}
		b.SetCluster(x+written, y, cluster, w, style)
		written += w
	}
	return written
}

// Blit copies the rows [fromRow, fromRow+rows) of src to (x, y) in b.
func (b *Buffer) Blit(src *Buffer, fromRow, rows, x, y int) {
	for iy := 0; iy < rows; iy++ {
		sy := src.area.Y + fromRow + iy
		for ix := 0; ix < src.area.W; ix++ {
			c := src.Cell(src.area.X+ix, sy)
			dst := b.Cell(x+ix, y+iy)
			if c == nil || dst == nil {
				continue
			}
			*dst = *c
		}
	}
}

// String returns the plain text content, one line per row.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.area.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.area.W; x++ {
			sb.WriteString(b.cells[y*b.area.W+x].Symbol)
		}
	}
	return sb.String()
}

// Render returns the buffer as styled terminal output. Runs of cells
// sharing a style are rendered together.
func (b *Buffer) Render() string {
	styles := make(map[Style]lipgloss.Style)
	render := func(st Style, text string) string {
		if st == (Style{}) {
			return text
		}
		ls, ok := styles[st]
		if !ok {
			ls = st.lipgloss()
			styles[st] = ls
		}
		return ls.Render(text)
	}

	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < b.area.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		run.Reset()
		var current Style
		for x := 0; x < b.area.W; x++ {
			c := b.cells[y*b.area.W+x]
			if c.Symbol == "" {
				continue
			}
			if c.Style != current && run.Len() > 0 {
				sb.WriteString(render(current, run.String()))
				run.Reset()
			}
			current = c.Style
			run.WriteString(c.Symbol)
		}
		if run.Len() > 0 {
			sb.WriteString(render(current, run.String()))
		}
	}
	return sb.String()
}

func isBreak(cluster string) bool {
	return strings.ContainsAny(cluster, "\r\n")
}
