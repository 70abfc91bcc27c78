// Package widget is the cell-level layout engine behind bgmtty's screens.
//
// # Overview
//
// Widgets draw into a Buffer, a grid of one Cell per terminal column. The
// model UI builds a fresh widget tree on every paint, draws it into a
// Buffer sized to the terminal and hands Buffer.Render to bubbletea.
//
// # Capabilities
//
// Every widget is built from three independent capabilities:
//
//   - Measurable: Height(width) for the rows needed at a width
//   - Renderable: Draw(area, buf) into a sub-rectangle of a buffer
//   - Interceptable: Intercept(x, y, button) maps a pointer event inside the
//     widget's last bound to a typed event (ScrollEvent, TabEvent, ...)
//
// Widgets record the rectangle they were last drawn into with SetBound so
// that a pointer event can be routed after the paint that produced the
// layout. Route performs the bound check before delegating.
//
// # Text layout
//
// Text walks grapheme clusters (github.com/rivo/uniseg) and measures them
// with github.com/mattn/go-runewidth: East Asian wide glyphs take two
// columns, the trailing one holding an empty continuation Cell. Line breaks
// move to the next row without consuming a column, and a second break at
// column zero is folded into the first. Height and Draw share the same walk,
// so the measured height always matches the rows drawn.
//
// # Scrolling
//
// Scroll stacks heterogeneous children vertically. Each child is drawn into
// its own off-screen buffer and only the visible rows are copied out. When
// the content overflows, the rightmost column holds a scrollbar:
//
//	│ child 0      |
//	│ child 0      =   thumb (two rows)
//	│ child 1      =
//	│ child 1      |
//
// SetBound clamps the offset so no trailing blank rows are exposed, and
// ScrollIntoView keeps a child fully visible whenever it fits.
package widget
