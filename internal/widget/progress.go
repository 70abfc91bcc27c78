package widget

import "fmt"

const (
	progressFilled = "█"
	progressEmpty  = "░"
)

// ProgressBar shows "current / total" above a grid of one cell per unit.
// A zero Total means the total is unknown.
type ProgressBar struct {
	Current int
	Total   int
	Label   Style
	Filled  Style
	Empty   Style
}

func (p *ProgressBar) cells() int {
	if p.Total > 0 {
		return p.Total
	}
	return max(p.Current, 0)
}

func (p *ProgressBar) caption() string {
	if p.Total > 0 {
		return fmt.Sprintf("%d / %d", p.Current, p.Total)
	}
	return fmt.Sprintf("%d / ?", p.Current)
}

// Height is the caption row plus the wrapped grid.
func (p *ProgressBar) Height(width int) int {
	if width <= 0 {
		return 0
	}
	n := p.cells()
	return 1 + (n+width-1)/width
}

// Draw renders the caption and the grid.
func (p *ProgressBar) Draw(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	buf.SetString(area.X, area.Y, p.caption(), area.W, p.Label)
	n := p.cells()
	for i := 0; i < n; i++ {
		row := 1 + i/area.W
		if row >= area.H {
			return
		}
		glyph, style := progressEmpty, p.Empty
		if i < p.Current {
			glyph, style = progressFilled, p.Filled
		}
		buf.Set(area.X+i%area.W, area.Y+row, glyph, style)
	}
}
