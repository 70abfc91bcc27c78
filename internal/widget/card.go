package widget

import "fmt"

// CardEvent is reported for any click on an EntryCard.
type CardEvent struct{}

// EntryCard summarises one subject inside a bordered frame.
type EntryCard struct {
	Bounded
	Kind     string
	ID       int
	Name     string
	NameCN   string
	Progress *ProgressBar
	Selected bool

	Border   Style
	Focus    Style
	Header   Style
	Title    Style
	Subtitle Style
}

func (c *EntryCard) header() *Text {
	return NewText(fmt.Sprintf("%s #%d", c.Kind, c.ID)).SetStyle(c.Header)
}

func (c *EntryCard) parts() []Widget {
	parts := []Widget{c.header(), NewText(c.Name).SetStyle(c.Title)}
	if c.NameCN != "" && c.NameCN != c.Name {
		parts = append(parts, NewText(c.NameCN).SetStyle(c.Subtitle))
	}
	if c.Progress != nil {
		parts = append(parts, c.Progress)
	}
	return parts
}

// Height is the border plus the stacked header, titles and progress.
func (c *EntryCard) Height(width int) int {
	inner := width - 2
	h := 2
	for _, p := range c.parts() {
		h += p.Height(inner)
	}
	return h
}

// Draw renders the frame and its contents.
func (c *EntryCard) Draw(area Rect, buf *Buffer) {
	border := c.Border
	if c.Selected {
		border = border.Patch(c.Focus)
	}
	block := Block{Borders: BorderAll, Style: border}
	block.Draw(area, buf)
	inner := block.Inner(area)
	y := inner.Y
	for _, p := range c.parts() {
		h := p.Height(inner.W)
		if y+h > inner.Y+inner.H {
			h = inner.Y + inner.H - y
		}
		if h <= 0 {
			return
		}
		p.Draw(Rect{X: inner.X, Y: y, W: inner.W, H: h}, buf)
		y += h
	}
}

// Intercept always reports a click; selection is up to the caller.
func (c *EntryCard) Intercept(int, int, Button) (CardEvent, bool) {
	return CardEvent{}, true
}
