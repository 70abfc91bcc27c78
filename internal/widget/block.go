package widget

// Borders selects which edges of a Block are drawn.
type Borders uint8

const (
	BorderTop Borders = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft

	BorderNone Borders = 0
	BorderAll          = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// Line drawing glyphs.
const (
	LineHorizontal     = "─"
	LineVertical       = "│"
	LineTopLeft        = "┌"
	LineTopRight       = "┐"
	LineBottomLeft     = "└"
	LineBottomRight    = "┘"
	LineVerticalRight  = "├"
	LineVerticalLeft   = "┤"
	LineHorizontalDown = "┬"
	LineHorizontalUp   = "┴"
)

// Block is a bordered frame with an optional title on the top edge.
type Block struct {
	Borders    Borders
	Title      string
	Style      Style
	TitleStyle Style
}

// Inner returns the area left inside the borders.
func (b Block) Inner(area Rect) Rect {
	inner := area
	if b.Borders&BorderLeft != 0 && inner.W > 0 {
		inner.X++
		inner.W--
	}
	if b.Borders&BorderTop != 0 && inner.H > 0 {
		inner.Y++
		inner.H--
	}
	if b.Borders&BorderRight != 0 && inner.W > 0 {
		inner.W--
	}
	if b.Borders&BorderBottom != 0 && inner.H > 0 {
		inner.H--
	}
	return inner
}

// Draw paints the borders and title.
func (b Block) Draw(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	right := area.X + area.W - 1
	bottom := area.Y + area.H - 1

	if b.Borders&BorderTop != 0 {
		for x := area.X; x <= right; x++ {
			buf.Set(x, area.Y, LineHorizontal, b.Style)
		}
	}
	if b.Borders&BorderBottom != 0 {
		for x := area.X; x <= right; x++ {
			buf.Set(x, bottom, LineHorizontal, b.Style)
		}
	}
	if b.Borders&BorderLeft != 0 {
		for y := area.Y; y <= bottom; y++ {
			buf.Set(area.X, y, LineVertical, b.Style)
		}
	}
	if b.Borders&BorderRight != 0 {
		for y := area.Y; y <= bottom; y++ {
			buf.Set(right, y, LineVertical, b.Style)
		}
	}

	corner := func(mask Borders, x, y int, glyph string) {
		if b.Borders&mask == mask {
			buf.Set(x, y, glyph, b.Style)
		}
	}
	corner(BorderTop|BorderLeft, area.X, area.Y, LineTopLeft)
	corner(BorderTop|BorderRight, right, area.Y, LineTopRight)
	corner(BorderBottom|BorderLeft, area.X, bottom, LineBottomLeft)
	corner(BorderBottom|BorderRight, right, bottom, LineBottomRight)

	if b.Title != "" && b.Borders&BorderTop != 0 && area.W > 2 {
		x := area.X
		if b.Borders&BorderLeft != 0 {
			x++
		}
		buf.SetString(x, area.Y, b.Title, area.W-2, b.Style.Patch(b.TitleStyle))
	}
}
