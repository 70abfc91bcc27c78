package widget

// ScrollAction is the kind of a ScrollEvent.
type ScrollAction int

const (
	ScrollUp ScrollAction = iota + 1
	ScrollDown
	ScrollTo
	ScrollSub
)

// ScrollEvent is the result of intercepting a pointer event on a Scroll.
// Offset is set for ScrollTo, Index for ScrollSub.
type ScrollEvent struct {
	Action ScrollAction
	Offset int
	Index  int
}

const (
	thumbHeight  = 2
	scrollTrack  = "|"
	scrollThumb  = "="
	scrollbarCol = 1
)

// Scroll is a vertically scrolling list of widgets with a scrollbar drawn
// in the rightmost column whenever the content overflows.
type Scroll struct {
	children []Widget
	offset   int
	bound    Rect
}

// NewScroll returns an empty container starting at offset.
func NewScroll(offset int) *Scroll {
	return &Scroll{offset: max(offset, 0)}
}

// Push appends a child below the existing ones.
func (s *Scroll) Push(children ...Widget) {
	s.children = append(s.children, children...)
}

// Len returns the number of children.
func (s *Scroll) Len() int { return len(s.children) }

// Offset returns the current scroll offset.
func (s *Scroll) Offset() int { return s.offset }

// Bound returns the rectangle recorded by SetBound.
func (s *Scroll) Bound() Rect { return s.bound }

// InnerHeight returns the summed height of all children at width.
func (s *Scroll) InnerHeight(width int) int {
	total := 0
	for _, c := range s.children {
		total += c.Height(width)
	}
	return total
}

// contentWidth returns the width available to children inside area.
func (s *Scroll) contentWidth(area Rect) int {
	if area.W > scrollbarCol && s.InnerHeight(area.W) > area.H {
		return area.W - scrollbarCol
	}
	return area.W
}

// maxOffset returns the largest offset that leaves no trailing blank rows.
func (s *Scroll) maxOffset(area Rect) int {
	return max(s.InnerHeight(s.contentWidth(area))-area.H, 0)
}

func (s *Scroll) overflows(area Rect) bool {
	return s.contentWidth(area) < area.W
}

// SetBound records the drawing rectangle and clamps the offset to it.
func (s *Scroll) SetBound(area Rect) {
	s.bound = area
	inner := s.InnerHeight(s.contentWidth(area))
	if inner <= area.H {
		s.offset = 0
	} else if inner <= area.H+s.offset {
		s.offset = inner - area.H
	}
}

// Draw renders the visible slice of the children and the scrollbar.
func (s *Scroll) Draw(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	width := s.contentWidth(area)
	if width <= 0 {
		return
	}
	offset := min(s.offset, s.maxOffset(area))

	dy := 0
	for _, child := range s.children {
		h := child.Height(width)
		if h <= 0 {
			continue
		}
		if dy+h > offset && dy-offset < area.H {
			sub := NewBuffer(Rect{W: width, H: h})
			child.Draw(sub.Area(), sub)

			from := max(offset-dy, 0)
			top := max(dy-offset, 0)
			rows := min(h-from, area.H-top)
			buf.Blit(sub, from, rows, area.X, area.Y+top)
		}
		dy += h
		if dy-offset >= area.H {
			break
		}
	}

	if s.overflows(area) {
		s.drawScrollbar(area, buf, offset)
	}
}

func (s *Scroll) drawScrollbar(area Rect, buf *Buffer, offset int) {
	x := area.X + area.W - 1
	pos := thumbPosition(offset, s.maxOffset(area), area.H)
	for y := 0; y < area.H; y++ {
		glyph := scrollTrack
		if y >= pos && y < pos+thumbHeight {
			glyph = scrollThumb
		}
		buf.Set(x, area.Y+y, glyph, Style{})
	}
}

// thumbPosition maps offset in [0, maxOffset] to a thumb row in
// [0, height-thumbHeight]. The thumb sits at the top only at offset 0 and at
// the bottom only at maxOffset.
func thumbPosition(offset, maxOffset, height int) int {
	vacant := max(height-thumbHeight, 0)
	switch {
	case offset <= 0 || maxOffset <= 0:
		return 0
	case offset >= maxOffset:
		return vacant
	default:
		return min((offset-1)*vacant/maxOffset+1, vacant)
	}
}

// Intercept maps a pointer event inside the bound.
func (s *Scroll) Intercept(x, y int, btn Button) (ScrollEvent, bool) {
	area := s.bound
	if !area.Contains(x, y) {
		return ScrollEvent{}, false
	}
	switch btn {
	case WheelUp:
		return ScrollEvent{Action: ScrollUp}, true
	case WheelDown:
		return ScrollEvent{Action: ScrollDown}, true
	case WheelLeft, WheelRight:
		return ScrollEvent{}, false
	}
	localY := y - area.Y

	if s.overflows(area) && x == area.X+area.W-1 {
		maxOffset := s.maxOffset(area)
		vacant := max(area.H-thumbHeight, 1)
		target := min(localY*maxOffset/vacant, maxOffset)
		return ScrollEvent{Action: ScrollTo, Offset: target}, true
	}

	width := s.contentWidth(area)
	row := localY + s.offset
	acc := 0
	for i, child := range s.children {
		acc += child.Height(width)
		if row < acc {
			return ScrollEvent{Action: ScrollSub, Index: i}, true
		}
	}
	return ScrollEvent{}, false
}

// ChildBound returns the on-screen rectangle of child i as currently laid
// out, clipped to the bound. ok is false when the child is not visible.
func (s *Scroll) ChildBound(i int) (Rect, bool) {
	if i < 0 || i >= len(s.children) {
		return Rect{}, false
	}
	area := s.bound
	width := s.contentWidth(area)
	start := 0
	for j := 0; j < i; j++ {
		start += s.children[j].Height(width)
	}
	h := s.children[i].Height(width)
	top := max(start-s.offset, 0)
	bottom := min(start+h-s.offset, area.H)
	if bottom <= top {
		return Rect{}, false
	}
	return Rect{X: area.X, Y: area.Y + top, W: width, H: bottom - top}, true
}

// ScrollIntoView adjusts the offset so child i is fully visible when it
// fits in the viewport, or top aligned when it does not.
func (s *Scroll) ScrollIntoView(i int) {
	if i < 0 || i >= len(s.children) {
		return
	}
	width := s.contentWidth(s.bound)
	start := 0
	for j := 0; j < i; j++ {
		start += s.children[j].Height(width)
	}
	end := start + s.children[i].Height(width)
	switch {
	case start < s.offset:
		s.offset = start
	case end > s.offset+s.bound.H:
		s.offset = max(end-s.bound.H, 0)
		if end-start > s.bound.H {
			s.offset = start
		}
	}
}
