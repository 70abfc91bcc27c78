package widget

// Measurable reports its height when laid out at a width.
type Measurable interface {
	Height(width int) int
}

// Renderable draws itself into a sub-rectangle of a buffer.
type Renderable interface {
	Draw(area Rect, buf *Buffer)
}

// Widget is anything a Scroll can hold.
type Widget interface {
	Measurable
	Renderable
}

// Interceptable maps a pointer event inside its last bound to a typed local
// event. The boolean is false when the event means nothing to the widget.
type Interceptable[E any] interface {
	SetBound(area Rect)
	Bound() Rect
	Intercept(x, y int, btn Button) (E, bool)
}

// Button identifies the pointer button of a mouse event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	WheelUp
	WheelDown
	WheelLeft
	WheelRight
)

// IsWheel reports whether the button is a wheel direction.
func (b Button) IsWheel() bool {
	return b >= WheelUp
}

// Bounded records the rectangle a widget was last drawn into.
type Bounded struct {
	bound Rect
}

// SetBound stores the drawing rectangle.
func (b *Bounded) SetBound(area Rect) { b.bound = area }

// Bound returns the last stored rectangle.
func (b *Bounded) Bound() Rect { return b.bound }

// Route delegates a pointer event to w when (x, y) lies inside its bound.
func Route[E any](w Interceptable[E], x, y int, btn Button) (E, bool) {
	if !w.Bound().Contains(x, y) {
		var zero E
		return zero, false
	}
	return w.Intercept(x, y, btn)
}
