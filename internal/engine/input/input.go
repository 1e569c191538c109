// Package input turns per-frame pointer state into touch gestures.
package input

// EventType identifies a touch event.
type EventType int

const (
	EventNone EventType = iota
	EventTouchStart
	EventTouchMove
	EventTouchEnd
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventTouchStart:
		return "TouchStart"
	case EventTouchMove:
		return "TouchMove"
	case EventTouchEnd:
		return "TouchEnd"
	}
	return "None"
}

// Event is one touch event in viewport pixels.
type Event struct {
	Type EventType
	X, Y float32
}

// TouchHandler receives touch events.
type TouchHandler interface {
	TouchStart(x, y float32)
	TouchMove(x, y float32)
	TouchEnd()
}

// Pointer tracks one mouse button across frames. A press must begin over
// the viewport; once begun, the drag follows the pointer anywhere until the
// button is released.
type Pointer struct {
	pressed      bool
	wasDown      bool
	lastX, lastY float32
	events       []Event
}

// New creates a pointer tracker.
func New() *Pointer {
	return &Pointer{events: make([]Event, 0, 2)}
}

// Update feeds this frame's state and returns the resulting events. The
// slice is reused by the next call.
func (p *Pointer) Update(down, hovered bool, x, y float32) []Event {
	p.events = p.events[:0]

	switch {
	case !p.pressed && down && !p.wasDown && hovered:
		p.pressed = true
		p.events = append(p.events, Event{Type: EventTouchStart, X: x, Y: y})
	case p.pressed && down:
		if x != p.lastX || y != p.lastY {
			p.events = append(p.events, Event{Type: EventTouchMove, X: x, Y: y})
		}
	case p.pressed && !down:
		p.pressed = false
		p.events = append(p.events, Event{Type: EventTouchEnd, X: x, Y: y})
	}

	p.wasDown = down
	p.lastX, p.lastY = x, y
	return p.events
}

// Dispatch delivers events to h in order.
func Dispatch(events []Event, h TouchHandler) {
	for _, e := range events {
		switch e.Type {
		case EventTouchStart:
			h.TouchStart(e.X, e.Y)
		case EventTouchMove:
			h.TouchMove(e.X, e.Y)
		case EventTouchEnd:
			h.TouchEnd()
		}
	}
}
