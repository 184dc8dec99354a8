package platform

import "math"

// Ref is an opaque element reference issued by a Document. The empty Ref
// denotes the document root.
type Ref string

// Rect is a viewport rectangle in CSS pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Ints returns the rectangle rounded to [x, y, w, h].
func (r Rect) Ints() [4]int {
	return [4]int{
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Width)),
		int(math.Round(r.Height)),
	}
}

// MouseButton is a button as numbered by MouseEvent.button.
type MouseButton int

// MouseLeft is the primary button.
const MouseLeft MouseButton = 0

// EventType names a DOM event.
type EventType string

const (
	EventClick  EventType = "click"
	EventChange EventType = "change"
)

// Event describes a synthetic event to dispatch. Coordinates only apply to
// mouse events.
type Event struct {
	Type    EventType
	ClientX float64
	ClientY float64
	Button  MouseButton
}

// ClickAt builds a single primary-button click at (x, y).
func ClickAt(x, y float64) Event {
	return Event{Type: EventClick, ClientX: x, ClientY: y, Button: MouseLeft}
}

// Change builds a bubbling change notification.
func Change() Event {
	return Event{Type: EventChange}
}
