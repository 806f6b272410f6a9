// Package input turns keyboard, pointer and external move events into
// camera changes and queued moves, and runs the Idle/Scrambling/Solving
// mode machine.
package input

import (
	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
)

// Key is a backend-independent key.
type Key int

const (
	KeyNone Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPlus
	KeyMinus
	KeyEnter
	KeySpace
	KeyEscape
)

func (k Key) String() string {
	switch {
	case k >= Key1 && k <= Key6:
		return string(rune('1' + k - Key1))
	}
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyPlus:
		return "+"
	case KeyMinus:
		return "-"
	case KeyEnter:
		return "enter"
	case KeySpace:
		return "space"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// Kind is the type of an Event.
type Kind int

const (
	KeyPress Kind = iota
	PointerDown
	PointerMove
	PointerUp
	Wheel
	ExternalMove
	Quit
)

// Event is one input. Pointer coordinates are normalized to [-0.5, 0.5]
// with y pointing down.
type Event struct {
	Kind   Kind
	Key    Key
	X, Y   float64
	Delta  float64
	Move   cubeview.Move
	Source anim.Source
}

// KeyEvent returns a key press event.
func KeyEvent(k Key) Event {
	return Event{Kind: KeyPress, Key: k}
}

// PointerEvent returns a pointer event at window pixel (px, py) in a
// w×h window.
func PointerEvent(kind Kind, px, py, w, h float64) Event {
	ev := Event{Kind: kind}
	if w > 0 && h > 0 {
		ev.X = px/w - 0.5
		ev.Y = py/h - 0.5
	}
	return ev
}

// WheelEvent returns a scroll event. Positive delta scrolls up.
func WheelEvent(delta float64) Event {
	return Event{Kind: Wheel, Delta: delta}
}

// MoveEvent returns an event carrying a move from outside the keyboard,
// such as a connected cube or a replayed session.
func MoveEvent(m cubeview.Move, src anim.Source) Event {
	return Event{Kind: ExternalMove, Move: m, Source: src}
}

// QuitEvent returns a quit request.
func QuitEvent() Event {
	return Event{Kind: Quit}
}

// Queue buffers events until the frame loop drains them. Push is safe to
// call from any goroutine.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue holding up to size undrained events.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push adds an event without blocking. It reports false when the queue is
// full and the event was dropped.
func (q *Queue) Push(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Drain removes and returns all buffered events in arrival order.
func (q *Queue) Drain() []Event {
	var out []Event
	for {
		select {
		case ev := <-q.ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}
