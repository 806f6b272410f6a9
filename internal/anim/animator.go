package anim

import (
	"errors"
	"time"

	"github.com/SeamusWaldron/cubeview"
)

// DefaultDuration is the animation time of one move.
const DefaultDuration = 500 * time.Millisecond

// ErrBusy is returned when the cube cannot be replaced because moves are
// still queued or animating.
var ErrBusy = errors.New("anim: moves pending")

// Frame describes the animation at one instant.
type Frame struct {
	Active    bool          // a move is mid-rotation
	Committed bool          // this tick committed Move to the cube
	Move      cubeview.Move // move in flight, or just committed
	Mask      Mask          // layer being rotated
	Sign      int           // +1 or -1, direction about the masked axis
	Ratio     float64       // progress in [0, 1]
	Degrees   float64       // |turns| * 90 * Ratio
}

// Angle returns the signed rotation in degrees about the positive masked axis.
func (f Frame) Angle() float64 {
	return float64(f.Sign) * f.Degrees
}

// state is the single active animation.
type state struct {
	active   bool
	entry    Entry
	start    time.Time
	duration time.Duration
	mask     Mask
	sign     int
}

// Animator owns the move queue and the only writer of the cube.
type Animator struct {
	cube     *cubeview.Cube
	queue    Queue
	duration time.Duration
	st       state
	frame    Frame
	onCommit func(Entry)
}

// New creates an animator over cube. A duration <= 0 commits each move on
// the first tick that sees it.
func New(cube *cubeview.Cube, duration time.Duration) *Animator {
	a := &Animator{cube: cube, duration: duration}
	a.st.mask = ClearMask()
	a.frame.Mask = ClearMask()
	return a
}

// Cube returns the committed cube. Callers must not modify it.
func (a *Animator) Cube() *cubeview.Cube {
	return a.cube
}

// SetCube replaces the cube. It fails with ErrBusy unless the animator is idle.
func (a *Animator) SetCube(c *cubeview.Cube) error {
	if !a.Idle() {
		return ErrBusy
	}
	a.cube = c
	return nil
}

// SetDuration changes the duration used by moves started after the call.
func (a *Animator) SetDuration(d time.Duration) {
	a.duration = d
}

// Duration returns the per-move animation duration.
func (a *Animator) Duration() time.Duration {
	return a.duration
}

// OnCommit registers a callback invoked after each move is committed.
func (a *Animator) OnCommit(fn func(Entry)) {
	a.onCommit = fn
}

// Enqueue appends a move. Moves that turn nothing or address a layer the
// cube does not have are dropped; Enqueue reports whether m was queued.
func (a *Animator) Enqueue(m cubeview.Move, src Source) bool {
	m = m.Normalize()
	if !m.Valid(a.cube.Size()) {
		return false
	}
	a.queue.Push(Entry{Move: m, Source: src})
	return true
}

// Pending returns the number of moves not yet committed, including the one
// in flight.
func (a *Animator) Pending() int {
	return a.queue.Len()
}

// Idle reports whether nothing is queued or animating.
func (a *Animator) Idle() bool {
	return !a.st.active && a.queue.Len() == 0
}

// Frame returns the frame computed by the last Tick.
func (a *Animator) Frame() Frame {
	return a.frame
}

// Projected returns a copy of the cube with every pending move applied, the
// state the cube will have once the queue drains.
func (a *Animator) Projected() *cubeview.Cube {
	c := a.cube.Clone()
	c.Apply(a.queue.Moves()...)
	return c
}

// Tick advances the animation to now. It starts the next queued move if
// none is active and commits the active move once its ratio reaches 1.
func (a *Animator) Tick(now time.Time) Frame {
	if !a.st.active {
		e, ok := a.queue.Peek()
		if !ok {
			a.frame = Frame{Mask: ClearMask()}
			return a.frame
		}
		a.begin(e, now)
	}

	ratio := 1.0
	if a.st.duration > 0 {
		ratio = float64(now.Sub(a.st.start)) / float64(a.st.duration)
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
	}

	m := a.st.entry.Move
	degrees := float64(abs(m.Turns)) * 90 * ratio

	if ratio >= 1 {
		a.commit()
		a.frame = Frame{
			Committed: true,
			Move:      m,
			Mask:      ClearMask(),
			Sign:      a.st.sign,
			Ratio:     1,
			Degrees:   degrees,
		}
		return a.frame
	}

	a.frame = Frame{
		Active:  true,
		Move:    m,
		Mask:    a.st.mask,
		Sign:    a.st.sign,
		Ratio:   ratio,
		Degrees: degrees,
	}
	return a.frame
}

func (a *Animator) begin(e Entry, now time.Time) {
	m := e.Move
	axis, layer := m.Face.Layer(a.cube.Size(), m.Depth)
	sign := m.Face.Sign()
	if m.Turns < 0 {
		sign = -sign
	}
	a.st = state{
		active:   true,
		entry:    e,
		start:    now,
		duration: a.duration,
		mask:     Set(axis, layer),
		sign:     sign,
	}
}

func (a *Animator) commit() {
	e := a.st.entry
	a.cube.Rotate(e.Move.Face, e.Move.Depth, e.Move.Turns)
	a.st.mask = ClearMask()
	a.st.active = false
	a.queue.Pop()
	if a.onCommit != nil {
		a.onCommit(e)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
