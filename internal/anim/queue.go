// Package anim animates queued layer turns and commits each one to the
// cube exactly once, when its animation completes.
package anim

import "github.com/SeamusWaldron/cubeview"

// Source records what produced a queued move.
type Source string

const (
	SourceManual   Source = "manual"
	SourceScramble Source = "scramble"
	SourceSolve    Source = "solve"
	SourceReplay   Source = "replay"
	SourceDevice   Source = "device"
)

// Entry is a queued move.
type Entry struct {
	Move   cubeview.Move
	Source Source
}

// Queue is a FIFO of pending moves.
type Queue struct {
	entries []Entry
}

// Push appends an entry at the back.
func (q *Queue) Push(e Entry) {
	q.entries = append(q.entries, e)
}

// Peek returns the front entry without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// Pop removes and returns the front entry.
func (q *Queue) Pop() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	e := q.entries[0]
	q.entries[0] = Entry{}
	q.entries = q.entries[1:]
	return e, true
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Moves returns a copy of the queued moves, front first.
func (q *Queue) Moves() []cubeview.Move {
	out := make([]cubeview.Move, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.Move
	}
	return out
}
