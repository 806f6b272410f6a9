// Package solver produces move lists that return a cube to its solved
// coloring.
//
// Table is a lookup solver: it enumerates every state within a fixed
// number of moves of solved and stores, for each one, the first move of a
// shortest path home. States outside the table are solved by undoing the
// recorded move history when one is available.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/rs/zerolog"
)

// Errors
var (
	ErrUnsolvable    = errors.New("solver: state outside table and no usable history")
	ErrTableMismatch = errors.New("solver: table does not match cube")
	ErrNotReady      = errors.New("solver: table not initialized")
)

// Snapshot is the input to Solve: the cube to solve and, when known, the
// moves that produced it from a solved cube.
type Snapshot struct {
	Cube    *cubeview.Cube
	History []cubeview.Move
}

// Solver is the contract the viewer consumes.
type Solver interface {
	Solve(ctx context.Context, s Snapshot) ([]cubeview.Move, error)
}

// Table is a table-driven Solver.
type Table struct {
	size    int
	depth   int
	threads int
	log     zerolog.Logger

	entries map[string]uint16
}

// Option configures a Table.
type Option func(*Table)

// WithDepth sets how many moves from solved the table covers.
func WithDepth(d int) Option {
	return func(t *Table) {
		if d > 0 {
			t.depth = d
		}
	}
}

// WithThreads sets the number of workers used to build the table.
func WithThreads(n int) Option {
	return func(t *Table) {
		if n > 0 {
			t.threads = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Table) {
		t.log = l
	}
}

// DefaultDepth returns the table depth used for an n-layer cube.
func DefaultDepth(n int) int {
	switch {
	case n <= 3:
		return 4
	case n == 4:
		return 3
	default:
		return 2
	}
}

// New creates an empty table solver for n-layer cubes. Call Init, Load or
// InitFrom before Solve.
func New(n int, opts ...Option) *Table {
	t := &Table{
		size:    n,
		depth:   DefaultDepth(n),
		threads: 1,
		log:     zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Size returns the cube size the table is built for.
func (t *Table) Size() int { return t.size }

// Depth returns the table depth.
func (t *Table) Depth() int { return t.depth }

// Len returns the number of stored states.
func (t *Table) Len() int { return len(t.entries) }

// Init builds the table in memory.
func (t *Table) Init(ctx context.Context) error {
	start := time.Now()
	t.log.Info().Int("size", t.size).Int("depth", t.depth).Int("threads", t.threads).Msg("building solver table")

	entries, err := build(ctx, t.size, t.depth, t.threads)
	if err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	t.entries = entries

	t.log.Info().Int("states", len(entries)).Dur("took", time.Since(start)).Msg("solver table built")
	return nil
}

// Solve returns moves that solve s.Cube. The result is empty when the cube
// is already solved.
func (t *Table) Solve(ctx context.Context, s Snapshot) ([]cubeview.Move, error) {
	if t.entries == nil {
		return nil, ErrNotReady
	}
	if s.Cube == nil {
		return nil, fmt.Errorf("%w: no cube", ErrUnsolvable)
	}
	if s.Cube.Size() != t.size {
		return nil, fmt.Errorf("%w: table for %d layers, cube has %d", ErrTableMismatch, t.size, s.Cube.Size())
	}
	if s.Cube.IsSolved() {
		return nil, nil
	}

	if moves, ok := t.walk(s.Cube); ok {
		t.log.Debug().Str("solution", cubeview.FormatMoves(moves)).Msg("solved from table")
		return moves, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(s.History) > 0 {
		moves := cubeview.Simplify(cubeview.Invert(s.History))
		check := s.Cube.Clone()
		check.Apply(moves...)
		if check.IsSolved() {
			t.log.Debug().Int("moves", len(moves)).Msg("solved from history")
			return moves, nil
		}
	}

	return nil, ErrUnsolvable
}

// walk follows stored moves from c until the cube is solved.
func (t *Table) walk(c *cubeview.Cube) ([]cubeview.Move, bool) {
	c = c.Clone()
	var moves []cubeview.Move
	for step := 0; step <= t.depth; step++ {
		if c.IsSolved() {
			return moves, true
		}
		code, ok := t.entries[c.Key()]
		if !ok {
			return nil, false
		}
		m := decodeMove(code)
		c.Rotate(m.Face, m.Depth, m.Turns)
		moves = append(moves, m)
	}
	return nil, false
}

// encodeMove packs a move with q clockwise quarter turns.
func encodeMove(face cubeview.Face, depth, q int) uint16 {
	return uint16(face)<<8 | uint16(depth)<<2 | uint16(q&3)
}

func decodeMove(code uint16) cubeview.Move {
	q := int(code & 3)
	turns := q
	if q == 3 {
		turns = -1
	}
	return cubeview.Move{
		Face:  cubeview.Face(code >> 8),
		Depth: int(code>>2) & 0x3f,
		Turns: turns,
	}
}
