package input

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/camera"
	"github.com/SeamusWaldron/cubeview/internal/solver"
	"github.com/rs/zerolog"
)

// Mode is the controller state.
type Mode int

const (
	Idle Mode = iota
	Scrambling
	Solving
	Terminated
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Scrambling:
		return "scrambling"
	case Solving:
		return "solving"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Camera steps for keyboard input.
const (
	OrbitStep = 5.0
	ZoomIn    = 0.9
	ZoomOut   = 1.1
)

// Controller applies input events to the animator and camera.
type Controller struct {
	anim     *anim.Animator
	cam      *camera.Camera
	solver   solver.Solver
	rng      *rand.Rand
	scramble int
	log      zerolog.Logger

	mode    Mode
	history []cubeview.Move
}

// Option configures a Controller.
type Option func(*Controller)

// WithScrambleLength sets the number of moves per scramble.
func WithScrambleLength(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.scramble = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController creates a controller in Idle mode. rng drives scrambles;
// s may be nil, in which case solve requests are ignored.
func NewController(a *anim.Animator, cam *camera.Camera, s solver.Solver, rng *rand.Rand, opts ...Option) *Controller {
	c := &Controller{
		anim:     a,
		cam:      cam,
		solver:   s,
		rng:      rng,
		scramble: DefaultScrambleLength,
		log:      zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Done reports whether a quit was received.
func (c *Controller) Done() bool {
	return c.mode == Terminated
}

// History returns the moves queued since the cube was last known solved.
func (c *Controller) History() []cubeview.Move {
	out := make([]cubeview.Move, len(c.history))
	copy(out, c.history)
	return out
}

// SetCube replaces the cube. The move history is reset.
func (c *Controller) SetCube(cube *cubeview.Cube) error {
	if err := c.anim.SetCube(cube); err != nil {
		return err
	}
	c.history = nil
	return nil
}

// Enqueue queues a move and records it in the history.
func (c *Controller) Enqueue(m cubeview.Move, src anim.Source) bool {
	if !c.anim.Enqueue(m, src) {
		return false
	}
	c.history = append(c.history, m.Normalize())
	return true
}

// Handle applies one event. Only quit is honoured while scrambling or
// solving. The error is non-nil only when the solver fails.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	if c.mode == Terminated {
		return nil
	}
	if ev.Kind == Quit || (ev.Kind == KeyPress && ev.Key == KeyEscape) {
		c.log.Info().Str("from", c.mode.String()).Msg("quit requested")
		c.mode = Terminated
		return nil
	}
	if c.mode != Idle {
		if ev.Kind == ExternalMove {
			c.log.Warn().Str("move", ev.Move.Notation()).Str("mode", c.mode.String()).Msg("dropping external move while busy")
		}
		return nil
	}

	switch ev.Kind {
	case KeyPress:
		return c.handleKey(ctx, ev.Key)
	case PointerDown:
		c.cam.BeginDrag(ev.X, ev.Y)
	case PointerMove:
		c.cam.Drag(ev.X, ev.Y)
	case PointerUp:
		c.cam.EndDrag(ev.X, ev.Y)
	case Wheel:
		switch {
		case ev.Delta > 0:
			c.cam.Zoom(ZoomIn)
		case ev.Delta < 0:
			c.cam.Zoom(ZoomOut)
		}
	case ExternalMove:
		if c.Enqueue(ev.Move, ev.Source) {
			c.log.Debug().Str("move", ev.Move.Notation()).Str("source", string(ev.Source)).Msg("external move queued")
		}
	}
	return nil
}

func (c *Controller) handleKey(ctx context.Context, k Key) error {
	switch k {
	case Key1, Key2, Key3, Key4, Key5, Key6:
		m := cubeview.M(cubeview.Face(k-Key1), 1)
		c.Enqueue(m, anim.SourceManual)
		c.log.Debug().Str("move", m.Notation()).Msg("manual turn")
	case KeyLeft:
		c.cam.AdjustOrbit(0, -OrbitStep)
	case KeyRight:
		c.cam.AdjustOrbit(0, OrbitStep)
	case KeyUp:
		c.cam.AdjustOrbit(-OrbitStep, 0)
	case KeyDown:
		c.cam.AdjustOrbit(OrbitStep, 0)
	case KeyPlus:
		c.cam.Zoom(ZoomIn)
	case KeyMinus:
		c.cam.Zoom(ZoomOut)
	case KeyEnter:
		c.Scramble()
	case KeySpace:
		return c.Solve(ctx)
	}
	return nil
}

// Scramble queues a random scramble and enters Scrambling. Ignored unless
// Idle.
func (c *Controller) Scramble() []cubeview.Move {
	if c.mode != Idle {
		return nil
	}
	moves := GenerateScramble(c.rng, c.scramble)
	if len(moves) == 0 {
		return nil
	}
	c.enter(Scrambling)
	for _, m := range moves {
		c.Enqueue(m, anim.SourceScramble)
	}
	c.log.Info().Str("scramble", cubeview.FormatMoves(moves)).Msg("scrambling")
	return moves
}

// Solve asks the solver for a solution of the cube as it will be once the
// queue drains, queues it and enters Solving. Ignored unless Idle.
func (c *Controller) Solve(ctx context.Context) error {
	if c.mode != Idle || c.solver == nil {
		return nil
	}
	snap := solver.Snapshot{Cube: c.anim.Projected(), History: c.History()}
	moves, err := c.solver.Solve(ctx, snap)
	if err != nil {
		return fmt.Errorf("failed to solve cube: %w", err)
	}
	if len(moves) == 0 {
		c.log.Info().Msg("cube already solved")
		return nil
	}

	c.enter(Solving)
	for _, m := range moves {
		c.anim.Enqueue(m, anim.SourceSolve)
	}
	c.history = nil
	c.log.Info().Str("solution", cubeview.FormatMoves(moves)).Int("moves", len(moves)).Msg("solving")
	return nil
}

// Sync returns to Idle once a scramble or solve has fully committed. Call
// it once per frame after the animator has ticked.
func (c *Controller) Sync() {
	if (c.mode == Scrambling || c.mode == Solving) && c.anim.Idle() {
		c.log.Info().Str("from", c.mode.String()).Msg("back to idle")
		c.mode = Idle
	}
}

func (c *Controller) enter(m Mode) {
	c.cam.FinishDrag()
	c.mode = m
}
