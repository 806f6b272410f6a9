package viewer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/camera"
	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/render"
	"github.com/SeamusWaldron/cubeview/internal/solver"
	"github.com/rs/zerolog"
)

// Engine is the application context. It is created once at startup and
// driven by a single backend goroutine; only Events may be used from other
// goroutines.
type Engine struct {
	anim   *anim.Animator
	cam    *camera.Camera
	ctrl   *input.Controller
	events *input.Queue
	log    zerolog.Logger
	now    func() time.Time
	hooks  []func(anim.Entry)
	last   cubeview.Move
	moves  int
}

type config struct {
	duration time.Duration
	rng      *rand.Rand
	scramble int
	log      zerolog.Logger
	now      func() time.Time
	camera   []camera.Option
	queue    int
}

// Option configures an Engine.
type Option func(*config)

// WithDuration sets the per-move animation duration.
func WithDuration(d time.Duration) Option {
	return func(c *config) { c.duration = d }
}

// WithRand sets the random source used for scrambles.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) { c.rng = rng }
}

// WithScrambleLength sets the number of moves per scramble.
func WithScrambleLength(n int) Option {
	return func(c *config) { c.scramble = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithCamera passes options to the camera.
func WithCamera(opts ...camera.Option) Option {
	return func(c *config) { c.camera = append(c.camera, opts...) }
}

// WithEventBuffer sets how many events may wait between frames.
func WithEventBuffer(n int) Option {
	return func(c *config) { c.queue = n }
}

// NewEngine creates an engine around cube. s may be nil to disable solving.
func NewEngine(cube *cubeview.Cube, s solver.Solver, opts ...Option) *Engine {
	cfg := &config{
		duration: anim.DefaultDuration,
		scramble: input.DefaultScrambleLength,
		log:      zerolog.New(io.Discard),
		now:      time.Now,
		queue:    256,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		anim:   anim.New(cube, cfg.duration),
		cam:    camera.New(cfg.camera...),
		events: input.NewQueue(cfg.queue),
		log:    cfg.log,
		now:    cfg.now,
	}
	e.ctrl = input.NewController(e.anim, e.cam, s, cfg.rng,
		input.WithScrambleLength(cfg.scramble),
		input.WithLogger(cfg.log),
	)
	e.anim.OnCommit(e.committed)
	return e
}

// OnCommit registers fn to run after each committed move.
func (e *Engine) OnCommit(fn func(anim.Entry)) {
	e.hooks = append(e.hooks, fn)
}

func (e *Engine) committed(entry anim.Entry) {
	e.last = entry.Move
	e.moves++
	e.log.Debug().Str("move", entry.Move.Notation()).Str("source", string(entry.Source)).Int("queued", e.anim.Pending()).Msg("move committed")
	for _, fn := range e.hooks {
		fn(entry)
	}
}

// Events returns the input queue backends and move sources push to.
func (e *Engine) Events() *input.Queue {
	return e.events
}

// Step runs one frame: drains input, advances the animation and returns
// to Idle when a scramble or solve has finished. A non-nil error comes
// from the solver and ends the frame loop.
func (e *Engine) Step(ctx context.Context) (anim.Frame, error) {
	for _, ev := range e.events.Drain() {
		if err := e.ctrl.Handle(ctx, ev); err != nil {
			return e.anim.Frame(), err
		}
		if e.ctrl.Done() {
			return e.anim.Frame(), nil
		}
	}
	frame := e.anim.Tick(e.now())
	e.ctrl.Sync()
	return frame, nil
}

// Done reports whether a quit was received.
func (e *Engine) Done() bool {
	return e.ctrl.Done()
}

// Scene returns what the renderer needs for the current frame.
func (e *Engine) Scene() render.Scene {
	return render.Scene{
		Cube:  e.anim.Cube(),
		Frame: e.anim.Frame(),
		View:  e.cam.View(),
	}
}

// Status summarises the engine for status lines.
type Status struct {
	Mode      input.Mode
	Size      int
	Pending   int
	Committed int
	LastMove  string
	Zoom      float64
}

func (s Status) String() string {
	last := s.LastMove
	if last == "" {
		last = "-"
	}
	return fmt.Sprintf("%dx%d  mode: %s  queued: %d  moves: %d  last: %s  zoom: %.2f",
		s.Size, s.Size, s.Mode, s.Pending, s.Committed, last, s.Zoom)
}

// Status returns the current status.
func (e *Engine) Status() Status {
	st := Status{
		Mode:      e.ctrl.Mode(),
		Size:      e.anim.Cube().Size(),
		Pending:   e.anim.Pending(),
		Committed: e.moves,
		Zoom:      e.cam.State().Zoom,
	}
	if e.moves > 0 {
		st.LastMove = e.last.Notation()
	}
	return st
}

// Mode returns the controller mode.
func (e *Engine) Mode() input.Mode {
	return e.ctrl.Mode()
}

// SetCube replaces the cube. It fails while moves are pending.
func (e *Engine) SetCube(c *cubeview.Cube) error {
	if err := e.ctrl.SetCube(c); err != nil {
		return fmt.Errorf("failed to set cube: %w", err)
	}
	return nil
}

// AddRotate queues a turn of the layer at depth under face.
func (e *Engine) AddRotate(face cubeview.Face, depth, turns int) {
	e.ctrl.Enqueue(cubeview.Move{Face: face, Depth: depth, Turns: turns}, anim.SourceManual)
}

// Enqueue queues moves from src.
func (e *Engine) Enqueue(src anim.Source, moves ...cubeview.Move) {
	for _, m := range moves {
		e.ctrl.Enqueue(m, src)
	}
}

// SetRotateDuration sets the animation time per move in seconds. Values
// <= 0 commit moves without animation.
func (e *Engine) SetRotateDuration(seconds float64) {
	e.anim.SetDuration(time.Duration(seconds * float64(time.Second)))
}

// AdjustOrbit changes the camera pitch and yaw in degrees.
func (e *Engine) AdjustOrbit(dPitch, dYaw float64) {
	e.cam.AdjustOrbit(dPitch, dYaw)
}

// Zoom scales the camera zoom.
func (e *Engine) Zoom(factor float64) {
	e.cam.Zoom(factor)
}
