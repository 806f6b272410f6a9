package viewer

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/solver"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newEngine(t *testing.T, s solver.Solver, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]Option{
		WithClock(clk.now),
		WithDuration(200 * time.Millisecond),
		WithRand(rand.New(rand.NewSource(2))),
	}, opts...)
	return NewEngine(cubeview.NewCube(3), s, opts...), clk
}

func run(t *testing.T, e *Engine, clk *fakeClock, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		if _, err := e.Step(context.Background()); err != nil {
			t.Fatalf("Step: %v", err)
		}
		clk.advance(50 * time.Millisecond)
	}
}

func TestStepAnimatesQueuedKey(t *testing.T) {
	e, clk := newEngine(t, nil)
	var commits []anim.Entry
	e.OnCommit(func(en anim.Entry) { commits = append(commits, en) })

	e.Events().Push(input.KeyEvent(input.Key3))
	f, err := e.Step(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !f.Active || f.Move.Face != cubeview.Front {
		t.Fatalf("expected F in flight, got %+v", f)
	}

	run(t, e, clk, 6)
	if len(commits) != 1 || commits[0].Source != anim.SourceManual {
		t.Fatalf("expected one manual commit, got %+v", commits)
	}
	st := e.Status()
	if st.LastMove != "F" || st.Committed != 1 || st.Pending != 0 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestScrambleReturnsToIdle(t *testing.T) {
	e, clk := newEngine(t, nil, WithScrambleLength(5))
	e.Events().Push(input.KeyEvent(input.KeyEnter))
	run(t, e, clk, 1)
	if e.Mode() != input.Scrambling {
		t.Fatalf("expected Scrambling, got %v", e.Mode())
	}
	run(t, e, clk, 40)
	if e.Mode() != input.Idle {
		t.Errorf("expected Idle, got %v", e.Mode())
	}
	if e.Status().Committed != 5 {
		t.Errorf("expected 5 commits, got %d", e.Status().Committed)
	}
}

func TestEscapeStopsProcessing(t *testing.T) {
	e, _ := newEngine(t, nil)
	e.Events().Push(input.KeyEvent(input.KeyEscape))
	e.Events().Push(input.KeyEvent(input.Key1))
	if _, err := e.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !e.Done() {
		t.Error("escape should end the loop")
	}
	if e.Status().Pending != 0 {
		t.Error("events after escape should not be handled")
	}
}

func TestSolveThroughEngine(t *testing.T) {
	tbl := solver.New(3, solver.WithDepth(3))
	if err := tbl.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	e, clk := newEngine(t, tbl)
	e.AddRotate(cubeview.Right, 1, 1)
	e.AddRotate(cubeview.Top, 1, -1)
	run(t, e, clk, 12)

	e.Events().Push(input.KeyEvent(input.KeySpace))
	run(t, e, clk, 1)
	if e.Mode() != input.Solving {
		t.Fatalf("expected Solving, got %v", e.Mode())
	}
	run(t, e, clk, 20)
	if !e.Scene().Cube.IsSolved() || e.Mode() != input.Idle {
		t.Error("engine should end solved and idle")
	}
}

func TestSetCubeWhileBusy(t *testing.T) {
	e, clk := newEngine(t, nil)
	e.AddRotate(cubeview.Front, 1, 1)
	if err := e.SetCube(cubeview.NewCube(4)); err == nil {
		t.Error("SetCube should fail while a move is queued")
	}
	run(t, e, clk, 8)
	if err := e.SetCube(cubeview.NewCube(4)); err != nil {
		t.Errorf("SetCube: %v", err)
	}
	if e.Status().Size != 4 {
		t.Error("cube size not updated")
	}
}

func TestZeroDurationIsInstant(t *testing.T) {
	e, _ := newEngine(t, nil)
	e.SetRotateDuration(0)
	e.AddRotate(cubeview.Back, 1, 2)
	f, err := e.Step(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !f.Committed {
		t.Error("zero duration should commit on the first frame")
	}
}

func TestCameraPassthrough(t *testing.T) {
	e, _ := newEngine(t, nil)
	e.AdjustOrbit(5, 10)
	e.Zoom(100)
	if e.Status().Zoom != 10 {
		t.Errorf("zoom should clamp to 10, got %v", e.Status().Zoom)
	}
}
