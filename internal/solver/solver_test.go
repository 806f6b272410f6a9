package solver

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/cubeview"
)

func newTable(t *testing.T, n, depth, threads int) *Table {
	t.Helper()
	tbl := New(n, WithDepth(depth), WithThreads(threads))
	if err := tbl.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return tbl
}

func TestSolveShortScrambles(t *testing.T) {
	tbl := newTable(t, 3, 3, 2)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		c := cubeview.NewCube(3)
		length := 1 + rng.Intn(3)
		for j := 0; j < length; j++ {
			c.Rotate(cubeview.Face(rng.Intn(6)), 1, 1+rng.Intn(3))
		}

		moves, err := tbl.Solve(context.Background(), Snapshot{Cube: c})
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if len(moves) > length {
			t.Errorf("solution %s is longer than the scramble", cubeview.FormatMoves(moves))
		}
		c.Apply(moves...)
		if !c.IsSolved() {
			t.Errorf("solution %s did not solve the cube", cubeview.FormatMoves(moves))
			t.Log(c.String())
		}
	}
}

func TestSolveSolvedCube(t *testing.T) {
	tbl := newTable(t, 3, 1, 1)
	moves, err := tbl.Solve(context.Background(), Snapshot{Cube: cubeview.NewCube(3)})
	if err != nil || len(moves) != 0 {
		t.Errorf("solved cube should need no moves, got %v, %v", moves, err)
	}
}

func TestSolveFallsBackToHistory(t *testing.T) {
	tbl := newTable(t, 3, 2, 1)
	history, _ := cubeview.ParseMoves("R U F' L2 D B R' U2 F")
	c := cubeview.NewCube(3)
	c.Apply(history...)

	moves, err := tbl.Solve(context.Background(), Snapshot{Cube: c, History: history})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	c.Apply(moves...)
	if !c.IsSolved() {
		t.Error("history inverse should solve the cube")
		t.Log(c.String())
	}
}

func TestSolveUnsolvable(t *testing.T) {
	tbl := newTable(t, 3, 1, 1)
	c := cubeview.NewCube(3)
	c.Apply(cubeview.M(cubeview.Right, 1), cubeview.M(cubeview.Top, 1), cubeview.M(cubeview.Front, 1))

	if _, err := tbl.Solve(context.Background(), Snapshot{Cube: c}); !errors.Is(err, ErrUnsolvable) {
		t.Errorf("expected ErrUnsolvable, got %v", err)
	}

	wrong := []cubeview.Move{cubeview.M(cubeview.Back, 1)}
	if _, err := tbl.Solve(context.Background(), Snapshot{Cube: c, History: wrong}); !errors.Is(err, ErrUnsolvable) {
		t.Errorf("history that does not match should fail, got %v", err)
	}
}

func TestSolveBeforeInit(t *testing.T) {
	tbl := New(3)
	if _, err := tbl.Solve(context.Background(), Snapshot{Cube: cubeview.NewCube(3)}); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestSolveSizeMismatch(t *testing.T) {
	tbl := newTable(t, 2, 1, 1)
	if _, err := tbl.Solve(context.Background(), Snapshot{Cube: cubeview.NewCube(3)}); !errors.Is(err, ErrTableMismatch) {
		t.Errorf("expected ErrTableMismatch, got %v", err)
	}
}

func TestBuildIndependentOfThreads(t *testing.T) {
	a := newTable(t, 3, 3, 1)
	b := newTable(t, 3, 3, 5)
	if a.Len() != b.Len() {
		t.Fatalf("table sizes differ: %d vs %d", a.Len(), b.Len())
	}
	for k, v := range a.entries {
		if b.entries[k] != v {
			t.Fatal("tables built with different thread counts differ")
		}
	}
}

func TestFourLayerInnerSlices(t *testing.T) {
	tbl := newTable(t, 4, 2, 2)
	c := cubeview.NewCube(4)
	c.Apply(cubeview.Move{Face: cubeview.Right, Depth: 2, Turns: 1}, cubeview.M(cubeview.Top, 2))

	moves, err := tbl.Solve(context.Background(), Snapshot{Cube: c})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	c.Apply(moves...)
	if !c.IsSolved() {
		t.Error("inner slice scramble was not solved")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tbl := newTable(t, 3, 2, 1)
	path := filepath.Join(t.TempDir(), "tables", DefaultPath(3))
	if err := tbl.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New(3)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != tbl.Len() || loaded.Depth() != 2 {
		t.Errorf("loaded table has %d states depth %d, want %d depth 2", loaded.Len(), loaded.Depth(), tbl.Len())
	}

	c := cubeview.NewCube(3)
	c.Apply(cubeview.M(cubeview.Left, 2), cubeview.M(cubeview.Bottom, -1))
	moves, err := loaded.Solve(context.Background(), Snapshot{Cube: c})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	c.Apply(moves...)
	if !c.IsSolved() {
		t.Error("loaded table did not solve")
	}
}

func TestLoadRejectsOtherSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.tbl")
	if err := newTable(t, 2, 1, 1).Save(path); err != nil {
		t.Fatal(err)
	}
	if err := New(3).Load(path); !errors.Is(err, ErrTableMismatch) {
		t.Errorf("expected ErrTableMismatch, got %v", err)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tbl")
	if err := os.WriteFile(path, []byte("not a table"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := New(3).Load(path); err == nil {
		t.Error("garbage file should fail to load")
	}
}

func TestInitFromBuildsThenLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath(3))

	first := New(3, WithDepth(2))
	if err := first.InitFrom(context.Background(), path); err != nil {
		t.Fatalf("InitFrom (build): %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("table file should exist after build: %v", err)
	}

	second := New(3, WithDepth(4))
	if err := second.InitFrom(context.Background(), path); err != nil {
		t.Fatalf("InitFrom (load): %v", err)
	}
	if second.Depth() != 2 || second.Len() != first.Len() {
		t.Error("second InitFrom should load the saved table")
	}
}

func TestInitHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New(3, WithDepth(3)).Init(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMoveCodeRoundTrip(t *testing.T) {
	for _, f := range cubeview.Faces {
		for d := 1; d <= 3; d++ {
			for q := 1; q <= 3; q++ {
				m := decodeMove(encodeMove(f, d, q))
				want := q
				if q == 3 {
					want = -1
				}
				if m.Face != f || m.Depth != d || m.Turns != want {
					t.Errorf("encode(%v,%d,%d) decoded to %+v", f, d, q, m)
				}
			}
		}
	}
}
