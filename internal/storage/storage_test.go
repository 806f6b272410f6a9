package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubeview"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return db
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("expected version 1, got %d", v)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sessions.now = func() time.Time { return start }

	id, err := sessions.Create(4, "terminal", "R U")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sessions.now = func() time.Time { return start.Add(1500 * time.Millisecond) }
	if err := sessions.End(id); err != nil {
		t.Fatalf("End: %v", err)
	}

	s, err := sessions.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s == nil {
		t.Fatal("session not found")
	}
	if s.CubeSize != 4 || s.Backend != "terminal" {
		t.Errorf("unexpected session %+v", s)
	}
	if s.InitialMoves == nil || *s.InitialMoves != "R U" {
		t.Errorf("initial moves not stored: %v", s.InitialMoves)
	}
	if s.DurationMs == nil || *s.DurationMs != 1500 {
		t.Errorf("expected 1500ms duration, got %v", s.DurationMs)
	}
	if s.EndedAt == nil {
		t.Error("ended_at not set")
	}
}

func TestGetMissingSession(t *testing.T) {
	db := openTestDB(t)
	s, err := NewSessionRepository(db).Get("nope")
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("expected nil, got %+v", s)
	}
}

func TestMovesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, err := sessions.Create(4, "window", "")
	if err != nil {
		t.Fatal(err)
	}

	want := []cubeview.Move{
		{Face: cubeview.Right, Depth: 1, Turns: 1},
		{Face: cubeview.Top, Depth: 2, Turns: -1},
		{Face: cubeview.Back, Depth: 1, Turns: 2},
	}
	now := time.Now()
	for i, m := range want {
		if _, err := moves.Create(id, i, now, m, "manual"); err != nil {
			t.Fatalf("Create move %d: %v", i, err)
		}
	}

	records, err := moves.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	got := ToMoves(records)
	if len(got) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if records[1].Notation != want[1].Notation() {
		t.Errorf("notation: got %q, want %q", records[1].Notation, want[1].Notation())
	}

	next, err := moves.GetNextIndex(id)
	if err != nil {
		t.Fatal(err)
	}
	if next != 3 {
		t.Errorf("expected next index 3, got %d", next)
	}

	s, err := sessions.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.MoveCount != 3 {
		t.Errorf("expected move count 3, got %d", s.MoveCount)
	}
}

func TestCreateBatchRollsBackOnConflict(t *testing.T) {
	db := openTestDB(t)
	id, err := NewSessionRepository(db).Create(3, "window", "")
	if err != nil {
		t.Fatal(err)
	}
	moves := NewMoveRepository(db)

	m := cubeview.M(cubeview.Front, 1)
	rec := MoveRecord{SessionID: id, Face: m.Face.String(), Depth: 1, Turns: 1, Notation: m.Notation(), Source: "manual"}
	batch := []MoveRecord{rec, rec}

	if err := moves.CreateBatch(batch); err == nil {
		t.Fatal("duplicate move index should fail")
	}
	records, err := moves.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("batch should have rolled back, found %d moves", len(records))
	}
}

func TestDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, _ := sessions.Create(3, "window", "")
	if _, err := moves.Create(id, 0, time.Now(), cubeview.M(cubeview.Left, -1), "manual"); err != nil {
		t.Fatal(err)
	}
	if err := sessions.Delete(id); err != nil {
		t.Fatal(err)
	}
	records, err := moves.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("moves should be deleted with their session, found %d", len(records))
	}
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		sessions.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		id, err := sessions.Create(3, "window", "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	list, err := sessions.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].SessionID != ids[2] || list[1].SessionID != ids[1] {
		t.Error("sessions not ordered newest first")
	}

	last, err := sessions.GetLast()
	if err != nil {
		t.Fatal(err)
	}
	if last.SessionID != ids[2] {
		t.Error("GetLast should return the newest session")
	}
}
