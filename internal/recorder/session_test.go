package recorder

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "rec.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSessionRecordsCommittedMoves(t *testing.T) {
	db := openDB(t)
	s := NewSession(db)

	id, err := s.Start(3, "window", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	moves := []cubeview.Move{
		cubeview.M(cubeview.Right, 1),
		cubeview.M(cubeview.Top, -1),
		cubeview.M(cubeview.Front, 2),
	}
	for _, m := range moves {
		s.Record(anim.Entry{Move: m, Source: anim.SourceManual})
	}
	s.Record(anim.Entry{Move: cubeview.M(cubeview.Back, 1), Source: anim.SourceSolve})

	if err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if s.State() != StateEnded {
		t.Errorf("expected ended state, got %v", s.State())
	}

	records, err := storage.NewMoveRepository(db).GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 stored moves, got %d", len(records))
	}
	for i, m := range moves {
		if records[i].Move() != m {
			t.Errorf("move %d: got %v, want %v", i, records[i].Move(), m)
		}
		if records[i].MoveIndex != i {
			t.Errorf("move %d stored with index %d", i, records[i].MoveIndex)
		}
	}
	if records[3].Source != string(anim.SourceSolve) {
		t.Errorf("source not stored: %q", records[3].Source)
	}

	sess, err := storage.NewSessionRepository(db).Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if sess.EndedAt == nil {
		t.Error("session should be ended")
	}
}

func TestRecordIgnoredWhenIdle(t *testing.T) {
	s := NewSession(openDB(t))
	s.Record(anim.Entry{Move: cubeview.M(cubeview.Left, 1)})
	if s.MoveCount() != 0 {
		t.Error("idle session should not accept moves")
	}
	if err := s.End(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("expected ErrNotRecording, got %v", err)
	}
}

func TestStartTwice(t *testing.T) {
	s := NewSession(openDB(t))
	if _, err := s.Start(3, "window", ""); err != nil {
		t.Fatal(err)
	}
	defer s.End()
	if _, err := s.Start(3, "window", ""); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("expected ErrAlreadyRecording, got %v", err)
	}
}

func TestRecoverInterrupted(t *testing.T) {
	db := openDB(t)
	statePath := filepath.Join(t.TempDir(), "state.json")

	sf, err := NewStateFile(statePath)
	if err != nil {
		t.Fatal(err)
	}
	crashed := NewSession(db, WithStateFile(sf))
	id, err := crashed.Start(3, "terminal", "")
	if err != nil {
		t.Fatal(err)
	}

	// A new process reads the state file left behind.
	sf2, err := NewStateFile(statePath)
	if err != nil {
		t.Fatal(err)
	}
	if sf2.ActiveSessionID() != id {
		t.Fatalf("state file should name the open session, got %q", sf2.ActiveSessionID())
	}

	got, err := NewSession(db, WithStateFile(sf2)).RecoverInterrupted()
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("recovered %q, want %q", got, id)
	}
	if sf2.HasActiveSession() {
		t.Error("state file should be cleared")
	}

	sess, err := storage.NewSessionRepository(db).Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if sess.EndedAt == nil {
		t.Error("interrupted session should be ended")
	}
}

func TestStateFileRemembersDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	sf, err := NewStateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if sf.LastDeviceID() != "" {
		t.Error("new state file should be empty")
	}
	if err := sf.SetLastDevice("AA:BB:CC:DD:EE:FF", "GoCube_1234"); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewStateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.State().Device; got.Address != "AA:BB:CC:DD:EE:FF" || got.Name != "GoCube_1234" {
		t.Errorf("unexpected device %+v", got)
	}
	if reopened.HasActiveSession() {
		t.Error("no session was opened")
	}
}
