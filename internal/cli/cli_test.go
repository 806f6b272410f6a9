package cli

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/protocol"
	"github.com/SeamusWaldron/cubeview/internal/storage"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		1500 * time.Millisecond: "1.50s",
		90 * time.Second:        "1m30.0s",
	}
	for d, want := range cases {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestFindSession(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "cli.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}
	repo := storage.NewSessionRepository(db)

	if _, err := findSession(repo, "last"); err == nil {
		t.Error("empty database should have no last session")
	}

	first, err := repo.Create(3, "window", "")
	if err != nil {
		t.Fatal(err)
	}

	s, err := findSession(repo, first)
	if err != nil || s.SessionID != first {
		t.Fatalf("full id lookup: %v, %v", s, err)
	}
	s, err = findSession(repo, first[:8])
	if err != nil || s.SessionID != first {
		t.Fatalf("prefix lookup: %v, %v", s, err)
	}
	s, err = findSession(repo, "last")
	if err != nil || s.SessionID != first {
		t.Fatalf("last lookup: %v, %v", s, err)
	}
	if _, err := findSession(repo, "zzzz"); err == nil {
		t.Error("unknown id should fail")
	}
}

func TestMonitorTracksMoves(t *testing.T) {
	var out strings.Builder
	m := &monitor{out: &out, cube: cubeview.NewCube(3)}

	// white clockwise then white counter-clockwise
	m.handle(&protocol.Message{Type: protocol.MsgTypeRotation, Payload: []byte{0x04, 0x00}})
	if m.cube.IsSolved() {
		t.Error("cube should be turned")
	}
	m.handle(&protocol.Message{Type: protocol.MsgTypeRotation, Payload: []byte{0x05, 0x00}})
	if !m.cube.IsSolved() {
		t.Error("inverse turn should restore the cube")
	}

	m.handle(&protocol.Message{Type: protocol.MsgTypeBattery, Payload: []byte{42}})

	text := out.String()
	if !strings.Contains(text, "MOVE: U ") || !strings.Contains(text, "MOVE: U'") {
		t.Errorf("moves not printed in notation:\n%s", text)
	}
	if !strings.Contains(text, "BATTERY: 42%") {
		t.Errorf("battery not printed:\n%s", text)
	}
}
