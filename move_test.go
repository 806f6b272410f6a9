package cubeview

import (
	"errors"
	"testing"
)

func TestParseMove(t *testing.T) {
	cases := map[string]Move{
		"R":    {Face: Right, Depth: 1, Turns: 1},
		"U'":   {Face: Top, Depth: 1, Turns: -1},
		"F2":   {Face: Front, Depth: 1, Turns: 2},
		"b2'":  {Face: Back, Depth: 1, Turns: -2},
		"2L":   {Face: Left, Depth: 2, Turns: 1},
		"3D3":  {Face: Bottom, Depth: 3, Turns: 3},
		" R` ": {Face: Right, Depth: 1, Turns: -1},
	}
	for in, want := range cases {
		got, err := ParseMove(in)
		if err != nil {
			t.Errorf("ParseMove(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMove(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestParseMoveInvalid(t *testing.T) {
	for _, in := range []string{"", "X", "R4", "0R", "2", "R''"} {
		if _, err := ParseMove(in); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseMove(%q) should fail with ErrInvalidNotation, got %v", in, err)
		}
	}
}

func TestNotationRoundTrip(t *testing.T) {
	s := "R U' F2 2B L2' D3"
	moves, err := ParseMoves(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatMoves(moves); got != s {
		t.Errorf("FormatMoves = %q, want %q", got, s)
	}
}

func TestSimplify(t *testing.T) {
	cases := map[string]string{
		"R R":         "R2",
		"R R R":       "R'",
		"R R'":        "",
		"R U U' R'":   "",
		"R 2R R":      "R 2R R",
		"F2 F2 U":     "U",
		"D3":          "D'",
		"L L L L B":   "B",
		"U' U' U' U2": "U'",
	}
	for in, want := range cases {
		moves, err := ParseMoves(in)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatMoves(Simplify(moves)); got != want {
			t.Errorf("Simplify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMoveValid(t *testing.T) {
	if !M(Front, 1).Valid(3) {
		t.Error("F should be valid on 3x3")
	}
	if (Move{Face: Front, Depth: 4, Turns: 1}).Valid(3) {
		t.Error("depth 4 should be invalid on 3x3")
	}
	if M(Front, 4).Valid(3) {
		t.Error("four turns is a no-op")
	}
}
