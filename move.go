package cubeview

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is a single layer turn: the layer at Depth counted from Face (1 is
// the outer layer) rotated by Turns quarter turns, clockwise as seen from
// outside Face when positive.
type Move struct {
	Face  Face
	Depth int
	Turns int
}

// M returns an outer-layer move of face by turns.
func M(face Face, turns int) Move {
	return Move{Face: face, Depth: 1, Turns: turns}
}

// Normalize reduces Turns modulo 4 keeping its sign, so the magnitude is
// in {0,1,2,3}. A zero depth is read as the outer layer.
func (m Move) Normalize() Move {
	m.Turns %= 4
	if m.Depth == 0 {
		m.Depth = 1
	}
	return m
}

// IsNoop reports whether applying the move leaves any cube unchanged.
func (m Move) IsNoop() bool {
	return !m.Face.Valid() || m.Turns%4 == 0
}

// Valid reports whether the move addresses an existing layer of an
// n-layer cube and turns it.
func (m Move) Valid(n int) bool {
	return !m.IsNoop() && m.Depth >= 1 && m.Depth <= n
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	m.Turns = -m.Turns
	return m
}

// Notation returns the move in standard notation. Inner layers carry a
// depth prefix.
// Examples: R, R', R2, 2U, 3F2'
func (m Move) Notation() string {
	var sb strings.Builder
	if m.Depth > 1 {
		sb.WriteString(strconv.Itoa(m.Depth))
	}
	sb.WriteString(m.Face.String())

	t := m.Turns % 4
	abs := t
	if abs < 0 {
		abs = -abs
	}
	if abs > 1 {
		sb.WriteString(strconv.Itoa(abs))
	}
	if t < 0 {
		sb.WriteByte('\'')
	}
	return sb.String()
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// ParseMove parses a move in standard notation.
// Examples: R, R', R2, 2R, 2R2'
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	// Optional depth prefix
	depth := 1
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		d, err := strconv.Atoi(s[:digits])
		if err != nil || d < 1 {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
		}
		depth = d
		s = s[digits:]
	}
	if len(s) == 0 {
		return Move{}, fmt.Errorf("%w: missing face", ErrInvalidNotation)
	}

	var face Face
	switch s[0] {
	case 'U', 'u':
		face = Top
	case 'D', 'd':
		face = Bottom
	case 'F', 'f':
		face = Front
	case 'B', 'b':
		face = Back
	case 'L', 'l':
		face = Left
	case 'R', 'r':
		face = Right
	default:
		return Move{}, fmt.Errorf("%w: unknown face %q", ErrInvalidNotation, s[0])
	}

	turns := 1
	suffix := s[1:]
	if strings.HasSuffix(suffix, "'") || strings.HasSuffix(suffix, "`") {
		turns = -1
		suffix = suffix[:len(suffix)-1]
	}
	switch suffix {
	case "":
	case "1", "2", "3":
		turns *= int(suffix[0] - '0')
	default:
		return Move{}, fmt.Errorf("%w: bad suffix %q", ErrInvalidNotation, suffix)
	}

	return Move{Face: face, Depth: depth, Turns: turns}, nil
}

// ParseMoves parses a whitespace-separated move sequence.
// Example: "R U R' U'"
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}
