package cubeview

// Invert returns the sequence that undoes moves: each move inverted, in
// reverse order.
func Invert(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}

// Simplify merges adjacent moves of the same layer and drops turns that
// cancel out. Merged turns are expressed in {-1, 1, 2}.
// For example: R R becomes R2, R R R becomes R', R R' cancels out.
func Simplify(moves []Move) []Move {
	result := make([]Move, 0, len(moves))

	for _, move := range moves {
		move = move.Normalize()
		if move.IsNoop() {
			continue
		}
		if n := len(result); n > 0 && result[n-1].Face == move.Face && result[n-1].Depth == move.Depth {
			merged := canonicalTurns(result[n-1].Turns + move.Turns)
			if merged == 0 {
				// Moves cancelled out - remove the last move
				result = result[:n-1]
			} else {
				result[n-1].Turns = merged
			}
			continue
		}
		move.Turns = canonicalTurns(move.Turns)
		result = append(result, move)
	}

	return result
}

func canonicalTurns(t int) int {
	switch ((t % 4) + 4) % 4 {
	case 1:
		return 1
	case 2:
		return 2
	case 3:
		return -1
	default:
		return 0
	}
}
