package input

import (
	"math/rand"

	"github.com/SeamusWaldron/cubeview"
)

// DefaultScrambleLength is the number of moves in a scramble.
const DefaultScrambleLength = 20

// GenerateScramble draws count outer-layer moves. Each move draws a face
// in [0,5] and then a turn count in [1,3], uniformly.
func GenerateScramble(rng *rand.Rand, count int) []cubeview.Move {
	moves := make([]cubeview.Move, 0, count)
	for i := 0; i < count; i++ {
		face := cubeview.Face(rng.Intn(cubeview.NumFaces))
		turns := 1 + rng.Intn(3)
		moves = append(moves, cubeview.Move{Face: face, Depth: 1, Turns: turns})
	}
	return moves
}
