// Package analysis summarises the moves of a recorded session.
package analysis

import (
	"github.com/SeamusWaldron/cubeview"
)

// PauseThresholdMs is the gap above which a pause is counted.
const PauseThresholdMs = 1500

// TimedMove is a committed move with its commit time.
type TimedMove struct {
	Move   cubeview.Move
	TsMs   int64
	Source string
}

// Summary contains statistics for one session.
type Summary struct {
	TotalMoves      int
	SimplifiedMoves int
	Efficiency      float64
	DurationMs      int64
	TPS             float64
	LongestPauseMs  int64
	PausesOverLimit int
	AvgMoveGapMs    float64
	Cancellations   int
	BySource        map[string]int
	FaceCounts      [cubeview.NumFaces]int
	MostUsedFace    cubeview.Face
}

// Summarize computes a Summary. Efficiency is the share of moves that
// survive simplification.
func Summarize(moves []TimedMove) Summary {
	s := Summary{
		TotalMoves: len(moves),
		BySource:   make(map[string]int),
	}
	if len(moves) == 0 {
		return s
	}

	plain := make([]cubeview.Move, len(moves))
	for i, m := range moves {
		plain[i] = m.Move
		s.BySource[m.Source]++
		if m.Move.Face.Valid() {
			s.FaceCounts[m.Move.Face]++
		}
	}

	s.SimplifiedMoves = len(cubeview.Simplify(plain))
	s.Efficiency = float64(s.SimplifiedMoves) / float64(s.TotalMoves)
	s.DurationMs = moves[len(moves)-1].TsMs - moves[0].TsMs
	s.TPS = CalculateTPS(len(moves), s.DurationMs)
	s.LongestPauseMs = FindLongestPause(moves)
	s.PausesOverLimit = CountPausesOver(moves, PauseThresholdMs)
	s.AvgMoveGapMs = CalculateAvgMoveGap(moves)
	s.Cancellations = CountCancellations(plain)

	for _, f := range cubeview.Faces {
		if s.FaceCounts[f] > s.FaceCounts[s.MostUsedFace] {
			s.MostUsedFace = f
		}
	}
	return s
}

// CalculateTPS calculates turns per second.
func CalculateTPS(count int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(count) / (float64(durationMs) / 1000.0)
}

// CalculateAvgMoveGap calculates the average time between moves.
func CalculateAvgMoveGap(moves []TimedMove) float64 {
	if len(moves) < 2 {
		return 0
	}
	total := moves[len(moves)-1].TsMs - moves[0].TsMs
	return float64(total) / float64(len(moves)-1)
}

// FindLongestPause finds the longest gap between consecutive moves.
func FindLongestPause(moves []TimedMove) int64 {
	var longest int64
	for i := 1; i < len(moves); i++ {
		if gap := moves[i].TsMs - moves[i-1].TsMs; gap > longest {
			longest = gap
		}
	}
	return longest
}

// CountPausesOver counts gaps longer than thresholdMs.
func CountPausesOver(moves []TimedMove, thresholdMs int64) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		if moves[i].TsMs-moves[i-1].TsMs > thresholdMs {
			count++
		}
	}
	return count
}

// CountCancellations counts moves immediately undone by the next one.
func CountCancellations(moves []cubeview.Move) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		prev, cur := moves[i-1], moves[i]
		if prev.Face == cur.Face && prev.Depth == cur.Depth && (prev.Turns+cur.Turns)%4 == 0 {
			count++
		}
	}
	return count
}
