package search

import (
	"fmt"
	"strings"

	"github.com/domino14/boop/move"
)

// PVLine is a principal variation: the line of play the search expects
// from the root, and its score.
type PVLine struct {
	Moves []*move.Move
	Score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = pvLine.Moves[:0]
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m *move.Move, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.Score = score
}

// Get the best move from the principal variation line.
func (pvLine *PVLine) GetPVMove() *move.Move {
	if len(pvLine.Moves) == 0 {
		return nil
	}
	return pvLine.Moves[0]
}

func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d\n", pvLine.Score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, m.ShortDescription())
	}
	return sb.String()
}

// NLBString is String with no line breaks.
func (pvLine PVLine) NLBString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d;", pvLine.Score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, " %d: %s;", i+1, m.ShortDescription())
	}
	return sb.String()
}
