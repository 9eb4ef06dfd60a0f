// Package equity holds the static evaluation used at search leaves.
package equity

import (
	"github.com/domino14/boop/board"
	"github.com/domino14/boop/game"
)

// WinScore is the magnitude of a decided position. Search adds the
// remaining depth to it so that faster wins score higher.
const WinScore = 10000

// Material weights.
const (
	BoardMajorWeight   = 4
	ReserveMajorWeight = 2
	BoardMinorWeight   = 1
	// ReserveBonus is applied on top of ReserveMajorWeight.
	ReserveBonus = 5
)

// Evaluator scores a position from side A's point of view: positive is
// good for A, negative for B.
type Evaluator interface {
	Evaluate(st *game.State) int
}

// MaterialEvaluator counts pieces on the board and in reserve.
type MaterialEvaluator struct{}

func (MaterialEvaluator) Evaluate(st *game.State) int {
	return Evaluate(st)
}

func material(st *game.State, side board.Side) int {
	b := &st.Board
	return BoardMajorWeight*b.Count(side, board.Major) +
		ReserveMajorWeight*st.Reserves[side] +
		BoardMinorWeight*b.Count(side, board.Minor)
}

// Evaluate returns WinScore or -WinScore if a side has already won (A is
// checked first), and otherwise the material balance plus the reserve
// bonus.
func Evaluate(st *game.State) int {
	if game.HasWon(st, board.SideA) {
		return WinScore
	}
	if game.HasWon(st, board.SideB) {
		return -WinScore
	}
	score := material(st, board.SideA) - material(st, board.SideB)
	score += ReserveBonus*st.Reserves[board.SideA] - ReserveBonus*st.Reserves[board.SideB]
	return score
}
