package game

import (
	"fmt"
	"strings"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/move"
)

// State is the snapshot the rules operate on: the board, each side's
// reserve of unplaced majors, and the side to move. It holds no pointers,
// so a plain assignment is a full, independent copy.
type State struct {
	Board    board.Board
	Reserves [2]int
	ToMove   board.Side
}

// NewState returns the starting position: empty board, no majors in
// reserve, side A to move.
func NewState() *State {
	return &State{ToMove: board.SideA}
}

func NewStateWithReserves(a, b int) *State {
	st := NewState()
	st.Reserves = [2]int{a, b}
	return st
}

// StateFromRows is a convenience for tests and the shell.
func StateFromRows(rows []string, reserveA, reserveB int, toMove board.Side) (*State, error) {
	st := NewStateWithReserves(reserveA, reserveB)
	st.ToMove = toMove
	if err := st.Board.SetFromRows(rows); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *State) Copy() *State {
	c := *st
	return &c
}

func (st *State) Reserve(side board.Side) int {
	return st.Reserves[side]
}

// CanPlace returns whether the side to move may place this kind of piece.
func (st *State) CanPlace(kind board.Kind) bool {
	return kind == board.Minor || st.Reserves[st.ToMove] > 0
}

// LegalMoves enumerates every empty cell, row by row, with a minor and,
// if the mover has one in reserve, a major.
func (st *State) LegalMoves() []*move.Move {
	hasMajor := st.Reserves[st.ToMove] > 0
	n := st.Board.NumEmpty()
	if hasMajor {
		n *= 2
	}
	moves := make([]*move.Move, 0, n)
	for y := 0; y < board.Dim; y++ {
		for x := 0; x < board.Dim; x++ {
			if !st.Board.Empty(x, y) {
				continue
			}
			moves = append(moves, move.New(x, y, board.Minor))
			if hasMajor {
				moves = append(moves, move.New(x, y, board.Major))
			}
		}
	}
	return moves
}

func (st *State) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(st.Board.ToDisplayText())
	fmt.Fprintf(&sb, "reserve A: %d  reserve B: %d  to move: %v\n",
		st.Reserves[board.SideA], st.Reserves[board.SideB], st.ToMove)
	return sb.String()
}
