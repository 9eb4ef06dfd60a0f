package game

import (
	"errors"
	"fmt"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/move"
)

const (
	// MajorsOnBoardToWin is how many of its majors a side needs on the
	// board at once to win.
	MajorsOnBoardToWin = 8
	// TrioReserveCredit is how many majors a trio returns to its owner's
	// reserve.
	TrioReserveCredit = 3
)

var ErrIllegalMove = errors.New("illegal move")

type direction struct{ dx, dy int }

// boopDirections is the order in which neighbors are pushed. Later pushes
// see the board as left by earlier ones, so this order is part of the
// rules.
var boopDirections = []direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// lineDirections is the scan order for trios and major lines.
var lineDirections = []direction{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

// Cell is a board coordinate.
type Cell struct {
	X, Y int
}

// Boop records one neighbor displaced by a placement. If OffBoard is set
// the piece was removed and To is meaningless.
type Boop struct {
	From     Cell
	To       Cell
	Piece    board.Piece
	OffBoard bool
}

// Trio is three aligned cells, in the order they were found.
type Trio [3]Cell

// Place puts a piece of the side to move on (m.X, m.Y).
func Place(st *State, m *move.Move) error {
	if !board.InBounds(m.X, m.Y) {
		return fmt.Errorf("%w: (%d,%d) is off the board", ErrIllegalMove, m.X, m.Y)
	}
	if !st.Board.Empty(m.X, m.Y) {
		return fmt.Errorf("%w: (%d,%d) is occupied", ErrIllegalMove, m.X, m.Y)
	}
	if m.Kind == board.Major {
		if st.Reserves[st.ToMove] <= 0 {
			return fmt.Errorf("%w: side %v has no major in reserve", ErrIllegalMove, st.ToMove)
		}
		st.Reserves[st.ToMove]--
	}
	st.Board.Set(m.X, m.Y, board.Piece{Kind: m.Kind, Side: st.ToMove})
	return nil
}

// Propagate applies the push rule for the piece that was just placed at
// (x, y) and returns what moved. Pushing does not care about sides; a
// minor can never push a major.
func Propagate(st *State, x, y int) []Boop {
	pusher, ok := st.Board.At(x, y)
	if !ok {
		return nil
	}
	var boops []Boop
	for _, d := range boopDirections {
		tx, ty := x+d.dx, y+d.dy
		if !board.InBounds(tx, ty) {
			continue
		}
		target, ok := st.Board.At(tx, ty)
		if !ok {
			continue
		}
		if pusher.Kind == board.Minor && target.Kind == board.Major {
			continue
		}
		px, py := tx+d.dx, ty+d.dy
		if !board.InBounds(px, py) {
			st.Board.Clear(tx, ty)
			boops = append(boops, Boop{From: Cell{tx, ty}, Piece: target, OffBoard: true})
		} else if st.Board.Empty(px, py) {
			st.Board.Clear(tx, ty)
			st.Board.Set(px, py, target)
			boops = append(boops, Boop{From: Cell{tx, ty}, To: Cell{px, py}, Piece: target})
		}
	}
	return boops
}

func owns(b *board.Board, x, y int, side board.Side) (board.Piece, bool) {
	p, ok := b.At(x, y)
	if !ok || p.Side != side {
		return p, false
	}
	return p, true
}

// sortedKey orders a trio's cells by (row, col) so the same three cells
// found from either end compare equal.
func (t Trio) sortedKey() [3]Cell {
	k := [3]Cell(t)
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && less(k[j], k[j-1]); j-- {
			k[j], k[j-1] = k[j-1], k[j]
		}
	}
	return k
}

func less(a, b Cell) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// topLeft is the member cell with the smallest row, then smallest column.
func (t Trio) topLeft() Cell {
	return t.sortedKey()[0]
}

// FindBestTrio finds the trio the given side must resolve, if any: three
// of its pieces in a line with at least one minor. If there are several,
// the one whose smallest (row, col) member is smallest wins; ties go to
// the one found first.
func FindBestTrio(st *State, side board.Side) (Trio, bool) {
	b := &st.Board
	var best Trio
	found := false
	for y := 0; y < board.Dim; y++ {
		for x := 0; x < board.Dim; x++ {
			p1, ok := owns(b, x, y, side)
			if !ok {
				continue
			}
			for _, d := range lineDirections {
				x1, y1 := x+d.dx, y+d.dy
				x2, y2 := x+2*d.dx, y+2*d.dy
				if !board.InBounds(x1, y1) || !board.InBounds(x2, y2) {
					continue
				}
				p2, ok2 := owns(b, x1, y1, side)
				p3, ok3 := owns(b, x2, y2, side)
				if !ok2 || !ok3 {
					continue
				}
				if p1.Kind != board.Minor && p2.Kind != board.Minor && p3.Kind != board.Minor {
					continue
				}
				// A trio seen again from its other end has the same
				// top-left cell, so it never replaces the first sighting.
				t := Trio{{x, y}, {x1, y1}, {x2, y2}}
				if !found || less(t.topLeft(), best.topLeft()) {
					best = t
					found = true
				}
			}
		}
	}
	return best, found
}

// ResolveTrio takes the three pieces off the board and credits the side's
// reserve, whatever the pieces were.
func ResolveTrio(st *State, t Trio, side board.Side) {
	for _, c := range t {
		st.Board.Clear(c.X, c.Y)
	}
	st.Reserves[side] += TrioReserveCredit
}

// HasWon returns whether the side has enough majors on the board, or three
// majors (and no minors) in a line.
func HasWon(st *State, side board.Side) bool {
	b := &st.Board
	if b.Count(side, board.Major) >= MajorsOnBoardToWin {
		return true
	}
	for y := 0; y < board.Dim; y++ {
		for x := 0; x < board.Dim; x++ {
			p, ok := owns(b, x, y, side)
			if !ok || p.Kind != board.Major {
				continue
			}
			for _, d := range lineDirections {
				x1, y1 := x+d.dx, y+d.dy
				x2, y2 := x+2*d.dx, y+2*d.dy
				if !board.InBounds(x1, y1) || !board.InBounds(x2, y2) {
					continue
				}
				p2, ok2 := owns(b, x1, y1, side)
				p3, ok3 := owns(b, x2, y2, side)
				if ok2 && ok3 && p2.Kind == board.Major && p3.Kind == board.Major {
					return true
				}
			}
		}
	}
	return false
}

// Outcome describes what one half-move did.
type Outcome struct {
	Boops []Boop
	Trio  *Trio
	Won   bool
}

// ApplyMove plays one half-move for the side to move: place, push, resolve
// a trio if one formed, check for a win, and hand the turn over unless the
// mover won. On error the state is untouched.
func ApplyMove(st *State, m *move.Move) (Outcome, error) {
	var out Outcome
	mover := st.ToMove
	if err := Place(st, m); err != nil {
		return out, err
	}
	out.Boops = Propagate(st, m.X, m.Y)
	if t, ok := FindBestTrio(st, mover); ok {
		ResolveTrio(st, t, mover)
		out.Trio = &t
	}
	out.Won = HasWon(st, mover)
	if !out.Won {
		st.ToMove = mover.Other()
	}
	return out, nil
}

// Simulate places, pushes and resolves a trio like ApplyMove, but always
// passes the turn and leaves win detection to the caller. Search runs it on
// its own copies. It returns false if the move is illegal.
func Simulate(st *State, m *move.Move) bool {
	mover := st.ToMove
	if Place(st, m) != nil {
		return false
	}
	Propagate(st, m.X, m.Y)
	if t, ok := FindBestTrio(st, mover); ok {
		ResolveTrio(st, t, mover)
	}
	st.ToMove = mover.Other()
	return true
}
