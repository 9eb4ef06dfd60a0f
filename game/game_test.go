package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/move"
)

func TestGameRecordsSequence(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	is.Equal(g.Playing(), Playing)
	is.Equal(g.PlayerOnTurn(), board.SideA)

	_, err := g.PlayMove(move.New(0, 0, board.Minor))
	is.NoErr(err)
	_, err = g.PlayMove(move.New(5, 5, board.Minor))
	is.NoErr(err)
	is.Equal(g.Turn(), 2)
	is.Equal(g.Sequence().String(), "Ad")
	is.Equal(g.PlayerOnTurn(), board.SideA)
	is.True(g.TrioSequence() == nil)

	h := g.History()
	is.Equal(h[0].Side, board.SideA)
	is.Equal(h[1].Side, board.SideB)
}

func TestGameIllegalMoveLeavesSessionAlone(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	_, err := g.PlayMove(move.New(2, 2, board.Minor))
	is.NoErr(err)
	_, err = g.PlayMove(move.New(2, 2, board.Minor))
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = g.PlayMove(move.New(3, 3, board.Major))
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(g.Turn(), 1)
	is.Equal(g.PlayerOnTurn(), board.SideB)
}

func TestGameTrioSequence(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"mM....",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	g := NewGameFromState(st)
	moves := []*move.Move{
		move.New(4, 4, board.Minor),
		move.New(0, 5, board.Minor),
		move.New(2, 0, board.Minor),
		move.New(5, 0, board.Minor),
	}
	for i, m := range moves {
		out, err := g.PlayMove(m)
		is.NoErr(err)
		is.Equal(out.Trio != nil, i == 2)
	}
	is.Equal(g.TrioSequence().String(), "]FM")
	is.Equal(g.Sequence().String(), "]FM_")
	is.Equal(g.State().Reserve(board.SideA), TrioReserveCredit)
}

func TestGameOverOnMajorLine(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"......",
		"......",
		"......",
		"......",
		"MM....",
	}, 1, 0, board.SideA)
	g := NewGameFromState(st)
	out, err := g.PlayMove(move.New(2, 5, board.Major))
	is.NoErr(err)
	is.True(out.Won)
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Winner(), int(board.SideA))

	_, err = g.PlayMove(move.New(0, 0, board.Minor))
	is.True(errors.Is(err, ErrGameOver))
}

func TestGameDrawOnFullBoard(t *testing.T) {
	st := mustState(t, []string{
		"mkmkmk",
		"mkmkmk",
		"kmkmkm",
		"kmkmkm",
		"mkmkmk",
		"mkmkm.",
	}, 0, 0, board.SideB)
	g := NewGameFromState(st)
	assert.Equal(t, Playing, g.Playing())

	// Pushing from the corner only lands on occupied cells, so nothing moves.
	out, err := g.PlayMove(move.New(5, 5, board.Minor))
	assert.NoError(t, err)
	assert.Empty(t, out.Boops)
	assert.Nil(t, out.Trio)
	assert.Equal(t, GameOver, g.Playing())
	assert.Equal(t, NoWinner, g.Winner())
	assert.Contains(t, g.ToDisplayText(), "draw")
}

func TestGameOverWhenMoverBoopsOpponentIntoLine(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"KK....",
		"..K...",
		"......",
		"......",
		"......",
		"......",
	}, 1, 0, board.SideA)
	g := NewGameFromState(st)
	is.Equal(g.Playing(), Playing)

	// The major at (2,1) is booped to (2,0), completing B's row.
	out, err := g.PlayMove(move.New(2, 2, board.Major))
	is.NoErr(err)
	is.True(!out.Won)
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Winner(), int(board.SideB))
}

func TestGameStartingFromWonPosition(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"KKK...",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	g := NewGameFromState(st)
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Winner(), int(board.SideB))
}

func TestUnplayLastMove(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	is.True(g.UnplayLastMove() != nil)

	_, err := g.PlayMove(move.New(2, 2, board.Minor))
	is.NoErr(err)
	snapshot := g.State()
	_, err = g.PlayMove(move.New(2, 3, board.Minor))
	is.NoErr(err)
	is.True(*g.State() != *snapshot)

	is.NoErr(g.UnplayLastMove())
	is.Equal(*g.State(), *snapshot)
	is.Equal(g.Turn(), 1)
	is.Equal(g.Sequence().String(), "O")
}

func TestStateIsACopy(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	st := g.State()
	st.Board.Set(0, 0, board.Piece{Kind: board.Major, Side: board.SideB})
	st.Reserves[board.SideA] = 7
	is.True(g.State().Board.Empty(0, 0))
	is.Equal(g.State().Reserve(board.SideA), 0)
}

func TestGameCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	_, err := g.PlayMove(move.New(1, 1, board.Minor))
	is.NoErr(err)
	c := g.Copy()
	_, err = c.PlayMove(move.New(4, 4, board.Minor))
	is.NoErr(err)
	is.Equal(g.Turn(), 1)
	is.Equal(c.Turn(), 2)
	is.Equal(g.Sequence().String(), "H")
}
