package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/move"
)

func mustState(t *testing.T, rows []string, ra, rb int, toMove board.Side) *State {
	t.Helper()
	st, err := StateFromRows(rows, ra, rb, toMove)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestPlaceOnEmptyBoardDoesNotBoop(t *testing.T) {
	is := is.New(t)
	st := NewState()
	m := move.New(2, 2, board.Minor)
	is.NoErr(Place(st, m))
	boops := Propagate(st, 2, 2)
	is.Equal(len(boops), 0)
	p, ok := st.Board.At(2, 2)
	is.True(ok)
	is.Equal(p, board.Piece{Kind: board.Minor, Side: board.SideA})
}

func TestMinorPushesMinorButNotMajor(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"......",
		"..m...",
		"......",
		"..M...",
		"......",
	}, 0, 0, board.SideA)

	out, err := ApplyMove(st, move.New(2, 3, board.Minor))
	is.NoErr(err)
	is.Equal(st.Board.Rows(), []string{
		"......",
		"..m...",
		"......",
		"..m...",
		"..M...",
		"......",
	})
	is.Equal(len(out.Boops), 1)
	is.Equal(out.Boops[0], Boop{From: Cell{2, 2}, To: Cell{2, 1},
		Piece: board.Piece{Kind: board.Minor, Side: board.SideA}})
	is.True(out.Trio == nil)
	is.True(!out.Won)
	is.Equal(st.ToMove, board.SideB)
}

func TestPushOffBoardRemovesPiece(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"k.....",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	is.NoErr(Place(st, move.New(1, 1, board.Minor)))
	boops := Propagate(st, 1, 1)
	is.Equal(len(boops), 1)
	is.True(boops[0].OffBoard)
	is.Equal(boops[0].From, Cell{0, 0})
	is.True(st.Board.Empty(0, 0))
	is.Equal(st.Board.Count(board.SideB, board.Minor), 0)
}

func TestPushIntoOccupiedCellDoesNothing(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"......",
		"kk....",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	is.NoErr(Place(st, move.New(2, 2, board.Minor)))
	boops := Propagate(st, 2, 2)
	is.Equal(len(boops), 0)
	is.Equal(st.Board.Rows()[2], "kkm...")
}

func TestMajorPushesMajor(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"......",
		"..K...",
		"......",
		"......",
		"......",
	}, 1, 0, board.SideA)
	_, err := ApplyMove(st, move.New(3, 3, board.Major))
	is.NoErr(err)
	is.Equal(st.Reserves[board.SideA], 0)
	is.Equal(st.Board.Rows(), []string{
		"......",
		".K....",
		"......",
		"...M..",
		"......",
		"......",
	})
}

func TestIllegalPlacements(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"m.....",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 2, board.SideA)
	before := *st

	err := Place(st, move.New(0, 0, board.Minor))
	is.True(errors.Is(err, ErrIllegalMove))
	err = Place(st, move.New(3, 3, board.Major))
	is.True(errors.Is(err, ErrIllegalMove))
	err = Place(st, move.New(6, 0, board.Minor))
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = ApplyMove(st, move.New(0, 0, board.Major))
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(*st, before)

	// Side B does have majors.
	st.ToMove = board.SideB
	is.NoErr(Place(st, move.New(3, 3, board.Major)))
	is.Equal(st.Reserves[board.SideB], 1)
}

func TestTrioResolutionCreditsReserve(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"mM....",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	out, err := ApplyMove(st, move.New(2, 0, board.Minor))
	is.NoErr(err)
	is.True(out.Trio != nil)
	is.Equal(st.Reserves[board.SideA], TrioReserveCredit)
	is.Equal(st.Board.NumEmpty(), board.Dim*board.Dim)
	is.Equal(st.ToMove, board.SideB)
}

func TestOnlyMoversTrioIsResolved(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"......",
		"......",
		"......",
		"kkk...",
		"......",
	}, 0, 0, board.SideA)
	out, err := ApplyMove(st, move.New(5, 0, board.Minor))
	is.NoErr(err)
	is.True(out.Trio == nil)
	is.Equal(st.Board.Count(board.SideB, board.Minor), 3)
}

func TestFindBestTrioPrefersSmallestRowThenColumn(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"....m.",
		"mmm.m.",
		"....m.",
		"......",
		"......",
	}, 0, 0, board.SideA)
	trio, ok := FindBestTrio(st, board.SideA)
	is.True(ok)
	is.Equal(trio.topLeft(), Cell{4, 1})

	st = mustState(t, []string{
		"......",
		"......",
		".m.mmm",
		".m....",
		".m....",
		"......",
	}, 0, 0, board.SideA)
	trio, ok = FindBestTrio(st, board.SideA)
	is.True(ok)
	is.Equal(trio.topLeft(), Cell{1, 2})
	is.Equal(trio.sortedKey(), [3]Cell{{1, 2}, {1, 3}, {1, 4}})
}

func TestFindBestTrioTieKeepsFirstFound(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"mmm...",
		"m.....",
		"m.....",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	trio, ok := FindBestTrio(st, board.SideA)
	is.True(ok)
	is.Equal(trio, Trio{{0, 0}, {1, 0}, {2, 0}})
}

func TestFindBestTrioDoesNotAllocate(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"mmm...",
		"m.....",
		"m.....",
		"...kkk",
		"......",
		"......",
	}, 0, 0, board.SideA)
	allocs := testing.AllocsPerRun(100, func() {
		FindBestTrio(st, board.SideA)
		FindBestTrio(st, board.SideB)
	})
	is.Equal(allocs, 0.0)
}

func TestFindBestTrioNeedsAMinor(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"MMM...",
		"......",
		"......",
		"KkK...",
		"......",
		"......",
	}, 0, 0, board.SideA)
	_, ok := FindBestTrio(st, board.SideA)
	is.True(!ok)
	trio, ok := FindBestTrio(st, board.SideB)
	is.True(ok)
	is.Equal(trio.sortedKey(), [3]Cell{{0, 3}, {1, 3}, {2, 3}})
}

func TestFindBestTrioMixedSidesDoNotCount(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"mkm...",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 0, board.SideA)
	_, ok := FindBestTrio(st, board.SideA)
	is.True(!ok)
	_, ok = FindBestTrio(st, board.SideB)
	is.True(!ok)
}

func TestFindBestTrioIsDeterministic(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"k.....",
		".k.kkk",
		"..k...",
		"......",
		"kkk...",
		"......",
	}, 0, 0, board.SideB)
	first, ok := FindBestTrio(st, board.SideB)
	is.True(ok)
	for i := 0; i < 10; i++ {
		again, _ := FindBestTrio(st.Copy(), board.SideB)
		is.Equal(again, first)
	}
	is.Equal(first.topLeft(), Cell{0, 0})
}

func TestHasWonEightMajors(t *testing.T) {
	is := is.New(t)
	rows := []string{
		"M.M.M.",
		"......",
		"M.M.M.",
		"......",
		"M.M...",
		"......",
	}
	for _, reserve := range []int{0, 5} {
		st := mustState(t, rows, reserve, 0, board.SideB)
		is.True(HasWon(st, board.SideA))
		is.True(!HasWon(st, board.SideB))
	}
	// Minors sprinkled anywhere make no difference.
	st := mustState(t, []string{
		"MmMkMk",
		"kmkmkm",
		"MkMmMk",
		"......",
		"M.M...",
		"......",
	}, 0, 0, board.SideA)
	is.True(HasWon(st, board.SideA))

	st = mustState(t, []string{
		"M.M.M.",
		"......",
		"M.M.M.",
		"......",
		"M.....",
		"......",
	}, 9, 0, board.SideA)
	is.True(!HasWon(st, board.SideA))
}

func TestHasWonThreeMajorsInALine(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"...K..",
		"..K...",
		".K....",
		"......",
		"......",
	}, 0, 0, board.SideA)
	is.True(HasWon(st, board.SideB))
	is.True(!HasWon(st, board.SideA))

	st = mustState(t, []string{
		"......",
		"...K..",
		"..k...",
		".K....",
		"......",
		"......",
	}, 0, 0, board.SideA)
	is.True(!HasWon(st, board.SideB))

	st = mustState(t, []string{
		"......",
		"...K..",
		"..M...",
		".K....",
		"......",
		"......",
	}, 0, 0, board.SideA)
	is.True(!HasWon(st, board.SideB))
}

func TestApplyMoveWinKeepsTurn(t *testing.T) {
	is := is.New(t)
	st := mustState(t, []string{
		"......",
		"......",
		"......",
		"......",
		"......",
		"MM....",
	}, 1, 0, board.SideA)
	out, err := ApplyMove(st, move.New(2, 5, board.Major))
	is.NoErr(err)
	is.True(out.Won)
	is.True(out.Trio == nil)
	is.Equal(st.ToMove, board.SideA)
}

func TestLegalMoves(t *testing.T) {
	is := is.New(t)
	st := NewState()
	is.Equal(len(st.LegalMoves()), board.Dim*board.Dim)
	st.Reserves[board.SideA] = 1
	moves := st.LegalMoves()
	is.Equal(len(moves), 2*board.Dim*board.Dim)
	is.Equal(*moves[0], move.Move{X: 0, Y: 0, Kind: board.Minor})
	is.Equal(*moves[1], move.Move{X: 0, Y: 0, Kind: board.Major})
	is.Equal(*moves[2], move.Move{X: 1, Y: 0, Kind: board.Minor})

	st.ToMove = board.SideB
	is.Equal(len(st.LegalMoves()), board.Dim*board.Dim)
}

func majorCells(b *board.Board) map[Cell]board.Piece {
	cells := map[Cell]board.Piece{}
	for y := 0; y < board.Dim; y++ {
		for x := 0; x < board.Dim; x++ {
			if p, ok := b.At(x, y); ok && p.Kind == board.Major {
				cells[Cell{x, y}] = p
			}
		}
	}
	return cells
}

func numPieces(b *board.Board) int {
	return board.Dim*board.Dim - b.NumEmpty()
}

// Play many random games and check the invariants of every half-move.
func TestRandomPlayoutInvariants(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)

	for g := 0; g < 200; g++ {
		st := NewStateWithReserves(rng.Intn(4), rng.Intn(4))
		for ply := 0; ply < 80; ply++ {
			moves := st.LegalMoves()
			if len(moves) == 0 || HasWon(st, board.SideA) || HasWon(st, board.SideB) {
				break
			}
			m := moves[rng.Intn(len(moves))]
			before := st.Copy()

			if m.Kind == board.Minor {
				scratch := st.Copy()
				is.NoErr(Place(scratch, m))
				majors := majorCells(&before.Board)
				Propagate(scratch, m.X, m.Y)
				is.Equal(majorCells(&scratch.Board), majors) // minors never move majors
			}

			out, err := ApplyMove(st, m)
			is.NoErr(err)
			removed := 0
			for _, b := range out.Boops {
				if b.OffBoard {
					removed++
				} else {
					is.True(board.InBounds(b.To.X, b.To.Y))
				}
			}
			if out.Trio != nil {
				removed += 3
				is.Equal(st.Reserves[before.ToMove], before.Reserves[before.ToMove]+TrioReserveCredit-int(m.Kind))
			}
			is.Equal(numPieces(&st.Board), numPieces(&before.Board)+1-removed)
			is.True(st.Reserves[board.SideA] >= 0)
			is.True(st.Reserves[board.SideB] >= 0)
			if out.Won {
				break
			}
		}
	}
}
