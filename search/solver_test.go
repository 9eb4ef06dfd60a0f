package search

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/config"
	"github.com/domino14/boop/equity"
	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
)

var DefaultConfig = config.DefaultConfig()

func stateFromRows(t *testing.T, rows []string, ra, rb int, toMove board.Side) *game.State {
	t.Helper()
	st, err := game.StateFromRows(rows, ra, rb, toMove)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

// scoreMove is the full-window minimax value of playing m in st.
func scoreMove(s *Solver, st *game.State, m *move.Move, depth int) int {
	s.stack = make([]game.State, depth+1)
	s.stack[0] = *st
	s.stack[1] = *st
	game.Simulate(&s.stack[1], m)
	s.evalCache = make(map[uint64]int)
	return s.alphabeta(1, s.zobrist.Hash(&s.stack[1]), depth-1, -Infinity, Infinity, &PVLine{})
}

var midgame = []string{
	"......",
	".m..k.",
	"..Mk..",
	"..mK..",
	".k....",
	"......",
}

func TestBadDepth(t *testing.T) {
	is := is.New(t)
	s := NewSolver(DefaultConfig)
	_, err := s.Solve(game.NewState(), 0)
	is.True(errors.Is(err, ErrBadDepth))
}

func TestDepthOneFindsWin(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, []string{
		"......",
		"......",
		"......",
		"......",
		"......",
		"MM....",
	}, 1, 0, board.SideA)
	s := NewSolver(DefaultConfig)
	res, err := s.Solve(st, 1)
	is.NoErr(err)
	is.True(res.Score >= equity.WinScore)
	is.True(res.Move != nil)

	after := st.Copy()
	_, err = game.ApplyMove(after, res.Move)
	is.NoErr(err)
	is.True(game.HasWon(after, board.SideA))
}

func TestMinimizerFindsWin(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, []string{
		"....K.",
		"....K.",
		"......",
		"......",
		"......",
		"......",
	}, 0, 2, board.SideB)
	s := NewSolver(DefaultConfig)
	res, err := s.Solve(st, 1)
	is.NoErr(err)
	is.True(res.Score <= -equity.WinScore)
	is.True(res.Move != nil)
	after := st.Copy()
	_, err = game.ApplyMove(after, res.Move)
	is.NoErr(err)
	is.True(game.HasWon(after, board.SideB))
}

func TestPrefersFasterWin(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, []string{
		"......",
		"......",
		"......",
		"......",
		"......",
		"MM....",
	}, 1, 0, board.SideA)
	s := NewSolver(DefaultConfig)
	res, err := s.Solve(st, 3)
	is.NoErr(err)
	// Winning right away leaves two plies unsearched.
	is.Equal(res.Score, equity.WinScore+2)
}

func TestSolveDoesNotMutate(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, midgame, 1, 1, board.SideA)
	before := *st
	s := NewSolver(DefaultConfig)
	_, err := s.Solve(st, 2)
	is.NoErr(err)
	is.Equal(*st, before)
}

func TestFullBoard(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, []string{
		"mkmkmk",
		"mkmkmk",
		"kmkmkm",
		"kmkmkm",
		"mkmkmk",
		"mkmkmk",
	}, 2, 0, board.SideA)
	s := NewSolver(DefaultConfig)
	res, err := s.Solve(st, 3)
	is.NoErr(err)
	is.True(res.Move == nil)
	is.Equal(res.Score, equity.Evaluate(st))
}

func TestScoreIsDeterministic(t *testing.T) {
	is := is.New(t)
	for _, side := range []board.Side{board.SideA, board.SideB} {
		st := stateFromRows(t, midgame, 1, 1, side)
		var score int
		for i := 0; i < 4; i++ {
			s := NewSolver(DefaultConfig)
			s.SetSeed(uint64(i))
			res, err := s.Solve(st, 2)
			is.NoErr(err)
			if i == 0 {
				score = res.Score
			}
			is.Equal(res.Score, score)
			// The returned move achieves the score.
			is.Equal(scoreMove(NewSolver(DefaultConfig), st, res.Move, 2), score)
		}
	}
}

func TestRootScoreIsBestOfChildren(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, midgame, 1, 0, board.SideB)
	s := NewSolver(DefaultConfig)
	res, err := s.Solve(st, 2)
	is.NoErr(err)

	best := Infinity
	for _, m := range st.LegalMoves() {
		best = min(best, scoreMove(NewSolver(DefaultConfig), st, m, 2))
	}
	is.Equal(res.Score, best)
}

func TestEvalCacheDoesNotChangeResults(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, midgame, 2, 1, board.SideA)

	on := NewSolver(DefaultConfig)
	on.SetSeed(42)
	r1, err := on.Solve(st, 3)
	is.NoErr(err)
	is.True(on.cacheHits > 0)

	off := NewSolver(DefaultConfig)
	off.SetEvalCache(false)
	off.SetSeed(42)
	r2, err := off.Solve(st, 3)
	is.NoErr(err)

	is.Equal(r1.Score, r2.Score)
	is.Equal(*r1.Move, *r2.Move)
	is.Equal(r1.Nodes, r2.Nodes)
}

type constEvaluator int

func (c constEvaluator) Evaluate(*game.State) int { return int(c) }

func TestCustomEvaluator(t *testing.T) {
	is := is.New(t)
	s := NewSolver(DefaultConfig)
	s.SetEvaluator(constEvaluator(7))
	res, err := s.Solve(stateFromRows(t, midgame, 0, 0, board.SideA), 2)
	is.NoErr(err)
	is.Equal(res.Score, 7)
}

func TestPrincipalVariation(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, midgame, 1, 1, board.SideA)
	s := NewSolver(DefaultConfig)
	s.SetSeed(7)
	res, err := s.Solve(st, 3)
	is.NoErr(err)
	is.Equal(res.PV.GetPVMove(), res.Move)
	is.Equal(res.PV.Score, res.Score)
	is.True(len(res.PV.Moves) >= 1 && len(res.PV.Moves) <= 3)

	replay := st.Copy()
	for _, m := range res.PV.Moves {
		_, err := game.ApplyMove(replay, m)
		is.NoErr(err)
	}
}

func TestPrincipalVariationStopsAtWin(t *testing.T) {
	is := is.New(t)
	st := stateFromRows(t, []string{
		"......",
		"......",
		"......",
		"......",
		"......",
		"MM....",
	}, 1, 0, board.SideA)
	s := NewSolver(DefaultConfig)
	res, err := s.Solve(st, 3)
	is.NoErr(err)
	is.Equal(len(res.PV.Moves), 1)
	is.True(res.PV.NLBString() != "")
}
