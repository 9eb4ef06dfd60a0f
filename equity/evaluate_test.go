package equity

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/game"
)

func state(t *testing.T, rows []string, ra, rb int) *game.State {
	t.Helper()
	st, err := game.StateFromRows(rows, ra, rb, board.SideA)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestEvaluateEmpty(t *testing.T) {
	is := is.New(t)
	is.Equal(Evaluate(game.NewState()), 0)
}

func TestEvaluateMaterial(t *testing.T) {
	is := is.New(t)
	st := state(t, []string{
		"m.....",
		"..M...",
		"......",
		"...k..",
		"......",
		"......",
	}, 2, 1)
	// A: 4*1 + 2*2 + 1 + 5*2 = 19. B: 4*0 + 2*1 + 1 + 5*1 = 8.
	is.Equal(Evaluate(st), 11)
	is.Equal(MaterialEvaluator{}.Evaluate(st), 11)
}

func TestEvaluateIsAntisymmetric(t *testing.T) {
	is := is.New(t)
	a := state(t, []string{
		"mm....",
		"......",
		"..M...",
		"......",
		"......",
		"......",
	}, 1, 0)
	b := state(t, []string{
		"kk....",
		"......",
		"..K...",
		"......",
		"......",
		"......",
	}, 0, 1)
	is.Equal(Evaluate(a), -Evaluate(b))
}

func TestEvaluateWins(t *testing.T) {
	is := is.New(t)
	st := state(t, []string{
		"MMM...",
		"......",
		"......",
		"......",
		"......",
		"......",
	}, 0, 0)
	is.Equal(Evaluate(st), WinScore)

	st = state(t, []string{
		"K.....",
		".K....",
		"..K...",
		"......",
		"......",
		"......",
	}, 4, 0)
	is.Equal(Evaluate(st), -WinScore)

	// Both lines present: A is checked first.
	st = state(t, []string{
		"MMM...",
		"......",
		"KKK...",
		"......",
		"......",
		"......",
	}, 0, 0)
	is.Equal(Evaluate(st), WinScore)
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	is := is.New(t)
	st := state(t, []string{
		"mk....",
		"......",
		"......",
		"......",
		"......",
		"....MK",
	}, 1, 2)
	before := *st
	Evaluate(st)
	is.Equal(*st, before)
}
