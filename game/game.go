// Package game implements the rules of the game: placing pieces, pushing
// neighbors, resolving trios and detecting wins. It also holds the
// authoritative game session that players and the self-play runner drive.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/move"
)

// PlayState is whether a game is still going.
type PlayState uint8

const (
	Playing PlayState = iota
	GameOver
)

// NoWinner is returned by Winner for a drawn or unfinished game.
const NoWinner = -1

var ErrGameOver = errors.New("cannot play a move on a game that is over")

// Turn is one entry in a game's history.
type Turn struct {
	Side    board.Side
	Move    move.Move
	Outcome Outcome
}

// Game is a game session. It owns the live state; players only ever see
// copies of it.
type Game struct {
	initial   State
	st        State
	history   []Turn
	sequence  move.Sequence
	firstTrio int
	playState PlayState
	winner    int
}

func NewGame() *Game {
	return NewGameFromState(NewState())
}

// NewGameFromState starts a session from an arbitrary position. If the
// side to move has nowhere to play the game is immediately over.
func NewGameFromState(st *State) *Game {
	g := &Game{initial: *st, st: *st, firstTrio: -1, winner: NoWinner}
	g.checkTerminal()
	return g
}

// State returns a copy of the live state.
func (g *Game) State() *State {
	return g.st.Copy()
}

// PlayMove validates and plays a move for the side on turn.
func (g *Game) PlayMove(m *move.Move) (Outcome, error) {
	if g.playState == GameOver {
		return Outcome{}, ErrGameOver
	}
	mover := g.st.ToMove
	out, err := ApplyMove(&g.st, m)
	if err != nil {
		return out, err
	}
	if out.Trio != nil && g.firstTrio < 0 {
		g.firstTrio = len(g.sequence)
	}
	g.history = append(g.history, Turn{Side: mover, Move: *m, Outcome: out})
	g.sequence = append(g.sequence, m.Symbol())

	log.Debug().Str("side", mover.String()).Str("move", m.ShortDescription()).
		Int("boops", len(out.Boops)).Bool("trio", out.Trio != nil).
		Bool("won", out.Won).Msg("played-move")

	if out.Won {
		g.playState = GameOver
		g.winner = int(mover)
		return out, nil
	}
	g.checkTerminal()
	return out, nil
}

// checkTerminal ends the game if either side has won, A checked first, or
// as a draw if the board is full. A move can boop the opponent into a win.
func (g *Game) checkTerminal() {
	for _, s := range []board.Side{board.SideA, board.SideB} {
		if HasWon(&g.st, s) {
			g.playState = GameOver
			g.winner = int(s)
			return
		}
	}
	if g.st.Board.Full() {
		g.playState = GameOver
	}
}

// UnplayLastMove rewinds the session by one move by replaying history from
// the starting position.
func (g *Game) UnplayLastMove() error {
	if len(g.history) == 0 {
		return errors.New("no moves to take back")
	}
	turns := g.history[:len(g.history)-1]
	initial := g.initial
	ng := NewGameFromState(&initial)
	for _, t := range turns {
		m := t.Move
		if _, err := ng.PlayMove(&m); err != nil {
			return fmt.Errorf("replaying history: %w", err)
		}
	}
	*g = *ng
	return nil
}

func (g *Game) Playing() PlayState {
	return g.playState
}

// Winner returns the winning side as an int, or NoWinner.
func (g *Game) Winner() int {
	return g.winner
}

func (g *Game) PlayerOnTurn() board.Side {
	return g.st.ToMove
}

// Turn is the number of moves played so far.
func (g *Game) Turn() int {
	return len(g.history)
}

func (g *Game) History() []Turn {
	return g.history
}

// Sequence returns every placement so far as encoded positions.
func (g *Game) Sequence() move.Sequence {
	return g.sequence
}

// TrioSequence returns the placements up to and including the first move
// that produced a trio, or nil if no trio has formed yet.
func (g *Game) TrioSequence() move.Sequence {
	if g.firstTrio < 0 {
		return nil
	}
	return g.sequence[:g.firstTrio+1]
}

func (g *Game) Copy() *Game {
	c := *g
	c.history = append([]Turn(nil), g.history...)
	c.sequence = append(move.Sequence(nil), g.sequence...)
	return &c
}

func (g *Game) ToDisplayText() string {
	s := g.st.ToDisplayText()
	if g.playState == GameOver {
		if g.winner == NoWinner {
			s += "game over: draw\n"
		} else {
			s += fmt.Sprintf("game over: %v wins\n", board.Side(g.winner))
		}
	}
	return s
}
