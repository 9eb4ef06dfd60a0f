package turnplayer

import (
	"errors"

	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
)

var ErrNoMoves = errors.New("no legal moves")

// TurnPlayer picks moves for whichever side is on turn in a game.
type TurnPlayer interface {
	// NewGame resets anything the player remembers about the current game.
	NewGame()
	BestMove(g *game.Game) (*move.Move, error)
	Name() string
}
