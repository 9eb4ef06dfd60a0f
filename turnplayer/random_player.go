package turnplayer

import (
	"lukechampine.com/frand"

	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
)

// RandomPlayer plays a uniformly random legal move.
type RandomPlayer struct {
	rng *frand.RNG
}

func NewRandomPlayer() *RandomPlayer {
	return &RandomPlayer{rng: frand.New()}
}

// NewSeededRandomPlayer plays the same moves every time for a given seed.
func NewSeededRandomPlayer(seed []byte) *RandomPlayer {
	s := make([]byte, 32)
	copy(s, seed)
	return &RandomPlayer{rng: frand.NewCustom(s, 1024, 12)}
}

func (p *RandomPlayer) Name() string { return "random" }

func (p *RandomPlayer) NewGame() {}

func (p *RandomPlayer) BestMove(g *game.Game) (*move.Move, error) {
	if g.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	moves := g.State().LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}
	return moves[p.rng.Intn(len(moves))], nil
}
