// Package turnplayer implements the decision engine: it consults the
// learned prior when it can and falls back to search when it cannot.
package turnplayer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/config"
	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
	"github.com/domino14/boop/search"
	"github.com/domino14/boop/trie"
)

// AIPlayer is not safe for concurrent use; the trie it reads may be shared.
type AIPlayer struct {
	solver *search.Solver
	trie   *trie.Trie
	depth  int

	priorSide board.Side
	usePrior  bool

	// per game
	offTrie       bool
	trieMovesUsed int
}

// ParsePriorSide understands a, b and none.
func ParsePriorSide(s string) (board.Side, bool, error) {
	switch strings.ToLower(s) {
	case "a":
		return board.SideA, true, nil
	case "b":
		return board.SideB, true, nil
	case "none", "":
		return board.SideA, false, nil
	}
	return board.SideA, false, fmt.Errorf("prior side must be a, b, or none; got %q", s)
}

// NewAIPlayer returns a player that searches to the configured depth. t may
// be nil, in which case the prior is never consulted.
func NewAIPlayer(cfg *config.Config, t *trie.Trie) (*AIPlayer, error) {
	side, use, err := ParsePriorSide(cfg.GetString(config.ConfigPriorSide))
	if err != nil {
		return nil, err
	}
	depth := cfg.GetInt(config.ConfigSearchDepth)
	if depth < 1 {
		return nil, search.ErrBadDepth
	}
	return &AIPlayer{
		solver:    search.NewSolver(cfg),
		trie:      t,
		depth:     depth,
		priorSide: side,
		usePrior:  use && t != nil,
	}, nil
}

func (p *AIPlayer) Name() string {
	if p.usePrior {
		return fmt.Sprintf("ai-d%d-prior-%v", p.depth, p.priorSide)
	}
	return fmt.Sprintf("ai-d%d", p.depth)
}

func (p *AIPlayer) Solver() *search.Solver {
	return p.solver
}

func (p *AIPlayer) SetDepth(d int) {
	p.depth = d
}

func (p *AIPlayer) Depth() int {
	return p.depth
}

func (p *AIPlayer) NewGame() {
	p.offTrie = false
	p.trieMovesUsed = 0
}

// TrieMovesUsed is how many moves this game came from the prior.
func (p *AIPlayer) TrieMovesUsed() int {
	return p.trieMovesUsed
}

// UsedPrior is whether any move this game came from the prior.
func (p *AIPlayer) UsedPrior() bool {
	return p.trieMovesUsed > 0
}

// OffTrie is whether the game has left the prior for good.
func (p *AIPlayer) OffTrie() bool {
	return p.offTrie
}

func (p *AIPlayer) BestMove(g *game.Game) (*move.Move, error) {
	if g.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	if p.usePrior && !p.offTrie && g.PlayerOnTurn() == p.priorSide {
		if m := p.priorMove(g); m != nil {
			p.trieMovesUsed++
			return m, nil
		}
		p.offTrie = true
		log.Debug().Int("turn", g.Turn()).Msg("fell-off-trie")
	}
	res, err := p.solver.Solve(g.State(), p.depth)
	if err != nil {
		return nil, err
	}
	if res.Move == nil {
		return nil, ErrNoMoves
	}
	return res.Move, nil
}

// priorMove returns the highest-valued continuation of the game so far
// that can still be played as a minor, or nil.
func (p *AIPlayer) priorMove(g *game.Game) *move.Move {
	id, ok := p.trie.Walk(g.Sequence())
	if !ok {
		return nil
	}
	st := g.State()
	playable := lo.Filter(p.trie.Children(id), func(c trie.Child, _ int) bool {
		x, y, err := move.Decode(c.Symbol)
		return err == nil && st.Board.Empty(x, y)
	})
	if len(playable) == 0 {
		return nil
	}
	best := lo.MaxBy(playable, func(a, b trie.Child) bool { return a.Value > b.Value })
	x, y, _ := move.Decode(best.Symbol)
	log.Debug().Str("symbol", string(rune(best.Symbol))).Float64("value", best.Value).
		Int("candidates", len(playable)).Msg("prior-move")
	return move.New(x, y, board.Minor)
}
