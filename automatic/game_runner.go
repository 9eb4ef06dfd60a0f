// Package automatic plays computer-vs-computer games and collects their
// move sequences for the learned prior.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boop/config"
	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
	"github.com/domino14/boop/turnplayer"
)

// GameRecord is what one self-play game produced.
type GameRecord struct {
	ID     int `yaml:"id"`
	Winner int `yaml:"winner"`
	Turns  int `yaml:"turns"`
	// Sequence is what gets logged; empty if the game was rejected.
	Sequence  string `yaml:"sequence"`
	Abandoned bool   `yaml:"abandoned"`
	Rejected  bool   `yaml:"rejected"`
	TrieMoves int    `yaml:"trie_moves"`
}

func (r GameRecord) UsedPrior() bool {
	return r.TrieMoves > 0
}

// priorUser is implemented by players that can consult the trie.
type priorUser interface {
	TrieMovesUsed() int
}

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	game    *game.Game
	players [2]turnplayer.TurnPlayer

	maxSequenceLength int
	sampleToTrio      bool
}

// NewGameRunner sets up a runner where p0 plays side A and p1 side B.
func NewGameRunner(cfg *config.Config, p0, p1 turnplayer.TurnPlayer) *GameRunner {
	return &GameRunner{
		players:           [2]turnplayer.TurnPlayer{p0, p1},
		maxSequenceLength: cfg.GetInt(config.ConfigMaxSequenceLength),
		sampleToTrio:      cfg.GetBool(config.ConfigSampleToTrio),
	}
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// PlayGame plays a fresh game to the end. A game that runs past the
// maximum sequence length is abandoned.
func (r *GameRunner) PlayGame(ctx context.Context, id int) (GameRecord, error) {
	r.game = game.NewGame()
	for _, p := range r.players {
		p.NewGame()
	}
	for r.game.Playing() == game.Playing {
		if err := ctx.Err(); err != nil {
			return GameRecord{}, err
		}
		if len(r.game.Sequence()) > r.maxSequenceLength {
			log.Debug().Int("game", id).Int("length", len(r.game.Sequence())).Msg("abandoning-long-game")
			return r.record(id, true), nil
		}
		if err := r.playTurn(); err != nil {
			return GameRecord{}, fmt.Errorf("game %d turn %d: %w", id, r.game.Turn(), err)
		}
	}
	return r.record(id, false), nil
}

func (r *GameRunner) playTurn() error {
	side := r.game.PlayerOnTurn()
	m, err := r.players[side].BestMove(r.game)
	if err != nil {
		return err
	}
	_, err = r.game.PlayMove(m)
	return err
}

// sample picks the part of the game that goes in the log: up to and
// including the first trio if sampling to trios, otherwise everything.
func (r *GameRunner) sample() move.Sequence {
	if r.sampleToTrio {
		if s := r.game.TrioSequence(); s != nil {
			return s
		}
	}
	return r.game.Sequence()
}

func (r *GameRunner) record(id int, abandoned bool) GameRecord {
	rec := GameRecord{
		ID:        id,
		Winner:    r.game.Winner(),
		Turns:     r.game.Turn(),
		Abandoned: abandoned,
	}
	if abandoned {
		rec.Winner = game.NoWinner
	}
	for _, p := range r.players {
		if pu, ok := p.(priorUser); ok {
			rec.TrieMoves += pu.TrieMovesUsed()
		}
	}
	seq := r.sample()
	if len(seq) == 0 || len(seq) > r.maxSequenceLength {
		rec.Rejected = true
		return rec
	}
	rec.Sequence = seq.String()
	return rec
}
