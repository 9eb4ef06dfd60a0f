package automatic

// Data collection for automatic games: many computer vs computer games in
// parallel, their sequences appended to the log, then one ingest into the
// trie.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/boop/config"
	"github.com/domino14/boop/seqlog"
	"github.com/domino14/boop/trie"
	"github.com/domino14/boop/turnplayer"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const (
	OpponentAI     = "ai"
	OpponentRandom = "random"
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// BatchOptions says what a self-play batch plays with and where it writes.
type BatchOptions struct {
	// Trie is read by the players during the batch and gets the new
	// sequences afterwards. May be nil.
	Trie *trie.Trie
	Log  seqlog.Log
	// Opponent is who plays side B: OpponentAI or OpponentRandom.
	Opponent string
	// Persist saves the trie to the configured path after ingesting.
	Persist bool
}

func newPlayers(cfg *config.Config, opts BatchOptions) ([2]turnplayer.TurnPlayer, error) {
	var players [2]turnplayer.TurnPlayer
	a, err := turnplayer.NewAIPlayer(cfg, opts.Trie)
	if err != nil {
		return players, err
	}
	players[0] = a
	switch opts.Opponent {
	case OpponentAI, "":
		b, err := turnplayer.NewAIPlayer(cfg, opts.Trie)
		if err != nil {
			return players, err
		}
		players[1] = b
	case OpponentRandom:
		players[1] = turnplayer.NewRandomPlayer()
	default:
		return players, fmt.Errorf("unknown opponent %q", opts.Opponent)
	}
	return players, nil
}

// CompVsComp plays numGames games on the given number of threads. Every
// accepted sequence is appended to opts.Log as soon as its game ends. Once
// all games are done the new sequences are ingested into opts.Trie. If ctx
// is canceled the games in flight are dropped, but whatever finished is
// still ingested.
func CompVsComp(ctx context.Context, cfg *config.Config, opts BatchOptions,
	numGames, threads int) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	if threads < 1 {
		threads = 1
	}
	playersPerThread := make([][2]turnplayer.TurnPlayer, threads)
	for t := range playersPerThread {
		players, err := newPlayers(cfg, opts)
		if err != nil {
			return nil, err
		}
		playersPerThread[t] = players
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	CVCCounter.Set(0)

	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	jobs := make(chan int, 100)
	records := make(chan GameRecord, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 1; i <= numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
			if i%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i)
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
		return nil
	})

	var wg sync.WaitGroup
	for _, players := range playersPerThread {
		players := players
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			r := NewGameRunner(cfg, players[0], players[1])
			for id := range jobs {
				rec, err := r.PlayGame(gctx, id)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				} else if err != nil {
					return err
				}
				CVCCounter.Add(1)
				records <- rec
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(records)
	}()

	// A single writer owns the log and the summary.
	summary := NewSummary()
	var lines []string
	var writeErr error
	for rec := range records {
		summary.Add(rec)
		if rec.Rejected || writeErr != nil {
			continue
		}
		lines = append(lines, rec.Sequence)
		if opts.Log != nil {
			if err := opts.Log.Append(context.WithoutCancel(ctx), rec.Sequence); err != nil {
				log.Err(err).Int("game", rec.ID).Msg("append-sequence-failed")
				writeErr = err
			}
		}
	}
	err := g.Wait()
	log.Info().Int("games", summary.Games).Int("recorded", len(lines)).Msg("All games finished.")

	if opts.Trie != nil && len(lines) > 0 {
		summary.Ingest = opts.Trie.IngestBatch(lines)
		if opts.Persist {
			if perr := opts.Trie.SaveFile(cfg.TrieFile()); perr != nil {
				return summary, perr
			}
			log.Info().Str("path", cfg.TrieFile()).Msg("saved-trie")
		}
	}
	if path := cfg.GetString(config.ConfigSelfplaySummaryPath); path != "" {
		if serr := summary.WriteYAML(path); serr != nil {
			log.Err(serr).Str("path", path).Msg("write-summary-failed")
		}
	}
	if err != nil {
		return summary, err
	}
	return summary, writeErr
}

// WriteYAML writes the summary to path.
func (s *Summary) WriteYAML(path string) error {
	out, err := s.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
