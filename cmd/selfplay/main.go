// selfplay runs computer vs computer games without the shell, appends their
// sequences to the sequence log, and refreshes the trie afterwards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/boop/automatic"
	"github.com/domino14/boop/config"
	"github.com/domino14/boop/seqlog"
	"github.com/domino14/boop/trie"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	fs := pflag.NewFlagSet("selfplay", pflag.ContinueOnError)
	numGames := fs.Int("games", 100, "number of games to play")
	opponent := fs.String("opponent", automatic.OpponentAI, "who plays side B: ai or random")
	fs.ParseErrorsWhitelist.UnknownFlags = true
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.AdjustRelativePaths(exPath)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.GetString(config.ConfigDataPath), 0755); err != nil {
		log.Fatal().Err(err).Msg("could-not-create-data-path")
	}
	sl, err := seqlog.Open(cfg.GetString(config.ConfigSequenceLogBackend), cfg.SequenceLogFile())
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-open-sequence-log")
	}
	defer sl.Close()

	t, _, err := trie.Prepare(ctx, cfg.TrieFile(), sl)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-prepare-trie")
	}

	summary, err := automatic.CompVsComp(ctx, cfg, automatic.BatchOptions{
		Trie:     t,
		Log:      sl,
		Opponent: *opponent,
		Persist:  true,
	}, *numGames, cfg.GetInt(config.ConfigSelfplayThreads))
	if summary != nil {
		fmt.Println(summary.String())
		summary.Histogram(os.Stdout, 10, 50)
	}
	if err != nil {
		log.Error().Err(err).Msg("selfplay-failed")
		os.Exit(1)
	}
}
