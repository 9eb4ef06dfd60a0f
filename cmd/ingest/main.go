// ingest refreshes the persisted trie from the sequence log.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
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

	fs := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	rebuild := fs.Bool("rebuild", false, "ignore the saved trie and rebuild it from the log")
	analyze := fs.Bool("analyze", false, "also print a summary of the log")
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

	ctx := context.Background()
	if err := os.MkdirAll(cfg.GetString(config.ConfigDataPath), 0755); err != nil {
		log.Fatal().Err(err).Msg("could-not-create-data-path")
	}
	sl, err := seqlog.Open(cfg.GetString(config.ConfigSequenceLogBackend), cfg.SequenceLogFile())
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-open-sequence-log")
	}
	defer sl.Close()

	if *rebuild {
		if err := os.Remove(cfg.TrieFile()); err != nil && !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("could-not-remove-trie")
		}
	}
	t, rep, err := trie.Prepare(ctx, cfg.TrieFile(), sl)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-prepare-trie")
	}
	fmt.Printf("lines: %d  inserted: %d  duplicates: %d  rejected: %d\n",
		rep.Lines, rep.Inserted, rep.Duplicates, rep.Rejected)
	fmt.Printf("nodes: %d  sequences: %d  depth: %d\n", t.NumNodes(), t.NumSequences(), t.Depth())

	if *analyze {
		a, err := automatic.AnalyzeSequenceLog(ctx, sl)
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-analyze-log")
		}
		fmt.Print(a.String())
	}
}
