package trie

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boop/seqlog"
)

// Prepare gets a trie ready for play. If a saved trie exists at path it is
// loaded, topped up with anything new in the sequence log, and saved
// again. Otherwise a trie is built from the log and saved; if the log is
// empty too, an empty trie is returned and nothing is written.
func Prepare(ctx context.Context, path string, sl seqlog.Log) (*Trie, IngestReport, error) {
	var rep IngestReport
	t := New()
	err := t.LoadFile(path)
	found := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, rep, err
	}
	if found {
		log.Info().Str("path", path).Int("nodes", t.NumNodes()).Msg("loaded-trie")
	} else {
		log.Info().Str("path", path).Msg("trie-not-found-building-new")
	}

	lines, err := sl.ReadAll(ctx)
	if err != nil {
		return nil, rep, err
	}
	if !found && len(lines) == 0 {
		log.Info().Msg("no-sequence-data-returning-empty-trie")
		return t, rep, nil
	}
	rep = t.IngestBatch(lines)
	if err := t.SaveFile(path); err != nil {
		return nil, rep, err
	}
	log.Info().Str("path", path).Msg("saved-trie")
	return t, rep, nil
}
