package trie

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boop/move"
)

// IngestReport summarizes one IngestBatch call.
type IngestReport struct {
	Lines      int `yaml:"lines"`
	Inserted   int `yaml:"inserted"`
	Duplicates int `yaml:"duplicates"`
	Rejected   int `yaml:"rejected"`
}

func (r *IngestReport) Add(o IngestReport) {
	r.Lines += o.Lines
	r.Inserted += o.Inserted
	r.Duplicates += o.Duplicates
	r.Rejected += o.Rejected
}

// IngestBatch inserts each line as a sequence. Blank lines are skipped; a
// line with a bad symbol is rejected on its own and the rest of the batch
// still goes in.
func (t *Trie) IngestBatch(lines []string) IngestReport {
	var rep IngestReport
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rep.Lines++
		seq, err := move.ParseSequence(line)
		if err != nil {
			rep.Rejected++
			log.Warn().Err(err).Int("line", i+1).Msg("rejecting-sequence")
			continue
		}
		if t.insert(seq) {
			rep.Inserted++
		} else {
			rep.Duplicates++
		}
	}
	log.Info().Int("inserted", rep.Inserted).Int("lines", rep.Lines).
		Int("duplicates", rep.Duplicates).Int("rejected", rep.Rejected).
		Int("nodes", len(t.nodes)).Msg("ingested-sequences")
	return rep
}
