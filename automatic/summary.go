package automatic

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"gopkg.in/yaml.v3"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/stats"
	"github.com/domino14/boop/trie"
)

// Summary aggregates a self-play batch.
type Summary struct {
	Games     int `yaml:"games"`
	WinsA     int `yaml:"wins_a"`
	WinsB     int `yaml:"wins_b"`
	Draws     int `yaml:"draws"`
	Abandoned int `yaml:"abandoned"`
	Recorded  int `yaml:"recorded"`
	Rejected  int `yaml:"rejected"`

	PriorGames int `yaml:"prior_games"`
	PriorMoves int `yaml:"prior_moves"`

	WinRateA   float64           `yaml:"win_rate_a"`
	WinRateALo float64           `yaml:"win_rate_a_lo"`
	WinRateAHi float64           `yaml:"win_rate_a_hi"`
	Lengths    stats.Summary     `yaml:"sequence_lengths"`
	Ingest     trie.IngestReport `yaml:"ingest"`

	lengths []float64
	winRate stats.WinRate
}

// ConfidenceLevel is the confidence, in percent, of the reported win rate
// interval.
const ConfidenceLevel = 95

func NewSummary() *Summary {
	return &Summary{}
}

// Add folds one game into the summary.
func (s *Summary) Add(rec GameRecord) {
	s.Games++
	switch {
	case rec.Abandoned:
		s.Abandoned++
	case rec.Winner == int(board.SideA):
		s.WinsA++
		s.winRate.Wins++
	case rec.Winner == int(board.SideB):
		s.WinsB++
	default:
		s.Draws++
		s.winRate.Draws++
	}
	if !rec.Abandoned {
		s.winRate.Games++
	}
	if rec.Rejected {
		s.Rejected++
	} else {
		s.Recorded++
		s.lengths = append(s.lengths, float64(len(rec.Sequence)))
	}
	if rec.UsedPrior() {
		s.PriorGames++
		s.PriorMoves += rec.TrieMoves
	}
	s.WinRateA = s.winRate.Rate()
	s.WinRateALo, s.WinRateAHi = s.winRate.Interval(ConfidenceLevel)
	s.Lengths = stats.Summarize(s.lengths)
}

func (s *Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// Histogram draws the distribution of recorded sequence lengths.
func (s *Summary) Histogram(w io.Writer, bins, width int) error {
	if len(s.lengths) == 0 {
		_, err := fmt.Fprintln(w, "no sequences recorded")
		return err
	}
	h := histogram.Hist(bins, s.lengths)
	return histogram.Fprint(w, h, histogram.Linear(width))
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d (abandoned %d)\n", s.Games, s.Abandoned)
	fmt.Fprintf(&sb, "A wins: %d  B wins: %d  draws: %d\n", s.WinsA, s.WinsB, s.Draws)
	fmt.Fprintf(&sb, "A win rate: %.3f (%d%% CI %.3f - %.3f)\n",
		s.WinRateA, ConfidenceLevel, s.WinRateALo, s.WinRateAHi)
	fmt.Fprintf(&sb, "Sequences recorded: %d  rejected: %d\n", s.Recorded, s.Rejected)
	fmt.Fprintf(&sb, "Sequence length mean: %.2f  stdev: %.2f  median: %.0f\n",
		s.Lengths.Mean, s.Lengths.Stdev, s.Lengths.Median)
	fmt.Fprintf(&sb, "Games using the prior: %d (%d prior moves)\n", s.PriorGames, s.PriorMoves)
	if s.Ingest.Lines > 0 {
		fmt.Fprintf(&sb, "Ingested: %d new of %d\n", s.Ingest.Inserted, s.Ingest.Lines)
	}
	return sb.String()
}
