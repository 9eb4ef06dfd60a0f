package automatic

import (
	"context"
	"fmt"
	"strings"

	"github.com/domino14/boop/move"
	"github.com/domino14/boop/seqlog"
	"github.com/domino14/boop/stats"
)

// SequenceAnalysis summarizes a sequence log. The side that made the last
// move of a sequence is taken to be the side that formed the trio.
type SequenceAnalysis struct {
	Sequences int           `yaml:"sequences"`
	Malformed int           `yaml:"malformed"`
	Unique    int           `yaml:"unique"`
	EndedByA  int           `yaml:"ended_by_a"`
	EndedByB  int           `yaml:"ended_by_b"`
	Lengths   stats.Summary `yaml:"lengths"`
	// Openings counts the first move of every sequence.
	Openings map[string]int `yaml:"openings"`
}

// AnalyzeSequences skips blank lines and counts lines that do not parse.
func AnalyzeSequences(lines []string) SequenceAnalysis {
	a := SequenceAnalysis{Openings: map[string]int{}}
	var lengths []float64
	seen := map[string]bool{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seq, err := move.ParseSequence(line)
		if err != nil {
			a.Malformed++
			continue
		}
		a.Sequences++
		if !seen[line] {
			seen[line] = true
			a.Unique++
		}
		lengths = append(lengths, float64(len(seq)))
		if len(seq)%2 == 1 {
			a.EndedByA++
		} else {
			a.EndedByB++
		}
		x, y, _ := move.Decode(seq[0])
		a.Openings[fmt.Sprintf("%d,%d", x, y)]++
	}
	a.Lengths = stats.Summarize(lengths)
	return a
}

func (a SequenceAnalysis) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sequences: %d (%d unique, %d malformed)\n", a.Sequences, a.Unique, a.Malformed)
	if a.Sequences == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "Ended by A: %d (%.3f%%)\n", a.EndedByA, 100*float64(a.EndedByA)/float64(a.Sequences))
	fmt.Fprintf(&sb, "Ended by B: %d (%.3f%%)\n", a.EndedByB, 100*float64(a.EndedByB)/float64(a.Sequences))
	fmt.Fprintf(&sb, "Length mean: %.6f  Stdev: %.6f  Min: %.0f  Max: %.0f\n",
		a.Lengths.Mean, a.Lengths.Stdev, a.Lengths.Min, a.Lengths.Max)
	return sb.String()
}

// AnalyzeSequenceLog reads the whole log and analyzes it.
func AnalyzeSequenceLog(ctx context.Context, l seqlog.Log) (SequenceAnalysis, error) {
	lines, err := l.ReadAll(ctx)
	if err != nil {
		return SequenceAnalysis{}, err
	}
	return AnalyzeSequences(lines), nil
}
