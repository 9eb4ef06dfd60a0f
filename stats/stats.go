package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Summary describes a sample of numbers, e.g. sequence lengths.
type Summary struct {
	N      int     `yaml:"n"`
	Mean   float64 `yaml:"mean"`
	Stdev  float64 `yaml:"stdev"`
	Median float64 `yaml:"median"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// Summarize does not modify xs. An empty sample gives a zero Summary; a
// sample of one has zero spread.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	s := Summary{
		N:      len(xs),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}
	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.Stdev = stat.MeanStdDev(sorted, nil)
	return s
}

// WinRate counts a side's results. A draw is worth half a win.
type WinRate struct {
	Wins  int `yaml:"wins"`
	Draws int `yaml:"draws"`
	Games int `yaml:"games"`
}

func (w WinRate) Rate() float64 {
	if w.Games == 0 {
		return 0
	}
	return (float64(w.Wins) + float64(w.Draws)/2) / float64(w.Games)
}

// StandardError uses the normal approximation to the binomial.
func (w WinRate) StandardError() float64 {
	if w.Games == 0 {
		return 0
	}
	p := w.Rate()
	return math.Sqrt(p * (1 - p) / float64(w.Games))
}

// Interval returns the confidence interval around Rate for the given
// confidence, in percent, clamped to [0, 1].
func (w WinRate) Interval(confidence float64) (float64, float64) {
	p := w.Rate()
	se := w.StandardError()
	if se == 0 {
		return p, p
	}
	d := ZScore(confidence) * se
	return math.Max(0, p-d), math.Min(1, p+d)
}

var standardNormal = distuv.UnitNormal

// ZScore is the two-tailed critical value for a confidence given in percent.
// Confidence at or below 0 gives 0; at or above 100 the interval is unbounded.
func ZScore(confidence float64) float64 {
	switch {
	case confidence <= 0:
		return 0
	case confidence >= 100:
		return math.Inf(1)
	}
	return standardNormal.Quantile(0.5 + confidence/200)
}
