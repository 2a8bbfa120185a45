package stats

import (
	"math"

	"github.com/montanaflynn/stats"

	apperrors "quantsig/internal/errors"
)

// SimpleStats is the descriptive profile of one series.
type SimpleStats struct {
	NCases int
	Mean   float64
	Min    float64
	Max    float64
}

// Describe computes the descriptive profile of a series.
func Describe(values []float64) (SimpleStats, error) {
	if len(values) == 0 {
		return SimpleStats{}, apperrors.InvalidInput("values is empty")
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return SimpleStats{}, apperrors.DataError("computing mean", err)
	}
	lo, err := stats.Min(values)
	if err != nil {
		return SimpleStats{}, apperrors.DataError("computing min", err)
	}
	hi, err := stats.Max(values)
	if err != nil {
		return SimpleStats{}, apperrors.DataError("computing max", err)
	}
	return SimpleStats{NCases: len(values), Mean: mean, Min: lo, Max: hi}, nil
}

// IQR computes the interquartile range.
func IQR(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, apperrors.InvalidInput("values is empty")
	}
	q1, err := stats.Percentile(values, 25)
	if err != nil {
		return 0, apperrors.DataError("computing 25th percentile", err)
	}
	q3, err := stats.Percentile(values, 75)
	if err != nil {
		return 0, apperrors.DataError("computing 75th percentile", err)
	}
	return q3 - q1, nil
}

// RangeIQRRatio is the full range divided by the interquartile range, a crude
// heavy-tail flag. The denominator carries a tiny guard so a zero-IQR series
// yields a huge but finite ratio.
func RangeIQRRatio(values []float64) (float64, error) {
	iqr, err := IQR(values)
	if err != nil {
		return 0, err
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return (hi - lo) / (iqr + 1e-60), nil
}

// RelativeEntropy bins the series and returns its entropy normalized by the
// maximum possible for that bin count, so 1.0 means indistinguishable from
// uniform. The bin count scales with sample size: 3 below 100 cases, then 5,
// 10, and 20 from 10000 up.
func RelativeEntropy(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, apperrors.InvalidInput("values is empty")
	}

	var nbins int
	switch {
	case n >= 10000:
		nbins = 20
	case n >= 1000:
		nbins = 10
	case n >= 100:
		nbins = 5
	default:
		nbins = 3
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	counts := make([]int, nbins)
	factor := (float64(nbins) - 1e-11) / (hi - lo + 1e-60)
	for _, v := range values {
		counts[int(factor*(v-lo))]++
	}

	sum := 0.0
	for _, c := range counts {
		if c > 0 {
			p := float64(c) / float64(n)
			sum -= p * math.Log(p)
		}
	}
	return sum / math.Log(float64(nbins)), nil
}
