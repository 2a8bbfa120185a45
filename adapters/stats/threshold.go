// Package stats implements the point statistics of the indicator evaluation
// core: the incremental profit-factor threshold search, the fixed-quantile
// threshold table, the tie-corrected Mann-Whitney U test, the contingency
// mutual information estimator, and the serial-correlated mean break scan.
// Every function is a pure computation over caller-supplied slices; inputs are
// validated eagerly and never mutated.
package stats

import (
	"math"
	"sort"

	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// pfEpsilon guards profit-factor denominators in the optimizer. A zero-loss
// subset therefore shows up as an astronomically large finite value, not +Inf;
// domain/stats.PFFromEpsilonBounded classifies it.
const pfEpsilon = 1e-30

// MinKeptFromPercent converts a minimum-cases percentage into an absolute
// count, flooring at one retained case. The percentage must lie in [0, 100].
func MinKeptFromPercent(percent float64, n int) (int, error) {
	if percent < 0 || percent > 100 {
		return 0, apperrors.InvalidInputf("min cases percent must be in [0, 100], got %v", percent)
	}
	minKept := int(percent * float64(n) / 100.0)
	if minKept < 1 {
		minKept = 1
	}
	return minKept, nil
}

// OptimizeThresholds finds the signal thresholds that maximize the long-side
// and short-side profit factors over the outcome series, keeping at least
// minKept cases on the traded side.
//
// The search sorts by predictor once and sweeps every genuine value boundary,
// maintaining four running win/loss sums so each candidate split is O(1). The
// long side is seeded with the whole-set profit factor at the lowest boundary
// (trading everything is always a valid long rule); the short side starts from
// an invalid -1 sentinel so its first qualifying candidate always wins.
//
// With useLog the outcomes are transformed as log(r+1) before accumulation,
// which reweights the sums toward compounding; thresholds are unaffected by
// monotone relabeling of the predictor either way.
func OptimizeThresholds(predictor, outcome []float64, minKept int, useLog bool) (domstats.OptimalThresholds, error) {
	n := len(predictor)
	if n == 0 {
		return domstats.OptimalThresholds{}, apperrors.InvalidInput("predictor is empty")
	}
	if len(outcome) != n {
		return domstats.OptimalThresholds{}, apperrors.InvalidInputf(
			"predictor has %d cases, outcome has %d", n, len(outcome))
	}
	if minKept < 1 || minKept > n {
		return domstats.OptimalThresholds{}, apperrors.InvalidInputf(
			"minKept must be in [1, %d], got %d", n, minKept)
	}

	target := make([]float64, n)
	if useLog {
		for i, r := range outcome {
			target[i] = math.Log(r + 1)
		}
	} else {
		copy(target, outcome)
	}

	// The whole set starts "above" the threshold.
	winAbove, loseAbove := 0.0, 0.0
	for _, r := range target {
		if r > 0 {
			winAbove += r
		} else {
			loseAbove -= r
		}
	}
	pfAll := winAbove / (loseAbove + pfEpsilon)

	bestHighPF := pfAll
	bestHighIndex := 0
	winBelow, loseBelow := 0.0, 0.0
	bestLowPF := -1.0
	bestLowIndex := n - 1

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return predictor[order[a]] < predictor[order[b]]
	})
	workSignal := make([]float64, n)
	workReturn := make([]float64, n)
	for i, idx := range order {
		workSignal[i] = predictor[idx]
		workReturn[i] = target[idx]
	}

	for i := 0; i < n-1; i++ {
		// Move case i from the above set to the below set.
		r := workReturn[i]
		if r > 0 {
			winAbove -= r
			loseBelow += r
		} else {
			loseAbove += r
			winBelow -= r
		}

		// A threshold must sit on a genuine value boundary.
		if workSignal[i+1] == workSignal[i] {
			continue
		}

		if n-i-1 >= minKept {
			pfHigh := winAbove / (loseAbove + pfEpsilon)
			if pfHigh > bestHighPF {
				bestHighPF = pfHigh
				bestHighIndex = i + 1
			}
		}
		if i+1 >= minKept {
			pfLow := winBelow / (loseBelow + pfEpsilon)
			if pfLow > bestLowPF {
				bestLowPF = pfLow
				bestLowIndex = i + 1
			}
		}
	}

	return domstats.OptimalThresholds{
		PFAll:          pfAll,
		LongThreshold:  workSignal[bestHighIndex],
		PFLong:         bestHighPF,
		ShortThreshold: workSignal[bestLowIndex],
		PFShort:        bestLowPF,
	}, nil
}
