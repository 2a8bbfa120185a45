package stats

import (
	"math"
	"sort"

	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// The two canonical quantile sets. They are fixed; the only per-call choice is
// which set to use.
var (
	bins13 = []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99}
	bins27 = []float64{
		0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09,
		0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9,
		0.91, 0.92, 0.93, 0.94, 0.95, 0.96, 0.97, 0.98, 0.99,
	}
)

// BuildThresholdTable computes long and short profit factors above and below
// each canonical quantile of the signal. binCount selects the quantile set and
// must be 13 or 27.
//
// Each target fraction is snapped down to a genuine signal-value boundary;
// fractions that collapse onto either end of the sorted signal produce no row.
// Unlike the optimizer, zero-loss profit factors here are true +Inf; the
// divergence is deliberate and resolved only inside domain/stats.ProfitFactor.
func BuildThresholdTable(signal, outcome []float64, binCount int) ([]domstats.QuantileRow, error) {
	n := len(signal)
	if n == 0 {
		return nil, apperrors.InvalidInput("signal is empty")
	}
	if len(outcome) != n {
		return nil, apperrors.InvalidInputf("signal has %d cases, outcome has %d", n, len(outcome))
	}

	var fractions []float64
	switch binCount {
	case 13:
		fractions = bins13
	case 27:
		fractions = bins27
	default:
		return nil, apperrors.InvalidInputf("bin count must be 13 or 27, got %d", binCount)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return signal[order[a]] < signal[order[b]]
	})
	workSignal := make([]float64, n)
	workReturn := make([]float64, n)
	for i, idx := range order {
		workSignal[i] = signal[idx]
		workReturn[i] = outcome[idx]
	}

	rows := make([]domstats.QuantileRow, 0, len(fractions))
	for _, f := range fractions {
		k := int(f*float64(n+1)) - 1
		if k < 0 {
			k = 0
		}
		if k > n-1 {
			k = n - 1
		}
		for k > 0 && workSignal[k-1] == workSignal[k] {
			k--
		}
		if k == 0 || k == n-1 {
			continue
		}

		winAbove, loseAbove, winBelow, loseBelow := 0.0, 0.0, 0.0, 0.0
		for i := 0; i < k; i++ {
			if workReturn[i] > 0 {
				loseBelow += workReturn[i]
			} else {
				winBelow -= workReturn[i]
			}
		}
		for i := k; i < n; i++ {
			if workReturn[i] > 0 {
				winAbove += workReturn[i]
			} else {
				loseAbove -= workReturn[i]
			}
		}

		fracGtrEq := float64(n-k) / float64(n)
		rows = append(rows, domstats.QuantileRow{
			Threshold:    workSignal[k],
			FracGtrEq:    fracGtrEq,
			LongPFAbove:  ratioPF(winAbove, loseAbove),
			ShortPFAbove: ratioPF(loseAbove, winAbove),
			FracLess:     1 - fracGtrEq, // exact complement
			ShortPFBelow: ratioPF(winBelow, loseBelow),
			LongPFBelow:  ratioPF(loseBelow, winBelow),
		})
	}
	return rows, nil
}

func ratioPF(num, den float64) domstats.ProfitFactor {
	if den > 0 {
		return domstats.FinitePF(num / den)
	}
	return domstats.PFFromRatio(math.Inf(1))
}
