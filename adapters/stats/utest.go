package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// UTest runs the Mann-Whitney U test on two samples. Ties receive midranks
// (the average of the ranks the tied block would occupy) and contribute the
// cubic t^3 - t term to the variance correction; both are required exactly,
// since an uncorrected implementation diverges on data with repeated values.
//
// U is oriented against sample 1: a small U means sample 1's central tendency
// exceeds sample 2's; UPrime = n1*n2 - U is the complement most tables use for
// two-tailed lookups. Z flips the sign so Z > 0 when sample 1 exceeds
// sample 2. The normal approximation, and therefore PValue, is accurate for
// n1+n2 > 20; no exact small-sample correction is provided.
func UTest(x1, x2 []float64) (domstats.UTestResult, error) {
	n1, n2 := len(x1), len(x2)
	if n1 < 1 || n2 < 1 {
		return domstats.UTestResult{}, apperrors.InvalidInputf(
			"both samples must be non-empty, got n1=%d n2=%d", n1, n2)
	}

	n := n1 + n2
	combined := make([]float64, 0, n)
	combined = append(combined, x1...)
	combined = append(combined, x2...)
	group := make([]int, n)
	for i := 0; i < n1; i++ {
		group[i] = 1
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return combined[order[a]] < combined[order[b]]
	})

	// Midranks over tied blocks, accumulating the tie correction.
	ranks := make([]float64, n)
	tieCorrection := 0.0
	for i := 0; i < n; {
		j := i
		for j < n-1 && combined[order[j+1]] == combined[order[i]] {
			j++
		}
		tied := float64(j - i + 1)
		tieCorrection += tied*tied*tied - tied
		midrank := float64(i) + (tied-1)/2.0 + 1
		for k := i; k <= j; k++ {
			ranks[k] = midrank
		}
		i = j + 1
	}

	rankSum := 0.0
	for i := 0; i < n; i++ {
		if group[order[i]] == 1 {
			rankSum += ranks[i]
		}
	}

	fn1, fn2 := float64(n1), float64(n2)
	u := fn1*fn2 + 0.5*fn1*(fn1+1) - rankSum

	dn := float64(n)
	term1 := fn1 * fn2 / (dn * (dn - 1))
	term2 := (dn*dn*dn - dn - tieCorrection) / 12.0
	z := (0.5*fn1*fn2 - u) / math.Sqrt(term1*term2)

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	return domstats.UTestResult{
		U:      u,
		UPrime: fn1*fn2 - u,
		Z:      z,
		PValue: normal.Survival(math.Abs(z)),
	}, nil
}
