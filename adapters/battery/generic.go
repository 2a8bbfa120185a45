package battery

import (
	"context"
	"math"
	"math/rand"

	apperrors "quantsig/internal/errors"
	"quantsig/ports"
)

// PermutationPValue runs the full-shuffle permutation test for an arbitrary
// scalar statistic: compute it on the real pairing, recompute it against
// shuffled outcomes, and report the fraction of trials at or above the
// baseline. It returns the baseline value and the p-value; the p-value is NaN
// when permutations is zero.
//
// The three built-in tests specialize this recipe where they need different
// nulls or count conventions; use this entry point for ad hoc statistics.
func (e *Engine) PermutationPValue(ctx context.Context, name string, stat ports.Statistic, signal, outcome []float64, permutations int) (baseline, pvalue float64, err error) {
	if permutations < 0 {
		return 0, 0, apperrors.InvalidInputf("permutations must be non-negative, got %d", permutations)
	}
	if len(signal) != len(outcome) {
		return 0, 0, apperrors.InvalidInputf(
			"signal has %d cases, outcome has %d", len(signal), len(outcome))
	}

	baseline = stat(signal, outcome)
	dist, err := e.nullDistribution(ctx, name, permutations, func(trial int, rng *rand.Rand) (float64, error) {
		permuted := make([]float64, len(outcome))
		copy(permuted, outcome)
		shuffle(rng, permuted)
		return stat(signal, permuted), nil
	})
	if err != nil {
		return 0, 0, err
	}

	if permutations == 0 {
		return baseline, math.NaN(), nil
	}
	return baseline, float64(countGE(dist, baseline)) / float64(permutations), nil
}
