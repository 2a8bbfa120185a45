package battery

import (
	"context"
	"math"
	"math/rand"

	"quantsig/adapters/stats"
	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// MITestParams configures the mutual-information permutation test.
type MITestParams struct {
	NBinsFeature int
	NBinsTarget  int
	// Permutations is the number of randomized trials. Zero disables the
	// hypothesis test and leaves the solo p-value NaN.
	Permutations int
}

// MutualInformationTest computes the baseline mutual information between
// feature and target, then recomputes it against random circular shifts of
// the target. Cyclic shifts rather than full shuffles keep the target's
// serial structure intact, so the null distribution reflects "same series,
// different alignment" instead of "white noise".
func (e *Engine) MutualInformationTest(ctx context.Context, featureName string, feature []float64, targetName string, target []float64, params MITestParams) (domstats.MIScore, error) {
	if params.Permutations < 0 {
		return domstats.MIScore{}, apperrors.InvalidInputf(
			"permutations must be non-negative, got %d", params.Permutations)
	}

	baseline, err := stats.MutualInformation(feature, target, params.NBinsFeature, params.NBinsTarget)
	if err != nil {
		return domstats.MIScore{}, err
	}

	n := len(target)
	dist, err := e.nullDistribution(ctx, "mi-mcpt", params.Permutations, func(trial int, rng *rand.Rand) (float64, error) {
		return stats.MutualInformation(feature, rotate(target, rng.Intn(n)), params.NBinsFeature, params.NBinsTarget)
	})
	if err != nil {
		return domstats.MIScore{}, err
	}

	score := domstats.MIScore{
		Indicator: featureName,
		Target:    targetName,
		MI:        baseline,
	}
	count := countGE(dist, baseline)
	if params.Permutations > 0 {
		score.SoloPValue = float64(count) / float64(params.Permutations)
	} else {
		score.SoloPValue = math.NaN()
	}
	score.UnbiasedPValue = float64(count+1) / float64(params.Permutations+1)
	return score, nil
}
