package battery

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"quantsig/adapters/stats"
	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// ThresholdTestParams configures the threshold permutation test.
type ThresholdTestParams struct {
	// MinKept is the minimum number of cases the traded side must retain.
	MinKept int
	// UseLog applies the log(r+1) outcome transform inside the optimizer.
	UseLog bool
	// FlipSign negates the signal before optimizing, for indicators whose
	// predictive direction is inverted.
	FlipSign bool
	// Reps is the total replication count, counting the unpermuted baseline
	// as replication one. Zero disables hypothesis testing and yields NaN
	// p-values; negative is an error.
	Reps int
}

// ThresholdTest optimizes thresholds on the real outcome series, then re-runs
// the optimizer against full random permutations of the outcomes to judge how
// often chance alone matches the observed profit factors.
//
// Counts start at one, crediting the baseline as its own replication, so the
// smallest reachable p-value is 1/Reps and Reps == 1 yields exactly 1.0 on
// all three p-values.
func (e *Engine) ThresholdTest(ctx context.Context, signal, outcome []float64, params ThresholdTestParams) (domstats.ThresholdTestReport, error) {
	if params.Reps < 0 {
		return domstats.ThresholdTestReport{}, apperrors.InvalidInputf(
			"reps must be non-negative, got %d", params.Reps)
	}

	work := signal
	if params.FlipSign {
		work = make([]float64, len(signal))
		for i, v := range signal {
			work[i] = -v
		}
	}

	baseline, err := stats.OptimizeThresholds(work, outcome, params.MinKept, params.UseLog)
	if err != nil {
		return domstats.ThresholdTestReport{}, err
	}

	report := domstats.ThresholdTestReport{
		Baseline:  baseline,
		Reps:      params.Reps,
		PValLong:  math.NaN(),
		PValShort: math.NaN(),
		PValBest:  math.NaN(),
	}
	if params.Reps == 0 {
		return report, nil
	}

	type sidePair struct {
		long, short float64
	}
	trials := params.Reps - 1
	results := make([]sidePair, trials)
	err = e.forEachTrial(ctx, "threshold-mcpt", trials, func(trial int, rng *rand.Rand) error {
		permuted := make([]float64, len(outcome))
		copy(permuted, outcome)
		shuffle(rng, permuted)
		res, err := stats.OptimizeThresholds(work, permuted, params.MinKept, params.UseLog)
		if err != nil {
			return err
		}
		results[trial] = sidePair{long: res.PFLong, short: res.PFShort}
		return nil
	})
	if err != nil {
		return domstats.ThresholdTestReport{}, err
	}

	longCount, shortCount, bestCount := 1, 1, 1
	baselineBest := baseline.BestProfitFactor()
	for _, r := range results {
		if r.long >= baseline.PFLong {
			longCount++
		}
		if r.short >= baseline.PFShort {
			shortCount++
		}
		if math.Max(r.long, r.short) >= baselineBest {
			bestCount++
		}
	}

	report.PValLong = float64(longCount) / float64(params.Reps)
	report.PValShort = float64(shortCount) / float64(params.Reps)
	report.PValBest = float64(bestCount) / float64(params.Reps)

	e.logger.Debug("threshold permutation test finished",
		zap.Int("reps", params.Reps),
		zap.Float64("pf_all", baseline.PFAll),
		zap.Float64("pval_long", report.PValLong),
		zap.Float64("pval_short", report.PValShort),
		zap.Float64("pval_best", report.PValBest))
	return report, nil
}
