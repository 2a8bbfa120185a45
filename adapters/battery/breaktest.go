package battery

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"quantsig/adapters/stats"
	"quantsig/domain/core"
	"quantsig/domain/series"
	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// BreakTestParams configures the multi-indicator mean-break test.
type BreakTestParams struct {
	MinRecent    int
	MaxRecent    int
	Lag          int
	Permutations int
}

// BreakTest runs the serial-correlated mean-break scan over every indicator
// in the frame, then estimates significance by re-running the scan against
// full random shuffles of each indicator. Each indicator gets a solo p-value;
// when more than one indicator is tested, the report also carries an unbiased
// p-value built from the maximum statistic across indicators per trial, which
// corrects for the multiple comparisons.
func (e *Engine) BreakTest(ctx context.Context, frame *series.Frame, params BreakTestParams) (domstats.BreakReport, error) {
	names := frame.Names()
	nvars := len(names)
	if nvars == 0 {
		return domstats.BreakReport{}, apperrors.InvalidInput("frame has no indicator columns")
	}
	if params.Permutations < 0 {
		return domstats.BreakReport{}, apperrors.InvalidInputf(
			"permutations must be non-negative, got %d", params.Permutations)
	}

	// Baselines, one scan per indicator, fanned out across the pool.
	baselines := make([]domstats.BreakTestResult, nvars)
	err := e.forEachTrial(ctx, "break-baseline", nvars, func(i int, _ *rand.Rand) error {
		col, _ := frame.Column(names[i])
		res, err := stats.SerialBreak(col, params.MinRecent, params.MaxRecent, params.Lag)
		if err != nil {
			return err
		}
		baselines[i] = res
		return nil
	})
	if err != nil {
		return domstats.BreakReport{}, err
	}

	// Null distribution: every trial shuffles each indicator independently
	// and keeps the per-indicator max statistics.
	trials := params.Permutations
	permCrits := make([][]float64, trials)
	err = e.forEachTrial(ctx, "break-mcpt", trials, func(trial int, rng *rand.Rand) error {
		crits := make([]float64, nvars)
		for i, name := range names {
			col, _ := frame.Column(name)
			permuted := make([]float64, len(col))
			copy(permuted, col)
			shuffle(rng, permuted)
			res, err := stats.SerialBreak(permuted, params.MinRecent, params.MaxRecent, params.Lag)
			if err != nil {
				return err
			}
			crits[i] = res.MaxZ
		}
		permCrits[trial] = crits
		return nil
	})
	if err != nil {
		return domstats.BreakReport{}, err
	}

	report := domstats.BreakReport{
		RunID:          core.RunID(core.NewID()),
		GeneratedAt:    core.Now(),
		PerIndicator:   make([]domstats.IndicatorBreak, nvars),
		UnbiasedPValue: math.NaN(),
		Permutations:   params.Permutations,
	}
	for i, name := range names {
		row := domstats.IndicatorBreak{
			Indicator:  name,
			Breakpoint: baselines[i].Breakpoint,
			MaxZ:       baselines[i].MaxZ,
			SoloPValue: math.NaN(),
		}
		if trials > 0 {
			count := 0
			for _, crits := range permCrits {
				if crits[i] >= baselines[i].MaxZ {
					count++
				}
			}
			row.SoloPValue = float64(count) / float64(trials)
		}
		report.PerIndicator[i] = row
	}

	if nvars > 1 && trials > 0 {
		baseMax := math.Inf(-1)
		for _, b := range baselines {
			baseMax = math.Max(baseMax, b.MaxZ)
		}
		count := 0
		for _, crits := range permCrits {
			trialMax := math.Inf(-1)
			for _, c := range crits {
				trialMax = math.Max(trialMax, c)
			}
			if trialMax >= baseMax {
				count++
			}
		}
		report.UnbiasedPValue = float64(count) / float64(trials)
	}

	e.logger.Debug("break permutation test finished",
		zap.Int("indicators", nvars),
		zap.Int("permutations", params.Permutations),
		zap.Float64("unbiased_pvalue", report.UnbiasedPValue))
	return report, nil
}
