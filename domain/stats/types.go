// Package stats holds the pure result types produced by the statistical
// adapters and the permutation battery. Everything here is an immutable value;
// no entity survives past the evaluation call that produced it.
package stats

import (
	"fmt"
	"math"

	"quantsig/domain/core"
)

// epsilonInfinity is the cutoff above which an epsilon-bounded profit factor
// is reported as infinite. The threshold optimizer guards zero-loss
// denominators with a 1e-30 epsilon, so a genuinely lossless subset lands many
// orders of magnitude above any real-world profit factor. The quantile table
// builder instead produces true +Inf directly; both conventions collapse to
// the same ProfitFactor value here, at the presentation boundary only.
const epsilonInfinity = 1e20

// ProfitFactor is the ratio of summed positive outcomes to summed absolute
// negative outcomes over a subset. It is a two-case value: either a finite
// ratio or infinite (the subset had no losing outcomes).
type ProfitFactor struct {
	value    float64
	infinite bool
}

// FinitePF wraps a finite profit factor value.
func FinitePF(v float64) ProfitFactor {
	return ProfitFactor{value: v}
}

// InfinitePF is the profit factor of a subset with zero summed losses.
func InfinitePF() ProfitFactor {
	return ProfitFactor{infinite: true}
}

// PFFromRatio classifies a raw ratio, treating true +Inf as infinite.
func PFFromRatio(v float64) ProfitFactor {
	if math.IsInf(v, 1) {
		return InfinitePF()
	}
	return FinitePF(v)
}

// PFFromEpsilonBounded classifies an epsilon-bounded ratio as produced by the
// threshold optimizer, where zero-loss subsets appear as astronomically large
// finite values rather than +Inf.
func PFFromEpsilonBounded(v float64) ProfitFactor {
	if v > epsilonInfinity || math.IsInf(v, 1) {
		return InfinitePF()
	}
	return FinitePF(v)
}

// IsInfinite reports whether the subset had no losing outcomes.
func (pf ProfitFactor) IsInfinite() bool {
	return pf.infinite
}

// Float returns the profit factor as a float64, +Inf when infinite.
func (pf ProfitFactor) Float() float64 {
	if pf.infinite {
		return math.Inf(1)
	}
	return pf.value
}

// String formats the profit factor for reports.
func (pf ProfitFactor) String() string {
	if pf.infinite {
		return "inf"
	}
	return fmt.Sprintf("%.4f", pf.value)
}

// OptimalThresholds is the output of one threshold-optimizer call. Profit
// factors are carried in the optimizer's raw epsilon-bounded form; use the
// accessor methods for the classified two-case values.
type OptimalThresholds struct {
	PFAll          float64 // profit factor of the whole set
	LongThreshold  float64 // signal value at or above which the long side trades
	PFLong         float64 // best long-side profit factor
	ShortThreshold float64 // signal value below which the short side trades
	PFShort        float64 // best short-side profit factor
}

// LongProfitFactor classifies the long-side profit factor.
func (o OptimalThresholds) LongProfitFactor() ProfitFactor {
	return PFFromEpsilonBounded(o.PFLong)
}

// ShortProfitFactor classifies the short-side profit factor.
func (o OptimalThresholds) ShortProfitFactor() ProfitFactor {
	return PFFromEpsilonBounded(o.PFShort)
}

// BestProfitFactor returns the better of the two sides.
func (o OptimalThresholds) BestProfitFactor() float64 {
	return math.Max(o.PFLong, o.PFShort)
}

// ThresholdTestReport couples the unpermuted baseline with the Monte Carlo
// p-values from the threshold permutation test. With Reps == 0 all three
// p-values are NaN: no trials, no hypothesis test.
type ThresholdTestReport struct {
	Baseline  OptimalThresholds
	PValLong  float64
	PValShort float64
	PValBest  float64
	Reps      int // replication count, counting the unpermuted baseline
}

// QuantileRow is one retained row of the fixed-quantile threshold table.
// FracGtrEq and FracLess are exact complements by construction.
type QuantileRow struct {
	Threshold    float64
	FracGtrEq    float64
	LongPFAbove  ProfitFactor
	ShortPFAbove ProfitFactor
	FracLess     float64
	ShortPFBelow ProfitFactor
	LongPFBelow  ProfitFactor
}

// UTestResult is the Mann-Whitney U statistic with its normal approximation.
// U is oriented so that a small U means sample 1's central tendency exceeds
// sample 2's; UPrime = n1*n2 - U is the complementary statistic. Z is signed
// so Z > 0 means sample 1 exceeds sample 2. PValue is the one-tailed normal
// approximation of |Z|, valid for n1+n2 > 20.
type UTestResult struct {
	U      float64
	UPrime float64
	Z      float64
	PValue float64
}

// BreakTestResult is the strongest mean break found in one series: the
// maximum |z| across all scanned boundaries and the nrecent at which it was
// observed. Breakpoint is -1 when no boundary qualified.
type BreakTestResult struct {
	Breakpoint int
	MaxZ       float64
}

// IndicatorBreak is the per-indicator row of a multi-indicator break report.
type IndicatorBreak struct {
	Indicator  string
	Breakpoint int
	MaxZ       float64
	SoloPValue float64
}

// BreakReport aggregates break tests across indicators. UnbiasedPValue is the
// max-statistic multiple-comparison correction across indicators; it is NaN
// when only a single indicator was tested.
type BreakReport struct {
	RunID          core.RunID
	GeneratedAt    core.Timestamp
	PerIndicator   []IndicatorBreak
	UnbiasedPValue float64
	Permutations   int
}

// MIScore is the mutual information between one indicator and one target,
// with its cyclic-permutation significance estimates.
type MIScore struct {
	Indicator      string
	Target         string
	MI             float64
	SoloPValue     float64
	UnbiasedPValue float64
}
