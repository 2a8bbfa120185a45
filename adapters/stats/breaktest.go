package stats

import (
	"math"

	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

// SerialBreak scans a serially correlated series for a break in its mean.
//
// For every phase offset in [0, lag] and every candidate nrecent stepping by
// lag through [minRecent, maxRecent], the series is split into its first n1
// cases and the remaining n2 and the two halves are compared with the
// tie-corrected U test; the strongest |z| wins. Stepping by lag probes
// multiple phase offsets so the test is not fooled by serial correlation of
// extent lag.
//
// The partition is always the first n1 elements against the remainder,
// counted from the start of the series. That is the exact semantics of the
// scan even though nrecent reads like a trailing window; callers that want a
// trailing window must reverse the series themselves.
func SerialBreak(values []float64, minRecent, maxRecent, lag int) (domstats.BreakTestResult, error) {
	ncases := len(values)
	if ncases < 2 {
		return domstats.BreakTestResult{}, apperrors.InvalidInputf(
			"series must have at least 2 cases, got %d", ncases)
	}
	if lag < 1 {
		return domstats.BreakTestResult{}, apperrors.InvalidInputf("lag must be >= 1, got %d", lag)
	}
	if minRecent < 1 || minRecent > maxRecent {
		return domstats.BreakTestResult{}, apperrors.InvalidInputf(
			"recent range [%d, %d] is invalid", minRecent, maxRecent)
	}

	maxCrit := math.Inf(-1)
	ibreak := -1
	for offset := 0; offset <= lag; offset++ {
		for nrecent := minRecent; nrecent <= maxRecent; nrecent += lag {
			if nrecent < offset+1 {
				continue
			}
			n1 := (nrecent-offset-1)/lag + 1
			n2 := ncases - n1
			if n1 < 1 || n2 < 1 {
				continue
			}
			res, err := UTest(values[:n1], values[n1:])
			if err != nil {
				return domstats.BreakTestResult{}, err
			}
			if math.Abs(res.Z) > maxCrit {
				maxCrit = math.Abs(res.Z)
				ibreak = nrecent
			}
		}
	}

	return domstats.BreakTestResult{Breakpoint: ibreak, MaxZ: maxCrit}, nil
}
