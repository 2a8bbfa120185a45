package ports

import (
	"context"

	"quantsig/domain/series"
)

// Statistic is the scalar contract the permutation battery recomputes under
// randomized inputs: given a signal and an outcome series of equal length, it
// returns one number. Implementations must be pure; the battery invokes them
// from parallel workers against immutable copies of their inputs.
type Statistic func(signal, outcome []float64) float64

// SeriesSource supplies a pre-aligned, NaN-free frame of named series to the
// battery. Alignment and schema checking happen behind this port; the
// statistical core never sees raw files or timestamps.
type SeriesSource interface {
	Frame(ctx context.Context) (*series.Frame, error)
}
