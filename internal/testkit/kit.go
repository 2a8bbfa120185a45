// Package testkit builds synthetic indicator/outcome fixtures with known
// ground truth, for tests and the CLI demo mode.
package testkit

import (
	"fmt"
	"math/rand"

	"quantsig/domain/series"
	"quantsig/internal/stochastic"
)

// PredictiveSeries returns a signal and an outcome where the signal carries
// genuine predictive power: the outcome is strength*signal plus unit noise.
// strength 0 gives two independent series.
func PredictiveSeries(rng *rand.Rand, n int, strength float64) (signal, outcome []float64) {
	signal = make([]float64, n)
	outcome = make([]float64, n)
	for i := 0; i < n; i++ {
		signal[i] = rng.NormFloat64()
		outcome[i] = strength*signal[i] + rng.NormFloat64()
	}
	return signal, outcome
}

// IndependentUniform returns two independent uniform [0,1) series.
func IndependentUniform(rng *rand.Rand, n int) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.Float64()
		y[i] = rng.Float64()
	}
	return x, y
}

// SeriesWithMeanBreak returns a unit-noise series whose first breakAt cases
// are shifted up by shift.
func SeriesWithMeanBreak(rng *rand.Rand, n, breakAt int, shift float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = rng.NormFloat64()
		if i < breakAt {
			out[i] += shift
		}
	}
	return out
}

// DemoFrame builds a frame of synthetic indicators around a Brownian price
// path: a close-minus-moving-average style indicator with real predictive
// power over the forward return, plus pure-noise indicators for contrast.
func DemoFrame(rng *rand.Rand, n, noiseIndicators int) (*series.Frame, error) {
	bm := stochastic.BrownianMotion{Steps: n, Paths: 1, Dt: 1.0, Mu: 0.0, Sigma: 1.0}
	_, increments := bm.Sample(rng)
	forward := increments[0]

	// A mean-reverting indicator: negatively loaded on the recent move, so
	// it anticipates part of the next increment under mean reversion plus an
	// injected predictive component.
	predictive := make([]float64, n)
	for i := 0; i < n; i++ {
		predictive[i] = 0.6*forward[i] + 0.8*rng.NormFloat64()
	}

	frame := series.NewFrame()
	if err := frame.AddColumn("predictive_osc", predictive); err != nil {
		return nil, err
	}
	for k := 0; k < noiseIndicators; k++ {
		noise := make([]float64, n)
		for i := range noise {
			noise[i] = rng.NormFloat64()
		}
		if err := frame.AddColumn(fmt.Sprintf("noise_%d", k+1), noise); err != nil {
			return nil, err
		}
	}
	if err := frame.AddColumn("fwd_return", forward); err != nil {
		return nil, err
	}
	return frame, nil
}
