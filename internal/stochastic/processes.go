// Package stochastic provides seeded path simulators for synthetic market
// data: Brownian motion with drift and a scaled symmetric random walk. They
// back the test fixtures and the CLI's demo mode; nothing in the statistical
// core depends on them.
package stochastic

import (
	"math"
	"math/rand"
)

// BrownianMotion is a Brownian process with drift Mu and diffusion Sigma.
type BrownianMotion struct {
	Steps int
	Paths int
	Dt    float64
	Mu    float64
	Sigma float64
}

// Sample generates Brownian sample paths. paths has Paths rows of Steps+1
// values starting at zero; increments has Paths rows of Steps normal draws
// with mean Mu*Dt and standard deviation Sigma*sqrt(Dt).
func (b BrownianMotion) Sample(rng *rand.Rand) (paths, increments [][]float64) {
	dt := b.Dt
	if dt == 0 {
		dt = 1.0
	}
	scale := b.Sigma * math.Sqrt(dt)
	loc := b.Mu * dt

	paths = make([][]float64, b.Paths)
	increments = make([][]float64, b.Paths)
	for p := 0; p < b.Paths; p++ {
		inc := make([]float64, b.Steps)
		path := make([]float64, b.Steps+1)
		for i := 0; i < b.Steps; i++ {
			inc[i] = loc + scale*rng.NormFloat64()
			path[i+1] = path[i] + inc[i]
		}
		increments[p] = inc
		paths[p] = path
	}
	return paths, increments
}

// RandomWalk is a symmetric random walk with +-1 increments scaled by
// sqrt(Dt).
type RandomWalk struct {
	Steps int
	Paths int
	Dt    float64
}

// Sample generates random walk paths. increments holds the raw +-1 draws;
// paths holds their scaled cumulative sums starting at zero.
func (w RandomWalk) Sample(rng *rand.Rand) (paths, increments [][]float64) {
	dt := w.Dt
	if dt == 0 {
		dt = 1.0
	}
	scale := math.Sqrt(dt)

	paths = make([][]float64, w.Paths)
	increments = make([][]float64, w.Paths)
	for p := 0; p < w.Paths; p++ {
		inc := make([]float64, w.Steps)
		path := make([]float64, w.Steps+1)
		for i := 0; i < w.Steps; i++ {
			step := 1.0
			if rng.Intn(2) == 0 {
				step = -1.0
			}
			inc[i] = step
			path[i+1] = path[i] + step*scale
		}
		increments[p] = inc
		paths[p] = path
	}
	return paths, increments
}
