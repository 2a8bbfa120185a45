// Package rng implements ports.RNGPort with deterministic stream derivation.
// Each permutation trial gets its own generator seeded from the base seed and
// trial index, so batches reproduce exactly regardless of how the worker pool
// schedules them.
package rng

import (
	"hash/fnv"
	"math/rand"
)

// Adapter derives independent rand streams from seeds.
type Adapter struct{}

// New creates an RNG adapter.
func New() *Adapter {
	return &Adapter{}
}

// SeededStream creates a generator for a named operation. The name is folded
// into the seed so differently named operations with the same seed diverge.
func (a *Adapter) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(mix(seed ^ int64(h.Sum64()))))
}

// TaskStream derives a per-task generator from a base seed and task index.
// Adjacent indices are mixed through a splitmix64 finalizer so consecutive
// tasks do not get correlated low-entropy seeds.
func (a *Adapter) TaskStream(baseSeed int64, task int) *rand.Rand {
	return rand.New(rand.NewSource(mix(baseSeed + int64(uint64(task)*0x9e3779b97f4a7c15))))
}

// mix is the splitmix64 finalizer.
func mix(v int64) int64 {
	z := uint64(v)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
