package battery

import (
	"math/rand"
)

// CyclicPermutations generates k rows, each a uniformly random circular shift
// of target. Rotation preserves the local serial structure of the series
// while breaking its alignment with anything else, which is why these are
// preferred over full shuffles when the series is serially correlated. Every
// row is the same multiset of values as the input.
func CyclicPermutations(rng *rand.Rand, target []float64, k int) [][]float64 {
	n := len(target)
	rows := make([][]float64, k)
	for i := range rows {
		rows[i] = rotate(target, rng.Intn(n))
	}
	return rows
}

// rotate copies target shifted right by s positions, wrapping around.
func rotate(target []float64, s int) []float64 {
	n := len(target)
	out := make([]float64, n)
	copy(out[s:], target[:n-s])
	copy(out[:s], target[n-s:])
	return out
}

// shuffle applies an in-place Fisher-Yates full permutation: independent
// draws, no serial structure preserved.
func shuffle(rng *rand.Rand, values []float64) {
	for i := len(values) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
