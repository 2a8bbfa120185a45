package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// permutation work. Permutation trials run on parallel workers, so a shared
// process-global source is never used; every worker gets its own stream.
type RNGPort interface {
	// SeededStream creates a deterministic generator for a named operation.
	SeededStream(name string, seed int64) *rand.Rand

	// TaskStream derives an independent generator from a base seed and a task
	// index. The derivation is deterministic, so a batch of trials is
	// reproducible regardless of worker scheduling.
	TaskStream(baseSeed int64, task int) *rand.Rand
}
