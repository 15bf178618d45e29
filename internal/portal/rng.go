// ABOUTME: Seeded random source construction for reproducible generation.
// ABOUTME: A zero seed picks a time-based one and hands it back so the run can be replayed.

package portal

import (
	"math/rand"
	"time"
)

// NewSeededRNG creates a seeded random number generator.
// If seed is 0 the current time is used; the seed actually used is returned.
func NewSeededRNG(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}
