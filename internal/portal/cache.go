// ABOUTME: Explicit single-entry cache for generated snapshots.
// ABOUTME: Generates once, serves the same snapshot until invalidated.

package portal

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generation identifies one cached snapshot. Seed replays it through NewSeededRNG.
type Generation struct {
	ID          string    `json:"id"`
	Seed        int64     `json:"seed"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Cache memoizes one snapshot. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	gen      *Generator
	seed     int64
	source   *rand.Rand
	nextSeed int64
	snapshot *Snapshot
	current  Generation
	now      func() time.Time
}

// NewCache creates a cache around gen. A fixed non-zero seed makes every
// regeneration identical. With seed 0 the first generation uses a time-based
// seed and each later one a fresh seed drawn from it.
func NewCache(gen *Generator, seed int64) *Cache {
	source, first := NewSeededRNG(seed)
	return &Cache{
		gen:      gen,
		seed:     seed,
		source:   source,
		nextSeed: first,
		now:      time.Now,
	}
}

// Generator returns the generator the cache regenerates from.
func (c *Cache) Generator() *Generator {
	return c.gen
}

// Get returns the cached snapshot, generating it on first use or after Invalidate.
func (c *Cache) Get() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fillLocked()
	return c.snapshot
}

// Snapshot returns the cached snapshot together with the generation it belongs to.
func (c *Cache) Snapshot() (*Snapshot, Generation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fillLocked()
	return c.snapshot, c.current
}

// Invalidate drops the cached snapshot; the next Get regenerates.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.current = Generation{}
}

// Refresh regenerates the snapshot and returns the generation it built.
func (c *Cache) Refresh() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.fillLocked()
	return c.current
}

// Generation reports the cached snapshot's generation.
// ID is empty and GeneratedAt zero when nothing is cached.
func (c *Cache) Generation() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// GeneratedAt reports when the cached snapshot was built, or the zero time if none is cached.
func (c *Cache) GeneratedAt() time.Time {
	return c.Generation().GeneratedAt
}

// Seed returns the seed of the cached snapshot, or the seed the next
// generation will use when nothing is cached.
func (c *Cache) Seed() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return c.current.Seed
	}
	return c.nextSeed
}

func (c *Cache) fillLocked() {
	if c.snapshot != nil {
		return
	}

	seed := c.nextSeed
	rng, _ := NewSeededRNG(seed)
	c.snapshot = c.gen.Generate(rng)
	c.current = Generation{
		ID:          uuid.NewString(),
		Seed:        seed,
		GeneratedAt: c.now(),
	}

	if c.seed == 0 {
		c.nextSeed = drawSeed(c.source)
	}
}

// drawSeed returns a non-zero seed, since 0 asks NewSeededRNG for the clock.
func drawSeed(source *rand.Rand) int64 {
	for {
		if s := source.Int63(); s != 0 {
			return s
		}
	}
}
