package sim

import (
	"hash/fnv"
	"math/rand"
)

// RNG subsystems. Each draws from its own stream so that, for example,
// asking for more positions never shifts the arrival times.
const (
	SubsystemArrivals  = "arrivals"
	SubsystemPositions = "positions"
)

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
// The stream for a subsystem is seeded with seed XOR fnv1a64(name), so the
// same seed always reproduces the same run.
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// The same name always returns the same *rand.Rand. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the seed this PartitionedRNG was created with.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
