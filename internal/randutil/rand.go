package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// All call sites derive their two PCG seeds here so sequences are reproducible.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a generator for the n-th independent stream of seed. A table
// uses one stream per shuffle so replaying a seed replays every shoe.
func Derive(seed int64, stream uint64) *rand.Rand {
	u := mix(uint64(seed) ^ mix(stream+goldenRatio64))
	return rand.New(rand.NewPCG(u, mix(u+goldenRatio64)))
}

// Seed returns a fresh seed from the wall clock for production tables.
func Seed() int64 {
	return int64(mix(uint64(time.Now().UnixNano())) >> 1)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
