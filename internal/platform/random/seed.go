// Package random provides seed generation and deterministic seed derivation.
//
// Host processes draw an initial seed from crypto/rand once; every later
// random decision in the engine derives its seed from that value and the
// inputs of the decision, so replaying the same inputs replays the same
// outcome.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Mix folds the parts into a single seed with FNV-1a. The same parts in the
// same order always produce the same seed.
func Mix(parts ...int64) int64 {
	hasher := fnv.New64a()
	var b [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(b[:], uint64(part))
		_, _ = hasher.Write(b[:])
	}
	return int64(hasher.Sum64())
}

// New returns a math/rand generator seeded from the mixed parts.
func New(parts ...int64) *rand.Rand {
	return rand.New(rand.NewSource(Mix(parts...)))
}
