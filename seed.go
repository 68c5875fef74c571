package genart

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// SeedSource supplies fresh seeds for configs that leave a seed at zero.
// Implementations need not be safe for concurrent use; a Generator calls it
// from Generate only.
type SeedSource interface {
	Uint32() uint32
}

// SeedFunc adapts a function to the SeedSource interface.
type SeedFunc func() uint32

// Uint32 calls f.
func (f SeedFunc) Uint32() uint32 {
	return f()
}

// defaultSeedSource draws from the process-wide math/rand/v2 generator.
type defaultSeedSource struct{}

func (defaultSeedSource) Uint32() uint32 {
	return rand.Uint32()
}

// maxSeedDraws bounds the draws nonZeroSeed makes before giving up.
const maxSeedDraws = 64

// ErrNoSeed is returned when a SeedSource keeps returning zero.
var ErrNoSeed = errors.New("genart: seed source returned only zeros")

// nonZeroSeed draws from src until it returns a value other than zero, which
// is reserved for "draw a seed".
func nonZeroSeed(src SeedSource) (uint32, error) {
	for range maxSeedDraws {
		if s := src.Uint32(); s != 0 {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w after %d draws", ErrNoSeed, maxSeedDraws)
}

// resolveSeed returns seed, or a fresh non-zero seed when it is zero.
func resolveSeed(seed uint32, src SeedSource) (uint32, error) {
	if seed != 0 {
		return seed, nil
	}
	return nonZeroSeed(src)
}
