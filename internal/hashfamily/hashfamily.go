// Package hashfamily implements the pairwise-independent hash family
// contract shared by VECBF, VECF, and VEQF: a 64-bit hash of an opaque item,
// with two independently-seeded instances obtainable per filter.
package hashfamily

import "github.com/spaolacci/murmur3"

// Family is a two-independent multiply-shift hash function seeded by a
// murmur3 digest of the item. Two Families constructed with different
// seeds behave as independent hash functions of the same item.
type Family struct {
	seed       uint32
	multiplier uint64
	addend     uint64
}

// New returns a Family seeded by seed. Constructing two Families with
// different seeds is sufficient to satisfy the "two independent instances"
// requirement of the hash family contract.
func New(seed uint64) *Family {
	state := seed
	multiplier := splitmix64(&state) | 1 // must be odd for multiply-shift
	addend := splitmix64(&state)
	return &Family{
		seed:       uint32(seed) ^ uint32(seed>>32),
		multiplier: multiplier,
		addend:     addend,
	}
}

// Sum64 returns the 64-bit hash of item.
func (f *Family) Sum64(item []byte) uint64 {
	h := murmur3.New64WithSeed(f.seed)
	_, _ = h.Write(item)
	digest := h.Sum64()
	return f.multiplier*digest + f.addend
}

// SumUint64 hashes the little-endian byte representation of x, for callers
// whose items are already 64-bit integers (test suites, benchmark drivers).
func (f *Family) SumUint64(x uint64) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(x >> (8 * i))
	}
	return f.Sum64(buf[:])
}

// splitmix64 advances state and returns the next pseudo-random value. Used
// only to derive the multiply-shift constants from a seed, never on the
// item-hashing hot path.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
