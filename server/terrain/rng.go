// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

// Distinct odd prime multipliers keep (a,b) and (b,a) from colliding.
const (
	primeA = 374761393
	primeB = 668265263
	primeC = 1274126177
)

// hash64 mixes the seed with two coordinates into an rng state.
func hash64(seed int64, a, b int) uint64 {
	h := uint64(seed)
	h ^= uint64(uint32(a)) * primeA
	h ^= uint64(uint32(b)) * primeB
	h = (h ^ (h >> 13)) * primeC
	return h ^ (h >> 16)
}

// rng is a xorshift generator. It is the only source of randomness in
// terrain generation, so chunks regenerate byte-identically.
type rng struct {
	state uint64
}

func newRNG(state uint64) rng {
	if state == 0 {
		state = 0x9e3779b97f4a7c15
	}
	return rng{state: state}
}

func (r *rng) next() uint64 {
	r.state ^= r.state << 7
	r.state ^= r.state >> 9
	r.state ^= r.state << 8
	return r.state
}

// float32 returns a value in [0, 1).
func (r *rng) float32() float32 {
	return float32(r.next()>>40) / (1 << 24)
}
