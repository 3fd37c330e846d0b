package board

// xorShift128Plus is the xorshift128+ generator from Vigna, "Further
// scramblings of Marsaglia's xorshift generators" (arXiv:1404.0390).
//
// The goop flow algorithm must produce identical results on every host in a
// session given the same seed, so the board state carries its own generator
// with a pinned algorithm instead of using a runtime-provided source whose
// sequence may change between releases. Not cryptographically secure.
type xorShift128Plus struct {
	state [2]uint64
}

func newXorShift128Plus(seed [2]uint64) xorShift128Plus {
	return xorShift128Plus{state: seed}
}

func (r *xorShift128Plus) next() uint64 {
	s1 := r.state[0]
	s0 := r.state[1]
	r.state[0] = s0
	s1 ^= s1 << 23
	r.state[1] = s1 ^ s0 ^ (s1 >> 17) ^ (s0 >> 26)
	return r.state[1] + s0
}

// shuffle permutes s in place, Fisher-Yates with modulo reduction. The
// slight bias doesn't matter for flow ordering; identical sequences on
// every host do.
func shuffle[T any](r *xorShift128Plus, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(r.next() % uint64(i+1))
		s[i], s[j] = s[j], s[i]
	}
}
