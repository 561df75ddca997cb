package synth

const (
	lcgMul = 9301
	lcgInc = 49297
	lcgMod = 233280
)

// RNG is a linear-congruential generator returning floats in [0,1).
// It is not safe for concurrent use; build one per analysis.
type RNG struct {
	state int64
}

// NewRNG starts a generator at seed.
func NewRNG(seed int32) *RNG {
	return &RNG{state: int64(seed)}
}

// Float64 advances the generator and returns state/233280.
func (r *RNG) Float64() float64 {
	r.state = (r.state*lcgMul + lcgInc) % lcgMod
	if r.state < 0 {
		r.state += lcgMod
	}
	return float64(r.state) / lcgMod
}

// Between draws a value in [lo, hi).
func (r *RNG) Between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Pick returns an index in [0, n) drawn uniformly. n must be positive.
func (r *RNG) Pick(n int) int {
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// ForKey is shorthand for NewRNG(Seed(key)).
func ForKey(key string) *RNG {
	return NewRNG(Seed(key))
}
