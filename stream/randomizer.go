package stream

import (
	"hash/fnv"
	"log"
	"math/rand"
)

// Randomizer draws the random bits that drive valid, ready, and payloads.
//
// In drifting mode the probability of drawing true is re-drawn every Period
// draws, so a port alternates between busy, idle, and mixed stretches.
type Randomizer struct {
	rng    *rand.Rand
	bias   float64
	fixed  bool
	period int
	low    float64
	high   float64
	draws  int
}

// Bool draws one bit.
func (r *Randomizer) Bool() bool {
	if !r.fixed && r.draws%r.period == 0 {
		r.bias = r.low + (r.high-r.low)*r.rng.Float64()
	}

	r.draws++

	return r.rng.Float64() < r.bias
}

// Bit draws one bit as 0 or 1.
func (r *Randomizer) Bit() uint64 {
	if r.Bool() {
		return 1
	}

	return 0
}

// Bits draws a value uniformly distributed over width bits.
func (r *Randomizer) Bits(width int) uint64 {
	v := r.rng.Uint64()
	if width >= 64 {
		return v
	}

	return v & ((uint64(1) << uint(width)) - 1)
}

// Bias returns the current probability of drawing true.
func (r *Randomizer) Bias() float64 {
	return r.bias
}

// RandomizerBuilder creates randomizers.
type RandomizerBuilder struct {
	seed   int64
	fixed  bool
	bias   float64
	period int
	low    float64
	high   float64
}

// MakeRandomizerBuilder returns a builder for drifting randomizers that
// re-draw their bias in [0.1, 0.9] every 100 draws.
func MakeRandomizerBuilder() RandomizerBuilder {
	return RandomizerBuilder{
		seed:   1,
		period: 100,
		low:    0.1,
		high:   0.9,
	}
}

// WithSeed sets the seed.
func (b RandomizerBuilder) WithSeed(seed int64) RandomizerBuilder {
	b.seed = seed
	return b
}

// WithFixedBias makes the randomizer draw true with a constant probability.
func (b RandomizerBuilder) WithFixedBias(bias float64) RandomizerBuilder {
	b.fixed = true
	b.bias = bias

	return b
}

// WithDrift makes the randomizer re-draw its bias in [low, high] every period
// draws.
func (b RandomizerBuilder) WithDrift(
	period int,
	low, high float64,
) RandomizerBuilder {
	b.fixed = false
	b.period = period
	b.low = low
	b.high = high

	return b
}

// Build creates a Randomizer.
func (b RandomizerBuilder) Build() *Randomizer {
	if b.fixed && (b.bias < 0 || b.bias > 1) {
		log.Panicf("bias %f out of [0, 1]", b.bias)
	}

	if !b.fixed && b.period <= 0 {
		log.Panicf("drift period %d must be positive", b.period)
	}

	if !b.fixed && (b.low < 0 || b.high > 1 || b.low > b.high) {
		log.Panicf("drift range [%f, %f] invalid", b.low, b.high)
	}

	return &Randomizer{
		rng:    rand.New(rand.NewSource(b.seed)),
		bias:   b.bias,
		fixed:  b.fixed,
		period: b.period,
		low:    b.low,
		high:   b.high,
	}
}

// DeriveSeed combines a master seed with a name so that every randomizer of
// a run gets its own reproducible stream.
func DeriveSeed(master int64, name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))

	return master ^ int64(h.Sum64())
}
