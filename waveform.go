package tendril

import (
	"math"
	"math/rand/v2"
)

// waveValue maps a cycle position (elapsed*frequency + phase, in turns) to
// the unit interval for the given waveform. Noise additionally needs the
// oscillator's seed.
func waveValue(w Waveform, cycles float64, seed uint64) float64 {
	switch w {
	case WaveSine:
		return 0.5 + 0.5*math.Sin(2*math.Pi*cycles)
	case WaveTriangle:
		f := fracCycle(cycles)
		return 1 - math.Abs(2*f-1)
	case WaveSquare:
		if fracCycle(cycles) < 0.5 {
			return 1
		}
		return 0
	case WaveSawtooth:
		return fracCycle(cycles)
	case WaveNoise:
		return noiseValue(cycles, seed)
	default:
		return 0
	}
}

// fracCycle returns the position within the current cycle in [0, 1),
// correct for negative cycle counts (negative phase offsets).
func fracCycle(cycles float64) float64 {
	f := cycles - math.Floor(cycles)
	if f < 0 {
		f += 1
	}
	return f
}

// noiseValue produces smooth pseudo-random values: one random sample per
// cycle, smoothstep-interpolated between neighboring samples so the output
// drifts rather than jumps. Fully determined by (seed, cycles).
func noiseValue(cycles float64, seed uint64) float64 {
	i := math.Floor(cycles)
	t := cycles - i
	a := noiseSample(seed, int64(i))
	b := noiseSample(seed, int64(i)+1)
	t = t * t * (3 - 2*t) // smoothstep
	return a + (b-a)*t
}

// noiseSample returns the deterministic random sample for one cycle index.
func noiseSample(seed uint64, n int64) float64 {
	return rand.New(rand.NewPCG(seed, uint64(n))).Float64()
}

// roundOutput quantizes an oscillator output to three decimals, matching
// the write-suppression epsilon so equal rounded values never republish.
func roundOutput(v float64) float64 {
	return math.Round(v*1000) / 1000
}
