package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// minCycles is how many full periods a series must span before a spectral
// peak is trusted.
const minCycles = 2

// PowerSpectrum returns the magnitude of the first half of the DFT of the
// mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period, in ticks, of the strongest frequency in
// a series sampled every sampleEvery ticks. It reports false when the series
// is flat or too short to hold minCycles periods.
func DominantPeriod(data []float64, sampleEvery int) (float64, bool) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, false
	}

	peak, best, strongest := 0, 0.0, 0.0
	for k := 1; k < len(ps); k++ {
		strongest = math.Max(strongest, ps[k])
		if k >= minCycles && ps[k] > best {
			peak, best = k, ps[k]
		}
	}
	// the peak must dominate, not just be the largest of the leftovers
	if peak == 0 || best < strongest/2 {
		return 0, false
	}
	return float64(len(data)) / float64(peak) * float64(sampleEvery), true
}
