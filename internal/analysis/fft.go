package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortTrace = errors.New("analysis: trace too short")

// PowerSpectrum returns the magnitudes of the non-negative frequency bins
// of data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	centered := make([]float64, len(data))
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// EstimatePeriod returns the period of the strongest frequency in samples
// taken every dt seconds. The trace must cover at least one full period to
// be meaningful.
func EstimatePeriod(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, ErrShortTrace
	}
	ps := PowerSpectrum(samples)

	peak := 0
	for k := 1; k < len(ps); k++ {
		if peak == 0 || ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: flat trace")
	}

	// interpolate toward the larger neighbour; exact for a pure tone
	// under a rectangular window
	k := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if c > a {
			k += c / (b + c)
		} else {
			k -= a / (a + b)
		}
	}
	return float64(len(samples)) * dt / k, nil
}
