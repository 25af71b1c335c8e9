// Package analysis detects oscillation in recorded runs. A bang-bang
// controller limit-cycles around its band; the dominant frequency of
// the reading trace gives the cycle period.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/heatsim/internal/sim"
)

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude spectrum of the data, zero-padded
// to the next power of two. Index k corresponds to frequency
// k/(n*interval) where n is the padded length.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	spectrum := fft(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// CyclePeriod estimates the dominant oscillation period of the reading
// trace, in seconds. The mean is removed first so the DC bin does not
// mask the cycle. Returns 0 when no oscillation stands out.
func CyclePeriod(samples []sim.Sample, interval float64) float64 {
	if len(samples) < 4 || interval <= 0 {
		return 0
	}

	data := make([]float64, len(samples))
	mean := 0.0
	for i, s := range samples {
		data[i] = float64(s.Reading)
		mean += data[i]
	}
	mean /= float64(len(data))
	for i := range data {
		data[i] -= mean
	}

	ps := PowerSpectrum(data)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}

	if maxIdx == 0 || maxPower == 0 {
		return 0
	}

	padded := 1
	for padded < len(data) {
		padded *= 2
	}
	freq := float64(maxIdx) / (float64(padded) * interval)
	return 1.0 / freq
}
