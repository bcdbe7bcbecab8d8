package analysis

import "math"

// Mel front-end parameters for the cepstral descriptors.
const (
	numMelFilters = 128

	// logFloor is the smallest power admitted into the log compression,
	// keeping every cepstral coefficient finite on silent frames.
	logFloor = 1e-10

	// logRange clips log-mel energies to this many dB below the loudest
	// value in the clip.
	logRange = 80.0
)

// hzToMel converts a frequency in Hz to the mel scale (HTK formula).
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts a mel-scale value back to Hz.
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// melFilterBank builds numMels triangular filters over the FFT bins,
// spanning 0 Hz to the Nyquist frequency. Returns [numMels][numBins].
func melFilterBank(numMels, sampleRate int) [][]float64 {
	lowMel := hzToMel(0)
	highMel := hzToMel(float64(sampleRate) / 2)

	// numMels + 2 equally spaced mel points define the filter edges.
	melPoints := make([]float64, numMels+2)
	step := (highMel - lowMel) / float64(numMels+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*step
	}

	bins := make([]int, numMels+2)
	for i, m := range melPoints {
		bin := int(math.Round(melToHz(m) * fftSize / float64(sampleRate)))
		if bin >= numBins {
			bin = numBins - 1
		}
		bins[i] = bin
	}
	// Each filter needs at least one bin of width.
	for i := 1; i < len(bins); i++ {
		if bins[i] <= bins[i-1] {
			bins[i] = bins[i-1] + 1
		}
	}

	bank := make([][]float64, numMels)
	for m := range numMels {
		filter := make([]float64, numBins)
		left, center, right := bins[m], bins[m+1], bins[m+2]

		for k := left; k < center && k < numBins; k++ {
			filter[k] = float64(k-left) / float64(center-left)
		}
		for k := center; k <= right && k < numBins; k++ {
			filter[k] = float64(right-k) / float64(right-center)
		}
		bank[m] = filter
	}
	return bank
}

// melSpectrogram applies the filter bank to the power spectrum of every
// frame. Returns [frame][numMels] mel-band powers.
func melSpectrogram(sg *spectrogram, bank [][]float64) [][]float64 {
	out := make([][]float64, sg.frames())
	power := make([]float64, numBins)
	for t, mag := range sg.mag {
		for k, m := range mag {
			power[k] = m * m
		}
		bands := make([]float64, len(bank))
		for b, filter := range bank {
			var sum float64
			for k, w := range filter {
				if w != 0 {
					sum += w * power[k]
				}
			}
			bands[b] = sum
		}
		out[t] = bands
	}
	return out
}

// powerToDB converts mel-band powers to decibels in place, flooring at
// logFloor and clipping logRange dB below the clip-wide maximum. All
// outputs are finite, even for an all-zero signal.
func powerToDB(bands [][]float64) {
	maxDB := math.Inf(-1)
	for _, frame := range bands {
		for i, v := range frame {
			db := 10 * math.Log10(math.Max(v, logFloor))
			frame[i] = db
			if db > maxDB {
				maxDB = db
			}
		}
	}
	floor := maxDB - logRange
	for _, frame := range bands {
		for i, v := range frame {
			if v < floor {
				frame[i] = floor
			}
		}
	}
}

// dctII computes the first numCoeffs coefficients of the orthonormal
// DCT-II of src, writing them into dst.
func dctII(src []float64, dst []float64) {
	n := float64(len(src))
	for k := range dst {
		var sum float64
		for m, v := range src {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(m)+1)/(2*n))
		}
		scale := math.Sqrt(2 / n)
		if k == 0 {
			scale = math.Sqrt(1 / n)
		}
		dst[k] = scale * sum
	}
}
