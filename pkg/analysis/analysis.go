// Package analysis extracts whole-buffer acoustic descriptors from a
// normalized PCM buffer.
//
// [Extract] is a pure function: it performs no I/O, keeps no state between
// calls, and is safe to run concurrently for independent buffers. Every
// descriptor is computed over the entire buffer with one shared short-time
// framing convention, and every value in the returned [FeatureSet] is
// guaranteed finite — silent input yields zeros, never NaN.
package analysis

import (
	"errors"
	"math"

	"github.com/voxcheck/voxcheck/pkg/audio"
)

// NumMFCC is the number of mel-frequency cepstral coefficients reported
// per frame aggregate.
const NumMFCC = 13

// Pitch search range. Peaks outside this band are ignored; a frame whose
// in-band peak magnitude is zero counts as unvoiced.
const (
	pitchMinHz = 50.0
	pitchMaxHz = 4000.0
)

// rolloffPercent is the fraction of total spectral energy below the
// roll-off frequency.
const rolloffPercent = 0.85

var (
	// ErrEmptyBuffer is returned when the buffer holds no samples.
	ErrEmptyBuffer = errors.New("analysis: buffer contains no samples")

	// ErrBadSampleRate is returned when the buffer's sample rate is not
	// positive.
	ErrBadSampleRate = errors.New("analysis: sample rate must be positive")
)

// FeatureSet is the full descriptor set for one buffer. It is produced by
// [Extract], consumed once by the scorer, and not retained by either.
//
// Pitch statistics cover voiced frames only; when no frame is voiced both
// are exactly 0. All standard deviations are population deviations across
// analysis frames.
type FeatureSet struct {
	MFCCMean [NumMFCC]float64
	MFCCStd  [NumMFCC]float64

	SpectralCentroidMean float64
	SpectralCentroidStd  float64
	SpectralRolloffMean  float64

	ZCRMean float64
	ZCRStd  float64

	RMSMean float64
	RMSStd  float64

	PitchMean float64
	PitchStd  float64
}

// Extract computes the descriptor set for buf. The buffer must already be
// in the canonical format (mono, normalized sample rate, capped duration);
// Extract does not resample. Returns [ErrEmptyBuffer] or
// [ErrBadSampleRate] for degenerate input — never a partial FeatureSet.
func Extract(buf audio.Buffer) (FeatureSet, error) {
	if len(buf.Samples) == 0 {
		return FeatureSet{}, ErrEmptyBuffer
	}
	if buf.SampleRate <= 0 {
		return FeatureSet{}, ErrBadSampleRate
	}

	sg := computeSpectrogram(buf.Samples, buf.SampleRate)
	n := sg.frames()

	var fs FeatureSet

	// Cepstral descriptors.
	bank := melFilterBank(numMelFilters, buf.SampleRate)
	mel := melSpectrogram(sg, bank)
	powerToDB(mel)

	mfcc := make([][NumMFCC]float64, n)
	coeffs := make([]float64, NumMFCC)
	for t, bands := range mel {
		dctII(bands, coeffs)
		copy(mfcc[t][:], coeffs)
	}
	band := make([]float64, n)
	for k := range NumMFCC {
		for t := range n {
			band[t] = mfcc[t][k]
		}
		fs.MFCCMean[k], fs.MFCCStd[k] = meanStd(band)
	}

	// Spectral shape descriptors.
	centroids := make([]float64, n)
	rolloffs := make([]float64, n)
	for t, mag := range sg.mag {
		centroids[t] = spectralCentroid(mag, sg.freqs)
		rolloffs[t] = spectralRolloff(mag, sg.freqs)
	}
	fs.SpectralCentroidMean, fs.SpectralCentroidStd = meanStd(centroids)
	fs.SpectralRolloffMean, _ = meanStd(rolloffs)

	// Time-domain descriptors over the same framing.
	zcrs := make([]float64, n)
	rmss := make([]float64, n)
	frame := make([]float64, fftSize)
	for t := range n {
		sg.timeFrame(t, frame)
		zcrs[t] = zeroCrossingRate(frame)
		rmss[t] = rootMeanSquare(frame)
	}
	fs.ZCRMean, fs.ZCRStd = meanStd(zcrs)
	fs.RMSMean, fs.RMSStd = meanStd(rmss)

	// Pitch over voiced frames only.
	var voiced []float64
	for _, mag := range sg.mag {
		if p := framePitch(mag, sg.freqs); p > 0 {
			voiced = append(voiced, p)
		}
	}
	fs.PitchMean, fs.PitchStd = meanStd(voiced)

	return fs, nil
}

// spectralCentroid returns the magnitude-weighted mean frequency of one
// frame, or 0 for a zero-energy frame.
func spectralCentroid(mag, freqs []float64) float64 {
	var weighted, total float64
	for k, m := range mag {
		weighted += freqs[k] * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// spectralRolloff returns the lowest frequency below which rolloffPercent
// of the frame's magnitude is concentrated, or 0 for a zero-energy frame.
func spectralRolloff(mag, freqs []float64) float64 {
	var total float64
	for _, m := range mag {
		total += m
	}
	if total == 0 {
		return 0
	}
	threshold := rolloffPercent * total
	var cum float64
	for k, m := range mag {
		cum += m
		if cum >= threshold {
			return freqs[k]
		}
	}
	return freqs[len(freqs)-1]
}

// framePitch estimates the fundamental of one frame as the frequency of
// the highest-magnitude bin within the pitch search band. Returns 0 for an
// unvoiced frame (no in-band energy).
func framePitch(mag, freqs []float64) float64 {
	best := -1
	var bestMag float64
	for k, f := range freqs {
		if f < pitchMinHz || f > pitchMaxHz {
			continue
		}
		if mag[k] > bestMag {
			bestMag = mag[k]
			best = k
		}
	}
	if best < 0 || bestMag <= 0 {
		return 0
	}
	return freqs[best]
}

// zeroCrossingRate returns the fraction of adjacent sample pairs in the
// frame that change sign.
func zeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

// rootMeanSquare returns the RMS amplitude of the frame.
func rootMeanSquare(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// meanStd returns the mean and population standard deviation of values.
// Both are 0 for an empty slice.
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(values)))
}
