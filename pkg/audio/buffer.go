// Package audio defines the normalized PCM buffer consumed by the analysis
// core and the decode helpers that produce it from uploaded recordings.
//
// The analysis core expects every buffer in one canonical format: mono
// float64 samples at [CanonicalRate], capped to [MaxClipDuration]. The
// HTTP layer is responsible for running [DecodeWAV] and [Normalize] before
// handing a buffer to the extractor; the core itself never resamples.
package audio

import "time"

const (
	// CanonicalRate is the sample rate every buffer is normalized to
	// before feature extraction.
	CanonicalRate = 22050

	// MaxClipDuration bounds how much audio a single analysis considers.
	// Longer uploads are truncated, not rejected.
	MaxClipDuration = 10 * time.Second
)

// Buffer is a finite sequence of mono PCM samples at a known sample rate.
// Samples are float64 in [-1, 1]. A Buffer is owned by a single analysis
// call and is never shared across requests.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the playing time of the buffer. Returns 0 when the
// sample rate is not positive.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Normalize converts b to the canonical analysis format: resampled to
// [CanonicalRate] and truncated to [MaxClipDuration]. The input buffer is
// not modified; when no conversion is needed the sample slice is shared.
func Normalize(b Buffer) Buffer {
	out := b
	if b.SampleRate != CanonicalRate {
		out.Samples = Resample(b.Samples, b.SampleRate, CanonicalRate)
		out.SampleRate = CanonicalRate
	}
	maxSamples := int(MaxClipDuration.Seconds() * float64(CanonicalRate))
	if len(out.Samples) > maxSamples {
		out.Samples = out.Samples[:maxSamples]
	}
	return out
}
