package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned by [DecodeWAV] when the input is not a
// decodable RIFF/WAVE stream.
var ErrInvalidWAV = errors.New("audio: not a valid WAV stream")

// ErrNoSamples is returned by [DecodeWAV] when decoding succeeds but the
// stream contains no PCM data.
var ErrNoSamples = errors.New("audio: decoded stream contains no samples")

// DecodeWAV decodes a RIFF/WAVE stream into a mono [Buffer] at the source
// sample rate. Multi-channel input is averaged to mono and integer PCM is
// scaled to [-1, 1] by the source bit depth. The caller still needs
// [Normalize] to reach the canonical analysis format.
func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Buffer{}, ErrInvalidWAV
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("audio: read pcm: %w", err)
	}
	if pcm == nil || len(pcm.Data) == 0 {
		return Buffer{}, ErrNoSamples
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float64(v) / scale
	}

	channels := pcm.Format.NumChannels
	if channels > 1 {
		samples = MixdownMono(samples, channels)
	}
	if len(samples) == 0 {
		return Buffer{}, ErrNoSamples
	}

	return Buffer{Samples: samples, SampleRate: pcm.Format.SampleRate}, nil
}
