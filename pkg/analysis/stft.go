package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Short-time analysis convention shared by every descriptor: 2048-sample
// Hann-windowed frames advanced by 512 samples, centered on the signal via
// reflection padding. Frame count is therefore 1 + len(samples)/hopSize.
const (
	fftSize = 2048
	hopSize = 512
	numBins = fftSize/2 + 1
)

// spectrogram holds the magnitude spectra of all analysis frames plus the
// center-padded time signal, so time-domain descriptors (ZCR, RMS) use the
// exact same framing as the spectral ones.
type spectrogram struct {
	mag    [][]float64 // [frame][bin] magnitude
	freqs  []float64   // bin center frequencies in Hz
	padded []float64   // signal with fftSize/2 reflection padding on both ends
}

// computeSpectrogram runs the short-time Fourier transform over the whole
// buffer. samples must be non-empty and sampleRate positive; the caller
// checks both.
func computeSpectrogram(samples []float64, sampleRate int) *spectrogram {
	numFrames := 1 + len(samples)/hopSize
	padded := reflectPad(samples, fftSize/2)
	window := hannWindow(fftSize)

	fft := fourier.NewFFT(fftSize)
	frame := make([]float64, fftSize)
	coeffs := make([]complex128, numBins)

	mag := make([][]float64, numFrames)
	for t := range numFrames {
		start := t * hopSize
		for i := range fftSize {
			var s float64
			if start+i < len(padded) {
				s = padded[start+i]
			}
			frame[i] = s * window[i]
		}
		fft.Coefficients(coeffs, frame)

		m := make([]float64, numBins)
		for k, c := range coeffs {
			m[k] = math.Hypot(real(c), imag(c))
		}
		mag[t] = m
	}

	freqs := make([]float64, numBins)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / fftSize
	}

	return &spectrogram{mag: mag, freqs: freqs, padded: padded}
}

// frames returns the number of analysis frames.
func (s *spectrogram) frames() int { return len(s.mag) }

// timeFrame returns the padded time-domain samples underlying frame t.
// The slice is always fftSize long; positions past the padded signal are
// zero.
func (s *spectrogram) timeFrame(t int, dst []float64) []float64 {
	start := t * hopSize
	for i := range fftSize {
		if start+i < len(s.padded) {
			dst[i] = s.padded[start+i]
		} else {
			dst[i] = 0
		}
	}
	return dst
}

// hannWindow returns a periodic Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// reflectPad pads the signal with pad mirrored samples on each side.
// Signals shorter than the pad width are mirrored repeatedly, so any
// non-empty input produces a valid padded signal.
func reflectPad(samples []float64, pad int) []float64 {
	n := len(samples)
	out := make([]float64, n+2*pad)
	for i := range out {
		out[i] = samples[reflectIndex(i-pad, n)]
	}
	return out
}

// reflectIndex maps an out-of-range index into [0, n) by mirroring at both
// ends without repeating the edge samples.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
