package analysis_test

import (
	"errors"
	"math"
	"testing"

	"github.com/voxcheck/voxcheck/pkg/analysis"
	"github.com/voxcheck/voxcheck/pkg/audio"
)

// sineBuffer generates a mono sine wave at the canonical rate.
func sineBuffer(freq, amplitude float64, seconds float64) audio.Buffer {
	n := int(seconds * audio.CanonicalRate)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/audio.CanonicalRate)
	}
	return audio.Buffer{Samples: samples, SampleRate: audio.CanonicalRate}
}

// silentBuffer generates an all-zero buffer.
func silentBuffer(seconds float64) audio.Buffer {
	n := int(seconds * audio.CanonicalRate)
	return audio.Buffer{Samples: make([]float64, n), SampleRate: audio.CanonicalRate}
}

// checkFinite fails the test if any descriptor in fs is NaN or infinite.
func checkFinite(t *testing.T, fs analysis.FeatureSet) {
	t.Helper()
	scalars := map[string]float64{
		"SpectralCentroidMean": fs.SpectralCentroidMean,
		"SpectralCentroidStd":  fs.SpectralCentroidStd,
		"SpectralRolloffMean":  fs.SpectralRolloffMean,
		"ZCRMean":              fs.ZCRMean,
		"ZCRStd":               fs.ZCRStd,
		"RMSMean":              fs.RMSMean,
		"RMSStd":               fs.RMSStd,
		"PitchMean":            fs.PitchMean,
		"PitchStd":             fs.PitchStd,
	}
	for name, v := range scalars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %v", name, v)
		}
	}
	for k := range analysis.NumMFCC {
		if math.IsNaN(fs.MFCCMean[k]) || math.IsInf(fs.MFCCMean[k], 0) {
			t.Errorf("MFCCMean[%d] is not finite: %v", k, fs.MFCCMean[k])
		}
		if math.IsNaN(fs.MFCCStd[k]) || math.IsInf(fs.MFCCStd[k], 0) {
			t.Errorf("MFCCStd[%d] is not finite: %v", k, fs.MFCCStd[k])
		}
	}
}

func TestExtract_EmptyBuffer(t *testing.T) {
	_, err := analysis.Extract(audio.Buffer{SampleRate: audio.CanonicalRate})
	if !errors.Is(err, analysis.ErrEmptyBuffer) {
		t.Fatalf("err = %v, want ErrEmptyBuffer", err)
	}
}

func TestExtract_BadSampleRate(t *testing.T) {
	_, err := analysis.Extract(audio.Buffer{Samples: []float64{0.1, 0.2}})
	if !errors.Is(err, analysis.ErrBadSampleRate) {
		t.Fatalf("err = %v, want ErrBadSampleRate", err)
	}
}

func TestExtract_SineWave(t *testing.T) {
	fs, err := analysis.Extract(sineBuffer(440, 0.5, 1))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	checkFinite(t, fs)

	// The pitch tracker should lock onto the fundamental in every frame.
	// Bin resolution at 22050 Hz / 2048 samples is ~10.8 Hz.
	if fs.PitchMean < 420 || fs.PitchMean > 460 {
		t.Errorf("PitchMean = %v, want ≈440", fs.PitchMean)
	}
	if fs.PitchStd > 50 {
		t.Errorf("PitchStd = %v, want near-zero for a pure tone", fs.PitchStd)
	}

	// A 440 Hz sine crosses zero ~880 times per second.
	wantZCR := 2 * 440.0 / audio.CanonicalRate
	if fs.ZCRMean < wantZCR*0.5 || fs.ZCRMean > wantZCR*1.5 {
		t.Errorf("ZCRMean = %v, want ≈%v", fs.ZCRMean, wantZCR)
	}

	// RMS of a 0.5-amplitude sine is 0.5/√2.
	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(fs.RMSMean-wantRMS) > 0.05 {
		t.Errorf("RMSMean = %v, want ≈%v", fs.RMSMean, wantRMS)
	}

	if fs.SpectralCentroidMean <= 0 || fs.SpectralCentroidMean > audio.CanonicalRate/2 {
		t.Errorf("SpectralCentroidMean = %v, want within (0, Nyquist]", fs.SpectralCentroidMean)
	}
	if fs.SpectralRolloffMean <= 0 {
		t.Errorf("SpectralRolloffMean = %v, want > 0", fs.SpectralRolloffMean)
	}
}

func TestExtract_SilentBufferHasZeroPitch(t *testing.T) {
	fs, err := analysis.Extract(silentBuffer(1))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	checkFinite(t, fs)

	// No frame is voiced, so both pitch statistics are exactly zero.
	if fs.PitchMean != 0 {
		t.Errorf("PitchMean = %v, want exactly 0", fs.PitchMean)
	}
	if fs.PitchStd != 0 {
		t.Errorf("PitchStd = %v, want exactly 0", fs.PitchStd)
	}
	if fs.RMSMean != 0 {
		t.Errorf("RMSMean = %v, want 0 for silence", fs.RMSMean)
	}
	if fs.ZCRMean != 0 {
		t.Errorf("ZCRMean = %v, want 0 for silence", fs.ZCRMean)
	}
	if fs.SpectralCentroidMean != 0 {
		t.Errorf("SpectralCentroidMean = %v, want 0 for silence", fs.SpectralCentroidMean)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	buf := sineBuffer(220, 0.3, 0.5)
	a, err := analysis.Extract(buf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b, err := analysis.Extract(buf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if a != b {
		t.Error("two extractions of the same buffer differ")
	}
}

func TestExtract_ShortBuffer(t *testing.T) {
	// Shorter than one analysis window; reflection padding must cover it.
	fs, err := analysis.Extract(sineBuffer(440, 0.5, 0.01))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	checkFinite(t, fs)
}

func TestExtract_HigherPitchTracksHigher(t *testing.T) {
	low, err := analysis.Extract(sineBuffer(220, 0.5, 1))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	high, err := analysis.Extract(sineBuffer(880, 0.5, 1))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if low.PitchMean >= high.PitchMean {
		t.Errorf("pitch ordering wrong: 220Hz → %v, 880Hz → %v", low.PitchMean, high.PitchMean)
	}
	if low.SpectralCentroidMean >= high.SpectralCentroidMean {
		t.Errorf("centroid ordering wrong: %v vs %v", low.SpectralCentroidMean, high.SpectralCentroidMean)
	}
}
