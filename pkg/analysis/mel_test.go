package analysis

import (
	"math"
	"testing"
)

func TestMelFilterBank_Shape(t *testing.T) {
	bank := melFilterBank(numMelFilters, 22050)
	if len(bank) != numMelFilters {
		t.Fatalf("filters = %d, want %d", len(bank), numMelFilters)
	}
	for m, filter := range bank {
		if len(filter) != numBins {
			t.Fatalf("filter %d has %d bins, want %d", m, len(filter), numBins)
		}
		var sum float64
		for _, w := range filter {
			if w < 0 {
				t.Fatalf("filter %d has negative weight", m)
			}
			sum += w
		}
		if sum == 0 {
			t.Errorf("filter %d is empty", m)
		}
	}
}

func TestMelScale_RoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 100, 440, 1000, 8000, 11025} {
		back := melToHz(hzToMel(hz))
		if math.Abs(back-hz) > 1e-6*math.Max(hz, 1) {
			t.Errorf("round trip %v Hz → %v Hz", hz, back)
		}
	}
}

func TestDCTII_ConstantInput(t *testing.T) {
	src := make([]float64, 32)
	for i := range src {
		src[i] = 2.0
	}
	dst := make([]float64, 13)
	dctII(src, dst)

	// A constant signal concentrates all energy in the DC coefficient.
	want := math.Sqrt(1.0/32.0) * 64.0
	if math.Abs(dst[0]-want) > 1e-9 {
		t.Errorf("dst[0] = %v, want %v", dst[0], want)
	}
	for k := 1; k < len(dst); k++ {
		if math.Abs(dst[k]) > 1e-9 {
			t.Errorf("dst[%d] = %v, want 0", k, dst[k])
		}
	}
}

func TestHannWindow_Bounds(t *testing.T) {
	w := hannWindow(fftSize)
	if w[0] != 0 {
		t.Errorf("w[0] = %v, want 0", w[0])
	}
	for i, v := range w {
		if v < 0 || v > 1 {
			t.Fatalf("w[%d] = %v out of [0, 1]", i, v)
		}
	}
	// Peak is at the center for a periodic window.
	if w[fftSize/2] != 1 {
		t.Errorf("w[n/2] = %v, want 1", w[fftSize/2])
	}
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-1, 1, 0},
		{7, 2, 1},
	}
	for _, tc := range tests {
		if got := reflectIndex(tc.i, tc.n); got != tc.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{1, 2, 3, 4})
	if mean != 2.5 {
		t.Errorf("mean = %v, want 2.5", mean)
	}
	if math.Abs(std-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(1.25))
	}

	mean, std = meanStd(nil)
	if mean != 0 || std != 0 {
		t.Errorf("empty slice: mean=%v std=%v, want 0, 0", mean, std)
	}
}

func TestComputeSpectrogram_FrameCount(t *testing.T) {
	samples := make([]float64, 22050)
	sg := computeSpectrogram(samples, 22050)
	want := 1 + len(samples)/hopSize
	if sg.frames() != want {
		t.Errorf("frames = %d, want %d", sg.frames(), want)
	}
	if len(sg.freqs) != numBins {
		t.Errorf("freqs = %d, want %d", len(sg.freqs), numBins)
	}
	if sg.freqs[0] != 0 {
		t.Errorf("freqs[0] = %v, want 0 (DC)", sg.freqs[0])
	}
	if got := sg.freqs[numBins-1]; got != 22050.0/2 {
		t.Errorf("freqs[last] = %v, want Nyquist", got)
	}
}

func TestReflectPad_MirrorsEdges(t *testing.T) {
	// reflectPad must reproduce the source in the middle section.
	src := []float64{1, 2, 3, 4, 5}
	out := reflectPad(src, 3)
	if len(out) != len(src)+6 {
		t.Fatalf("len = %d, want %d", len(out), len(src)+6)
	}
	for i, want := range src {
		if out[i+3] != want {
			t.Errorf("out[%d] = %v, want %v", i+3, out[i+3], want)
		}
	}
	// Mirror without repeating the edge: [4 3 2 | 1 2 3 4 5 | 4 3 2]
	wantLeft := []float64{4, 3, 2}
	for i, want := range wantLeft {
		if out[i] != want {
			t.Errorf("left pad [%d] = %v, want %v", i, out[i], want)
		}
	}
}
