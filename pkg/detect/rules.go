package detect

import "github.com/voxcheck/voxcheck/pkg/analysis"

// A rule inspects one descriptor and returns an accumulator adjustment
// plus an optional reason. Delta and reason are independent: a rule may
// emit a non-scoring reason, or adjust silently (none do today).
type rule func(fs analysis.FeatureSet) (delta float64, reason string)

// rules is evaluated in order. The order fixes which reasons survive
// truncation; the numeric total does not depend on it.
var rules = []rule{
	mfccVariation,
	spectralStability,
	crossingRegularity,
	energyHomogeneity,
	pitchStability,
}

// Thresholds are hand-tuned against the short-time convention used by the
// extractor; they are not calibrated probabilities.
const (
	mfccLowVariation  = 15.0
	mfccHighVariation = 25.0
	centroidStableStd = 400.0
	zcrRegularStd     = 0.02
	rmsHomogeneousStd = 0.01
	pitchStableStd    = 50.0
)

// mfccVariation keys on the average spread across the cepstral bands.
// Synthesized voices tend to have an unusually uniform spectral envelope.
func mfccVariation(fs analysis.FeatureSet) (float64, string) {
	var total float64
	for _, s := range fs.MFCCStd {
		total += s
	}
	avg := total / analysis.NumMFCC

	switch {
	case avg < mfccLowVariation:
		return 0.15, "low MFCC variation (synthetic-voice trait)"
	case avg > mfccHighVariation:
		return -0.10, "high MFCC variation (natural-voice trait)"
	default:
		return 0, ""
	}
}

// spectralStability flags an unusually steady spectral centroid. Always
// emits a reason; only the stable case scores.
func spectralStability(fs analysis.FeatureSet) (float64, string) {
	if fs.SpectralCentroidStd < centroidStableStd {
		return 0.10, "high spectral stability"
	}
	return 0, "natural-level spectral variation"
}

// crossingRegularity flags an overly regular zero-crossing rate.
func crossingRegularity(fs analysis.FeatureSet) (float64, string) {
	if fs.ZCRStd < zcrRegularStd {
		return 0.10, "unusually regular crossing rate"
	}
	return 0, ""
}

// energyHomogeneity flags a flat loudness contour. Always emits a reason;
// only the homogeneous case scores.
func energyHomogeneity(fs analysis.FeatureSet) (float64, string) {
	if fs.RMSStd < rmsHomogeneousStd {
		return 0.10, "homogeneous energy distribution"
	}
	return 0, "natural energy distribution"
}

// pitchStability flags a near-constant fundamental. Requires voiced
// frames: a zero pitch mean means no pitch was detected at all, and an
// absent pitch must never count as a stable one.
func pitchStability(fs analysis.FeatureSet) (float64, string) {
	if fs.PitchStd < pitchStableStd && fs.PitchMean > 0 {
		return 0.05, "high pitch stability"
	}
	return 0, ""
}
