// Package detect turns an extracted feature set into a synthetic-voice
// verdict: a clamped probability, a coarse label, and a short list of
// human-readable reasons.
//
// The scorer is a fixed decision list, not a learned model. Each rule
// inspects one descriptor against a hand-tuned threshold and may nudge a
// shared accumulator; the adjustments are commutative additions, so rule
// order only determines which reasons survive truncation. [Score] is total
// over all finite feature sets and keeps no state between calls.
package detect

import "github.com/voxcheck/voxcheck/pkg/analysis"

// Label is the coarse verdict bucket derived from the probability.
type Label string

const (
	LabelLow    Label = "Low"
	LabelMedium Label = "Medium"
	LabelHigh   Label = "High"
)

// IsValid reports whether l is a recognised label.
func (l Label) IsValid() bool {
	switch l {
	case LabelLow, LabelMedium, LabelHigh:
		return true
	}
	return false
}

// Result is the verdict for one analysis. Probability is always within
// [0.1, 0.95], Label is a deterministic function of Probability, and
// Reasons always holds exactly MaxReasons entries.
type Result struct {
	Probability float64  `json:"probability"`
	Label       Label    `json:"label"`
	Reasons     []string `json:"reasons"`
}

// MaxReasons is the number of justifications reported per verdict.
const MaxReasons = 3

const (
	baseScore      = 0.5
	minProbability = 0.1
	maxProbability = 0.95

	// Label boundaries on the clamped probability.
	mediumThreshold = 0.35
	highThreshold   = 0.65
)

// fallbackReason pads the reason list when fewer than MaxReasons rules
// spoke up.
const fallbackReason = "general acoustic-pattern analysis"

// Score evaluates the rule list against fs and returns the verdict. It is
// a pure function: identical feature sets produce identical results.
func Score(fs analysis.FeatureSet) Result {
	score := baseScore
	reasons := make([]string, 0, len(rules)+1)

	for _, r := range rules {
		delta, reason := r(fs)
		score += delta
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	p := clamp(score, minProbability, maxProbability)

	if len(reasons) < MaxReasons {
		reasons = append(reasons, fallbackReason)
	}
	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}

	return Result{Probability: p, Label: LabelFor(p), Reasons: reasons}
}

// LabelFor maps a probability to its verdict bucket.
func LabelFor(p float64) Label {
	switch {
	case p < mediumThreshold:
		return LabelLow
	case p < highThreshold:
		return LabelMedium
	default:
		return LabelHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
