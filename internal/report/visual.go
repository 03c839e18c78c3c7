package report

import (
	"fmt"
	"math"
)

// RingGeometry is the stroke-dash encoding of a circular progress indicator.
// Pure presentation math; carries no business meaning.
type RingGeometry struct {
	Radius        float64 `json:"radius"`
	StrokeWidth   float64 `json:"stroke_width"`
	Circumference float64 `json:"circumference"`
	DashOffset    float64 `json:"dash_offset"`
	Percent       float64 `json:"percent"`
}

// CircularProgress computes the ring geometry for a score against a fixed
// ceiling. The fill percentage is clamped to [0, 100], so a score past its
// max closes the ring (offset 0) instead of overshooting. Offset decreases
// monotonically as the score rises: 0% leaves the ring empty at a full
// circumference offset.
func CircularProgress(score, maxScore, radius, strokeWidth float64) (RingGeometry, error) {
	if radius <= 0 {
		return RingGeometry{}, fmt.Errorf("circular progress: radius must be positive, got %.2f", radius)
	}
	if maxScore <= 0 {
		return RingGeometry{}, fmt.Errorf("circular progress: max score must be positive, got %.2f", maxScore)
	}

	circumference := 2 * math.Pi * radius
	percent := score / maxScore * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return RingGeometry{
		Radius:        radius,
		StrokeWidth:   strokeWidth,
		Circumference: circumference,
		DashOffset:    circumference - percent/100*circumference,
		Percent:       percent,
	}, nil
}

// ProgressFraction places a value on a caller-supplied fixed scale, clamped
// to [0, 1]. Use for single-metric bars with an absolute ceiling.
func ProgressFraction(value, max float64) (float64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("progress fraction: max must be positive, got %.2f", max)
	}
	f := value / max
	if f < 0 {
		return 0, nil
	}
	if f > 1 {
		return 1, nil
	}
	return f, nil
}

// ComparisonFraction places a value on a scale derived from the data set's
// own maximum. Deliberately unclamped: when the max comes from the data, no
// item can exceed it, and clamping here would mask a caller bug.
func ComparisonFraction(value, max float64) (float64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("comparison fraction: max must be positive, got %.2f", max)
	}
	if value < 0 {
		return 0, nil
	}
	return value / max, nil
}
