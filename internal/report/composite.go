package report

import "math"

// DomainScore is one domain's contribution to the composite, kept for
// provenance display.
type DomainScore struct {
	Domain      string  `json:"domain"`
	Raw         float64 `json:"raw"`
	Normalized  float64 `json:"normalized"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// CompositeGrade is the overall livability grade: rounded mean of the five
// normalized domain scores plus its band and the scores that produced it.
// Always recomputed from the bundle, never stored on its own.
type CompositeGrade struct {
	Score      int           `json:"score"`
	Band       Band          `json:"band"`
	Provenance []DomainScore `json:"provenance"`
}

// NormalizeDensity maps a floor-area ratio onto the 0-100 composite scale.
// Piecewise: ratios at or above 0.5 scale by 25 (capped at 100), below 0.5 by
// 50. The published formula is discontinuous at 0.5 (the low branch tends to
// 25, the high branch starts at 12.5); the breakpoint test pins that jump so
// it can only change deliberately.
func NormalizeDensity(ratio float64) float64 {
	if ratio >= 0.5 {
		return math.Min(ratio*25, 100)
	}
	return ratio * 50
}

// clampScore bounds a producer score to the legal 0-100 range before it
// participates in averaging or classification.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// roundHalfAway rounds to the nearest integer, halves away from zero.
func roundHalfAway(v float64) int { return int(math.Round(v)) }

// Composite computes the overall grade from all five domain analyses. The
// density ratio is normalized via NormalizeDensity and lighting contributes
// its coverage percent directly. An unavailable transit score contributes 0
// but is flagged in provenance so the renderer can show the N/A state. A
// bundle missing any domain is rejected outright.
func Composite(b *AnalysisBundle, scoreBands *BandTable) (CompositeGrade, error) {
	if err := b.Validate(); err != nil {
		return CompositeGrade{}, err
	}

	transitRaw := b.Transit.Score
	transitScore := DomainScore{Domain: DomainTransit, Raw: transitRaw}
	if Unavailable(transitRaw) {
		transitScore.Unavailable = true
		transitScore.Normalized = 0
	} else {
		transitScore.Normalized = clampScore(transitRaw)
	}

	prov := []DomainScore{
		{Domain: DomainServices, Raw: b.Services.Score, Normalized: clampScore(b.Services.Score)},
		{Domain: DomainDensity, Raw: b.Density.FloorAreaRatio, Normalized: NormalizeDensity(b.Density.FloorAreaRatio)},
		transitScore,
		{Domain: DomainAccessibility, Raw: b.Accessibility.Score, Normalized: clampScore(b.Accessibility.Score)},
		{Domain: DomainLighting, Raw: b.Lighting.CoveragePercent, Normalized: clampScore(b.Lighting.CoveragePercent)},
	}

	sum := 0.0
	for _, ds := range prov {
		sum += ds.Normalized
	}
	score := roundHalfAway(sum / float64(len(prov)))

	return CompositeGrade{
		Score:      score,
		Band:       scoreBands.Classify(float64(score)),
		Provenance: prov,
	}, nil
}
