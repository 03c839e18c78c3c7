package report

import (
	"fmt"
	"time"
)

// Config is the assembler's injected policy: classification tables,
// recommendation thresholds, icon maps, and presentation geometry. The
// assembler and scorers contain no inline thresholds of their own.
type Config struct {
	ScoreBands    *BandTable
	DensityBands  *BandTable
	LightingBands *BandTable
	Thresholds    Thresholds
	ServiceTypes  []string
	ServiceIcons  map[string]string

	RingRadius float64
	RingStroke float64
	// DensityScaleMax is the fixed ceiling for the density bar display.
	DensityScaleMax float64
	// RecommendationCap is a display hint only; the full list is always
	// carried in the section payload.
	RecommendationCap int
}

func (c Config) validate() error {
	if c.ScoreBands == nil || c.DensityBands == nil || c.LightingBands == nil {
		return fmt.Errorf("assembler config: all band tables are required")
	}
	if c.RingRadius <= 0 {
		return fmt.Errorf("assembler config: ring radius must be positive, got %.2f", c.RingRadius)
	}
	if c.DensityScaleMax <= 0 {
		return fmt.Errorf("assembler config: density scale max must be positive, got %.2f", c.DensityScaleMax)
	}
	if len(c.ServiceTypes) == 0 {
		return fmt.Errorf("assembler config: service type order is required")
	}
	return nil
}

// Section identifiers, stable for deep links and tests.
const (
	SectionSummary         = "summary"
	SectionServices        = "services"
	SectionDensity         = "density"
	SectionTransit         = "transit"
	SectionAccessibility   = "accessibility"
	SectionLighting        = "lighting"
	SectionRecommendations = "recommendations"
)

// Section is one addressable unit of the assembled report. Atomic sections
// must not be split across pages; BreakAfter forces a page boundary after
// the section. Exactly one payload pointer is set, matching ID.
type Section struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Atomic     bool   `json:"atomic"`
	BreakAfter bool   `json:"break_after"`

	Summary         *SummarySection         `json:"summary,omitempty"`
	Services        *ServicesSection        `json:"services,omitempty"`
	Density         *DensitySection         `json:"density,omitempty"`
	Transit         *TransitSection         `json:"transit,omitempty"`
	Accessibility   *AccessibilitySection   `json:"accessibility,omitempty"`
	Lighting        *LightingSection        `json:"lighting,omitempty"`
	Recommendations *RecommendationsSection `json:"recommendations,omitempty"`
}

// DomainBadge is one per-domain line on the summary page.
type DomainBadge struct {
	Domain      string  `json:"domain"`
	Score       float64 `json:"score"`
	Band        *Band   `json:"band,omitempty"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

type SummarySection struct {
	Composite CompositeGrade `json:"composite"`
	Ring      RingGeometry   `json:"ring"`
	Badges    []DomainBadge  `json:"badges"`
}

// ServiceCard is one service category sub-card, in canonical type order.
type ServiceCard struct {
	Type           string  `json:"type"`
	Icon           string  `json:"icon"`
	Name           string  `json:"name,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
	Found          bool    `json:"found"`
	// Bar is the distance relative to the farthest found service, so the
	// cards read as a comparison against the data's own maximum.
	Bar float64 `json:"bar"`
}

type ServicesSection struct {
	Score   float64       `json:"score"`
	Band    Band          `json:"band"`
	Ring    RingGeometry  `json:"ring"`
	Cards   []ServiceCard `json:"cards"`
	Missing []string      `json:"missing"`
}

type DensitySection struct {
	FloorAreaRatio    float64 `json:"floor_area_ratio"`
	Band              Band    `json:"band"`
	NormalizedScore   float64 `json:"normalized_score"`
	Bar               float64 `json:"bar"`
	BuildingCount     int     `json:"building_count"`
	TotalFloorAreaSqm float64 `json:"total_floor_area_sqm"`
	LandAreaSqm       float64 `json:"land_area_sqm"`
}

type TransitSection struct {
	Unavailable       bool          `json:"unavailable"`
	Score             float64       `json:"score"`
	Band              *Band         `json:"band,omitempty"`
	Ring              *RingGeometry `json:"ring,omitempty"`
	StopCount         int           `json:"stop_count"`
	NearestStopMeters float64       `json:"nearest_stop_meters"`
	Routes            []string      `json:"routes"`
}

// SeverityCount is a violation tally for one externally-tagged severity.
type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

type AccessibilitySection struct {
	Score                 float64         `json:"score"`
	Band                  Band            `json:"band"`
	Ring                  RingGeometry    `json:"ring"`
	CompliantRoutePercent float64         `json:"compliant_route_percent"`
	CompliantBar          float64         `json:"compliant_bar"`
	CurbRampCount         int             `json:"curb_ramp_count"`
	SeverityCounts        []SeverityCount `json:"severity_counts"`
	Violations            []Violation     `json:"violations"`
}

type LightingSection struct {
	CoveragePercent      float64      `json:"coverage_percent"`
	Band                 Band         `json:"band"`
	Ring                 RingGeometry `json:"ring"`
	Message              string       `json:"message"`
	LightCount           int          `json:"light_count"`
	AverageSpacingMeters float64      `json:"average_spacing_meters"`
	DarkSpots            []string     `json:"dark_spots"`
}

type RecommendationsSection struct {
	Set        RecommendationSet `json:"set"`
	DisplayCap int               `json:"display_cap"`
	TotalCount int               `json:"total_count"`
}

// Assembler turns validated bundles into ordered report documents.
type Assembler struct {
	cfg Config
	now func() time.Time
}

// NewAssembler validates the configuration up front so render-time failures
// can only come from the input bundle, never from policy.
func NewAssembler(cfg Config) (*Assembler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Assembler{cfg: cfg, now: time.Now}, nil
}

// Assemble produces the full ordered section sequence for a bundle, or an
// error and no sections at all. Section order is fixed: summary, the five
// domains in canonical order, recommendations.
func (a *Assembler) Assemble(b *AnalysisBundle) (*Report, error) {
	composite, err := Composite(b, a.cfg.ScoreBands)
	if err != nil {
		return nil, err
	}
	recs := Recommend(b, a.cfg.Thresholds)

	summary, err := a.buildSummary(composite)
	if err != nil {
		return nil, err
	}
	services, err := a.buildServices(b.Services)
	if err != nil {
		return nil, err
	}
	density, err := a.buildDensity(b.Density)
	if err != nil {
		return nil, err
	}
	transit, err := a.buildTransit(b.Transit)
	if err != nil {
		return nil, err
	}
	access, err := a.buildAccessibility(b.Accessibility)
	if err != nil {
		return nil, err
	}
	lighting, err := a.buildLighting(b.Lighting)
	if err != nil {
		return nil, err
	}

	sections := []Section{
		{ID: SectionSummary, Title: "Livability Summary", Atomic: true, BreakAfter: true, Summary: summary},
		{ID: SectionServices, Title: "Everyday Services", Atomic: true, Services: services},
		{ID: SectionDensity, Title: "Built Density", Atomic: true, Density: density},
		{ID: SectionTransit, Title: "Transit Access", Atomic: true, Transit: transit},
		{ID: SectionAccessibility, Title: "Accessibility", Atomic: true, Accessibility: access},
		{ID: SectionLighting, Title: "Street Lighting", Atomic: true, BreakAfter: true, Lighting: lighting},
		{ID: SectionRecommendations, Title: "Recommended Actions", Atomic: true, Recommendations: &RecommendationsSection{
			Set:        recs,
			DisplayCap: a.cfg.RecommendationCap,
			TotalCount: len(recs.QuickWins) + len(recs.Strategic),
		}},
	}

	return &Report{
		Location:    b.Location,
		GeneratedAt: a.now(),
		Composite:   composite,
		Sections:    sections,
	}, nil
}

func (a *Assembler) ring(score, max float64) (RingGeometry, error) {
	return CircularProgress(score, max, a.cfg.RingRadius, a.cfg.RingStroke)
}

func (a *Assembler) buildSummary(composite CompositeGrade) (*SummarySection, error) {
	ring, err := a.ring(float64(composite.Score), 100)
	if err != nil {
		return nil, err
	}

	badges := make([]DomainBadge, 0, len(composite.Provenance))
	for _, ds := range composite.Provenance {
		badge := DomainBadge{Domain: ds.Domain, Score: ds.Normalized, Unavailable: ds.Unavailable}
		if !ds.Unavailable {
			var band Band
			if ds.Domain == DomainDensity {
				band = a.cfg.DensityBands.Classify(ds.Raw)
			} else if ds.Domain == DomainLighting {
				band = a.cfg.LightingBands.Classify(ds.Raw)
			} else {
				band = a.cfg.ScoreBands.Classify(ds.Normalized)
			}
			badge.Band = &band
		}
		badges = append(badges, badge)
	}

	return &SummarySection{Composite: composite, Ring: ring, Badges: badges}, nil
}

func (a *Assembler) buildServices(sa *ServicesAnalysis) (*ServicesSection, error) {
	score := clampScore(sa.Score)
	ring, err := a.ring(score, 100)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]ServiceProximity, len(sa.Nearest))
	for _, sp := range sa.Nearest {
		byType[sp.Type] = sp
	}

	// Comparison bars scale against the farthest found service, so the
	// farthest card always reads as a full bar.
	maxDist := 0.0
	for _, sp := range sa.Nearest {
		if !Unavailable(sp.DistanceMeters) && sp.DistanceMeters > maxDist {
			maxDist = sp.DistanceMeters
		}
	}

	cards := make([]ServiceCard, 0, len(a.cfg.ServiceTypes))
	for _, typ := range a.cfg.ServiceTypes {
		card := ServiceCard{Type: typ, Icon: a.cfg.ServiceIcons[typ], DistanceMeters: ScoreUnavailable}
		if sp, ok := byType[typ]; ok && !Unavailable(sp.DistanceMeters) {
			card.Name = sp.Name
			card.DistanceMeters = sp.DistanceMeters
			card.Found = true
			if maxDist > 0 {
				frac, err := ComparisonFraction(sp.DistanceMeters, maxDist)
				if err != nil {
					return nil, err
				}
				card.Bar = frac
			}
		}
		cards = append(cards, card)
	}

	missing := sa.Missing
	if missing == nil {
		missing = []string{}
	}

	return &ServicesSection{
		Score:   score,
		Band:    a.cfg.ScoreBands.Classify(score),
		Ring:    ring,
		Cards:   cards,
		Missing: missing,
	}, nil
}

func (a *Assembler) buildDensity(da *DensityAnalysis) (*DensitySection, error) {
	bar, err := ProgressFraction(da.FloorAreaRatio, a.cfg.DensityScaleMax)
	if err != nil {
		return nil, err
	}
	return &DensitySection{
		FloorAreaRatio:    da.FloorAreaRatio,
		Band:              a.cfg.DensityBands.Classify(da.FloorAreaRatio),
		NormalizedScore:   NormalizeDensity(da.FloorAreaRatio),
		Bar:               bar,
		BuildingCount:     da.BuildingCount,
		TotalFloorAreaSqm: da.TotalFloorAreaSqm,
		LandAreaSqm:       da.LandAreaSqm,
	}, nil
}

func (a *Assembler) buildTransit(ta *TransitAnalysis) (*TransitSection, error) {
	routes := ta.Routes
	if routes == nil {
		routes = []string{}
	}
	sec := &TransitSection{
		StopCount:         ta.StopCount,
		NearestStopMeters: ta.NearestStopMeters,
		Routes:            routes,
	}

	// No stop found: the N/A display path, no classification.
	if Unavailable(ta.Score) {
		sec.Unavailable = true
		sec.Score = ScoreUnavailable
		return sec, nil
	}

	score := clampScore(ta.Score)
	ring, err := a.ring(score, 100)
	if err != nil {
		return nil, err
	}
	band := a.cfg.ScoreBands.Classify(score)
	sec.Score = score
	sec.Band = &band
	sec.Ring = &ring
	return sec, nil
}

func (a *Assembler) buildAccessibility(aa *AccessibilityAnalysis) (*AccessibilitySection, error) {
	score := clampScore(aa.Score)
	ring, err := a.ring(score, 100)
	if err != nil {
		return nil, err
	}
	bar, err := ProgressFraction(aa.CompliantRoutePercent, 100)
	if err != nil {
		return nil, err
	}

	counts := []SeverityCount{
		{Severity: SeverityHigh},
		{Severity: SeverityMedium},
		{Severity: SeverityLow},
	}
	for _, v := range aa.Violations {
		for i := range counts {
			if counts[i].Severity == v.Severity {
				counts[i].Count++
			}
		}
	}

	violations := aa.Violations
	if violations == nil {
		violations = []Violation{}
	}

	return &AccessibilitySection{
		Score:                 score,
		Band:                  a.cfg.ScoreBands.Classify(score),
		Ring:                  ring,
		CompliantRoutePercent: aa.CompliantRoutePercent,
		CompliantBar:          bar,
		CurbRampCount:         aa.CurbRampCount,
		SeverityCounts:        counts,
		Violations:            violations,
	}, nil
}

func (a *Assembler) buildLighting(la *LightingAnalysis) (*LightingSection, error) {
	coverage := clampScore(la.CoveragePercent)
	ring, err := a.ring(coverage, 100)
	if err != nil {
		return nil, err
	}

	var message string
	switch {
	case coverage >= 70:
		message = "Lighting coverage meets the target for safe nighttime walking."
	case coverage >= 50:
		message = "Lighting coverage is adequate but short of the safety target."
	default:
		message = "Low lighting coverage puts nighttime pedestrians at risk."
	}

	darkSpots := la.DarkSpots
	if darkSpots == nil {
		darkSpots = []string{}
	}

	return &LightingSection{
		CoveragePercent:      coverage,
		Band:                 a.cfg.LightingBands.Classify(coverage),
		Ring:                 ring,
		Message:              message,
		LightCount:           la.LightCount,
		AverageSpacingMeters: la.AverageSpacingMeters,
		DarkSpots:            darkSpots,
	}, nil
}
