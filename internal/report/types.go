package report

import (
	"fmt"
	"strings"
	"time"
)

// ScoreUnavailable marks a metric the upstream analyzer could not measure,
// e.g. no transit stop inside the search radius. It is a distinct state,
// never treated as a score of zero by the classifier.
const ScoreUnavailable = -1.0

// Unavailable reports whether a metric carries the sentinel state.
func Unavailable(v float64) bool { return v < 0 }

// Canonical domain keys, in report order.
const (
	DomainServices      = "services"
	DomainDensity       = "density"
	DomainTransit       = "transit"
	DomainAccessibility = "accessibility"
	DomainLighting      = "lighting"
)

// DomainOrder is the fixed order domains appear in the composite provenance
// and in the assembled report.
var DomainOrder = []string{
	DomainServices,
	DomainDensity,
	DomainTransit,
	DomainAccessibility,
	DomainLighting,
}

// Location describes the analyzed area. Display-only; the engine does no
// geospatial math.
type Location struct {
	Label        string  `json:"label"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RadiusMeters float64 `json:"radius_meters"`
}

// ServiceProximity is the nearest instance of one everyday service category.
// DistanceMeters is ScoreUnavailable when nothing was found in the radius.
type ServiceProximity struct {
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// ServicesAnalysis is the service-proximity producer output.
type ServicesAnalysis struct {
	Score   float64            `json:"score"`
	Nearest []ServiceProximity `json:"nearest"`
	Missing []string           `json:"missing"`
}

// DensityAnalysis is the built-density producer output. FloorAreaRatio is a
// raw ratio, not a 0-100 score; NormalizeDensity converts it for the
// composite.
type DensityAnalysis struct {
	FloorAreaRatio    float64 `json:"floor_area_ratio"`
	BuildingCount     int     `json:"building_count"`
	TotalFloorAreaSqm float64 `json:"total_floor_area_sqm"`
	LandAreaSqm       float64 `json:"land_area_sqm"`
}

// TransitAnalysis is the transit-access producer output. Score and
// NearestStopMeters are ScoreUnavailable when no stop was found.
type TransitAnalysis struct {
	Score             float64  `json:"score"`
	StopCount         int      `json:"stop_count"`
	NearestStopMeters float64  `json:"nearest_stop_meters"`
	Routes            []string `json:"routes"`
}

// Violation severities are tagged by the accessibility producer, never
// derived here.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Violation is one reported accessibility defect.
type Violation struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// AccessibilityAnalysis is the ADA-compliance producer output.
type AccessibilityAnalysis struct {
	Score                 float64     `json:"score"`
	CompliantRoutePercent float64     `json:"compliant_route_percent"`
	CurbRampCount         int         `json:"curb_ramp_count"`
	Violations            []Violation `json:"violations"`
}

// LightingAnalysis is the street-lighting producer output. CoveragePercent
// is already on a 0-100 scale.
type LightingAnalysis struct {
	CoveragePercent      float64  `json:"coverage_percent"`
	LightCount           int      `json:"light_count"`
	AverageSpacingMeters float64  `json:"average_spacing_meters"`
	DarkSpots            []string `json:"dark_spots"`
}

// AnalysisBundle is the full producer output for one location. All five
// domain records are required; the engine never substitutes defaults for a
// missing one.
type AnalysisBundle struct {
	Location      Location               `json:"location"`
	Services      *ServicesAnalysis      `json:"services"`
	Density       *DensityAnalysis       `json:"density"`
	Transit       *TransitAnalysis       `json:"transit"`
	Accessibility *AccessibilityAnalysis `json:"accessibility"`
	Lighting      *LightingAnalysis      `json:"lighting"`
}

// MissingDomainError reports which required domain records a bundle lacks.
type MissingDomainError struct {
	Domains []string
}

func (e *MissingDomainError) Error() string {
	return fmt.Sprintf("analysis bundle missing required domains: %s", strings.Join(e.Domains, ", "))
}

// Validate checks the five-domain shape. It returns a *MissingDomainError
// listing every absent domain in canonical order.
func (b *AnalysisBundle) Validate() error {
	var missing []string
	if b.Services == nil {
		missing = append(missing, DomainServices)
	}
	if b.Density == nil {
		missing = append(missing, DomainDensity)
	}
	if b.Transit == nil {
		missing = append(missing, DomainTransit)
	}
	if b.Accessibility == nil {
		missing = append(missing, DomainAccessibility)
	}
	if b.Lighting == nil {
		missing = append(missing, DomainLighting)
	}
	if len(missing) > 0 {
		return &MissingDomainError{Domains: missing}
	}
	return nil
}

// Report is one fully assembled render. GeneratedAt is cosmetic and excluded
// from determinism comparisons.
type Report struct {
	ID          string         `json:"id,omitempty"`
	Location    Location       `json:"location"`
	GeneratedAt time.Time      `json:"generated_at"`
	Composite   CompositeGrade `json:"composite"`
	Sections    []Section      `json:"sections"`
}
