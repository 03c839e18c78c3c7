package report

// Bucket is the fixed priority class a recommendation is declared with.
type Bucket string

const (
	BucketQuickWin  Bucket = "quick_win"
	BucketStrategic Bucket = "strategic"
)

// Recommendation is one generated action item.
type Recommendation struct {
	Text   string `json:"text"`
	Bucket Bucket `json:"bucket"`
	Domain string `json:"domain"`
}

// RecommendationSet holds the two buckets. Lists are complete; display
// truncation is the renderer's job.
type RecommendationSet struct {
	QuickWins []Recommendation `json:"quick_wins"`
	Strategic []Recommendation `json:"strategic"`
}

// Thresholds are the policy knobs the recommendation predicates compare
// against. Loaded from policy config; defaults mirror the published
// SafeStreets policy table.
type Thresholds struct {
	LightingCoverageTarget float64 `toml:"lighting_coverage_target"`
	DensityRatioFloor      float64 `toml:"density_ratio_floor"`
	TransitScoreFloor      float64 `toml:"transit_score_floor"`
	CompliantRouteTarget   float64 `toml:"compliant_route_target"`
	ServicesScoreFloor     float64 `toml:"services_score_floor"`
}

// DefaultThresholds returns the stock policy values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LightingCoverageTarget: 70,
		DensityRatioFloor:      0.5,
		TransitScoreFloor:      50,
		CompliantRouteTarget:   75,
		ServicesScoreFloor:     40,
	}
}

// predicate is one row of the policy table. The bucket is fixed at
// declaration time: concrete "install X" actions are quick wins, systemic
// changes are strategic, regardless of how severe the underlying metric
// looks. That asymmetry is intentional and preserved from the policy source.
type predicate struct {
	domain string
	bucket Bucket
	text   string
	fires  func(*AnalysisBundle, Thresholds) bool
}

// predicates is evaluated in declaration order; output order inside each
// bucket follows this order, not metric severity.
var predicates = []predicate{
	{
		domain: DomainLighting,
		bucket: BucketQuickWin,
		text:   "Install additional street lighting to close coverage gaps",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return b.Lighting.CoveragePercent < th.LightingCoverageTarget
		},
	},
	{
		domain: DomainLighting,
		bucket: BucketQuickWin,
		text:   "Prioritize fixtures at the reported dark spots",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return len(b.Lighting.DarkSpots) > 0
		},
	},
	{
		domain: DomainAccessibility,
		bucket: BucketQuickWin,
		text:   "Repair reported accessibility violations such as broken curb ramps",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return len(b.Accessibility.Violations) > 0
		},
	},
	{
		domain: DomainServices,
		bucket: BucketStrategic,
		text:   "Attract missing everyday services through zoning and small-business incentives",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return len(b.Services.Missing) > 0 || b.Services.Score < th.ServicesScoreFloor
		},
	},
	{
		domain: DomainTransit,
		bucket: BucketStrategic,
		text:   "Advocate for additional transit routes and stop coverage",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return Unavailable(b.Transit.Score) || b.Transit.Score < th.TransitScoreFloor
		},
	},
	{
		domain: DomainDensity,
		bucket: BucketStrategic,
		text:   "Support zoning changes that allow moderate density increases",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return b.Density.FloorAreaRatio < th.DensityRatioFloor
		},
	},
	{
		domain: DomainAccessibility,
		bucket: BucketStrategic,
		text:   "Develop an improvement plan for non-compliant pedestrian routes",
		fires: func(b *AnalysisBundle, th Thresholds) bool {
			return b.Accessibility.CompliantRoutePercent < th.CompliantRouteTarget
		},
	},
}

// Recommend evaluates the policy table against a bundle. Predicates are
// independent, side-effect free, and any number may fire. The result is
// deterministic for identical input.
func Recommend(b *AnalysisBundle, th Thresholds) RecommendationSet {
	set := RecommendationSet{
		QuickWins: []Recommendation{},
		Strategic: []Recommendation{},
	}
	for _, p := range predicates {
		if !p.fires(b, th) {
			continue
		}
		rec := Recommendation{Text: p.text, Bucket: p.bucket, Domain: p.domain}
		if p.bucket == BucketQuickWin {
			set.QuickWins = append(set.QuickWins, rec)
		} else {
			set.Strategic = append(set.Strategic, rec)
		}
	}
	return set
}
