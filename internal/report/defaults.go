package report

// Compiled-in classification tables. These are the stock policy; the policy
// package can replace any of them from a TOML profile. Tables are data on
// purpose so thresholds never leak into scorer or assembler logic.

// DefaultScoreBands covers every normalized 0-100 score, including the
// composite grade.
func DefaultScoreBands() *BandTable {
	return MustBandTable("score", []Band{
		{Min: 80, Label: "Excellent", Grade: "A", Icon: "star", Color: "green"},
		{Min: 60, Label: "Good", Grade: "B", Icon: "thumbs-up", Color: "lime"},
		{Min: 40, Label: "Fair", Grade: "C", Icon: "minus", Color: "yellow"},
		{Min: 20, Label: "Poor", Grade: "D", Icon: "thumbs-down", Color: "orange"},
		{Min: 0, Label: "Critical", Grade: "F", Icon: "alert", Color: "red"},
	})
}

// DefaultDensityBands is keyed on the raw floor-area ratio, not a 0-100
// score.
func DefaultDensityBands() *BandTable {
	return MustBandTable("density", []Band{
		{Min: 3.0, Label: "Downtown", Grade: "A", Icon: "city", Color: "green"},
		{Min: 1.5, Label: "Mixed-Use", Grade: "B", Icon: "buildings", Color: "lime"},
		{Min: 0.5, Label: "Urban", Grade: "C", Icon: "home", Color: "yellow"},
		{Min: 0, Label: "Suburban", Grade: "D", Icon: "tree", Color: "orange"},
	})
}

// DefaultLightingBands uses coverage-specific thresholds, not the general
// score tiers: 45% coverage is Poor here even though 45 is a Fair score.
func DefaultLightingBands() *BandTable {
	return MustBandTable("lighting", []Band{
		{Min: 70, Label: "Well Lit", Grade: "A", Icon: "sun", Color: "green"},
		{Min: 50, Label: "Adequate", Grade: "B", Icon: "lamp", Color: "yellow"},
		{Min: 30, Label: "Poor", Grade: "D", Icon: "moon", Color: "orange"},
		{Min: 0, Label: "Critical", Grade: "F", Icon: "alert", Color: "red"},
	})
}

// DefaultServiceTypes is the canonical sub-card order for the services
// section. Cards render in this order, never sorted by score or distance.
func DefaultServiceTypes() []string {
	return []string{
		"grocery",
		"pharmacy",
		"school",
		"park",
		"healthcare",
		"restaurant",
	}
}

// DefaultServiceIcons maps service types to icon tokens.
func DefaultServiceIcons() map[string]string {
	return map[string]string{
		"grocery":    "cart",
		"pharmacy":   "cross",
		"school":     "book",
		"park":       "tree",
		"healthcare": "heart",
		"restaurant": "utensils",
	}
}

// DefaultConfig is the stock assembler configuration.
func DefaultConfig() Config {
	return Config{
		ScoreBands:        DefaultScoreBands(),
		DensityBands:      DefaultDensityBands(),
		LightingBands:     DefaultLightingBands(),
		Thresholds:        DefaultThresholds(),
		ServiceTypes:      DefaultServiceTypes(),
		ServiceIcons:      DefaultServiceIcons(),
		RingRadius:        80,
		RingStroke:        12,
		DensityScaleMax:   4.0,
		RecommendationCap: 4,
	}
}
