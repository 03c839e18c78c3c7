package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyScoreBands(t *testing.T) {
	table := DefaultScoreBands()

	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "boundary resolves to higher tier", value: 80, expected: "Excellent"},
		{name: "just under boundary", value: 79.9, expected: "Good"},
		{name: "mid tier", value: 57, expected: "Fair"},
		{name: "low tier", value: 25, expected: "Poor"},
		{name: "zero resolves to bottom band", value: 0, expected: "Critical"},
		{name: "top of range", value: 100, expected: "Excellent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Classify(tt.value).Label)
		})
	}
}

func TestClassifyDensityBands(t *testing.T) {
	table := DefaultDensityBands()

	tests := []struct {
		name     string
		ratio    float64
		expected string
	}{
		{name: "downtown", ratio: 3.2, expected: "Downtown"},
		{name: "exact downtown boundary", ratio: 3.0, expected: "Downtown"},
		{name: "mixed use", ratio: 1.5, expected: "Mixed-Use"},
		{name: "urban", ratio: 1.2, expected: "Urban"},
		{name: "suburban", ratio: 0.3, expected: "Suburban"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Classify(tt.ratio).Label)
		})
	}
}

func TestLightingUsesCoverageThresholds(t *testing.T) {
	// 45% coverage is a Fair score on the general table but Poor on the
	// lighting-specific table. The lighting table wins for lighting.
	assert.Equal(t, "Fair", DefaultScoreBands().Classify(45).Label)
	assert.Equal(t, "Poor", DefaultLightingBands().Classify(45).Label)
}

func TestBandCoverage(t *testing.T) {
	// Every non-negative value must land in exactly one band: classify a
	// dense sweep and check the result is always a band whose bound the
	// value satisfies and whose next-higher bound it does not.
	for _, table := range []*BandTable{DefaultScoreBands(), DefaultDensityBands(), DefaultLightingBands()} {
		t.Run(table.Name(), func(t *testing.T) {
			bands := table.Bands()
			for v := 0.0; v <= 120; v += 0.25 {
				got := table.Classify(v)
				matches := 0
				for i, b := range bands {
					inBand := v >= b.Min && (i == 0 || v < bands[i-1].Min)
					if inBand {
						matches++
						assert.Equal(t, b.Label, got.Label, "value %.2f", v)
					}
				}
				assert.Equal(t, 1, matches, "value %.2f matched %d bands", v, matches)
			}
		})
	}
}

func TestClassifierMonotonicity(t *testing.T) {
	table := DefaultScoreBands()
	prevRank := len(table.Bands())
	for v := 0.0; v <= 100; v += 0.5 {
		rank := table.Rank(table.Classify(v))
		assert.LessOrEqual(t, rank, prevRank, "band got worse as value rose at %.2f", v)
		prevRank = rank
	}
}

func TestNewBandTableRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name  string
		bands []Band
	}{
		{name: "empty table", bands: nil},
		{
			name: "ascending bounds",
			bands: []Band{
				{Min: 20, Label: "Low"},
				{Min: 80, Label: "High"},
			},
		},
		{
			name: "duplicate bounds",
			bands: []Band{
				{Min: 50, Label: "A"},
				{Min: 50, Label: "B"},
				{Min: 0, Label: "C"},
			},
		},
		{
			name: "gap above zero",
			bands: []Band{
				{Min: 80, Label: "High"},
				{Min: 20, Label: "Low"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBandTable("bad", tt.bands)
			require.Error(t, err)
		})
	}
}

func TestBelowLowestBoundResolvesToBottomBand(t *testing.T) {
	table, err := NewBandTable("custom", []Band{
		{Min: 10, Label: "High"},
		{Min: 0, Label: "Low"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Low", table.Classify(0).Label)
	assert.Equal(t, "High", table.Classify(10).Label)
}
