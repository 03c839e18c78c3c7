package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	a, err := NewAssembler(DefaultConfig())
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return a
}

func sectionIDs(sections []Section) []string {
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestAssembleSectionOrder(t *testing.T) {
	rep, err := newTestAssembler(t).Assemble(fullBundle())
	require.NoError(t, err)

	assert.Equal(t, []string{
		SectionSummary,
		SectionServices,
		SectionDensity,
		SectionTransit,
		SectionAccessibility,
		SectionLighting,
		SectionRecommendations,
	}, sectionIDs(rep.Sections))
}

func TestAssemblePaginationHints(t *testing.T) {
	rep, err := newTestAssembler(t).Assemble(fullBundle())
	require.NoError(t, err)

	byID := make(map[string]Section, len(rep.Sections))
	for _, s := range rep.Sections {
		byID[s.ID] = s
	}

	assert.True(t, byID[SectionSummary].BreakAfter, "summary is its own page")
	assert.True(t, byID[SectionLighting].BreakAfter, "recommendations start a fresh page")
	for _, s := range rep.Sections {
		assert.True(t, s.Atomic, "section %s must not split across pages", s.ID)
	}
}

func TestAssembleDeterminism(t *testing.T) {
	a := newTestAssembler(t)
	b := fullBundle()

	first, err := a.Assemble(b)
	require.NoError(t, err)
	second, err := a.Assemble(b)
	require.NoError(t, err)

	// GeneratedAt is pinned by the test clock, so full equality holds.
	assert.Equal(t, first, second)
}

func TestAssembleMissingDomainProducesNoSections(t *testing.T) {
	b := fullBundle()
	b.Transit = nil

	rep, err := newTestAssembler(t).Assemble(b)
	require.Error(t, err)
	assert.Nil(t, rep)

	var missing *MissingDomainError
	require.ErrorAs(t, err, &missing)
}

func TestAssembleSummarySection(t *testing.T) {
	rep, err := newTestAssembler(t).Assemble(fullBundle())
	require.NoError(t, err)

	summary := rep.Sections[0].Summary
	require.NotNil(t, summary)
	assert.Equal(t, 57, summary.Composite.Score)
	assert.Equal(t, "Fair", summary.Composite.Band.Label)
	assert.InDelta(t, 57, summary.Ring.Percent, 1e-9)

	require.Len(t, summary.Badges, 5)
	assert.Equal(t, DomainOrder, []string{
		summary.Badges[0].Domain,
		summary.Badges[1].Domain,
		summary.Badges[2].Domain,
		summary.Badges[3].Domain,
		summary.Badges[4].Domain,
	})
	// Density badge is classified on the raw ratio, not the normalized score.
	require.NotNil(t, summary.Badges[1].Band)
	assert.Equal(t, "Urban", summary.Badges[1].Band.Label)
	// Lighting badge uses the coverage-specific table.
	require.NotNil(t, summary.Badges[4].Band)
	assert.Equal(t, "Poor", summary.Badges[4].Band.Label)
}

func TestAssembleServiceCardsInCanonicalOrder(t *testing.T) {
	rep, err := newTestAssembler(t).Assemble(fullBundle())
	require.NoError(t, err)

	services := rep.Sections[1].Services
	require.NotNil(t, services)
	require.Len(t, services.Cards, len(DefaultServiceTypes()))

	for i, typ := range DefaultServiceTypes() {
		assert.Equal(t, typ, services.Cards[i].Type)
	}

	// The farthest found service reads as a full comparison bar.
	var park ServiceCard
	for _, c := range services.Cards {
		if c.Type == "park" {
			park = c
		}
	}
	assert.True(t, park.Found)
	assert.InDelta(t, 1.0, park.Bar, 1e-9)

	// A type with no producer record renders as not found with a sentinel
	// distance.
	var school ServiceCard
	for _, c := range services.Cards {
		if c.Type == "school" {
			school = c
		}
	}
	assert.False(t, school.Found)
	assert.True(t, Unavailable(school.DistanceMeters))
}

func TestAssembleTransitSentinelSection(t *testing.T) {
	b := fullBundle()
	b.Transit.Score = ScoreUnavailable
	b.Transit.NearestStopMeters = ScoreUnavailable
	b.Transit.StopCount = 0

	rep, err := newTestAssembler(t).Assemble(b)
	require.NoError(t, err)

	transit := rep.Sections[3].Transit
	require.NotNil(t, transit)
	assert.True(t, transit.Unavailable)
	assert.Nil(t, transit.Band, "sentinel bypasses classification")
	assert.Nil(t, transit.Ring)

	// The summary badge for transit shows the N/A state too.
	assert.True(t, rep.Sections[0].Summary.Badges[2].Unavailable)
	assert.Nil(t, rep.Sections[0].Summary.Badges[2].Band)
}

func TestAssembleLightingSection(t *testing.T) {
	b := fullBundle()
	b.Lighting.CoveragePercent = 45

	rep, err := newTestAssembler(t).Assemble(b)
	require.NoError(t, err)

	lighting := rep.Sections[5].Lighting
	require.NotNil(t, lighting)
	assert.Equal(t, "Poor", lighting.Band.Label)
	assert.Contains(t, lighting.Message, "Low lighting coverage")
}

func TestAssembleLightingMessageBranches(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		contains string
	}{
		{name: "target met", coverage: 82, contains: "meets the target"},
		{name: "adequate branch", coverage: 55, contains: "adequate"},
		{name: "low branch", coverage: 45, contains: "Low lighting coverage"},
		{name: "boundary at 50 takes adequate branch", coverage: 50, contains: "adequate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fullBundle()
			b.Lighting.CoveragePercent = tt.coverage
			rep, err := newTestAssembler(t).Assemble(b)
			require.NoError(t, err)
			assert.Contains(t, rep.Sections[5].Lighting.Message, tt.contains)
		})
	}
}

func TestAssembleAccessibilitySeverityCounts(t *testing.T) {
	b := fullBundle()
	b.Accessibility.Violations = []Violation{
		{Description: "blocked curb ramp", Severity: SeverityHigh},
		{Description: "uneven pavement", Severity: SeverityLow},
		{Description: "missing tactile paving", Severity: SeverityHigh},
	}

	rep, err := newTestAssembler(t).Assemble(b)
	require.NoError(t, err)

	access := rep.Sections[4].Accessibility
	require.NotNil(t, access)
	require.Len(t, access.SeverityCounts, 3)
	assert.Equal(t, SeverityCount{Severity: SeverityHigh, Count: 2}, access.SeverityCounts[0])
	assert.Equal(t, SeverityCount{Severity: SeverityMedium, Count: 0}, access.SeverityCounts[1])
	assert.Equal(t, SeverityCount{Severity: SeverityLow, Count: 1}, access.SeverityCounts[2])
}

func TestAssembleRecommendationsSection(t *testing.T) {
	b := fullBundle()
	b.Lighting.CoveragePercent = 45

	rep, err := newTestAssembler(t).Assemble(b)
	require.NoError(t, err)

	recs := rep.Sections[6].Recommendations
	require.NotNil(t, recs)
	assert.Equal(t, 4, recs.DisplayCap)
	assert.Equal(t, len(recs.Set.QuickWins)+len(recs.Set.Strategic), recs.TotalCount)
	require.NotEmpty(t, recs.Set.QuickWins)
	assert.Equal(t, DomainLighting, recs.Set.QuickWins[0].Domain)
}

func TestNewAssemblerRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing score bands", mutate: func(c *Config) { c.ScoreBands = nil }},
		{name: "non-positive ring radius", mutate: func(c *Config) { c.RingRadius = 0 }},
		{name: "non-positive density scale", mutate: func(c *Config) { c.DensityScaleMax = -1 }},
		{name: "empty service order", mutate: func(c *Config) { c.ServiceTypes = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewAssembler(cfg)
			require.Error(t, err)
		})
	}
}
