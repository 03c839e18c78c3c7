package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircularProgressHalfRing(t *testing.T) {
	geo, err := CircularProgress(50, 100, 80, 12)
	require.NoError(t, err)

	assert.InDelta(t, 502.65, geo.Circumference, 0.01)
	assert.InDelta(t, 251.33, geo.DashOffset, 0.01)
	assert.InDelta(t, 50, geo.Percent, 1e-9)
	assert.Equal(t, 80.0, geo.Radius)
	assert.Equal(t, 12.0, geo.StrokeWidth)
}

func TestCircularProgressBounds(t *testing.T) {
	tests := []struct {
		name           string
		score          float64
		expectedOffset float64
	}{
		{name: "empty ring at zero", score: 0, expectedOffset: 2 * math.Pi * 80},
		{name: "full ring at max", score: 100, expectedOffset: 0},
		{name: "overshoot clamps to full ring", score: 140, expectedOffset: 0},
		{name: "negative clamps to empty ring", score: -10, expectedOffset: 2 * math.Pi * 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo, err := CircularProgress(tt.score, 100, 80, 12)
			require.NoError(t, err)
			assert.InDelta(t, tt.expectedOffset, geo.DashOffset, 1e-9)
		})
	}
}

func TestCircularProgressMonotonicOffset(t *testing.T) {
	prev := math.Inf(1)
	for score := 0.0; score <= 100; score += 5 {
		geo, err := CircularProgress(score, 100, 80, 12)
		require.NoError(t, err)
		assert.LessOrEqual(t, geo.DashOffset, prev, "offset rose at score %.0f", score)
		prev = geo.DashOffset
	}
}

func TestCircularProgressRejectsBadGeometry(t *testing.T) {
	_, err := CircularProgress(50, 100, 0, 12)
	require.Error(t, err)

	_, err = CircularProgress(50, 100, -5, 12)
	require.Error(t, err)

	_, err = CircularProgress(50, 0, 80, 12)
	require.Error(t, err)
}

func TestProgressFractionClamps(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		max      float64
		expected float64
	}{
		{name: "mid scale", value: 2, max: 4, expected: 0.5},
		{name: "clamps above max", value: 6, max: 4, expected: 1},
		{name: "clamps below zero", value: -1, max: 4, expected: 0},
		{name: "at max", value: 4, max: 4, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ProgressFraction(tt.value, tt.max)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, f, 1e-9)
		})
	}
}

func TestComparisonFractionIsUnclamped(t *testing.T) {
	// The comparison scale comes from the data's own maximum; exceeding 1.0
	// signals a caller bug and must stay visible.
	f, err := ComparisonFraction(620, 620)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, 1e-9)

	f, err = ComparisonFraction(930, 620)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-9)
}

func TestFractionsRejectNonPositiveMax(t *testing.T) {
	_, err := ProgressFraction(1, 0)
	require.Error(t, err)

	_, err = ComparisonFraction(1, -3)
	require.Error(t, err)
}
