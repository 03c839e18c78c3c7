package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingProfileReturnsDefaults(t *testing.T) {
	store := NewStore(t.TempDir())

	cfg, err := store.Load("neighborhood")
	require.NoError(t, err)

	assert.Equal(t, "Excellent", cfg.ScoreBands.Classify(85).Label)
	assert.Equal(t, 70.0, cfg.Thresholds.LightingCoverageTarget)
	assert.Equal(t, 80.0, cfg.RingRadius)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	profile := DefaultProfile()
	profile.Thresholds.LightingCoverageTarget = 80
	profile.Display.RingRadius = 64

	require.NoError(t, store.Save("strict", profile))

	cfg, err := store.Load("strict")
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Thresholds.LightingCoverageTarget)
	assert.Equal(t, 64.0, cfg.RingRadius)
	assert.Equal(t, "Downtown", cfg.DensityBands.Classify(3.5).Label)
}

func TestLoadRejectsMalformedBandTable(t *testing.T) {
	dir := t.TempDir()

	// Ascending bounds: invalid partition, must fail at load.
	bad := `
[[score_bands]]
min = 20.0
label = "Low"

[[score_bands]]
min = 80.0
label = "High"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte(bad), 0644))

	_, err := NewStore(dir).Load("bad")
	require.Error(t, err)
}

func TestLoadPartialProfileKeepsDefaultTables(t *testing.T) {
	dir := t.TempDir()

	partial := `
[thresholds]
lighting_coverage_target = 75.0
density_ratio_floor = 0.5
transit_score_floor = 50.0
compliant_route_target = 75.0
services_score_floor = 40.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partial.toml"), []byte(partial), 0644))

	cfg, err := NewStore(dir).Load("partial")
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Thresholds.LightingCoverageTarget)
	assert.Equal(t, "Fair", cfg.ScoreBands.Classify(45).Label)
}
