// Package policy loads the report engine's configuration surface: the
// classification band tables, recommendation thresholds, and display
// parameters. Profiles live as TOML files under a data directory; a missing
// profile falls back to the compiled-in defaults. All tables are validated
// at load so a malformed profile fails at startup, never at render time.
package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/safestreets/livability-report/internal/report"
)

// Profile is the on-disk shape of one policy profile.
type Profile struct {
	ScoreBands    []report.Band     `toml:"score_bands"`
	DensityBands  []report.Band     `toml:"density_bands"`
	LightingBands []report.Band     `toml:"lighting_bands"`
	Thresholds    report.Thresholds `toml:"thresholds"`
	Display       Display           `toml:"display"`
	ServiceTypes  []string          `toml:"service_types"`
	ServiceIcons  map[string]string `toml:"service_icons"`
}

// Display holds presentation geometry and render hints.
type Display struct {
	RingRadius        float64 `toml:"ring_radius"`
	RingStroke        float64 `toml:"ring_stroke"`
	DensityScaleMax   float64 `toml:"density_scale_max"`
	RecommendationCap int     `toml:"recommendation_cap"`
}

// Store manages policy profiles by name under a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a policy store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) profilePath(name string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s.toml", name))
}

// Load reads a profile and builds a validated assembler config. A missing
// profile file yields the stock defaults; a present but malformed profile is
// an error.
func (s *Store) Load(name string) (report.Config, error) {
	path := s.profilePath(name)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return report.DefaultConfig(), nil
	}

	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return report.Config{}, fmt.Errorf("failed to decode policy profile %q: %w", name, err)
	}

	return buildConfig(p)
}

// Save writes a profile to disk, creating the data directory if needed.
func (s *Store) Save(name string, p Profile) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create policy directory: %w", err)
	}

	file, err := os.Create(s.profilePath(name))
	if err != nil {
		return fmt.Errorf("failed to create policy file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(p); err != nil {
		return fmt.Errorf("failed to encode policy profile: %w", err)
	}
	return nil
}

// DefaultProfile returns the compiled-in policy as a writable profile,
// useful for bootstrapping an auditable on-disk copy.
func DefaultProfile() Profile {
	return Profile{
		ScoreBands:    report.DefaultScoreBands().Bands(),
		DensityBands:  report.DefaultDensityBands().Bands(),
		LightingBands: report.DefaultLightingBands().Bands(),
		Thresholds:    report.DefaultThresholds(),
		Display: Display{
			RingRadius:        80,
			RingStroke:        12,
			DensityScaleMax:   4.0,
			RecommendationCap: 4,
		},
		ServiceTypes: report.DefaultServiceTypes(),
		ServiceIcons: report.DefaultServiceIcons(),
	}
}

// buildConfig validates a profile, filling any omitted piece from defaults.
func buildConfig(p Profile) (report.Config, error) {
	cfg := report.DefaultConfig()

	if len(p.ScoreBands) > 0 {
		table, err := report.NewBandTable("score", p.ScoreBands)
		if err != nil {
			return report.Config{}, err
		}
		cfg.ScoreBands = table
	}
	if len(p.DensityBands) > 0 {
		table, err := report.NewBandTable("density", p.DensityBands)
		if err != nil {
			return report.Config{}, err
		}
		cfg.DensityBands = table
	}
	if len(p.LightingBands) > 0 {
		table, err := report.NewBandTable("lighting", p.LightingBands)
		if err != nil {
			return report.Config{}, err
		}
		cfg.LightingBands = table
	}

	zero := report.Thresholds{}
	if p.Thresholds != zero {
		cfg.Thresholds = p.Thresholds
	}
	if p.Display.RingRadius > 0 {
		cfg.RingRadius = p.Display.RingRadius
	}
	if p.Display.RingStroke > 0 {
		cfg.RingStroke = p.Display.RingStroke
	}
	if p.Display.DensityScaleMax > 0 {
		cfg.DensityScaleMax = p.Display.DensityScaleMax
	}
	if p.Display.RecommendationCap > 0 {
		cfg.RecommendationCap = p.Display.RecommendationCap
	}
	if len(p.ServiceTypes) > 0 {
		cfg.ServiceTypes = p.ServiceTypes
	}
	if len(p.ServiceIcons) > 0 {
		cfg.ServiceIcons = p.ServiceIcons
	}

	return cfg, nil
}
