package report

import "fmt"

// Band is one named tier of a classification table.
type Band struct {
	Min   float64 `json:"min" toml:"min"`
	Label string  `json:"label" toml:"label"`
	Grade string  `json:"grade" toml:"grade"`
	Icon  string  `json:"icon" toml:"icon"`
	Color string  `json:"color" toml:"color"`
}

// BandTable is an ordered, exhaustive partition of a non-negative metric
// range. Bands are sorted descending by Min; the bottom band must start at 0
// so every legal value resolves to exactly one tier.
type BandTable struct {
	name  string
	bands []Band
}

// NewBandTable validates and builds a table. Malformed tables (empty,
// non-descending bounds, bottom bound not 0) are configuration defects and
// are rejected here so classification can never fail on real data.
func NewBandTable(name string, bands []Band) (*BandTable, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("band table %q: no bands", name)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min >= bands[i-1].Min {
			return nil, fmt.Errorf("band table %q: bounds not strictly descending at %q (%.2f >= %.2f)",
				name, bands[i].Label, bands[i].Min, bands[i-1].Min)
		}
	}
	if last := bands[len(bands)-1]; last.Min != 0 {
		return nil, fmt.Errorf("band table %q: bottom band %q starts at %.2f, want 0",
			name, last.Label, last.Min)
	}
	cp := append([]Band(nil), bands...)
	return &BandTable{name: name, bands: cp}, nil
}

// MustBandTable is NewBandTable for compiled-in defaults; a panic here is a
// build-time policy bug.
func MustBandTable(name string, bands []Band) *BandTable {
	t, err := NewBandTable(name, bands)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table's identifier.
func (t *BandTable) Name() string { return t.name }

// Bands returns the tiers in descending order.
func (t *BandTable) Bands() []Band { return append([]Band(nil), t.bands...) }

// Classify resolves a metric to its highest applicable tier: the first band
// scanning from the top whose lower bound is <= the value. A value exactly on
// a boundary belongs to the higher band. Values below the lowest bound still
// resolve to the bottom band. Sentinel values must be intercepted by the
// caller; they never reach here.
func (t *BandTable) Classify(value float64) Band {
	for _, b := range t.bands {
		if value >= b.Min {
			return b
		}
	}
	return t.bands[len(t.bands)-1]
}

// Rank returns the position of a band within the table, 0 being the top
// tier. Used by monotonicity checks.
func (t *BandTable) Rank(b Band) int {
	for i, cand := range t.bands {
		if cand.Label == b.Label {
			return i
		}
	}
	return len(t.bands)
}
