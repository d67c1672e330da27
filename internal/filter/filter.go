// Package filter implements the per-record accept/reject decision (C4).
package filter

import (
	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/variantcall"
)

// Config holds the filter thresholds of spec §4.3. All fields are
// required; Validate checks the documented ranges.
type Config struct {
	MinCoverage     int64
	MinQuality      float64
	MinHomFrequency float64
	MinHetFrequency float64
	MaxHetFrequency float64

	// ExcludedPositions maps a contig (or feature name) to the set of
	// 1-based positions excluded from analysis.
	ExcludedPositions map[string]map[int64]struct{}
}

// Validate checks the configured thresholds against spec §4.3's ranges.
func (c *Config) Validate() error {
	const op = "filter.Config.Validate"
	if c.MinCoverage < 0 {
		return musialerr.Configurationf(op, "min_coverage must be >= 0, got %d", c.MinCoverage)
	}
	if c.MinQuality < 0 {
		return musialerr.Configurationf(op, "min_quality must be >= 0, got %v", c.MinQuality)
	}
	for name, v := range map[string]float64{
		"min_hom_frequency": c.MinHomFrequency,
		"min_het_frequency": c.MinHetFrequency,
		"max_het_frequency": c.MaxHetFrequency,
	} {
		if v < 0 || v > 1 {
			return musialerr.Configurationf(op, "%s must be in [0,1], got %v", name, v)
		}
	}
	return nil
}

// Zygosity describes which frequency window accepted a record.
type Zygosity int

const (
	ZygosityNone Zygosity = iota
	ZygosityHeterozygous
	ZygosityHomozygous
)

// Decision is the outcome of evaluating one record against a Config.
type Decision struct {
	Accepted bool
	Zygosity Zygosity
}

// Evaluate decides whether rec passes the coverage/quality/frequency
// thresholds and is not suppressed by an excluded position, per spec
// §4.3. The excludedKeys are checked in order (contig, then feature
// name); any match excludes the position.
func Evaluate(c *Config, rec *variantcall.Record, excludedKeys ...string) Decision {
	if rec.Depth < c.MinCoverage {
		return Decision{}
	}
	if rec.Quality < c.MinQuality {
		return Decision{}
	}

	for _, key := range excludedKeys {
		if positions, ok := c.ExcludedPositions[key]; ok {
			if _, excluded := positions[rec.Position]; excluded {
				return Decision{}
			}
		}
	}

	if rec.AlleleFrequency >= c.MinHomFrequency {
		return Decision{Accepted: true, Zygosity: ZygosityHomozygous}
	}
	if rec.AlleleFrequency > c.MaxHetFrequency {
		return Decision{Accepted: true, Zygosity: ZygosityHomozygous}
	}
	if rec.AlleleFrequency >= c.MinHetFrequency && rec.AlleleFrequency <= c.MaxHetFrequency {
		return Decision{Accepted: true, Zygosity: ZygosityHeterozygous}
	}

	return Decision{}
}
