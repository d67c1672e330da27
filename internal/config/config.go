// Package config loads and validates the BUILD module's input
// configuration document (spec §6), via viper the way the teacher's
// CLI configuration layer does.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/musial-go/musial/internal/filter"
	"github.com/musial-go/musial/internal/musialerr"
)

// SampleConfig is one sample's configuration entry.
type SampleConfig struct {
	SourcePath  string            `mapstructure:"source_path"`
	Annotations map[string]string `mapstructure:"annotations"`
}

// FeatureConfig is one feature's configuration entry, including the
// MATCH_<attr>=<value> pair used to locate it in the annotation file
// (spec §6).
type FeatureConfig struct {
	StructurePath    string            `mapstructure:"structure_path"`
	IsCodingSequence bool              `mapstructure:"is_coding_sequence"`
	Annotations      map[string]string `mapstructure:"annotations"`
	MatchAttribute   string            `mapstructure:"match_attribute"`
	MatchValue       string            `mapstructure:"match_value"`
}

// BuildConfig models the full BUILD module input document (spec §6).
type BuildConfig struct {
	Module string `mapstructure:"module"`

	MinCoverage     int64   `mapstructure:"min_coverage"`
	MinQuality      float64 `mapstructure:"min_quality"`
	MinHomFrequency float64 `mapstructure:"min_hom_frequency"`
	MinHetFrequency float64 `mapstructure:"min_het_frequency"`
	MaxHetFrequency float64 `mapstructure:"max_het_frequency"`

	Threads        int  `mapstructure:"threads"`
	GenomeAnalysis bool `mapstructure:"genome_analysis"`

	ExcludedPositions map[string][]int64 `mapstructure:"excluded_positions"`

	ReferenceSequencePath   string `mapstructure:"reference_sequence_path"`
	ReferenceAnnotationPath string `mapstructure:"reference_annotation_path"`
	OutputPath              string `mapstructure:"output_path"`
	DuckDBPath              string `mapstructure:"duckdb_path"`

	Samples  map[string]SampleConfig  `mapstructure:"samples"`
	Features map[string]FeatureConfig `mapstructure:"features"`
}

// Load reads a BUILD configuration document from path (YAML or JSON,
// detected by viper from the extension).
func Load(path string) (*BuildConfig, error) {
	const op = "config.Load"
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, musialerr.IO(op, err)
	}

	var cfg BuildConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, musialerr.Configuration(op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural requirements of spec §6 beyond what
// filter.Config.Validate already covers (thresholds), namely the
// module tag, required paths, thread count, and referential sanity of
// samples/features.
func (c *BuildConfig) Validate() error {
	const op = "config.BuildConfig.Validate"
	if !strings.EqualFold(c.Module, "BUILD") {
		return musialerr.Configurationf(op, `module must be "BUILD", got %q`, c.Module)
	}
	if c.Threads < 1 {
		return musialerr.Configurationf(op, "threads must be >= 1, got %d", c.Threads)
	}
	if c.ReferenceSequencePath == "" {
		return musialerr.Configurationf(op, "reference_sequence_path is required")
	}
	if c.ReferenceAnnotationPath == "" {
		return musialerr.Configurationf(op, "reference_annotation_path is required")
	}
	if c.OutputPath == "" {
		return musialerr.Configurationf(op, "output_path is required")
	}
	if len(c.Samples) == 0 {
		return musialerr.Configurationf(op, "at least one sample is required")
	}
	if len(c.Features) == 0 {
		return musialerr.Configurationf(op, "at least one feature is required")
	}
	for name, f := range c.Features {
		if f.MatchAttribute == "" || f.MatchValue == "" {
			return musialerr.Configurationf(op, "feature %q is missing its MATCH_<attr>=<value> lookup pair", name)
		}
	}
	return c.FilterConfig().Validate()
}

// FilterConfig derives the per-record acceptance configuration (C4)
// from the threshold fields.
func (c *BuildConfig) FilterConfig() *filter.Config {
	excluded := make(map[string]map[int64]struct{}, len(c.ExcludedPositions))
	for key, positions := range c.ExcludedPositions {
		set := make(map[int64]struct{}, len(positions))
		for _, p := range positions {
			set[p] = struct{}{}
		}
		excluded[key] = set
	}
	return &filter.Config{
		MinCoverage:       c.MinCoverage,
		MinQuality:        c.MinQuality,
		MinHomFrequency:   c.MinHomFrequency,
		MinHetFrequency:   c.MinHetFrequency,
		MaxHetFrequency:   c.MaxHetFrequency,
		ExcludedPositions: excluded,
	}
}
