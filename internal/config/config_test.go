package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `
module: BUILD
min_coverage: 10
min_quality: 20
min_hom_frequency: 0.9
min_het_frequency: 0.2
max_het_frequency: 0.8
threads: 4
genome_analysis: false
reference_sequence_path: ref.fasta
reference_annotation_path: ref.gff
output_path: out.json
excluded_positions:
  chr1: [100, 200]
samples:
  s1:
    source_path: s1.vcf
    annotations:
      origin: field
features:
  g:
    structure_path: g.pdb
    is_coding_sequence: true
    match_attribute: gene_name
    match_value: g
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadValidDocument(t *testing.T) {
	path := writeConfig(t, validDocument)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "BUILD", cfg.Module)
	assert.Equal(t, int64(10), cfg.MinCoverage)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, []int64{100, 200}, cfg.ExcludedPositions["chr1"])
	require.Contains(t, cfg.Samples, "s1")
	assert.Equal(t, "s1.vcf", cfg.Samples["s1"].SourcePath)
	assert.Equal(t, "field", cfg.Samples["s1"].Annotations["origin"])
	require.Contains(t, cfg.Features, "g")
	assert.True(t, cfg.Features["g"].IsCodingSequence)
	assert.Equal(t, "gene_name", cfg.Features["g"].MatchAttribute)
}

func TestLoadRejectsWrongModule(t *testing.T) {
	path := writeConfig(t, `
module: ANNOTATE
threads: 1
reference_sequence_path: ref.fasta
reference_annotation_path: ref.gff
output_path: out.json
samples:
  s1: {source_path: s1.vcf}
features:
  g: {match_attribute: gene_name, match_value: g}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFeatureMatch(t *testing.T) {
	path := writeConfig(t, `
module: BUILD
threads: 1
reference_sequence_path: ref.fasta
reference_annotation_path: ref.gff
output_path: out.json
samples:
  s1: {source_path: s1.vcf}
features:
  g: {is_coding_sequence: true}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	path := writeConfig(t, `
module: BUILD
threads: 1
min_hom_frequency: 1.5
reference_sequence_path: ref.fasta
reference_annotation_path: ref.gff
output_path: out.json
samples:
  s1: {source_path: s1.vcf}
features:
  g: {match_attribute: gene_name, match_value: g}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFilterConfigConversion(t *testing.T) {
	path := writeConfig(t, validDocument)
	cfg, err := Load(path)
	require.NoError(t, err)

	fc := cfg.FilterConfig()
	assert.Equal(t, cfg.MinCoverage, fc.MinCoverage)
	_, ok := fc.ExcludedPositions["chr1"][100]
	assert.True(t, ok)
	_, ok = fc.ExcludedPositions["chr1"][200]
	assert.True(t, ok)
}
