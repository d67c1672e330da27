package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndRoundTrip(t *testing.T) {
	b := NewBuilder(
		Parameters{MinCoverage: 10, MinQuality: 20, MinHomFrequency: 0.9, MinHetFrequency: 0.2, MaxHetFrequency: 0.8, Threads: 4},
		SoftwareInfo{Name: "musial", Version: "test", RunID: "run-1"},
		map[string][]int64{"chr1": {100, 200}},
	)
	b.AddFeature(&FeatureEntry{
		Name:               "geneA",
		NucleotideSequence: "ATGAAATAA",
		Chromosome:         "chr1",
		Start:              1,
		End:                9,
		IsSense:            true,
		IsCodingSequence:   true,
		Alleles: map[string]*AlleleEntry{
			"AL_REFERENCE": {ID: "AL_REFERENCE", Variants: "", Samples: []string{"s1"}, Frequency: "1.00"},
		},
	})
	b.AddSample("s1", map[string]string{"AL!geneA": "AL_REFERENCE", "PF!geneA": "PF_REFERENCE"})
	b.SetNucleotideVariants("geneA", map[string]map[string]*VariantEntry{})

	original := b.Build(time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))

	data, err := Marshal(original)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, original.Parameters, decoded.Parameters)
	assert.Equal(t, original.Date, decoded.Date)
	assert.Equal(t, original.Software, decoded.Software)
	assert.Equal(t, original.ExcludedPositions, decoded.ExcludedPositions)
	require.Contains(t, decoded.Features, "geneA")
	assert.Equal(t, original.Features["geneA"].NucleotideSequence, decoded.Features["geneA"].NucleotideSequence)
	require.Contains(t, decoded.Samples, "s1")
	assert.Equal(t, original.Samples["s1"].Annotations, decoded.Samples["s1"].Annotations)
}

func TestSortedFeatureNames(t *testing.T) {
	c := &Catalog{Features: map[string]*FeatureEntry{"geneB": {}, "geneA": {}}}
	assert.Equal(t, []string{"geneA", "geneB"}, c.SortedFeatureNames())
}
