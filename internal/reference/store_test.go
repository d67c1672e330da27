package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musial-go/musial/internal/musialerr"
)

func TestFeatureNormalizesAntisenseCoordinates(t *testing.T) {
	f, err := NewFeature("g", "chr1", 9, 1, false, true, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.Start)
	assert.Equal(t, int64(9), f.End)
	assert.False(t, f.IsSense)
}

func TestFeatureRejectsStartBelowOne(t *testing.T) {
	_, err := NewFeature("g", "chr1", 0, 5, true, true, "")
	require.Error(t, err)
	kind, ok := musialerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, musialerr.KindReference, kind)
}

func TestSubsequence(t *testing.T) {
	s := New()
	s.AddSequence("chr1", "ATGAAATAA")
	seq, err := s.Subsequence("chr1", 1, 9)
	require.NoError(t, err)
	assert.Equal(t, "ATGAAATAA", seq)

	seq, err = s.Subsequence("chr1", 4, 6)
	require.NoError(t, err)
	assert.Equal(t, "AAA", seq)
}

func TestSubsequenceOutOfBounds(t *testing.T) {
	s := New()
	s.AddSequence("chr1", "ATG")
	_, err := s.Subsequence("chr1", 1, 10)
	assert.Error(t, err)
}

func TestFindAnnotationAmbiguous(t *testing.T) {
	records := []AnnotationRecord{
		{Contig: "chr1", Begin: 1, End: 9, Attributes: map[string]string{"gene_name": "g"}},
		{Contig: "chr1", Begin: 20, End: 30, Attributes: map[string]string{"gene_name": "g"}},
	}
	_, err := FindAnnotation(records, FeatureSpec{Name: "g", MatchAttr: "gene_name", MatchValue: "g"})
	assert.Error(t, err)
}

func TestBuildConstructsStore(t *testing.T) {
	records := []AnnotationRecord{
		{Contig: "chr1", Begin: 1, End: 9, Attributes: map[string]string{"gene_name": "g"}},
	}
	specs := []FeatureSpec{
		{Name: "g", IsCodingSeq: true, MatchAttr: "gene_name", MatchValue: "g"},
	}
	store, err := Build(map[string]string{"chr1": "ATGAAATAA"}, records, specs)
	require.NoError(t, err)

	f, ok := store.Feature("g")
	require.True(t, ok)
	assert.Equal(t, int64(1), f.Start)
	assert.Equal(t, int64(9), f.End)

	seq, err := store.FeatureSequence(f)
	require.NoError(t, err)
	assert.Equal(t, "ATGAAATAA", seq)
}
