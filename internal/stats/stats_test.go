package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNucleotideCountsMixed(t *testing.T) {
	descriptor := "G!4;AT!6;--!10"
	c := NucleotideCounts(descriptor)
	assert.Equal(t, Counts{Substitutions: 1, Insertions: 1, Deletions: 1}, c)
}

func TestAminoAcidCountsCollapsesRuns(t *testing.T) {
	// One substitution at 2+0, a 3-residue insertion run after
	// position 5 (5+1, 5+2, 5+3), and a 2-residue deletion run at
	// adjacent positions (8+0, 9+0).
	descriptor := "P!2+0;K!5+1;L!5+2;M!5+3;-!8+0;-!9+0"
	c := AminoAcidCounts(descriptor)
	assert.Equal(t, Counts{Substitutions: 1, Insertions: 1, Deletions: 1}, c)
}

func TestFrequencyFormatting(t *testing.T) {
	assert.Equal(t, "0.50", Frequency(1, 2))
	assert.Equal(t, "1.00", Frequency(3, 3))
	assert.Equal(t, "0.00", Frequency(0, 5))
}

func TestPercentVariablePositions(t *testing.T) {
	pct := PercentVariablePositions([]int64{1, 2, 2, 5}, 10)
	assert.InDelta(t, 30.0, pct, 1e-9)
}

// S4 — first-novel-termination truncation percentage.
func TestTruncationPercentageS4(t *testing.T) {
	pct, ok := TruncationPercentage("2+0", 3)
	assert.True(t, ok)
	assert.InDelta(t, 33.33, pct, 0.01)
}

func TestTruncationPercentageNoTermination(t *testing.T) {
	_, ok := TruncationPercentage("", 100)
	assert.False(t, ok)
}

func TestEffectiveProteinLength(t *testing.T) {
	assert.Equal(t, int64(2), EffectiveProteinLength("2+0", 10))
	assert.Equal(t, int64(10), EffectiveProteinLength("", 10))
}
