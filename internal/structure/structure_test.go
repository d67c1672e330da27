package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musial-go/musial/internal/seqkit"
)

func proteinMatrix() *seqkit.ScoreMatrix {
	return seqkit.NewScoreMatrix("ACDEFGHIKLMNPQRSTVWY*", 1, -1, 0, -4, 'X')
}

// S5 — structure reconciliation: translated reference MAAAAK, chain
// AAAAK (missing leading M). Padded chain mAAAAK, residues 1..5
// numbered at positions 2..6, position 1 unnumbered.
func TestReconcileS5MissingLeadingResidue(t *testing.T) {
	result, err := Reconcile("MAAAAK", Chain{ID: "A", Sequence: "AAAAK"}, proteinMatrix())
	require.NoError(t, err)
	assert.Equal(t, "mAAAAK", result.PaddedSequence)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, result.ResidueNumbers)
}

func TestReconcileIdenticalSequenceHasNoDivergence(t *testing.T) {
	result, err := Reconcile("MAAAAK", Chain{ID: "A", Sequence: "MAAAAK"}, proteinMatrix())
	require.NoError(t, err)
	assert.Equal(t, "MAAAAK", result.PaddedSequence)
	assert.Equal(t, 0, result.DivergentSegments)
	assert.False(t, result.Warning)
}

func TestReconcileRejectsChainLongerThanReference(t *testing.T) {
	_, err := Reconcile("MK", Chain{ID: "A", Sequence: "MKAAA"}, proteinMatrix())
	assert.Error(t, err)
}

func TestReconcileFlagsDivergentSegments(t *testing.T) {
	// Equal-length sequences whose anchor residues occur once each: the
	// diagonal scores 12 matches - 6 mismatches = 6, above the 0 that the
	// free-margin all-gap path scores, and any shifted or gapped
	// alignment scores lower, so the diagonal wins and leaves three clean
	// 2-residue mismatch runs separated by anchor matches.
	ref := "MKLDDPQRDDSTVDDWYC"
	chain := "MKLEEPQREESTVEEWYC"
	result, err := Reconcile(ref, Chain{ID: "A", Sequence: chain}, proteinMatrix())
	require.NoError(t, err)
	assert.Equal(t, 3, result.DivergentSegments)
	assert.True(t, result.Warning)
}
