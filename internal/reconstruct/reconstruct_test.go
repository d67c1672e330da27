package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musial-go/musial/internal/seqkit"
)

func proteinMatrix() *seqkit.ScoreMatrix {
	return seqkit.NewScoreMatrix("ACDEFGHIKLMNPQRSTVWY*", 1, -1, 0, -4, 'X')
}

// S1 — empty input: reference ATGAAATAA, feature [1,9] sense coding,
// zero variants. Translated reference is MK*, no amino-acid variants.
func TestReconstructS1EmptyInput(t *testing.T) {
	ref := "ATGAAATAA"
	translatedRef, err := seqkit.Translate(ref, true, true, false)
	require.NoError(t, err)
	require.Equal(t, "MK*", translatedRef)

	result, err := Reconstruct(1, ref, true, true, translatedRef, proteinMatrix(), nil)
	require.NoError(t, err)
	assert.Equal(t, ref, result.NucleotideSequence)
	assert.Empty(t, result.NucleotideVariants)
	assert.Empty(t, result.AminoAcidVariants)
	assert.Empty(t, result.FirstNovelTermination)
}

// S2 — single SNP at position 4, A->G (codon 2 AAA -> GAA). The feature
// is passed as non-coding, so this checks nucleotide reconstruction and
// the descriptor only; the K->E amino-acid effect is covered by the
// engine test.
func TestReconstructS2SingleSNP(t *testing.T) {
	ref := "ATGAAATAA"
	variants := []AcceptedVariant{
		{Position: 4, ReferenceContent: "A", AlternateContent: "G", Kind: Substitution, Primary: true},
	}
	result, err := Reconstruct(1, ref, false, true, "", nil, variants)
	require.NoError(t, err)
	assert.Equal(t, "ATGGAATAA", result.NucleotideSequence)
	require.Len(t, result.NucleotideVariants, 1)
	assert.Equal(t, "G!4", result.NucleotideVariants[0].Descriptor())
}

// S3 — insertion AT after position 6.
func TestReconstructS3Insertion(t *testing.T) {
	ref := "ATGAAATAA"
	variants := []AcceptedVariant{
		{Position: 6, ReferenceContent: "A", AlternateContent: "AT", Kind: Insertion},
	}
	result, err := Reconstruct(1, ref, false, true, "", nil, variants)
	require.NoError(t, err)
	assert.Equal(t, "ATGAAAATTAA", result.NucleotideSequence)
	require.Len(t, result.NucleotideVariants, 1)
	assert.Equal(t, "AT!6", result.NucleotideVariants[0].Descriptor())
}

// S4 — novel stop codon: SNP at position 4 A->T turns codon 2 (AAA)
// into TAA (stop). Expected first-novel-termination = "2+0".
func TestReconstructS4NovelStop(t *testing.T) {
	ref := "ATGAAATAA"
	translatedRef, err := seqkit.Translate(ref, true, true, false)
	require.NoError(t, err)
	require.Equal(t, "MK*", translatedRef)

	variants := []AcceptedVariant{
		{Position: 4, ReferenceContent: "A", AlternateContent: "T", Kind: Substitution},
	}
	result, err := Reconstruct(1, ref, true, true, translatedRef, proteinMatrix(), variants)
	require.NoError(t, err)
	assert.Equal(t, "2+0", result.FirstNovelTermination)
}

func TestReconstructRejectsOutOfBoundsVariant(t *testing.T) {
	ref := "ATG"
	variants := []AcceptedVariant{
		{Position: 50, ReferenceContent: "A", AlternateContent: "G", Kind: Substitution},
	}
	_, err := Reconstruct(1, ref, false, true, "", nil, variants)
	assert.Error(t, err)
}
