// Package reconstruct implements the per-sample feature reconstructor
// (C5): rebuilding a sample's nucleotide sequence at a feature from
// accepted variants, and, for coding features, translating and
// aligning it against the reference to extract amino-acid variants
// (spec §4.4).
package reconstruct

import (
	"sort"
	"strings"

	"github.com/musial-go/musial/internal/aggregate"
	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/seqkit"
)

// VariantKind classifies an accepted variant so reconstruction knows
// how to apply it. Reconstruct applies the edit named by each
// AcceptedVariant's Kind as given; ClassifyKind derives a Kind from an
// alternate content.
type VariantKind int

const (
	Substitution VariantKind = iota
	Insertion
	Deletion
)

// ClassifyKind infers a nucleotide call's VariantKind from its alternate
// content alone: an all-gap alt is a deletion, a multi-base alt is an
// insertion, anything else is a single-base substitution. Callers
// assembling AcceptedVariant from a raw variant-call record use this so
// the classification rule lives in one place.
func ClassifyKind(alt string) VariantKind {
	if alt == "" || strings.Count(alt, "-") == len(alt) {
		return Deletion
	}
	if len(alt) > 1 {
		return Insertion
	}
	return Substitution
}

// AcceptedVariant is one variant a sample carries at a position within
// a feature, already past the filter (spec §4.3/§4.4).
type AcceptedVariant struct {
	Position         int64
	ReferenceContent string
	AlternateContent string
	Kind             VariantKind
	Primary          bool
}

// Result holds the reconstructed sequence's derived variant sets, and,
// for coding features, the amino-acid variants and the first novel
// termination observed during alignment.
type Result struct {
	NucleotideSequence    string
	NucleotideVariants    []aggregate.NucleotideVariant
	AminoAcidVariants     []aggregate.AminoAcidVariant
	FirstNovelTermination string // "P+I", or "" if none
}

// Reconstruct applies variants to referenceSubsequence (the feature's
// reference bases, start..end inclusive, in contig orientation) to
// derive the sample's sequence at the feature, then, if isCoding,
// translates and aligns it against translatedReference to extract
// amino-acid variants (spec §4.4).
func Reconstruct(
	start int64,
	referenceSubsequence string,
	isCoding, isSense bool,
	translatedReference string,
	matrix *seqkit.ScoreMatrix,
	variants []AcceptedVariant,
) (Result, error) {
	sorted := append([]AcceptedVariant(nil), variants...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	expansions := make([][]byte, len(referenceSubsequence))
	for i := 0; i < len(referenceSubsequence); i++ {
		expansions[i] = []byte{referenceSubsequence[i]}
	}

	nucVariants := make([]aggregate.NucleotideVariant, 0, len(sorted))
	for _, v := range sorted {
		idx := int(v.Position - start)
		if idx < 0 || idx >= len(expansions) {
			return Result{}, musialerr.Referencef("reconstruct.Reconstruct", "variant at position %d falls outside feature bounds", v.Position)
		}
		switch v.Kind {
		case Substitution:
			expansions[idx] = []byte(v.AlternateContent)
		case Deletion:
			for k := 0; k < len(v.AlternateContent) && idx+k < len(expansions); k++ {
				expansions[idx+k] = []byte{'-'}
			}
		case Insertion:
			expansions[idx] = append(append([]byte{}, expansions[idx]...), v.AlternateContent...)
		}
		nucVariants = append(nucVariants, aggregate.NucleotideVariant{
			Position:         v.Position,
			Alt:              v.AlternateContent,
			ReferenceContent: v.ReferenceContent,
			Primary:          v.Primary,
		})
	}

	var buf strings.Builder
	for _, e := range expansions {
		buf.Write(e)
	}
	nucleotideSequence := buf.String()

	result := Result{NucleotideSequence: nucleotideSequence, NucleotideVariants: nucVariants}
	if !isCoding {
		return result, nil
	}

	plain := strings.ReplaceAll(nucleotideSequence, "-", "")
	translatedQuery, err := seqkit.Translate(plain, isSense, true, false)
	if err != nil {
		return Result{}, musialerr.Biof("reconstruct.Reconstruct", "translation failed: %v", err)
	}

	alignment := seqkit.Align(translatedReference, translatedQuery, matrix, 4, 3, seqkit.GapForbid, seqkit.GapPenalize)
	aaVariants, firstNovel := extractAminoAcidVariants(alignment)
	result.AminoAcidVariants = aaVariants
	result.FirstNovelTermination = firstNovel
	return result, nil
}

// extractAminoAcidVariants walks the alignment columns left to right
// per spec §4.4 step 3 and collects the amino-acid variant descriptors.
func extractAminoAcidVariants(alignment seqkit.Alignment) ([]aggregate.AminoAcidVariant, string) {
	ref := alignment.A
	query := alignment.B

	variants := make([]aggregate.AminoAcidVariant, 0)
	firstNovelTermination := ""

	var refPos int64
	var consecutiveInsertions, totalInsertions int

	for col := 0; col < len(ref); col++ {
		rc := ref[col]
		qc := query[col]
		if rc != '-' {
			refPos++
		}

		switch {
		case rc == qc:
			consecutiveInsertions = 0
		case qc == '-':
			consecutiveInsertions = 0
			variants = append(variants, aggregate.AminoAcidVariant{
				Position:         refPos,
				Insertion:        0,
				Alt:              "-",
				ReferenceContent: string(rc),
			})
		case rc == '-':
			totalInsertions++
			consecutiveInsertions++
			position := int64(col - totalInsertions + 1)
			variants = append(variants, aggregate.AminoAcidVariant{
				Position:  position,
				Insertion: consecutiveInsertions,
				Alt:       string(qc),
			})
			if firstNovelTermination == "" && qc == '*' {
				firstNovelTermination = aggregate.FormatAminoAcidKey(position, consecutiveInsertions)
			}
		default:
			consecutiveInsertions = 0
			variants = append(variants, aggregate.AminoAcidVariant{
				Position:         refPos,
				Insertion:        0,
				Alt:              string(qc),
				ReferenceContent: string(rc),
			})
			if firstNovelTermination == "" && qc == '*' {
				firstNovelTermination = aggregate.FormatAminoAcidKey(refPos, 0)
			}
		}
	}

	return variants, firstNovelTermination
}
