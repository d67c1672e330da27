// Package structure implements the proteoform-structure reconciler
// (C7): aligning a protein chain's sequence to a feature's translated
// reference, renumbering structure residues so they agree with
// reference positions, and flagging segments where the structure
// diverges from the reference (spec §4.7).
package structure

import (
	"strings"

	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/seqkit"
)

// GapOpen and GapExtend are the fixed gap-affine penalties spec §4.7
// mandates for chain-to-reference alignment; both margins are FREE.
const (
	GapOpen   = 5
	GapExtend = 4
)

// Chain is one protein chain of an externally supplied structure.
type Chain struct {
	ID       string
	Sequence string
}

// Result is the outcome of reconciling one chain against a feature's
// translated reference sequence.
type Result struct {
	ChainID string

	// PaddedSequence has one byte per alignment column where the
	// reference is not a gap: uppercase where the chain carries a
	// residue, lowercase where only the reference does (the "missing
	// from structure" annotation).
	PaddedSequence string

	// ResidueNumbers parallels PaddedSequence: the 1..N residue number
	// assigned to each uppercase position, 0 for lowercase positions.
	ResidueNumbers []int

	// DivergentSegments is the count of maximal runs of uppercase
	// residues that differ from the aligned reference residue.
	DivergentSegments int

	// Warning is set when more than two divergent segments of length
	// greater than one were found.
	Warning bool
}

// Reconcile aligns chain against translatedReference and produces the
// padded, renumbered result (spec §4.7).
func Reconcile(translatedReference string, chain Chain, matrix *seqkit.ScoreMatrix) (Result, error) {
	alignment := seqkit.Align(translatedReference, chain.Sequence, matrix, GapOpen, GapExtend, seqkit.GapFree, seqkit.GapFree)
	ref := alignment.A
	ch := alignment.B

	padded := make([]byte, 0, len(ref))
	numbers := make([]int, 0, len(ref))
	residueCounter := 0

	for i := 0; i < len(ref); i++ {
		rc := ref[i]
		cc := ch[i]

		if cc != '-' {
			if rc == '-' {
				return Result{}, musialerr.Biof("structure.Reconcile", "chain %q carries a residue at a position absent from the reference translation", chain.ID)
			}
			padded = append(padded, upper(cc))
			residueCounter++
			numbers = append(numbers, residueCounter)
			continue
		}

		if rc == '-' {
			continue // both gaps: cannot occur in a valid global alignment, skip defensively
		}
		padded = append(padded, lower(rc))
		numbers = append(numbers, 0)
	}

	segments, flagged := countDivergentSegments(ref, ch)

	return Result{
		ChainID:           chain.ID,
		PaddedSequence:    string(padded),
		ResidueNumbers:    numbers,
		DivergentSegments: segments,
		Warning:           flagged > 2,
	}, nil
}

// countDivergentSegments walks the alignment columns and counts maximal
// runs of uppercase (chain-present) residues that mismatch the aligned
// reference residue, per the glossary's definition of a divergent
// segment. It returns the total segment count and the count of
// segments longer than one column, the latter being what spec §4.7
// thresholds warnings on.
func countDivergentSegments(ref, ch string) (total, flagged int) {
	inSegment := false
	runLength := 0

	closeSegment := func() {
		if inSegment {
			if runLength > 1 {
				flagged++
			}
			inSegment = false
			runLength = 0
		}
	}

	for i := 0; i < len(ref); i++ {
		rc := ref[i]
		cc := ch[i]

		if cc == '-' {
			closeSegment()
			continue
		}
		if rc != '-' && upper(cc) != upper(rc) {
			if !inSegment {
				inSegment = true
				total++
			}
			runLength++
		} else {
			closeSegment()
		}
	}
	closeSegment()

	return total, flagged
}

func upper(b byte) byte {
	return strings.ToUpper(string(b))[0]
}

func lower(b byte) byte {
	return strings.ToLower(string(b))[0]
}
