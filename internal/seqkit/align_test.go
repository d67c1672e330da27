package seqkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nucMatrix() *ScoreMatrix {
	return NewScoreMatrix("ACGT-", 1, -1, 0, -4, 'N')
}

func TestAlignFreeMargins(t *testing.T) {
	s := nucMatrix()
	aln := Align("AAAA", "AA", s, 2, 1, GapFree, GapFree)
	assert.Equal(t, len(aln.A), len(aln.B))
	// Two leading/trailing gaps in b should be free: score should equal
	// the score of the two aligned A's (2 matches), i.e. 2.
	assert.Equal(t, 2, aln.Score)
}

func TestAlignPenalizeMonotonic(t *testing.T) {
	s := nucMatrix()
	short := Align("A", "AAA", s, 2, 1, GapPenalize, GapPenalize)
	long := Align("A", "AAAAA", s, 2, 1, GapPenalize, GapPenalize)
	assert.Less(t, long.Score, short.Score)
}

func TestAlignForbidAvoidsMarginGap(t *testing.T) {
	s := nucMatrix()
	aln := Align("AAAA", "AAAA", s, 2, 1, GapForbid, GapForbid)
	// Identical sequences: forbidding margin gaps should still allow the
	// perfect (gap-free) alignment.
	assert.Equal(t, "AAAA", aln.A)
	assert.Equal(t, "AAAA", aln.B)
	assert.False(t, strings.Contains(aln.A, "-"))
	assert.False(t, strings.Contains(aln.B, "-"))
}

func TestAlignEqualLength(t *testing.T) {
	s := nucMatrix()
	aln := Align("ACGTACGT", "ACGTCGT", s, 4, 3, GapForbid, GapPenalize)
	assert.Equal(t, len(aln.A), len(aln.B))
}
