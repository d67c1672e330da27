package seqkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "TTT", ReverseComplement("AAA"))
	assert.Equal(t, "NCG", ReverseComplement("CGN"))
}

func TestTranslateSense(t *testing.T) {
	seq, err := Translate("ATGAAATAA", true, true, false)
	require.NoError(t, err)
	assert.Equal(t, "MK*", seq)
}

func TestTranslateNoTermination(t *testing.T) {
	seq, err := Translate("ATGAAATAA", true, false, false)
	require.NoError(t, err)
	assert.Equal(t, "MK", seq)
}

func TestTranslateIncompleteTailFails(t *testing.T) {
	_, err := Translate("ATGAA", true, true, false)
	assert.Error(t, err)
}

func TestTranslateIncompleteTailAllowed(t *testing.T) {
	seq, err := Translate("ATGAA", true, true, true)
	require.NoError(t, err)
	assert.Equal(t, "MX", seq)
}

func TestTranslateUnknownBase(t *testing.T) {
	seq, err := Translate("NTGAAATAA", true, true, false)
	require.NoError(t, err)
	assert.Equal(t, "X", seq[:1])
}

// TestTranslateIdempotence checks property 6: translating the
// reverse-complemented antisense sequence equals translating the sense
// sequence.
func TestTranslateIdempotence(t *testing.T) {
	sense := "ATGAAATAA"
	anti := ReverseComplement(sense)

	want, err := Translate(sense, true, true, false)
	require.NoError(t, err)

	got, err := Translate(anti, false, true, false)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}
