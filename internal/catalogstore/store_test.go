package catalogstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAllelesAndQuery(t *testing.T) {
	s := openInMemory(t)

	err := s.WriteAlleles([]AlleleRow{
		{Feature: "geneA", ID: "AL00000000001", Variants: "G!4", Samples: "a,b", Substitutions: 1, Frequency: "1.00", PercentVariablePositions: 11.11},
	})
	require.NoError(t, err)

	row := s.DB().QueryRow(`SELECT id, substitutions FROM catalog_alleles WHERE feature = ?`, "geneA")
	var id string
	var subs int
	require.NoError(t, row.Scan(&id, &subs))
	assert.Equal(t, "AL00000000001", id)
	assert.Equal(t, 1, subs)
}

func TestWriteProteoformsAndQuery(t *testing.T) {
	s := openInMemory(t)

	err := s.WriteProteoforms([]ProteoformRow{
		{Feature: "geneA", ID: "PF00000000001", Variants: "*!2+0", Samples: "a", FirstNovelTerminationPosition: "2+0", TruncationPercentage: 33.33},
	})
	require.NoError(t, err)

	row := s.DB().QueryRow(`SELECT first_novel_termination_position, truncation_percentage FROM catalog_proteoforms WHERE feature = ?`, "geneA")
	var pos string
	var pct float64
	require.NoError(t, row.Scan(&pos, &pct))
	assert.Equal(t, "2+0", pos)
	assert.InDelta(t, 33.33, pct, 0.01)
}
