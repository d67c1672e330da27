package variantcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleAssignment(t *testing.T) {
	s := NewSample("sample_a", nil)
	s.AssignAllele("g", "AL00000000001")
	s.AssignProteoform("g", "PF_REFERENCE")

	id, ok := s.Allele("g")
	assert.True(t, ok)
	assert.Equal(t, "AL00000000001", id)

	pf, ok := s.Proteoform("g")
	assert.True(t, ok)
	assert.Equal(t, "PF_REFERENCE", pf)

	alleles, proteoforms := s.Assignments()
	assert.Equal(t, map[string]string{"g": "AL00000000001"}, alleles)
	assert.Equal(t, map[string]string{"g": "PF_REFERENCE"}, proteoforms)
}
