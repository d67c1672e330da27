package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musial-go/musial/internal/variantcall"
)

func baseConfig() *Config {
	return &Config{
		MinCoverage:     10,
		MinQuality:      20,
		MinHomFrequency: 0.9,
		MinHetFrequency: 0.2,
		MaxHetFrequency: 0.8,
	}
}

func TestEvaluateRejectsLowCoverage(t *testing.T) {
	c := baseConfig()
	d := Evaluate(c, &variantcall.Record{Depth: 1, Quality: 30, AlleleFrequency: 0.95})
	assert.False(t, d.Accepted)
}

func TestEvaluateRejectsLowQuality(t *testing.T) {
	c := baseConfig()
	d := Evaluate(c, &variantcall.Record{Depth: 50, Quality: 1, AlleleFrequency: 0.95})
	assert.False(t, d.Accepted)
}

func TestEvaluateHomozygousWindow(t *testing.T) {
	c := baseConfig()
	d := Evaluate(c, &variantcall.Record{Depth: 50, Quality: 30, AlleleFrequency: 0.95})
	assert.True(t, d.Accepted)
	assert.Equal(t, ZygosityHomozygous, d.Zygosity)
}

func TestEvaluateAboveMaxHetIsHomozygous(t *testing.T) {
	c := baseConfig()
	d := Evaluate(c, &variantcall.Record{Depth: 50, Quality: 30, AlleleFrequency: 0.85})
	assert.True(t, d.Accepted)
	assert.Equal(t, ZygosityHomozygous, d.Zygosity)
}

func TestEvaluateHeterozygousWindow(t *testing.T) {
	c := baseConfig()
	d := Evaluate(c, &variantcall.Record{Depth: 50, Quality: 30, AlleleFrequency: 0.5})
	assert.True(t, d.Accepted)
	assert.Equal(t, ZygosityHeterozygous, d.Zygosity)
}

func TestEvaluateBelowHetWindowRejected(t *testing.T) {
	c := baseConfig()
	d := Evaluate(c, &variantcall.Record{Depth: 50, Quality: 30, AlleleFrequency: 0.05})
	assert.False(t, d.Accepted)
}

func TestEvaluateExcludedPosition(t *testing.T) {
	c := baseConfig()
	c.ExcludedPositions = map[string]map[int64]struct{}{
		"chr1": {100: {}},
	}
	d := Evaluate(c, &variantcall.Record{Contig: "chr1", Position: 100, Depth: 50, Quality: 30, AlleleFrequency: 0.95}, "chr1")
	assert.False(t, d.Accepted)
}

func TestConfigValidate(t *testing.T) {
	c := baseConfig()
	require.NoError(t, c.Validate())

	bad := baseConfig()
	bad.MinCoverage = -1
	assert.Error(t, bad.Validate())

	bad2 := baseConfig()
	bad2.MaxHetFrequency = 1.5
	assert.Error(t, bad2.Validate())
}
