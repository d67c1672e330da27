package aggregate

import (
	"fmt"
	"sync"
)

// NucleotideVariant is one accepted substitution/insertion/deletion a
// sample carries at a feature, as produced by sequence reconstruction
// (spec §4.4).
type NucleotideVariant struct {
	Position         int64
	Alt              string
	ReferenceContent string
	Primary          bool
}

// Descriptor renders the canonical "ALT!POS" token spec §3 defines for
// nucleotide variants.
func (v NucleotideVariant) Descriptor() string {
	return fmt.Sprintf("%s!%d", v.Alt, v.Position)
}

// AminoAcidVariant is one accepted amino-acid substitution/insertion/
// deletion, keyed by the "P+I" compound position (spec §3).
type AminoAcidVariant struct {
	Position         int64
	Insertion        int
	Alt              string
	ReferenceContent string
}

// Descriptor renders the canonical "ALT!P+I" token for amino-acid
// variants.
func (v AminoAcidVariant) Descriptor() string {
	return fmt.Sprintf("%s!%s", v.Alt, formatAminoAcidKey(v.Position, v.Insertion))
}

// AlleleStats holds the post-hoc counts internal/stats fills in once a
// feature's samples have all been submitted. Zero value means "not yet
// computed".
type AlleleStats struct {
	Substitutions int
	Insertions    int
	Deletions     int
}

// Allele is the equivalence class of samples sharing one canonical
// nucleotide-variant pattern at a feature (spec §3, §4.5).
type Allele struct {
	ID         string
	Descriptor string

	mu      sync.Mutex
	samples map[string]struct{}
	Stats   AlleleStats
}

func newAllele(id, descriptor string) *Allele {
	return &Allele{ID: id, Descriptor: descriptor, samples: make(map[string]struct{})}
}

// AddSample atomically extends the allele's sample set.
func (a *Allele) AddSample(sampleID string) {
	a.mu.Lock()
	a.samples[sampleID] = struct{}{}
	a.mu.Unlock()
}

// Samples returns a snapshot of the sample ids carrying this allele.
func (a *Allele) Samples() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.samples))
	for s := range a.samples {
		out = append(out, s)
	}
	return out
}

// SampleCount returns the current size of the sample set.
func (a *Allele) SampleCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.samples)
}

// SetStats installs the statistics computed for this allele. Called
// once, after all samples at the owning feature have been submitted, so
// no additional synchronization beyond the existing mutex is needed.
func (a *Allele) SetStats(s AlleleStats) {
	a.mu.Lock()
	a.Stats = s
	a.mu.Unlock()
}

// ProteoformStats mirrors AlleleStats with the additional annotations
// spec §3/§4.8 require for proteoforms.
type ProteoformStats struct {
	Substitutions          int
	Insertions             int
	Deletions              int
	FirstNovelTermination  string // "P+I" key of the first novel stop, or "" if none
	TruncationPercentage   float64
}

// Proteoform is the equivalence class of samples sharing one canonical
// amino-acid-variant pattern at a coding feature (spec §3, §4.5).
type Proteoform struct {
	ID         string
	Descriptor string

	mu      sync.Mutex
	samples map[string]struct{}
	Stats   ProteoformStats
}

func newProteoform(id, descriptor string) *Proteoform {
	return &Proteoform{ID: id, Descriptor: descriptor, samples: make(map[string]struct{})}
}

// AddSample atomically extends the proteoform's sample set.
func (p *Proteoform) AddSample(sampleID string) {
	p.mu.Lock()
	p.samples[sampleID] = struct{}{}
	p.mu.Unlock()
}

// Samples returns a snapshot of the sample ids carrying this proteoform.
func (p *Proteoform) Samples() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.samples))
	for s := range p.samples {
		out = append(out, s)
	}
	return out
}

// SampleCount returns the current size of the sample set.
func (p *Proteoform) SampleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.samples)
}

// SetStats installs the statistics computed for this proteoform.
func (p *Proteoform) SetStats(s ProteoformStats) {
	p.mu.Lock()
	p.Stats = s
	p.mu.Unlock()
}
