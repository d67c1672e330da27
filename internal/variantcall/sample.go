package variantcall

import "sync"

// ReferenceSampleID is the reserved sentinel sample name that denotes the
// reference itself (spec §3).
const ReferenceSampleID = "REFERENCE"

// Sample is immutable after load except for its allele/proteoform
// assignment map, which is filled in during aggregation (spec §3). The
// assignment map is written by at most one worker per (sample, feature)
// pair but read concurrently by statistics/catalog assembly, so it is
// guarded by a mutex.
type Sample struct {
	Name   string
	Source Reader // closed by the engine once drained; not reset to nil

	mu          sync.RWMutex
	alleleOf    map[string]string // feature name -> allele id
	proteoformOf map[string]string // feature name -> proteoform id
}

// NewSample creates a Sample wrapping its variant-call source.
func NewSample(name string, source Reader) *Sample {
	return &Sample{
		Name:          name,
		Source:        source,
		alleleOf:      make(map[string]string),
		proteoformOf:  make(map[string]string),
	}
}

// AssignAllele records the allele id the sample carries for a feature.
func (s *Sample) AssignAllele(feature, alleleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alleleOf[feature] = alleleID
}

// AssignProteoform records the proteoform id the sample carries for a
// feature.
func (s *Sample) AssignProteoform(feature, proteoformID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proteoformOf[feature] = proteoformID
}

// Allele returns the allele id assigned for a feature, if any.
func (s *Sample) Allele(feature string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.alleleOf[feature]
	return id, ok
}

// Proteoform returns the proteoform id assigned for a feature, if any.
func (s *Sample) Proteoform(feature string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.proteoformOf[feature]
	return id, ok
}

// Assignments returns a snapshot of all feature -> allele/proteoform
// assignments, for catalog assembly.
func (s *Sample) Assignments() (alleles, proteoforms map[string]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alleles = make(map[string]string, len(s.alleleOf))
	for k, v := range s.alleleOf {
		alleles[k] = v
	}
	proteoforms = make(map[string]string, len(s.proteoformOf))
	for k, v := range s.proteoformOf {
		proteoforms[k] = v
	}
	return alleles, proteoforms
}
