package reference

import (
	"sort"

	"github.com/musial-go/musial/internal/musialerr"
)

// Store holds the reference contig sequences and the set of gene
// features used by the engine. Both are immutable after Build returns
// (C1, §3 "Lifecycle").
type Store struct {
	sequences map[string]string // contig -> sequence (1-based extraction)
	features  map[string]*Feature
	byContig  map[string][]*Feature
}

// New creates an empty Store; use Build (below) for the usual
// annotation-driven construction path.
func New() *Store {
	return &Store{
		sequences: make(map[string]string),
		features:  make(map[string]*Feature),
		byContig:  make(map[string][]*Feature),
	}
}

// AddSequence registers a contig's full sequence.
func (s *Store) AddSequence(contig, seq string) {
	s.sequences[contig] = seq
}

// AddFeature registers a feature. It is a programmer error to add two
// features with the same name.
func (s *Store) AddFeature(f *Feature) error {
	if _, exists := s.features[f.Name]; exists {
		return musialerr.Referencef("reference.AddFeature", "duplicate feature name %q", f.Name)
	}
	s.features[f.Name] = f
	s.byContig[f.Contig] = append(s.byContig[f.Contig], f)
	return nil
}

// Feature returns the named feature, or (nil, false) if absent.
func (s *Store) Feature(name string) (*Feature, bool) {
	f, ok := s.features[name]
	return f, ok
}

// Features returns all features sorted by name (stable iteration order
// for the rest of the engine).
func (s *Store) Features() []*Feature {
	out := make([]*Feature, 0, len(s.features))
	for _, f := range s.features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Subsequence extracts the 1-based inclusive [start, end] region of a
// contig's sequence.
func (s *Store) Subsequence(contig string, start, end int64) (string, error) {
	seq, ok := s.sequences[contig]
	if !ok {
		return "", musialerr.Referencef("reference.Subsequence", "unknown contig %q", contig)
	}
	if start < 1 || end < start || end > int64(len(seq)) {
		return "", musialerr.Referencef("reference.Subsequence", "range [%d,%d] out of bounds for contig %q (length %d)", start, end, contig, len(seq))
	}
	return seq[start-1 : end], nil
}

// FeatureSequence extracts the reference nucleotide sequence of a
// feature in contig (forward-strand) orientation, whatever its IsSense
// (callers reverse-complement themselves for antisense features).
func (s *Store) FeatureSequence(f *Feature) (string, error) {
	return s.Subsequence(f.Contig, f.Start, f.End)
}

// AnnotationRecord is one opaque record produced by the (out-of-scope)
// feature-annotation reader. Begin/End are already corrected to 1-based
// inclusive genomic coordinates by the adapter that produced the record —
// the source format's off-by-one start bug is fixed at ingest, never
// carried into the core (spec §6, §9).
type AnnotationRecord struct {
	Contig     string
	Begin      int64
	End        int64
	Attributes map[string]string
}

// FeatureSpec is one entry of the BUILD configuration's feature map
// (spec §6): whether the feature is a coding sequence, an optional
// structure file handle, and the MATCH_<attr>=<value> pair used to
// locate it in the annotation records.
type FeatureSpec struct {
	Name            string
	IsCodingSeq     bool
	StructureHandle string
	MatchAttr       string
	MatchValue      string
}

// FindAnnotation locates the single annotation record matching spec's
// MATCH_<attr>=<value> pair. More than one match is a fatal
// ReferenceError (spec §6); zero matches is also fatal.
func FindAnnotation(records []AnnotationRecord, spec FeatureSpec) (*AnnotationRecord, error) {
	var match *AnnotationRecord
	count := 0
	for i := range records {
		if records[i].Attributes[spec.MatchAttr] == spec.MatchValue {
			count++
			match = &records[i]
		}
	}
	switch count {
	case 0:
		return nil, musialerr.Referencef("reference.FindAnnotation", "no feature matches %s=%s", spec.MatchAttr, spec.MatchValue)
	case 1:
		return match, nil
	default:
		return nil, musialerr.Referencef("reference.FindAnnotation", "ambiguous match: %d features match %s=%s", count, spec.MatchAttr, spec.MatchValue)
	}
}

// Build constructs a Store from a set of contig sequences, annotation
// records, and the BUILD configuration's feature specs. Strand is not
// carried by AnnotationRecord (the opaque reader's location is
// strand-agnostic per §6), so Build treats every feature as
// sense-strand; BuildWithStrand takes the strand per feature.
func Build(sequences map[string]string, records []AnnotationRecord, specs []FeatureSpec) (*Store, error) {
	isSense := make(map[string]bool, len(specs))
	for _, sp := range specs {
		isSense[sp.Name] = true
	}
	return BuildWithStrand(sequences, records, specs, isSense)
}

// BuildWithStrand is like Build but takes an explicit feature-name ->
// is-sense map supplied by the caller; features absent from the map
// are treated as sense-strand.
func BuildWithStrand(sequences map[string]string, records []AnnotationRecord, specs []FeatureSpec, isSense map[string]bool) (*Store, error) {
	store := New()
	for contig, seq := range sequences {
		store.AddSequence(contig, seq)
	}

	for _, spec := range specs {
		rec, err := FindAnnotation(records, spec)
		if err != nil {
			return nil, err
		}
		sense, ok := isSense[spec.Name]
		if !ok {
			sense = true
		}
		f, err := NewFeature(spec.Name, rec.Contig, rec.Begin, rec.End, sense, spec.IsCodingSeq, spec.StructureHandle)
		if err != nil {
			return nil, musialerr.Reference("reference.Build", err)
		}
		if _, ok := store.sequences[f.Contig]; !ok {
			return nil, musialerr.Referencef("reference.Build", "feature %q references unknown contig %q", f.Name, f.Contig)
		}
		if err := store.AddFeature(f); err != nil {
			return nil, err
		}
	}

	return store, nil
}
