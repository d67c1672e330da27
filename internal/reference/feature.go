// Package reference holds the reference genome (by contig) and the set
// of annotated gene features used by the rest of the engine. Both are
// immutable after load (C1).
package reference

import "github.com/musial-go/musial/internal/musialerr"

// Feature is a reference gene feature. Coordinates are 1-based inclusive
// and normalized once at load so Start <= End always, regardless of
// strand; IsSense carries directionality instead.
type Feature struct {
	Name     string // unique internal name
	Contig   string
	Start    int64
	End      int64
	IsSense  bool
	IsCoding bool

	// StructureHandle, if non-empty, names the externally supplied 3D
	// structure file associated with this feature (C7 input).
	StructureHandle string
}

// Length returns the feature's nucleotide length.
func (f *Feature) Length() int64 {
	return f.End - f.Start + 1
}

// Contains reports whether pos (1-based, on the feature's contig) falls
// within the feature's boundaries.
func (f *Feature) Contains(pos int64) bool {
	return pos >= f.Start && pos <= f.End
}

// NewFeature constructs a Feature, normalizing start/end so Start <= End
// regardless of the strand the caller observed them on: reversed bounds
// are swapped. Coordinates are taken as given otherwise, so a negative
// or zero start is rejected rather than converted.
func NewFeature(name, contig string, a, b int64, isSense, isCoding bool, structureHandle string) (*Feature, error) {
	start, end := a, b
	if start > end {
		start, end = end, start
	}
	if start < 1 {
		return nil, musialerr.Referencef("reference.NewFeature", "feature %q: start %d must be >= 1", name, start)
	}
	return &Feature{
		Name:            name,
		Contig:          contig,
		Start:           start,
		End:             end,
		IsSense:         isSense,
		IsCoding:        isCoding,
		StructureHandle: structureHandle,
	}, nil
}
