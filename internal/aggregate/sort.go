package aggregate

import (
	"sort"
	"strconv"
	"strings"
)

func sortNucleotidePositions(s []NucleotidePosition) {
	sort.Slice(s, func(i, j int) bool { return s[i].Position < s[j].Position })
}

// aminoAcidKey splits a "P+I" compound key into its position and
// insertion index for ordering. A malformed key (should not occur,
// since keys are only ever built by formatAminoAcidKey) sorts last.
func aminoAcidKey(key string) (position int64, insertion int, ok bool) {
	idx := strings.IndexByte(key, '+')
	if idx < 0 {
		return 0, 0, false
	}
	p, err := strconv.ParseInt(key[:idx], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	i, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return 0, 0, false
	}
	return p, i, true
}

// formatAminoAcidKey builds the "P+I" compound key (spec §3): position
// is the residue position, insertion distinguishes residues inserted
// after that position (0 for a residue aligned to the reference frame).
func formatAminoAcidKey(position int64, insertion int) string {
	return strconv.FormatInt(position, 10) + "+" + strconv.Itoa(insertion)
}

// FormatAminoAcidKey exposes formatAminoAcidKey to other packages that
// need to build or report an amino-acid site key (e.g. recording a
// proteoform's first novel termination position).
func FormatAminoAcidKey(position int64, insertion int) string {
	return formatAminoAcidKey(position, insertion)
}

func sortAminoAcidPositions(s []AminoAcidPosition) {
	sort.Slice(s, func(i, j int) bool {
		pi, ii, oki := aminoAcidKey(s[i].Key)
		pj, ij, okj := aminoAcidKey(s[j].Key)
		if !oki || !okj {
			return s[i].Key < s[j].Key
		}
		if pi != pj {
			return pi < pj
		}
		return ii < ij
	})
}

func sortAlleles(s []*Allele) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

func sortProteoforms(s []*Proteoform) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}
