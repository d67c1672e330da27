// Package stats computes the per-allele/per-proteoform statistics (C8):
// substitution/insertion/deletion counts, sample frequency, percentage
// of variable positions, and proteoform truncation percentage (spec
// §4.8).
package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Counts holds the substitution/insertion/deletion tallies for one
// allele or proteoform.
type Counts struct {
	Substitutions int
	Insertions    int
	Deletions     int
}

// nucToken is a parsed "ALT!POS" descriptor.
type nucToken struct {
	alt      string
	position int64
}

func parseNucleotideDescriptor(descriptor string) []nucToken {
	if descriptor == "" {
		return nil
	}
	parts := strings.Split(descriptor, ";")
	tokens := make([]nucToken, 0, len(parts))
	for _, p := range parts {
		idx := strings.LastIndexByte(p, '!')
		if idx < 0 {
			continue
		}
		pos, err := strconv.ParseInt(p[idx+1:], 10, 64)
		if err != nil {
			continue
		}
		tokens = append(tokens, nucToken{alt: p[:idx], position: pos})
	}
	return tokens
}

// NucleotideCounts tallies an allele's canonical descriptor string. Each
// descriptor already represents one atomic call from the variant-call
// reader (a whole inserted or deleted run, not one base at a time), so
// no further run-grouping is needed at the nucleotide level.
func NucleotideCounts(descriptor string) Counts {
	var c Counts
	for _, t := range parseNucleotideDescriptor(descriptor) {
		switch classifyNucleotideAlt(t.alt) {
		case kindDeletion:
			c.Deletions++
		case kindInsertion:
			c.Insertions++
		default:
			c.Substitutions++
		}
	}
	return c
}

type variantKind int

const (
	kindSubstitution variantKind = iota
	kindInsertion
	kindDeletion
)

func classifyNucleotideAlt(alt string) variantKind {
	if alt == "" {
		return kindDeletion
	}
	if strings.Count(alt, "-") == len(alt) {
		return kindDeletion
	}
	if len(alt) > 1 {
		return kindInsertion
	}
	return kindSubstitution
}

// aaToken is a parsed "ALT!P+I" descriptor.
type aaToken struct {
	alt       string
	position  int64
	insertion int
}

func parseAminoAcidDescriptor(descriptor string) []aaToken {
	if descriptor == "" {
		return nil
	}
	parts := strings.Split(descriptor, ";")
	tokens := make([]aaToken, 0, len(parts))
	for _, p := range parts {
		idx := strings.LastIndexByte(p, '!')
		if idx < 0 {
			continue
		}
		alt := p[:idx]
		key := p[idx+1:]
		plus := strings.IndexByte(key, '+')
		if plus < 0 {
			continue
		}
		pos, err := strconv.ParseInt(key[:plus], 10, 64)
		if err != nil {
			continue
		}
		ins, err := strconv.Atoi(key[plus+1:])
		if err != nil {
			continue
		}
		tokens = append(tokens, aaToken{alt: alt, position: pos, insertion: ins})
	}
	return tokens
}

// AminoAcidCounts tallies a proteoform's canonical descriptor string.
// Unlike nucleotide descriptors, the amino-acid column walk (spec §4.4)
// emits one descriptor per residue even within a single insertion or
// deletion run, so runs of consecutive insertions (same position,
// ascending insertion index) and consecutive deletions (ascending,
// adjacent positions) are collapsed to a single count each.
func AminoAcidCounts(descriptor string) Counts {
	tokens := parseAminoAcidDescriptor(descriptor)
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].position != tokens[j].position {
			return tokens[i].position < tokens[j].position
		}
		return tokens[i].insertion < tokens[j].insertion
	})

	var c Counts
	var lastInsertionPos int64 = -1
	var lastDeletionPos int64 = -1
	haveLastDeletion := false

	for _, t := range tokens {
		switch {
		case t.alt == "-":
			if haveLastDeletion && t.position == lastDeletionPos+1 {
				lastDeletionPos = t.position
				continue
			}
			c.Deletions++
			lastDeletionPos = t.position
			haveLastDeletion = true
		case t.insertion > 0:
			if t.position == lastInsertionPos {
				continue
			}
			c.Insertions++
			lastInsertionPos = t.position
		default:
			c.Substitutions++
		}
	}
	return c
}

// Frequency formats |samples| / totalSamples as a two-decimal string
// (spec §4.8, §6).
func Frequency(sampleCount, totalSamples int) string {
	if totalSamples == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(sampleCount)/float64(totalSamples))
}

// PercentVariablePositions computes 100 * |variant positions ∩ [1, limit]| / limit
// (spec §4.8). limit is the reference feature length for alleles, or
// the effective protein length for proteoforms (see EffectiveProteinLength
// for how that effective length is chosen). Division is floating-point
// throughout: the source's integer-division variant is a documented bug
// (spec §9) and is not reproduced here.
func PercentVariablePositions(positions []int64, limit int64) float64 {
	if limit <= 0 {
		return 0
	}
	set := make(map[int64]struct{}, len(positions))
	for _, p := range positions {
		if p >= 1 && p <= limit {
			set[p] = struct{}{}
		}
	}
	return 100 * float64(len(set)) / float64(limit)
}

// NucleotidePositions extracts the distinct positions referenced by a
// nucleotide descriptor string, for PercentVariablePositions.
func NucleotidePositions(descriptor string) []int64 {
	tokens := parseNucleotideDescriptor(descriptor)
	out := make([]int64, len(tokens))
	for i, t := range tokens {
		out[i] = t.position
	}
	return out
}

// AminoAcidPositions extracts the distinct residue positions referenced
// by an amino-acid descriptor string, for PercentVariablePositions.
func AminoAcidPositions(descriptor string) []int64 {
	tokens := parseAminoAcidDescriptor(descriptor)
	out := make([]int64, len(tokens))
	for i, t := range tokens {
		out[i] = t.position
	}
	return out
}

// TruncationPercentage computes 100 * (1 - P/proteinLength) for a
// proteoform's first novel termination key "P+I" (spec §4.8). ok is
// false if firstNovelTermination is empty (no novel stop observed).
func TruncationPercentage(firstNovelTermination string, proteinLength int64) (percentage float64, ok bool) {
	if firstNovelTermination == "" || proteinLength <= 0 {
		return 0, false
	}
	plus := strings.IndexByte(firstNovelTermination, '+')
	if plus < 0 {
		return 0, false
	}
	p, err := strconv.ParseInt(firstNovelTermination[:plus], 10, 64)
	if err != nil {
		return 0, false
	}
	return 100 * (1 - float64(p)/float64(proteinLength)), true
}

// FirstNovelTermination scans a proteoform's canonical descriptor for
// the first residue (in ascending position/insertion order) whose
// alternate content is a stop codon, and returns its "P+I" key, or ""
// if the proteoform introduces no novel termination. Deriving this from
// the descriptor rather than threading it through from reconstruction
// keeps the catalog's value consistent regardless of which sample's
// submission happened to create the proteoform record (spec §4.4/§4.8).
func FirstNovelTermination(descriptor string) string {
	tokens := parseAminoAcidDescriptor(descriptor)
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].position != tokens[j].position {
			return tokens[i].position < tokens[j].position
		}
		return tokens[i].insertion < tokens[j].insertion
	})
	for _, t := range tokens {
		if t.alt == "*" {
			return strconv.FormatInt(t.position, 10) + "+" + strconv.Itoa(t.insertion)
		}
	}
	return ""
}

// EffectiveProteinLength returns the length used for a proteoform's
// PercentVariablePositions: up to the first novel termination position
// if one was observed, else the full translated reference length
// (spec §4.8).
func EffectiveProteinLength(firstNovelTermination string, fullLength int64) int64 {
	if firstNovelTermination == "" {
		return fullLength
	}
	plus := strings.IndexByte(firstNovelTermination, '+')
	if plus < 0 {
		return fullLength
	}
	p, err := strconv.ParseInt(firstNovelTermination[:plus], 10, 64)
	if err != nil {
		return fullLength
	}
	return p
}
