// Package seqkit provides the sequence kernels shared by feature
// reconstruction and structure reconciliation: translation, reverse
// complement, and gap-affine global alignment.
package seqkit

import "strings"

// codonTable is the standard genetic code: DNA codon to amino acid
// (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// complementMap maps a base to its Watson-Crick complement.
var complementMap = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
	'a': 't', 't': 'a', 'g': 'c', 'c': 'g',
	'N': 'N', 'n': 'n',
}

// Complement returns the complement of a single base; non-ACGT bases are
// passed through unchanged.
func Complement(base byte) byte {
	if comp, ok := complementMap[base]; ok {
		return comp
	}
	return base
}

// ReverseComplement reverse-complements a DNA sequence. Any non-ACGT base
// is passed through unchanged (at its mirrored position).
func ReverseComplement(seq string) string {
	n := len(seq)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i])
	}
	return string(result)
}

// translateCodon translates a single codon. Codons containing N translate
// to X; stop codons translate to '*' when includeTermination is true, else
// to 0 (caller drops the byte).
func translateCodon(codon string, includeTermination bool) (aa byte, emit bool) {
	codon = strings.ToUpper(codon)
	if strings.ContainsRune(codon, 'N') {
		return 'X', true
	}
	aa, ok := codonTable[codon]
	if !ok {
		return 'X', true
	}
	if aa == '*' && !includeTermination {
		return 0, false
	}
	return aa, true
}

// Translate translates a nucleotide sequence per §4.1 of the spec.
//
// If sense is false, the sequence is reverse-complemented first. The
// (possibly reverse-complemented) sequence is then partitioned into
// consecutive codons. Stop codons translate to '*' when includeTermination
// is true, else to nothing. A tail shorter than 3 bases fails unless
// includeIncomplete is true, in which case it translates to 'X'.
func Translate(seq string, sense, includeTermination, includeIncomplete bool) (string, error) {
	if !sense {
		seq = ReverseComplement(seq)
	}
	seq = strings.ToUpper(seq)

	var out strings.Builder
	out.Grow(len(seq)/3 + 1)

	n := len(seq)
	i := 0
	for ; i+3 <= n; i += 3 {
		aa, emit := translateCodon(seq[i:i+3], includeTermination)
		if emit {
			out.WriteByte(aa)
		}
	}

	if i < n {
		if !includeIncomplete {
			return "", errIncompleteCodon(n - i)
		}
		out.WriteByte('X')
	}

	return out.String(), nil
}

type incompleteCodonError struct{ remainder int }

func (e *incompleteCodonError) Error() string {
	return "translate: sequence length not a multiple of 3 (remainder of length 3 or less expected; got a dangling tail)"
}

func errIncompleteCodon(remainder int) error {
	return &incompleteCodonError{remainder: remainder}
}
