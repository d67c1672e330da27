package aggregate

import (
	"sort"
	"strconv"
	"strings"
)

// Canonicalize builds the stable token a fingerprint is computed from: the
// input descriptor set (duplicates collapsed), sorted lexicographically,
// joined with a delimiter that cannot appear inside a descriptor.
//
// This is the fix for the source's bug (spec §4.6, §9): the source hashed
// an unordered collection's default string rendering, which is not
// guaranteed stable across runs or submission order. Sorting first makes
// the token — and therefore the fingerprint — a pure function of the set,
// independent of insertion order.
func Canonicalize(descriptors []string) string {
	set := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		set[d] = struct{}{}
	}
	unique := make([]string, 0, len(set))
	for d := range set {
		unique = append(unique, d)
	}
	sort.Strings(unique)
	return strings.Join(unique, ";")
}

// javaHashCode reproduces the 32-bit signed string hash the source engine
// used (s[0]*31^(n-1) + s[1]*31^(n-2) + ... + s[n-1], with int32
// wraparound), so that the fingerprint's decimal width assumption (at
// most 10 digits, per spec §4.6 step 4) holds exactly as it did in the
// source.
func javaHashCode(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + r
	}
	return h
}

// Fingerprint computes the signed integer fingerprint of a canonical
// token (spec §4.6 step 3).
func Fingerprint(token string) int32 {
	return javaHashCode(token)
}

// FormatID renders an allele/proteoform id: prefix + sign digit ("1" if
// the fingerprint is negative else "0") + the absolute value left-padded
// to width 10 in base 10 (spec §4.6 step 4). Total length is always
// len(prefix)+11.
func FormatID(prefix string, fingerprint int32) string {
	abs := int64(fingerprint)
	sign := "0"
	if abs < 0 {
		sign = "1"
		abs = -abs
	}
	return prefix + sign + pad10(abs)
}

func pad10(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) >= 10 {
		return s[len(s)-10:]
	}
	return strings.Repeat("0", 10-len(s)) + s
}

// IdentityOf computes the allele/proteoform id for a descriptor set,
// returning the reserved empty-set id when descriptors is empty.
func IdentityOf(descriptors []string, prefix, emptyID string) string {
	if len(descriptors) == 0 {
		return emptyID
	}
	token := Canonicalize(descriptors)
	return FormatID(prefix, Fingerprint(token))
}
