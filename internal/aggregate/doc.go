// Package aggregate implements the allele/proteoform interner (C6): the
// per-feature indices that collapse samples sharing an identical
// nucleotide- or amino-acid-variant pattern into a single record, and
// the deterministic, order-invariant fingerprint that ids those records
// (spec §4.5, §4.6).
package aggregate
