// Package vcfio is a minimal collaborator adapter implementing
// variantcall.Reader over a plain tab-delimited per-sample variant
// file. Parsing any concrete variant-call format is explicitly out of
// scope for the core (spec §1); this package exists only so cmd/musial
// has something concrete to point at a sample's calls.
//
// File format, one record per line, '#'-prefixed lines and blank lines
// skipped:
//
//	contig  position  reference_content  alternate_content  depth  allele_frequency  quality
//
// is_primary is computed here, not carried by the file: among every
// alternate reported at the same (contig, position) within the file,
// the one with the highest allele_frequency is primary (spec §4.2).
package vcfio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/variantcall"
)

// Reader serves a sample's records from an eagerly parsed, in-memory,
// primary-annotated slice. Eager loading is required to compute
// is_primary correctly: the primary flag depends on every alternate
// reported at a site, which may not be adjacent in the file.
type Reader struct {
	records []*variantcall.Record
	pos     int
}

// Open reads and parses path (gzip-compressed if it carries the gzip
// magic bytes), computes is_primary, and returns a Reader positioned at
// the first record.
func Open(path string) (*Reader, error) {
	const op = "vcfio.Open"
	file, err := os.Open(path)
	if err != nil {
		return nil, musialerr.IO(op, err)
	}
	defer file.Close()

	reader, err := maybeGzip(file)
	if err != nil {
		return nil, musialerr.IO(op, err)
	}

	records, err := parseAll(reader)
	if err != nil {
		return nil, musialerr.IO(op, err)
	}
	markPrimary(records)
	sortRecords(records)

	return &Reader{records: records}, nil
}

func maybeGzip(f *os.File) (*bufio.Reader, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil {
		// Short or empty file; let the line scanner below hit EOF cleanly.
		return br, nil
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return bufio.NewReader(gz), nil
	}
	return br, nil
}

func parseAll(r *bufio.Reader) ([]*variantcall.Record, error) {
	var records []*variantcall.Record
	lineNumber := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return records, nil
}

func parseLine(line string) (*variantcall.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return nil, fmt.Errorf("expected 7 tab-separated columns, found %d", len(fields))
	}

	position, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position %q: %w", fields[1], err)
	}
	depth, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid depth %q: %w", fields[4], err)
	}
	alleleFrequency, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid allele_frequency %q: %w", fields[5], err)
	}
	quality, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quality %q: %w", fields[6], err)
	}

	return &variantcall.Record{
		Contig:           fields[0],
		Position:         position,
		ReferenceContent: fields[2],
		AlternateContent: fields[3],
		Depth:            depth,
		AlleleFrequency:  alleleFrequency,
		Quality:          quality,
	}, nil
}

// markPrimary sets IsPrimary on the highest-frequency record at each
// (contig, position) group. Ties keep the first one encountered.
func markPrimary(records []*variantcall.Record) {
	type key struct {
		contig   string
		position int64
	}
	best := make(map[key]*variantcall.Record)
	for _, rec := range records {
		k := key{rec.Contig, rec.Position}
		if cur, ok := best[k]; !ok || rec.AlleleFrequency > cur.AlleleFrequency {
			best[k] = rec
		}
	}
	for _, rec := range best {
		rec.IsPrimary = true
	}
}

// sortRecords orders records by contig then position for deterministic
// iteration regardless of file ordering.
func sortRecords(records []*variantcall.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Contig != records[j].Contig {
			return records[i].Contig < records[j].Contig
		}
		return records[i].Position < records[j].Position
	})
}

// Next returns the next record, or (nil, nil) at end of stream.
func (r *Reader) Next() (*variantcall.Record, error) {
	if r.pos >= len(r.records) {
		return nil, nil
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

// Close is a no-op: Open already released the underlying file handle.
func (r *Reader) Close() error {
	return nil
}
