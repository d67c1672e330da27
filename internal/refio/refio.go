// Package refio is a minimal collaborator adapter loading the reference
// sequence and feature-annotation files cmd/musial points the core at.
// Parsing any concrete reference/annotation file format is explicitly
// out of scope for the core (spec §1); LoadFASTA and LoadAnnotations
// exist only so cmd/musial has something concrete to read.
package refio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/reference"
	"github.com/musial-go/musial/internal/structure"
)

func openMaybeGzip(path string) (*bufio.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil {
		return br, f.Close, nil
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return bufio.NewReader(gz), f.Close, nil
	}
	return br, f.Close, nil
}

// LoadFASTA parses a multi-contig FASTA file (">name" header lines,
// sequence lines concatenated until the next header) into a contig ->
// sequence map.
func LoadFASTA(path string) (map[string]string, error) {
	const op = "refio.LoadFASTA"
	reader, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, musialerr.IO(op, err)
	}
	defer closeFn()

	sequences := make(map[string]string)
	var current string
	var buf strings.Builder

	flush := func() {
		if current != "" {
			sequences[current] = buf.String()
			buf.Reset()
		}
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			current = strings.Fields(line[1:])[0]
			continue
		}
		buf.WriteString(line)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, musialerr.IO(op, fmt.Errorf("scan: %w", err))
	}
	return sequences, nil
}

// LoadAnnotations parses a tab-delimited feature-annotation file:
//
//	contig  begin  end  key1=value1;key2=value2;...
//
// into reference.AnnotationRecord values. begin/end are 1-based
// inclusive, already corrected for any off-by-one convention the
// source format used (spec §6, §9) — this adapter's format has none.
func LoadAnnotations(path string) ([]reference.AnnotationRecord, error) {
	const op = "refio.LoadAnnotations"
	reader, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, musialerr.IO(op, err)
	}
	defer closeFn()

	var records []reference.AnnotationRecord
	lineNumber := 0
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseAnnotationLine(line)
		if err != nil {
			return nil, musialerr.IO(op, fmt.Errorf("line %d: %w", lineNumber, err))
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, musialerr.IO(op, fmt.Errorf("scan: %w", err))
	}
	return records, nil
}

func parseAnnotationLine(line string) (reference.AnnotationRecord, error) {
	fields := strings.SplitN(line, "\t", 4)
	if len(fields) < 3 {
		return reference.AnnotationRecord{}, fmt.Errorf("expected at least 3 tab-separated columns, found %d", len(fields))
	}
	begin, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return reference.AnnotationRecord{}, fmt.Errorf("invalid begin %q: %w", fields[1], err)
	}
	end, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return reference.AnnotationRecord{}, fmt.Errorf("invalid end %q: %w", fields[2], err)
	}

	attributes := make(map[string]string)
	if len(fields) == 4 {
		for _, kv := range strings.Split(fields[3], ";") {
			kv = strings.TrimSpace(kv)
			if kv == "" {
				continue
			}
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				continue
			}
			attributes[parts[0]] = parts[1]
		}
	}

	return reference.AnnotationRecord{
		Contig:     fields[0],
		Begin:      begin,
		End:        end,
		Attributes: attributes,
	}, nil
}

// StructureFile adapts a FASTA-formatted structure file (">chainID"
// header lines, one sequence per chain) to engine.StructureReader.
// Parsing any concrete structure file format (PDB, mmCIF, ...) is
// explicitly out of scope for the core (spec §1); this is the
// minimal adapter cmd/musial points the engine at when a feature
// configures a structure_path.
type StructureFile struct {
	chains []structure.Chain
}

// LoadStructure reads path as a FASTA-formatted chain file.
func LoadStructure(path string) (*StructureFile, error) {
	sequences, err := LoadFASTA(path)
	if err != nil {
		return nil, err
	}
	chains := make([]structure.Chain, 0, len(sequences))
	for id, seq := range sequences {
		chains = append(chains, structure.Chain{ID: id, Sequence: seq})
	}
	return &StructureFile{chains: chains}, nil
}

// Chains implements engine.StructureReader.
func (s *StructureFile) Chains() ([]structure.Chain, error) {
	return s.chains, nil
}
