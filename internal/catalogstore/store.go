// Package catalogstore provides an optional DuckDB mirror of the
// assembled catalog, for downstream SQL querying over alleles and
// proteoforms without re-parsing the JSON document.
package catalogstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/musial-go/musial/internal/musialerr"
)

// Store manages a DuckDB connection mirroring catalog alleles and
// proteoforms.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at path. An empty path opens
// an in-memory database.
func Open(path string) (*Store, error) {
	const op = "catalogstore.Open"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, musialerr.IO(op, err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, musialerr.IO(op, err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, musialerr.IO(op, err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	const op = "catalogstore.ensureSchema"
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS catalog_alleles (
		feature VARCHAR,
		id VARCHAR,
		variants VARCHAR,
		samples VARCHAR,
		substitutions INTEGER,
		insertions INTEGER,
		deletions INTEGER,
		frequency VARCHAR,
		percent_variable_positions DOUBLE,
		PRIMARY KEY (feature, id)
	)`); err != nil {
		return musialerr.IO(op, err)
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS catalog_proteoforms (
		feature VARCHAR,
		id VARCHAR,
		variants VARCHAR,
		samples VARCHAR,
		substitutions INTEGER,
		insertions INTEGER,
		deletions INTEGER,
		frequency VARCHAR,
		percent_variable_positions DOUBLE,
		first_novel_termination_position VARCHAR,
		truncation_percentage DOUBLE,
		PRIMARY KEY (feature, id)
	)`); err != nil {
		return musialerr.IO(op, err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// AlleleRow is one allele's mirrored record.
type AlleleRow struct {
	Feature                  string
	ID                       string
	Variants                 string
	Samples                  string // comma-joined for simple SQL querying
	Substitutions            int
	Insertions               int
	Deletions                int
	Frequency                string
	PercentVariablePositions float64
}

// ProteoformRow mirrors AlleleRow plus the termination annotations.
type ProteoformRow struct {
	Feature                       string
	ID                            string
	Variants                      string
	Samples                       string
	Substitutions                 int
	Insertions                    int
	Deletions                     int
	Frequency                     string
	PercentVariablePositions      float64
	FirstNovelTerminationPosition string
	TruncationPercentage          float64
}

// WriteAlleles batch-inserts allele rows using the Appender API, the
// same idiom the variant-result cache uses for bulk writes.
func (s *Store) WriteAlleles(rows []AlleleRow) error {
	const op = "catalogstore.WriteAlleles"
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return musialerr.IO(op, err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "catalog_alleles")
		return err
	}); err != nil {
		return musialerr.IO(op, err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.Feature, r.ID, r.Variants, r.Samples,
			r.Substitutions, r.Insertions, r.Deletions,
			r.Frequency, r.PercentVariablePositions,
		); err != nil {
			return musialerr.IO(op, err)
		}
	}
	return appender.Flush()
}

// WriteProteoforms batch-inserts proteoform rows.
func (s *Store) WriteProteoforms(rows []ProteoformRow) error {
	const op = "catalogstore.WriteProteoforms"
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return musialerr.IO(op, err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "catalog_proteoforms")
		return err
	}); err != nil {
		return musialerr.IO(op, err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.Feature, r.ID, r.Variants, r.Samples,
			r.Substitutions, r.Insertions, r.Deletions,
			r.Frequency, r.PercentVariablePositions,
			r.FirstNovelTerminationPosition, r.TruncationPercentage,
		); err != nil {
			return musialerr.IO(op, err)
		}
	}
	return appender.Flush()
}
