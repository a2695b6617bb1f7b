// Package duckdb persists annotated sites and colocalized pairs in a
// DuckDB database so runs can be queried after the fact.
package duckdb

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/rnamod/modcompare/internal/coloc"
	"github.com/rnamod/modcompare/internal/site"
)

// Store manages a DuckDB connection for analysis results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sites (
		collection VARCHAR,
		id VARCHAR,
		chrom VARCHAR,
		pos BIGINT,
		strand VARCHAR,
		score DOUBLE,
		region VARCHAR,
		relative_pos DOUBLE,
		gene VARCHAR,
		fdr DOUBLE,
		fold_enrichment DOUBLE,
		PRIMARY KEY (collection, id)
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS pairs (
		site_a VARCHAR,
		site_b VARCHAR,
		chrom VARCHAR,
		pos_a BIGINT,
		pos_b BIGINT,
		distance BIGINT,
		region_a VARCHAR,
		region_b VARCHAR,
		strand_a VARCHAR,
		strand_b VARCHAR
	)`)
	return err
}

// InsertSites stores a site collection under the given label, replacing
// any previous rows for that label.
//
// The clear runs in its own transaction: DuckDB still enforces the
// primary key against rows deleted earlier in the same transaction, so a
// combined delete-and-insert fails on re-inserted ids.
func (s *Store) InsertSites(collection string, sites []*site.Site) error {
	if _, err := s.db.Exec(`DELETE FROM sites WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO sites VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range sites {
		if _, err := stmt.Exec(
			collection, st.ID, st.Chrom, st.Pos, st.Strand.String(), st.Score,
			string(st.Region), nullableFloat(st.RelPos), st.Gene,
			nullableFloat(st.FDR), nullableFloat(st.FoldEnrichment),
		); err != nil {
			return fmt.Errorf("insert site %s: %w", st.ID, err)
		}
	}

	return tx.Commit()
}

// InsertPairs replaces the stored pair table with the given pairs.
func (s *Store) InsertPairs(pairs []coloc.Pair) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pairs`); err != nil {
		return fmt.Errorf("clear pairs: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO pairs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.Exec(
			p.SiteA, p.SiteB, p.Chrom, p.PosA, p.PosB, p.Distance,
			string(p.RegionA), string(p.RegionB),
			p.StrandA.String(), p.StrandB.String(),
		); err != nil {
			return fmt.Errorf("insert pair %s/%s: %w", p.SiteA, p.SiteB, err)
		}
	}

	return tx.Commit()
}

// SiteCount returns the number of stored sites for a collection.
func (s *Store) SiteCount(collection string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sites WHERE collection = ?`, collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return count, nil
}

// PairCount returns the number of stored pairs.
func (s *Store) PairCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pairs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pairs: %w", err)
	}
	return count, nil
}

// RegionBreakdown returns per-region site counts for a collection.
func (s *Store) RegionBreakdown(collection string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT region, COUNT(*) FROM sites WHERE collection = ? GROUP BY region`, collection)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var region string
		var n int
		if err := rows.Scan(&region, &n); err != nil {
			return nil, fmt.Errorf("scan region row: %w", err)
		}
		counts[region] = n
	}
	return counts, rows.Err()
}

// nullableFloat maps NaN (unset) to SQL NULL.
func nullableFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
