package site

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/rnamod/modcompare/internal/gene"
)

// Annotated-site CSV schema, shared with the output writers.
const (
	ColChrom  = "chrom"
	ColPos    = "pos"
	ColName   = "name"
	ColScore  = "score"
	ColStrand = "strand"
	ColRegion = "region"
	ColRelPos = "relative_pos"
	ColGene   = "gene"
)

// ReadCSV reads an annotated-site CSV produced by the annotate step.
// Column order is resolved from the header; chrom and pos are required and
// missing either fails immediately, the rest are optional.
func ReadCSV(path string) ([]*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites csv: %w", err)
	}
	defer f.Close()
	return ReadCSVFrom(f, path)
}

// ReadCSVFrom reads annotated sites from an io.Reader. The name is used in
// error messages only.
func ReadCSVFrom(r io.Reader, name string) ([]*Site, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &ParseError{File: name, Line: 0, Message: "empty file, no header"}
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	for _, required := range []string{ColChrom, ColPos} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("sites csv %s: missing required column %q", name, required)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var sites []*Site
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return sites, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		line++

		pos, err := strconv.ParseInt(field(rec, ColPos), 10, 64)
		if err != nil {
			return nil, &ParseError{File: name, Line: line,
				Message: fmt.Sprintf("invalid pos %q", field(rec, ColPos))}
		}

		id := field(rec, ColName)
		if id == "" {
			id = fmt.Sprintf("site_%d", len(sites))
		}

		s := New(id, field(rec, ColChrom), pos, gene.ParseStrand(field(rec, ColStrand)))
		if v := field(rec, ColScore); v != "" {
			if score, err := strconv.ParseFloat(v, 64); err == nil {
				s.Score = score
			}
		}
		if v := field(rec, ColRegion); v != "" {
			s.Region = gene.Region(v)
		}
		if v := field(rec, ColRelPos); v != "" {
			if rel, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(rel) {
				s.RelPos = rel
			}
		}
		s.Gene = field(rec, ColGene)
		sites = append(sites, s)
	}
}
