// Package site models RNA chemical-modification sites and their ingestion
// from public databases, BED files, and the synthetic generator.
package site

import (
	"fmt"
	"math"

	"github.com/rnamod/modcompare/internal/gene"
)

// Site is a single modification site. Chrom, Pos and Strand come from
// ingestion; Region, RelPos and Gene are populated by the annotation step
// and never mutated thereafter. Quality fields (FDR, FoldEnrichment) are
// carried through as opaque values from upstream callers; NaN means absent.
type Site struct {
	ID             string
	Chrom          string
	Pos            int64 // center position, 0-based
	Strand         gene.Strand
	Score          float64
	Region         gene.Region // empty until annotated
	RelPos         float64     // NaN until annotated
	Gene           string      // owning gene name, empty if intergenic
	FDR            float64
	FoldEnrichment float64
}

// New creates an unannotated site with quality fields unset.
func New(id, chrom string, pos int64, strand gene.Strand) *Site {
	return &Site{
		ID:             id,
		Chrom:          chrom,
		Pos:            pos,
		Strand:         strand,
		RelPos:         math.NaN(),
		FDR:            math.NaN(),
		FoldEnrichment: math.NaN(),
	}
}

// Annotated reports whether the site carries a region label.
func (s *Site) Annotated() bool {
	return s.Region != ""
}

// ParseError describes a malformed line in a site table.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}
