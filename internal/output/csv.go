// Package output provides CSV, BED and report writers for analysis results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/rnamod/modcompare/internal/coloc"
	"github.com/rnamod/modcompare/internal/metagene"
	"github.com/rnamod/modcompare/internal/site"
)

// SiteWriter writes annotated sites as CSV, readable back by site.ReadCSV.
type SiteWriter struct {
	w *csv.Writer
}

// NewSiteWriter creates a CSV writer for annotated sites.
func NewSiteWriter(w io.Writer) *SiteWriter {
	return &SiteWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column header.
func (sw *SiteWriter) WriteHeader() error {
	return sw.w.Write([]string{
		site.ColChrom, site.ColPos, site.ColName, site.ColScore,
		site.ColStrand, site.ColRegion, site.ColRelPos, site.ColGene,
	})
}

// Write writes a single site row. Unset relative positions become empty
// fields.
func (sw *SiteWriter) Write(s *site.Site) error {
	relPos := ""
	if !math.IsNaN(s.RelPos) {
		relPos = strconv.FormatFloat(s.RelPos, 'f', 6, 64)
	}
	return sw.w.Write([]string{
		s.Chrom,
		strconv.FormatInt(s.Pos, 10),
		s.ID,
		strconv.FormatFloat(s.Score, 'f', -1, 64),
		s.Strand.String(),
		string(s.Region),
		relPos,
		s.Gene,
	})
}

// WriteAll writes the header and every site.
func (sw *SiteWriter) WriteAll(sites []*site.Site) error {
	if err := sw.WriteHeader(); err != nil {
		return err
	}
	for _, s := range sites {
		if err := sw.Write(s); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Flush flushes buffered rows.
func (sw *SiteWriter) Flush() error {
	sw.w.Flush()
	return sw.w.Error()
}

// PairWriter writes colocalized pairs as CSV.
type PairWriter struct {
	w *csv.Writer
}

// NewPairWriter creates a CSV writer for colocalized pairs.
func NewPairWriter(w io.Writer) *PairWriter {
	return &PairWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column header.
func (pw *PairWriter) WriteHeader() error {
	return pw.w.Write([]string{
		"site_a", "site_b", "chrom", "pos_a", "pos_b", "distance",
		"region_a", "region_b", "strand_a", "strand_b",
	})
}

// Write writes a single pair row.
func (pw *PairWriter) Write(p coloc.Pair) error {
	return pw.w.Write([]string{
		p.SiteA,
		p.SiteB,
		p.Chrom,
		strconv.FormatInt(p.PosA, 10),
		strconv.FormatInt(p.PosB, 10),
		strconv.FormatInt(p.Distance, 10),
		string(p.RegionA),
		string(p.RegionB),
		p.StrandA.String(),
		p.StrandB.String(),
	})
}

// WriteAll writes the header and every pair.
func (pw *PairWriter) WriteAll(pairs []coloc.Pair) error {
	if err := pw.WriteHeader(); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := pw.Write(p); err != nil {
			return err
		}
	}
	return pw.Flush()
}

// Flush flushes buffered rows.
func (pw *PairWriter) Flush() error {
	pw.w.Flush()
	return pw.w.Error()
}

// WriteProfile writes a metagene profile as a two-column CSV.
func WriteProfile(w io.Writer, p *metagene.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bin_center", "density"}); err != nil {
		return err
	}
	for i := range p.BinCenters {
		if err := cw.Write([]string{
			strconv.FormatFloat(p.BinCenters[i], 'f', 3, 64),
			strconv.FormatFloat(p.Density[i], 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}
