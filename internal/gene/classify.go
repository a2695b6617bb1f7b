package gene

import (
	"fmt"
	"math"
)

// Region is a transcript-relative label for a genomic position.
type Region string

const (
	Region5UTR  Region = "5UTR"
	RegionCDS   Region = "CDS"
	Region3UTR  Region = "3UTR"
	RegionOther Region = "other"
)

// ParseRegion maps region spellings found in public site tables
// (RMBase, REPIC) onto the canonical labels.
func ParseRegion(s string) Region {
	switch s {
	case "5UTR", "5'UTR", "utr5", "5utr":
		return Region5UTR
	case "CDS", "cds", "exon":
		return RegionCDS
	case "3UTR", "3'UTR", "utr3", "3utr":
		return Region3UTR
	}
	return RegionOther
}

// Partition holds the genomic-coordinate boundaries of a gene's three
// transcript regions. All intervals are half-open. The fixed proportions are
// 20% 5'UTR, 60% CDS, 20% 3'UTR measured in transcription order, so the
// boundaries mirror for reverse-strand genes.
type Partition struct {
	UTR5Start, UTR5End int64
	CDSStart, CDSEnd   int64
	UTR3Start, UTR3End int64
}

// Partition computes the region boundaries for the gene.
func (g *Gene) Partition() Partition {
	l := g.Length()
	u5 := l * 2 / 10
	cds := l * 6 / 10

	if g.Strand == StrandReverse {
		return Partition{
			UTR5Start: g.End - u5, UTR5End: g.End,
			CDSStart: g.End - u5 - cds, CDSEnd: g.End - u5,
			UTR3Start: g.Start, UTR3End: g.End - u5 - cds,
		}
	}
	return Partition{
		UTR5Start: g.Start, UTR5End: g.Start + u5,
		CDSStart: g.Start + u5, CDSEnd: g.Start + u5 + cds,
		UTR3Start: g.Start + u5 + cds, UTR3End: g.End,
	}
}

// Region returns the transcript region containing pos. The caller must
// ensure pos lies within the gene body; positions outside every sub-interval
// cannot occur because the three intervals tile [Start, End).
func (p Partition) Region(pos int64) Region {
	switch {
	case pos >= p.UTR5Start && pos < p.UTR5End:
		return Region5UTR
	case pos >= p.CDSStart && pos < p.CDSEnd:
		return RegionCDS
	case pos >= p.UTR3Start && pos < p.UTR3End:
		return Region3UTR
	}
	return RegionOther
}

// Classify assigns a transcript-relative region label and a normalized
// position in [0,1] to a site position within the gene body.
//
// The relative position is measured in raw genomic-coordinate direction,
// not strand-flipped: 0.0 is the gene's genomic start regardless of strand.
// Callers doing strand-aware metagene aggregation must correct for this.
//
// Fails with ErrOutOfRange when pos is outside [Start, End); use
// ClassifyLenient to label such positions RegionOther instead.
func Classify(pos int64, g *Gene) (Region, float64, error) {
	if g.Length() <= 0 {
		return RegionOther, math.NaN(), fmt.Errorf("%w: %s [%d, %d)", ErrInvalidInterval, g.Chrom, g.Start, g.End)
	}
	if !g.Contains(pos) {
		return RegionOther, math.NaN(), fmt.Errorf("%w: %d not in %s [%d, %d)", ErrOutOfRange, pos, g.Chrom, g.Start, g.End)
	}
	rel := float64(pos-g.Start) / float64(g.Length())
	return g.Partition().Region(pos), rel, nil
}

// ClassifyLenient behaves like Classify but labels out-of-range positions
// RegionOther with an unset (NaN) relative position instead of failing.
// Malformed gene bounds still fail.
func ClassifyLenient(pos int64, g *Gene) (Region, float64, error) {
	if g.Length() <= 0 {
		return RegionOther, math.NaN(), fmt.Errorf("%w: %s [%d, %d)", ErrInvalidInterval, g.Chrom, g.Start, g.End)
	}
	if !g.Contains(pos) {
		return RegionOther, math.NaN(), nil
	}
	return Classify(pos, g)
}
