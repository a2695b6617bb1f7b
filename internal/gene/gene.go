// Package gene models gene intervals and transcript-relative regions.
package gene

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by gene construction and classification.
var (
	// ErrInvalidInterval indicates malformed gene bounds (end <= start or start < 0).
	ErrInvalidInterval = errors.New("gene: invalid interval")
	// ErrOutOfRange indicates a site position outside its purported gene.
	ErrOutOfRange = errors.New("gene: position out of range")
)

// Strand indicates the transcription direction of a gene.
type Strand int8

const (
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// ParseStrand converts a strand symbol to a Strand. Anything other than "-"
// is treated as forward, matching the convention of most BED producers.
func ParseStrand(s string) Strand {
	if s == "-" {
		return StrandReverse
	}
	return StrandForward
}

// String returns the strand symbol ("+" or "-").
func (s Strand) String() string {
	if s == StrandReverse {
		return "-"
	}
	return "+"
}

// Gene is a genomic interval with a transcription direction.
// Coordinates are 0-based, half-open [Start, End). Immutable once constructed.
type Gene struct {
	Name   string
	Chrom  string
	Start  int64
	End    int64
	Strand Strand
}

// New constructs a validated gene interval.
func New(name, chrom string, start, end int64, strand Strand) (*Gene, error) {
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: %s [%d, %d)", ErrInvalidInterval, chrom, start, end)
	}
	return &Gene{Name: name, Chrom: chrom, Start: start, End: end, Strand: strand}, nil
}

// Length returns the gene body length in base pairs.
func (g *Gene) Length() int64 {
	return g.End - g.Start
}

// Contains reports whether pos lies within [Start, End).
func (g *Gene) Contains(pos int64) bool {
	return pos >= g.Start && pos < g.End
}

// NormalizeChrom strips a leading "chr" prefix so that data sources using
// "chr1" and "1" group together.
func NormalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return chrom
}
