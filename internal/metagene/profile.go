// Package metagene computes positional density profiles and distribution
// statistics for annotated modification-site collections.
package metagene

import (
	"fmt"
	"math"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/site"
)

// Profile is a binned density of site relative positions along the gene
// body. Density sums to 1 over the bins.
type Profile struct {
	BinCenters []float64
	Density    []float64
}

// Options configures profile computation.
type Options struct {
	Bins         int  // number of bins across [0,1], typically 100
	Smooth       bool // apply Savitzky-Golay smoothing
	SmoothWindow int  // odd window size, typically 9
}

// DefaultOptions matches the published metagene parameters.
func DefaultOptions() Options {
	return Options{Bins: 100, Smooth: true, SmoothWindow: 9}
}

// Compute bins the relative positions of annotated sites. Sites without a
// relative position (unannotated or intergenic) are skipped.
func Compute(sites []*site.Site, opts Options) (*Profile, error) {
	if opts.Bins <= 0 {
		return nil, fmt.Errorf("metagene: non-positive bin count %d", opts.Bins)
	}

	counts := make([]float64, opts.Bins)
	total := 0.0
	for _, s := range sites {
		if math.IsNaN(s.RelPos) || s.RelPos < 0 || s.RelPos > 1 {
			continue
		}
		bin := int(s.RelPos * float64(opts.Bins))
		if bin == opts.Bins { // relative position exactly 1.0
			bin--
		}
		counts[bin]++
		total++
	}

	if total == 0 {
		return nil, fmt.Errorf("metagene: no sites with relative positions")
	}

	density := make([]float64, opts.Bins)
	for i, c := range counts {
		density[i] = c / total
	}

	if opts.Smooth && opts.Bins > opts.SmoothWindow {
		smoothed, err := SavitzkyGolay(density, opts.SmoothWindow, 2)
		if err != nil {
			return nil, fmt.Errorf("metagene: smooth: %w", err)
		}
		// Clamp and renormalize: the quadratic fit can dip below zero at
		// sharp peaks.
		sum := 0.0
		for i, v := range smoothed {
			if v < 0 {
				v = 0
			}
			smoothed[i] = v
			sum += v
		}
		if sum > 0 {
			for i := range smoothed {
				smoothed[i] /= sum
			}
		}
		density = smoothed
	}

	centers := make([]float64, opts.Bins)
	width := 1.0 / float64(opts.Bins)
	for i := range centers {
		centers[i] = (float64(i) + 0.5) * width
	}

	return &Profile{BinCenters: centers, Density: density}, nil
}

// RegionCounts tallies sites per transcript region.
type RegionCounts map[gene.Region]int

// CountRegions tallies the region labels of a collection. Unannotated
// sites are not counted.
func CountRegions(sites []*site.Site) RegionCounts {
	counts := make(RegionCounts)
	for _, s := range sites {
		if s.Region == "" {
			continue
		}
		counts[s.Region]++
	}
	return counts
}

// RelPositions extracts the defined relative positions of a collection.
func RelPositions(sites []*site.Site) []float64 {
	var out []float64
	for _, s := range sites {
		if !math.IsNaN(s.RelPos) {
			out = append(out, s.RelPos)
		}
	}
	return out
}
