// Package coloc finds colocalized site pairs across two modification-site
// collections using a fixed distance window.
package coloc

import (
	"errors"
	"sort"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/site"
)

// ErrInvalidWindow indicates a negative colocalization window.
var ErrInvalidWindow = errors.New("coloc: negative window")

// Pair records one colocalized combination of a collection-A site and a
// collection-B site on the same chromosome. Region and strand are carried
// through for downstream reporting only; matching is purely positional.
type Pair struct {
	SiteA    string
	SiteB    string
	Chrom    string
	PosA     int64
	PosB     int64
	Distance int64
	RegionA  gene.Region
	RegionB  gene.Region
	StrandA  gene.Strand
	StrandB  gene.Strand
}

// Result holds the pairs and the per-collection unmatched complements.
// A site is matched when it participates in at least one pair.
type Result struct {
	Pairs      []Pair
	UnmatchedA []*site.Site
	UnmatchedB []*site.Site
	MatchedA   int // distinct A sites participating in a pair
	MatchedB   int // distinct B sites participating in a pair
}

// VennCounts returns the three counts consumed by overlap-diagram
// rendering: A-only, B-only, and the overlap (distinct matched A sites).
func (r *Result) VennCounts() (aOnly, bOnly, overlap int) {
	return len(r.UnmatchedA), len(r.UnmatchedB), r.MatchedA
}

// Matcher runs windowed all-pairs colocalization. Chromosomes holding more
// than SweepThreshold B sites use a sorted-sweep instead of the quadratic
// scan; both produce identical output.
type Matcher struct {
	Window         int64
	SweepThreshold int
}

// DefaultSweepThreshold is the per-chromosome B-site count above which the
// matcher switches to the sorted-sweep scan.
const DefaultSweepThreshold = 2000

// NewMatcher creates a matcher with the given window.
func NewMatcher(window int64) *Matcher {
	return &Matcher{Window: window, SweepThreshold: DefaultSweepThreshold}
}

// Match is a convenience wrapper around Matcher.Match.
func Match(a, b []*site.Site, window int64) (*Result, error) {
	return NewMatcher(window).Match(a, b)
}

// Match emits every same-chromosome (A, B) combination whose centers lie
// within Window of each other, inclusive. Emission order is deterministic:
// chromosomes in first-appearance order of collection A, then A input
// order, then B input order. Chromosomes present in only one collection
// contribute no pairs.
func (m *Matcher) Match(a, b []*site.Site) (*Result, error) {
	if m.Window < 0 {
		return nil, ErrInvalidWindow
	}

	aGroups, aOrder := groupByChrom(a)
	bGroups, _ := groupByChrom(b)

	matchedA := make([]bool, len(a))
	matchedB := make([]bool, len(b))
	result := &Result{}

	for _, chrom := range aOrder {
		bIdx, ok := bGroups[chrom]
		if !ok {
			continue
		}

		var sweep *sweepIndex
		if len(bIdx) > m.SweepThreshold {
			sweep = buildSweepIndex(b, bIdx)
		}

		for _, ai := range aGroups[chrom] {
			sa := a[ai]

			var candidates []int
			if sweep != nil {
				candidates = sweep.within(sa.Pos, m.Window)
			} else {
				candidates = bIdx
			}

			for _, bi := range candidates {
				sb := b[bi]
				d := sa.Pos - sb.Pos
				if d < 0 {
					d = -d
				}
				if d > m.Window {
					continue
				}

				result.Pairs = append(result.Pairs, Pair{
					SiteA:    sa.ID,
					SiteB:    sb.ID,
					Chrom:    sa.Chrom,
					PosA:     sa.Pos,
					PosB:     sb.Pos,
					Distance: d,
					RegionA:  sa.Region,
					RegionB:  sb.Region,
					StrandA:  sa.Strand,
					StrandB:  sb.Strand,
				})
				matchedA[ai] = true
				matchedB[bi] = true
			}
		}
	}

	for i, s := range a {
		if matchedA[i] {
			result.MatchedA++
		} else {
			result.UnmatchedA = append(result.UnmatchedA, s)
		}
	}
	for i, s := range b {
		if matchedB[i] {
			result.MatchedB++
		} else {
			result.UnmatchedB = append(result.UnmatchedB, s)
		}
	}

	return result, nil
}

// groupByChrom indexes sites by normalized chromosome, recording
// first-appearance order.
func groupByChrom(sites []*site.Site) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string
	for i, s := range sites {
		key := gene.NormalizeChrom(s.Chrom)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	return groups, order
}

// sweepIndex holds one chromosome's B sites sorted by position for
// window-range queries.
type sweepIndex struct {
	pos []int64
	idx []int
}

func buildSweepIndex(sites []*site.Site, indices []int) *sweepIndex {
	s := &sweepIndex{
		pos: make([]int64, len(indices)),
		idx: make([]int, len(indices)),
	}
	copy(s.idx, indices)
	sort.Slice(s.idx, func(i, j int) bool {
		pi, pj := sites[s.idx[i]].Pos, sites[s.idx[j]].Pos
		if pi != pj {
			return pi < pj
		}
		return s.idx[i] < s.idx[j]
	})
	for i, bi := range s.idx {
		s.pos[i] = sites[bi].Pos
	}
	return s
}

// within returns the input indices of sites with position in
// [center-window, center+window], sorted by input order so sweep output
// matches the naive scan exactly.
func (s *sweepIndex) within(center, window int64) []int {
	lo := sort.Search(len(s.pos), func(i int) bool { return s.pos[i] >= center-window })
	hi := sort.Search(len(s.pos), func(i int) bool { return s.pos[i] > center+window })
	if lo >= hi {
		return nil
	}
	out := make([]int, hi-lo)
	copy(out, s.idx[lo:hi])
	sort.Ints(out)
	return out
}
