package gene

import "sort"

// IntervalTree provides O(log n + k) overlap queries using a sorted-slice
// approach. Genes are loaded once and never modified after build.
type IntervalTree struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[:i+1]
}

type interval struct {
	start int64
	end   int64
	gene  *Gene
}

// BuildIntervalTree creates an interval tree from a slice of genes.
func BuildIntervalTree(genes []*Gene) *IntervalTree {
	if len(genes) == 0 {
		return &IntervalTree{}
	}

	intervals := make([]interval, len(genes))
	for i, g := range genes {
		intervals[i] = interval{start: g.Start, end: g.End, gene: g}
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	// Prefix max: covers every interval at or before index i, which is
	// what the downward scan in FindOverlaps prunes against.
	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &IntervalTree{intervals: intervals, maxEnd: maxEnd}
}

// FindOverlaps returns all genes whose half-open [Start, End) body
// contains pos.
func (t *IntervalTree) FindOverlaps(pos int64) []*Gene {
	if len(t.intervals) == 0 {
		return nil
	}

	var result []*Gene

	// Binary search: find rightmost interval with start <= pos.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start > pos
	})
	// hi is the first index with start > pos; candidates are [0, hi).

	for i := hi - 1; i >= 0; i-- {
		// maxEnd[i] is the largest end among intervals[0..i], so once it
		// drops to pos or below nothing earlier can contain pos.
		if t.maxEnd[i] <= pos {
			break
		}
		if t.intervals[i].end > pos {
			result = append(result, t.intervals[i].gene)
		}
	}

	return result
}
