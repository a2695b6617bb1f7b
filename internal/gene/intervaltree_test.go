package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalTree_Empty(t *testing.T) {
	tree := BuildIntervalTree(nil)
	assert.Empty(t, tree.FindOverlaps(100))
}

func TestIntervalTree_SingleInterval(t *testing.T) {
	g := mustGene(t, "G", "chr1", 100, 200, StrandForward)
	tree := BuildIntervalTree([]*Gene{g})

	tests := []struct {
		pos  int64
		hits int
	}{
		{99, 0},
		{100, 1}, // start inclusive
		{150, 1},
		{199, 1},
		{200, 0}, // end exclusive
	}
	for _, tt := range tests {
		assert.Len(t, tree.FindOverlaps(tt.pos), tt.hits, "pos %d", tt.pos)
	}
}

func TestIntervalTree_OverlappingIntervals(t *testing.T) {
	genes := []*Gene{
		mustGene(t, "A", "chr1", 100, 500, StrandForward),
		mustGene(t, "B", "chr1", 200, 300, StrandForward),
		mustGene(t, "C", "chr1", 400, 600, StrandForward),
	}
	tree := BuildIntervalTree(genes)

	names := func(pos int64) []string {
		var out []string
		for _, g := range tree.FindOverlaps(pos) {
			out = append(out, g.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"A", "B"}, names(250))
	assert.ElementsMatch(t, []string{"A", "C"}, names(450))
	assert.ElementsMatch(t, []string{"A"}, names(350))
	assert.ElementsMatch(t, []string{"C"}, names(550))
	assert.Empty(t, names(700))
}

// A long interval early in start order must not be pruned away when a
// later-starting short interval has already ended.
func TestIntervalTree_LongIntervalNotPruned(t *testing.T) {
	genes := []*Gene{
		mustGene(t, "long", "chr1", 100, 10000, StrandForward),
		mustGene(t, "short", "chr1", 200, 210, StrandForward),
	}
	tree := BuildIntervalTree(genes)

	hits := tree.FindOverlaps(5000)
	require.Len(t, hits, 1)
	assert.Equal(t, "long", hits[0].Name)
}

// Nested and staggered genes, checked against a plain scan at every
// boundary-adjacent position.
func TestIntervalTree_NestedIntervalsMatchLinearScan(t *testing.T) {
	genes := []*Gene{
		mustGene(t, "outer", "chr1", 100, 9000, StrandForward),
		mustGene(t, "mid", "chr1", 150, 4000, StrandReverse),
		mustGene(t, "inner", "chr1", 200, 250, StrandForward),
		mustGene(t, "tail", "chr1", 8500, 9500, StrandForward),
		mustGene(t, "apart", "chr1", 20000, 21000, StrandForward),
	}
	tree := BuildIntervalTree(genes)

	positions := []int64{99, 100, 149, 150, 199, 200, 249, 250,
		3999, 4000, 5000, 8499, 8500, 8999, 9000, 9499, 9500, 20500}
	for _, pos := range positions {
		var want []*Gene
		for _, g := range genes {
			if g.Contains(pos) {
				want = append(want, g)
			}
		}
		assert.ElementsMatch(t, want, tree.FindOverlaps(pos), "pos %d", pos)
	}
}
