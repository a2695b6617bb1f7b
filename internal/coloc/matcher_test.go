package coloc

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/site"
)

func siteAt(id, chrom string, pos int64) *site.Site {
	return site.New(id, chrom, pos, gene.StrandForward)
}

func TestMatch_BasicScenario(t *testing.T) {
	a := []*site.Site{siteAt("A0", "chr1", 1500)}
	b := []*site.Site{
		siteAt("B0", "chr1", 1530),
		siteAt("B1", "chr1", 1600),
	}

	result, err := Match(a, b, 50)
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	p := result.Pairs[0]
	assert.Equal(t, "A0", p.SiteA)
	assert.Equal(t, "B0", p.SiteB)
	assert.Equal(t, int64(30), p.Distance)
	assert.Equal(t, "chr1", p.Chrom)

	assert.Empty(t, result.UnmatchedA)
	require.Len(t, result.UnmatchedB, 1)
	assert.Equal(t, "B1", result.UnmatchedB[0].ID)

	aOnly, bOnly, overlap := result.VennCounts()
	assert.Equal(t, 0, aOnly)
	assert.Equal(t, 1, bOnly)
	assert.Equal(t, 1, overlap)
}

func TestMatch_WindowBoundaryInclusive(t *testing.T) {
	a := []*site.Site{siteAt("A0", "chr1", 1000)}

	atWindow := []*site.Site{siteAt("B0", "chr1", 1050)}
	result, err := Match(a, atWindow, 50)
	require.NoError(t, err)
	require.Len(t, result.Pairs, 1, "distance == window must match")
	assert.Equal(t, int64(50), result.Pairs[0].Distance)

	pastWindow := []*site.Site{siteAt("B0", "chr1", 1051)}
	result, err = Match(a, pastWindow, 50)
	require.NoError(t, err)
	assert.Empty(t, result.Pairs, "distance == window+1 must not match")
}

func TestMatch_ZeroWindow(t *testing.T) {
	a := []*site.Site{siteAt("A0", "chr1", 1000)}
	b := []*site.Site{siteAt("B0", "chr1", 1000), siteAt("B1", "chr1", 1001)}

	result, err := Match(a, b, 0)
	require.NoError(t, err)
	require.Len(t, result.Pairs, 1, "zero window matches exact positions only")
	assert.Equal(t, "B0", result.Pairs[0].SiteB)
}

func TestMatch_NegativeWindow(t *testing.T) {
	_, err := Match(nil, nil, -1)
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestMatch_DifferentChromosomesNeverPair(t *testing.T) {
	a := []*site.Site{siteAt("A0", "chr1", 1000)}
	b := []*site.Site{siteAt("B0", "chr2", 1000)}

	result, err := Match(a, b, 1000)
	require.NoError(t, err)
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedA, 1)
	assert.Len(t, result.UnmatchedB, 1)
}

func TestMatch_ChromPrefixNormalization(t *testing.T) {
	a := []*site.Site{siteAt("A0", "chr1", 1000)}
	b := []*site.Site{siteAt("B0", "1", 1010)}

	result, err := Match(a, b, 50)
	require.NoError(t, err)
	require.Len(t, result.Pairs, 1, `"chr1" and "1" are the same chromosome`)
}

func TestMatch_AllPairsEmitted(t *testing.T) {
	// Two A sites near two B sites: all four combinations are within range.
	a := []*site.Site{siteAt("A0", "chr1", 1000), siteAt("A1", "chr1", 1010)}
	b := []*site.Site{siteAt("B0", "chr1", 1005), siteAt("B1", "chr1", 1015)}

	result, err := Match(a, b, 50)
	require.NoError(t, err)
	require.Len(t, result.Pairs, 4)

	// Deterministic emission: A input order, then B input order.
	var keys []string
	for _, p := range result.Pairs {
		keys = append(keys, p.SiteA+"/"+p.SiteB)
	}
	assert.Equal(t, []string{"A0/B0", "A0/B1", "A1/B0", "A1/B1"}, keys)

	assert.Equal(t, 2, result.MatchedA)
	assert.Equal(t, 2, result.MatchedB)
}

// Matching is symmetric: swapping the collections swaps the pair roles
// but keeps the same set of matched combinations.
func TestMatch_Symmetry(t *testing.T) {
	a := []*site.Site{
		siteAt("A0", "chr1", 1000),
		siteAt("A1", "chr1", 2000),
		siteAt("A2", "chr2", 500),
	}
	b := []*site.Site{
		siteAt("B0", "chr1", 1030),
		siteAt("B1", "chr2", 520),
		siteAt("B2", "chr2", 900),
	}

	fwd, err := Match(a, b, 50)
	require.NoError(t, err)
	rev, err := Match(b, a, 50)
	require.NoError(t, err)

	fwdSet := make(map[string]bool)
	for _, p := range fwd.Pairs {
		fwdSet[p.SiteA+"/"+p.SiteB] = true
	}
	revSet := make(map[string]bool)
	for _, p := range rev.Pairs {
		revSet[p.SiteB+"/"+p.SiteA] = true
	}
	assert.Equal(t, fwdSet, revSet)
	assert.Equal(t, len(fwd.Pairs), len(rev.Pairs))
}

// Growing the window never loses pairs.
func TestMatch_WindowMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var a, b []*site.Site
	for i := 0; i < 100; i++ {
		a = append(a, siteAt(fmt.Sprintf("A%d", i), "chr1", rng.Int63n(10000)))
		b = append(b, siteAt(fmt.Sprintf("B%d", i), "chr1", rng.Int63n(10000)))
	}

	prev := -1
	for _, window := range []int64{0, 10, 50, 200, 1000, 20000} {
		result, err := Match(a, b, window)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(result.Pairs), prev, "window %d", window)
		prev = len(result.Pairs)
	}
}

// The sorted-sweep path must produce byte-identical output to the naive
// scan, including emission order.
func TestMatch_SweepMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	var a, b []*site.Site
	for i := 0; i < 300; i++ {
		chrom := fmt.Sprintf("chr%d", 1+rng.Intn(3))
		a = append(a, siteAt(fmt.Sprintf("A%d", i), chrom, rng.Int63n(50000)))
		b = append(b, siteAt(fmt.Sprintf("B%d", i), chrom, rng.Int63n(50000)))
	}

	naive := &Matcher{Window: 75, SweepThreshold: 1 << 30}
	sweep := &Matcher{Window: 75, SweepThreshold: 0}

	nr, err := naive.Match(a, b)
	require.NoError(t, err)
	sr, err := sweep.Match(a, b)
	require.NoError(t, err)

	require.Equal(t, len(nr.Pairs), len(sr.Pairs))
	for i := range nr.Pairs {
		assert.Equal(t, nr.Pairs[i], sr.Pairs[i], "pair %d differs", i)
	}
	assert.Equal(t, nr.MatchedA, sr.MatchedA)
	assert.Equal(t, nr.MatchedB, sr.MatchedB)
	assert.Equal(t, len(nr.UnmatchedA), len(sr.UnmatchedA))
	assert.Equal(t, len(nr.UnmatchedB), len(sr.UnmatchedB))
}

func TestMatch_EmptyCollections(t *testing.T) {
	result, err := Match(nil, nil, 50)
	require.NoError(t, err)
	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.UnmatchedA)
	assert.Empty(t, result.UnmatchedB)
}

func TestMatch_CarriesRegionAndStrand(t *testing.T) {
	sa := site.New("A0", "chr1", 1000, gene.StrandReverse)
	sa.Region = gene.Region3UTR
	sb := site.New("B0", "chr1", 1010, gene.StrandForward)
	sb.Region = gene.RegionCDS

	result, err := Match([]*site.Site{sa}, []*site.Site{sb}, 50)
	require.NoError(t, err)
	require.Len(t, result.Pairs, 1)

	p := result.Pairs[0]
	assert.Equal(t, gene.Region3UTR, p.RegionA)
	assert.Equal(t, gene.RegionCDS, p.RegionB)
	assert.Equal(t, gene.StrandReverse, p.StrandA)
	assert.Equal(t, gene.StrandForward, p.StrandB)
}
