package metagene

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/site"
)

func annotatedSite(relPos float64, region gene.Region) *site.Site {
	s := site.New("s", "chr1", 0, gene.StrandForward)
	s.RelPos = relPos
	s.Region = region
	return s
}

func TestCompute_Binning(t *testing.T) {
	sites := []*site.Site{
		annotatedSite(0.05, gene.Region5UTR),
		annotatedSite(0.15, gene.RegionCDS),
		annotatedSite(0.15, gene.RegionCDS),
		annotatedSite(0.95, gene.Region3UTR),
	}

	p, err := Compute(sites, Options{Bins: 10, Smooth: false})
	require.NoError(t, err)
	require.Len(t, p.Density, 10)
	require.Len(t, p.BinCenters, 10)

	assert.InDelta(t, 0.25, p.Density[0], 1e-12)
	assert.InDelta(t, 0.50, p.Density[1], 1e-12)
	assert.InDelta(t, 0.25, p.Density[9], 1e-12)

	assert.InDelta(t, 0.05, p.BinCenters[0], 1e-12)
	assert.InDelta(t, 0.95, p.BinCenters[9], 1e-12)

	sum := 0.0
	for _, d := range p.Density {
		sum += d
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCompute_RelPosOneLandsInLastBin(t *testing.T) {
	sites := []*site.Site{annotatedSite(1.0, gene.Region3UTR)}

	p, err := Compute(sites, Options{Bins: 10, Smooth: false})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.Density[9], 1e-12)
}

func TestCompute_SkipsUnannotated(t *testing.T) {
	sites := []*site.Site{
		annotatedSite(0.5, gene.RegionCDS),
		site.New("unannotated", "chr1", 0, gene.StrandForward), // NaN RelPos
		annotatedSite(-0.1, gene.RegionOther),
		annotatedSite(1.5, gene.RegionOther),
	}

	p, err := Compute(sites, Options{Bins: 10, Smooth: false})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.Density[5], 1e-12, "only the valid site is binned")
}

func TestCompute_Smoothed(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var sites []*site.Site
	for i := 0; i < 500; i++ {
		sites = append(sites, annotatedSite(rng.Float64(), gene.RegionCDS))
	}

	p, err := Compute(sites, Options{Bins: 100, Smooth: true, SmoothWindow: 9})
	require.NoError(t, err)

	sum := 0.0
	for _, d := range p.Density {
		assert.GreaterOrEqual(t, d, 0.0, "smoothed density stays non-negative")
		sum += d
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "smoothed density renormalizes")
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(nil, Options{Bins: 10})
	require.Error(t, err, "no sites with relative positions")

	_, err = Compute([]*site.Site{annotatedSite(0.5, gene.RegionCDS)}, Options{Bins: 0})
	require.Error(t, err)
}

func TestCountRegions(t *testing.T) {
	sites := []*site.Site{
		annotatedSite(0.1, gene.Region5UTR),
		annotatedSite(0.5, gene.RegionCDS),
		annotatedSite(0.5, gene.RegionCDS),
		annotatedSite(0.9, gene.Region3UTR),
		site.New("unannotated", "chr1", 0, gene.StrandForward),
	}

	counts := CountRegions(sites)
	assert.Equal(t, 1, counts[gene.Region5UTR])
	assert.Equal(t, 2, counts[gene.RegionCDS])
	assert.Equal(t, 1, counts[gene.Region3UTR])
	assert.Zero(t, counts[gene.RegionOther])
}

func TestRelPositions(t *testing.T) {
	sites := []*site.Site{
		annotatedSite(0.25, gene.RegionCDS),
		site.New("unannotated", "chr1", 0, gene.StrandForward),
		annotatedSite(0.75, gene.Region3UTR),
	}

	assert.Equal(t, []float64{0.25, 0.75}, RelPositions(sites))
}
