package motif

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/site"
)

func TestExtractContexts(t *testing.T) {
	g, err := parseFASTA(strings.NewReader(">chr1\nAAGGACTAAA\n"))
	require.NoError(t, err)

	sites := []*site.Site{
		site.New("a", "chr1", 4, gene.StrandForward),
		site.New("off-edge", "chr1", 0, gene.StrandForward),
		site.New("bad-chrom", "chr9", 4, gene.StrandForward),
	}

	seqs, skipped := ExtractContexts(g, sites, 2)
	assert.Equal(t, 2, skipped)
	require.Len(t, seqs, 1)
	assert.Equal(t, "GGACU", seqs[0], "T is normalized to U")
}

func TestComputeMatrix(t *testing.T) {
	// Position 0: 3xA 1xU; position 1: all G.
	seqs := []string{"AG", "AG", "AG", "UG"}

	m, err := ComputeMatrix(seqs)
	require.NoError(t, err)
	assert.Equal(t, 4, m.N)
	require.Len(t, m.Freq, 2)

	// Pseudocount 0.5 per cell: A = 3.5/6, U = 1.5/6, C = G = 0.5/6.
	assert.InDelta(t, 3.5/6, m.Freq[0][0], 1e-12)
	assert.InDelta(t, 1.5/6, m.Freq[0][1], 1e-12)
	assert.InDelta(t, 0.5/6, m.Freq[0][2], 1e-12)
	assert.InDelta(t, 0.5/6, m.Freq[0][3], 1e-12)

	assert.InDelta(t, 4.5/6, m.Freq[1][3], 1e-12)

	for pos := range m.Freq {
		sum := 0.0
		for _, f := range m.Freq[pos] {
			sum += f
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "row %d sums to 1", pos)
	}
}

func TestComputeMatrix_AmbiguousBase(t *testing.T) {
	m, err := ComputeMatrix([]string{"N"})
	require.NoError(t, err)

	// N splits evenly, so every base ends up at 0.25.
	for b := 0; b < 4; b++ {
		assert.InDelta(t, 0.25, m.Freq[0][b], 1e-12)
	}
}

func TestComputeMatrix_Errors(t *testing.T) {
	_, err := ComputeMatrix(nil)
	require.Error(t, err)

	_, err = ComputeMatrix([]string{"AAA", "AA"})
	require.Error(t, err)
}

func TestEnrichedKmers(t *testing.T) {
	seqs := []string{"GGACUGGACU", "GGACUAAAAA"}

	kmers := EnrichedKmers(seqs, 5, 3)
	require.NotEmpty(t, kmers)
	assert.Equal(t, "GGACU", kmers[0].Kmer)
	assert.Greater(t, kmers[0].Freq, 0.0)

	// Frequencies are non-increasing down the list.
	for i := 1; i < len(kmers); i++ {
		assert.GreaterOrEqual(t, kmers[i-1].Freq, kmers[i].Freq)
	}
}

func TestEnrichedKmers_SkipsAmbiguous(t *testing.T) {
	kmers := EnrichedKmers([]string{"NNNN"}, 4, 5)
	assert.Empty(t, kmers)
}

func TestCountMotifs(t *testing.T) {
	seqs := []string{
		"AAGGACUAA", // GGACU
		"AAGUUCAAA", // GUUC (and GUC is not a substring here)
		"AAAAAAAAA",
	}

	hits := CountMotifs(seqs, []string{"GGACU", "GUUC", "UGU"})
	require.Len(t, hits, 3)

	assert.Equal(t, "GGACU", hits[0].Motif)
	assert.Equal(t, 1, hits[0].Count)
	assert.InDelta(t, 1.0/3, hits[0].Fraction, 1e-12)

	assert.Equal(t, 1, hits[1].Count)
	assert.Equal(t, 0, hits[2].Count)
}

func TestCountMotifs_EmptyContexts(t *testing.T) {
	hits := CountMotifs(nil, []string{"UGU"})
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Count)
	assert.Zero(t, hits[0].Fraction)
}
