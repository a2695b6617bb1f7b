package motif

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnamod/modcompare/internal/gene"
)

const testFASTA = `>chr1 test contig
ACGTACGTAC
GTACGTACGT
>chrM
AAAACCCC
`

func writeTestFASTA(t *testing.T, compress bool) string {
	t.Helper()
	dir := t.TempDir()

	if compress {
		path := filepath.Join(dir, "genome.fa.gz")
		f, err := os.Create(path)
		require.NoError(t, err)
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(testFASTA))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		require.NoError(t, f.Close())
		return path
	}

	path := filepath.Join(dir, "genome.fa")
	require.NoError(t, os.WriteFile(path, []byte(testFASTA), 0644))
	return path
}

func TestLoadGenome(t *testing.T) {
	g, err := LoadGenome(writeTestFASTA(t, false))
	require.NoError(t, err)
	assert.Equal(t, 2, g.ChromCount())

	// chr1 is 20 bases spanning two lines; header description is ignored.
	seq, ok := g.Extract("chr1", 10, 2, gene.StrandForward)
	require.True(t, ok)
	assert.Equal(t, "ACGTA", seq)
}

func TestLoadGenome_Gzip(t *testing.T) {
	g, err := LoadGenome(writeTestFASTA(t, true))
	require.NoError(t, err)
	assert.Equal(t, 2, g.ChromCount())
}

func TestLoadGenome_MissingFile(t *testing.T) {
	_, err := LoadGenome(filepath.Join(t.TempDir(), "nope.fa"))
	require.Error(t, err)
}

func TestGenome_Extract(t *testing.T) {
	g, err := LoadGenome(writeTestFASTA(t, false))
	require.NoError(t, err)

	tests := []struct {
		name   string
		chrom  string
		pos    int64
		flank  int
		strand gene.Strand
		want   string
		ok     bool
	}{
		{"forward center", "chr1", 5, 2, gene.StrandForward, "TACGT", true},
		{"chr prefix normalized", "1", 5, 2, gene.StrandForward, "TACGT", true},
		{"reverse complement", "chr1", 5, 2, gene.StrandReverse, "ACGTA", true},
		{"window at left edge", "chr1", 2, 2, gene.StrandForward, "ACGTA", true},
		{"window off left edge", "chr1", 1, 2, gene.StrandForward, "", false},
		{"window at right edge", "chr1", 17, 2, gene.StrandForward, "TACGT", true},
		{"window off right edge", "chr1", 18, 2, gene.StrandForward, "", false},
		{"unknown chromosome", "chr9", 5, 2, gene.StrandForward, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.Extract(tt.chrom, tt.pos, tt.flank, tt.strand)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "TTACG", reverseComplement("CGTAA"))
	assert.Equal(t, "NA", reverseComplement("TN"))
}

func TestParseFASTA_LowercaseNormalized(t *testing.T) {
	g, err := parseFASTA(strings.NewReader(">chr1\nacgt\n"))
	require.NoError(t, err)

	seq, ok := g.Extract("chr1", 1, 1, gene.StrandForward)
	require.True(t, ok)
	assert.Equal(t, "ACG", seq)
}
