package site

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

func TestBEDParser_SixColumns(t *testing.T) {
	input := `track name="psi sites"
browser position chr1:1000-2000
# comment line

chr1	1000	1001	PSI_site_0	850	+
chr1	2000	2010	PSI_site_1	300	-
`
	p := NewBEDParserFromReader(strings.NewReader(input))
	sites, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.Equal(t, "PSI_site_0", sites[0].ID)
	assert.Equal(t, "chr1", sites[0].Chrom)
	assert.Equal(t, int64(1000), sites[0].Pos)
	assert.Equal(t, 850.0, sites[0].Score)
	assert.Equal(t, gene.StrandForward, sites[0].Strand)

	// Center of a multi-bp interval is the midpoint.
	assert.Equal(t, int64(2005), sites[1].Pos)
	assert.Equal(t, gene.StrandReverse, sites[1].Strand)
}

func TestBEDParser_ThreeColumns(t *testing.T) {
	input := "chr1\t100\t200\nchr2\t300\t400\n"
	p := NewBEDParserFromReader(strings.NewReader(input))
	sites, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.Equal(t, "site_0", sites[0].ID)
	assert.Equal(t, "site_1", sites[1].ID)
	assert.Equal(t, int64(150), sites[0].Pos)
	assert.Equal(t, gene.StrandForward, sites[0].Strand)
	assert.False(t, sites[0].Annotated())
}

func TestBEDParser_PlaceholderName(t *testing.T) {
	input := "chr1\t100\t200\t.\t0\t+\n"
	p := NewBEDParserFromReader(strings.NewReader(input))
	sites, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "site_0", sites[0].ID)
}

func TestBEDParser_MalformedLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "chr1\t100\n"},
		{"bad start", "chr1\tabc\t200\n"},
		{"bad end", "chr1\t100\txyz\n"},
		{"end before start", "chr1\t200\t100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBEDParserFromReader(strings.NewReader(tt.input))
			_, err := p.ReadAll()
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 1, perr.Line)
		})
	}
}

func TestBEDParser_GzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.bed.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("chr1\t100\t101\tA\t5\t+\nchr1\t200\t201\tB\t6\t-\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	sites, err := ReadBED(path)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "A", sites[0].ID)
	assert.Equal(t, "B", sites[1].ID)
}

func TestBEDParser_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.bed")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t100\t101\tA\t5\t+\n"), 0644))

	sites, err := ReadBED(path)
	require.NoError(t, err)
	require.Len(t, sites, 1)
}

func TestBEDParser_MissingFile(t *testing.T) {
	_, err := ReadBED("/nonexistent/sites.bed")
	require.Error(t, err)
}
