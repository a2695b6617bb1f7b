package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnamod/modcompare/internal/gene"
)

func rmbaseLine(fields ...string) string {
	return strings.Join(fields, "\t") + "\n"
}

func testRMBaseTable() string {
	var b strings.Builder
	b.WriteString("## RMBase pseudouridine sites\n")
	b.WriteString("#chromosome\tmodStart\tmodEnd\tmodId\tscore\tstrand\tmodName\tmodType\tsupportNum\tsupportList\tpubmedIds\tgeneName\tgeneType\tregion\tsequence\n")
	b.WriteString(rmbaseLine("chr1", "1000", "1001", "Psi_1", "100", "+", "Psi", "Y", "3", "exp1,exp2,exp3", "123", "GENE1", "protein_coding", "3'UTR", "ACGT"))
	b.WriteString(rmbaseLine("chr1", "2000", "2001", "Psi_2", "80", "-", "Psi", "Y", "1", "exp1", "123", "GENE2", "protein_coding", "CDS", "ACGT"))
	b.WriteString(rmbaseLine("chr2", "3000", "3001", "Psi_3", "60", "+", "Psi", "Y", "5", "exp1", "123", "RNU6-1", "snRNA", "exon", "ACGT"))
	return b.String()
}

func TestParseRMBase_Defaults(t *testing.T) {
	sites, err := parseRMBase(strings.NewReader(testRMBaseTable()), "test", DefaultRMBaseOptions())
	require.NoError(t, err)

	// The snRNA site is dropped by the protein_coding filter.
	require.Len(t, sites, 2)

	assert.Equal(t, "Psi_1", sites[0].ID)
	assert.Equal(t, "chr1", sites[0].Chrom)
	assert.Equal(t, int64(1000), sites[0].Pos)
	assert.Equal(t, 100.0, sites[0].Score)
	assert.Equal(t, gene.StrandForward, sites[0].Strand)
	assert.Equal(t, "GENE1", sites[0].Gene)
	assert.Equal(t, gene.Region3UTR, sites[0].Region)

	assert.Equal(t, gene.StrandReverse, sites[1].Strand)
	assert.Equal(t, gene.RegionCDS, sites[1].Region)
}

func TestParseRMBase_MinSupport(t *testing.T) {
	opts := DefaultRMBaseOptions()
	opts.MinSupport = 2

	sites, err := parseRMBase(strings.NewReader(testRMBaseTable()), "test", opts)
	require.NoError(t, err)

	// Only the 3-experiment site survives.
	require.Len(t, sites, 1)
	assert.Equal(t, "Psi_1", sites[0].ID)
}

func TestParseRMBase_AllGeneTypes(t *testing.T) {
	opts := RMBaseOptions{MinSupport: 1, ProteinCodingOnly: false}

	sites, err := parseRMBase(strings.NewReader(testRMBaseTable()), "test", opts)
	require.NoError(t, err)
	require.Len(t, sites, 3)
}

func TestParseRMBase_SkipsMalformedLines(t *testing.T) {
	input := testRMBaseTable() +
		rmbaseLine("chr1", "abc", "1001", "bad_start", "1", "+", "Psi", "Y", "1", "e", "1", "G", "protein_coding", "CDS", "A") +
		"short\tline\n"

	sites, err := parseRMBase(strings.NewReader(input), "test", DefaultRMBaseOptions())
	require.NoError(t, err)
	assert.Len(t, sites, 2)
}

func TestReadRMBase_MissingFile(t *testing.T) {
	_, err := ReadRMBase("/nonexistent/rmbase.txt", DefaultRMBaseOptions())
	require.Error(t, err)
}
