package site

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rnamod/modcompare/internal/gene"
)

// REPICOptions controls quality filtering of REPIC m6A peak tables.
type REPICOptions struct {
	MaxFDR            float64 // peaks with FDR above this are dropped
	MinFoldEnrichment float64 // peaks below this enrichment are dropped
}

// DefaultREPICOptions matches the filters used for the published m6A set.
func DefaultREPICOptions() REPICOptions {
	return REPICOptions{MaxFDR: 0.01, MinFoldEnrichment: 10.0}
}

// repicPos matches the REPIC position syntax: chr1:629848-630037[+]
var repicPos = regexp.MustCompile(`^(\w+):(\d+)-(\d+)\[([+-])\]$`)

// repicColumns resolves required column names to indices from the header
// line and fails fast when one is missing.
type repicColumns struct {
	pos, pvalue, fdr, fold, region, gene int
}

func resolveREPICColumns(header []string) (repicColumns, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	cols := repicColumns{}
	required := []struct {
		name string
		dst  *int
	}{
		{"pos", &cols.pos},
		{"pvalue", &cols.pvalue},
		{"fdr", &cols.fdr},
		{"fold_enrichment", &cols.fold},
		{"region", &cols.region},
		{"geneid", &cols.gene},
	}
	for _, r := range required {
		i, ok := idx[r.name]
		if !ok {
			return cols, fmt.Errorf("repic header: missing required column %q", r.name)
		}
		*r.dst = i
	}
	return cols, nil
}

// ReadREPIC parses a REPIC m6A peak table (plain or gzipped). The peak
// center is the midpoint of the reported interval.
func ReadREPIC(path string, opts REPICOptions) ([]*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open repic file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseREPIC(reader, path, opts)
}

func parseREPIC(reader io.Reader, path string, opts REPICOptions) ([]*Site, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read repic header: %w", err)
		}
		return nil, &ParseError{File: path, Line: 0, Message: "empty file, no header"}
	}

	cols, err := resolveREPICColumns(strings.Split(scanner.Text(), "\t"))
	if err != nil {
		return nil, err
	}

	var sites []*Site
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= cols.gene {
			continue
		}

		m := repicPos.FindStringSubmatch(fields[cols.pos])
		if m == nil {
			continue
		}
		start, _ := strconv.ParseInt(m[2], 10, 64)
		end, _ := strconv.ParseInt(m[3], 10, 64)

		fdr, err := strconv.ParseFloat(fields[cols.fdr], 64)
		if err != nil || fdr > opts.MaxFDR {
			continue
		}
		fold, err := strconv.ParseFloat(fields[cols.fold], 64)
		if err != nil || fold < opts.MinFoldEnrichment {
			continue
		}

		// The ordinal keeps ids unique: a gene often carries several
		// peaks in the same region.
		s := New(fmt.Sprintf("%s_%s_%d", fields[cols.gene], fields[cols.region], len(sites)),
			m[1], (start+end)/2, gene.ParseStrand(m[4]))
		s.Score = fold
		s.FDR = fdr
		s.FoldEnrichment = fold
		s.Gene = fields[cols.gene]
		s.Region = gene.ParseRegion(fields[cols.region])
		sites = append(sites, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan repic %s: %w", path, err)
	}
	return sites, nil
}
