package site

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rnamod/modcompare/internal/gene"
)

// RMBase column layout (BED15+):
// chromosome, modStart, modEnd, modId, score, strand, modName, modType,
// supportNum, supportList, pubmedIds, geneName, geneType, region, sequence
const rmbaseMinFields = 14

// RMBaseOptions controls filtering of RMBase pseudouridine tables.
type RMBaseOptions struct {
	MinSupport        int  // minimum supporting experiment count
	ProteinCodingOnly bool // keep only protein_coding gene sites
}

// DefaultRMBaseOptions matches the filters used for the published Ψ set.
func DefaultRMBaseOptions() RMBaseOptions {
	return RMBaseOptions{MinSupport: 1, ProteinCodingOnly: true}
}

// ReadRMBase parses an RMBase v2.0 pseudouridine site table (plain or
// gzipped) applying the given quality filters.
func ReadRMBase(path string, opts RMBaseOptions) ([]*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rmbase file: %w", err)
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

	return parseRMBase(reader, path, opts)
}

func parseRMBase(reader io.Reader, path string, opts RMBaseOptions) ([]*Site, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var sites []*Site
	for scanner.Scan() {
		line := scanner.Text()

		// "##" comment block and "#chromosome" header line precede the data
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < rmbaseMinFields {
			continue
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil || end < start {
			continue
		}

		if opts.ProteinCodingOnly && fields[12] != "protein_coding" {
			continue
		}

		support := 1
		if n, err := strconv.Atoi(fields[8]); err == nil {
			support = n
		}
		if support < opts.MinSupport {
			continue
		}

		s := New(fields[3], fields[0], (start+end)/2, gene.ParseStrand(fields[5]))
		if score, err := strconv.ParseFloat(fields[4], 64); err == nil {
			s.Score = score
		}
		s.Gene = fields[11]
		s.Region = gene.ParseRegion(fields[13])
		sites = append(sites, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan rmbase %s: %w", path, err)
	}
	return sites, nil
}
