// Package motif extracts the sequence context around modification sites
// and summarizes it as base-frequency matrices and known-motif hit counts.
package motif

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rnamod/modcompare/internal/gene"
)

// Genome holds chromosome sequences loaded from a genome FASTA file.
type Genome struct {
	seqs map[string]string // normalized chromosome name -> sequence
}

// LoadGenome reads a genome FASTA (plain or gzipped). Only the first
// whitespace-delimited token of each header is kept as the chromosome
// name, so GENCODE-style descriptions after the name are ignored.
func LoadGenome(path string) (*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
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

	return parseFASTA(reader)
}

func parseFASTA(reader io.Reader) (*Genome, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	g := &Genome{seqs: make(map[string]string)}
	var chrom string
	var seq strings.Builder

	save := func() {
		if chrom != "" && seq.Len() > 0 {
			g.seqs[gene.NormalizeChrom(chrom)] = seq.String()
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			save()
			header := strings.TrimPrefix(line, ">")
			if idx := strings.IndexAny(header, " \t"); idx != -1 {
				header = header[:idx]
			}
			chrom = header
			continue
		}
		seq.WriteString(strings.ToUpper(strings.TrimSpace(line)))
	}
	save()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}
	return g, nil
}

// ChromCount returns the number of loaded chromosome sequences.
func (g *Genome) ChromCount() int {
	return len(g.seqs)
}

// Extract returns the 2*flank+1 window centered on pos. Reverse-strand
// windows are reverse-complemented so the context reads in transcription
// order. The second return value is false when the chromosome is unknown
// or the window runs off either end of the sequence.
func (g *Genome) Extract(chrom string, pos int64, flank int, strand gene.Strand) (string, bool) {
	seq, ok := g.seqs[gene.NormalizeChrom(chrom)]
	if !ok {
		return "", false
	}

	start := pos - int64(flank)
	end := pos + int64(flank) + 1
	if start < 0 || end > int64(len(seq)) {
		return "", false
	}

	window := seq[start:end]
	if strand == gene.StrandReverse {
		window = reverseComplement(window)
	}
	return window, true
}

func reverseComplement(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[len(s)-1-i] {
		case 'A':
			out[i] = 'T'
		case 'T', 'U':
			out[i] = 'A'
		case 'C':
			out[i] = 'G'
		case 'G':
			out[i] = 'C'
		default:
			out[i] = 'N'
		}
	}
	return string(out)
}
