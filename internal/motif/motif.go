package motif

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rnamod/modcompare/internal/site"
)

// PsiMotifs are sequence motifs reported around pseudouridine sites.
var PsiMotifs = []string{"GUUC", "UGU", "UUCG", "GUC"}

// M6AMotifs are DRACH-family motifs reported around m6A sites.
var M6AMotifs = []string{"GGACU", "GGACA", "AGACU", "GAACU"}

// ExtractContexts pulls the flanked window around each site and
// normalizes it to the RNA alphabet (T becomes U). Sites whose window
// cannot be extracted are skipped; the second return value reports how
// many were.
func ExtractContexts(g *Genome, sites []*site.Site, flank int) ([]string, int) {
	var seqs []string
	skipped := 0
	for _, s := range sites {
		w, ok := g.Extract(s.Chrom, s.Pos, flank, s.Strand)
		if !ok {
			skipped++
			continue
		}
		seqs = append(seqs, strings.ReplaceAll(w, "T", "U"))
	}
	return seqs, skipped
}

// Matrix is a per-position base frequency matrix over extracted contexts.
// Rows are positions along the window (the center row is the modified
// base); columns are A, U, C, G.
type Matrix struct {
	Freq [][4]float64
	N    int // sequences counted
}

// ComputeMatrix counts bases at each position and normalizes to
// frequencies, with a 0.5 pseudocount per cell. Ambiguous bases
// contribute 0.25 to every column. All sequences must share the length
// of the first.
func ComputeMatrix(seqs []string) (*Matrix, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("compute motif matrix: no sequences")
	}

	width := len(seqs[0])
	counts := make([][4]float64, width)

	for _, seq := range seqs {
		if len(seq) != width {
			return nil, fmt.Errorf("compute motif matrix: sequence length %d, want %d", len(seq), width)
		}
		for pos := 0; pos < width; pos++ {
			switch seq[pos] {
			case 'A':
				counts[pos][0]++
			case 'U':
				counts[pos][1]++
			case 'C':
				counts[pos][2]++
			case 'G':
				counts[pos][3]++
			default:
				for b := range counts[pos] {
					counts[pos][b] += 0.25
				}
			}
		}
	}

	freq := make([][4]float64, width)
	for pos := range counts {
		total := 0.0
		for b := range counts[pos] {
			counts[pos][b] += 0.5
			total += counts[pos][b]
		}
		for b := range counts[pos] {
			freq[pos][b] = counts[pos][b] / total
		}
	}

	return &Matrix{Freq: freq, N: len(seqs)}, nil
}

// KmerCount is a k-mer and its frequency among all k-mers in the contexts.
type KmerCount struct {
	Kmer string
	Freq float64
}

// EnrichedKmers returns the topN most frequent k-mers across the
// contexts, ordered by descending frequency with ties broken
// alphabetically. K-mers containing N are ignored.
func EnrichedKmers(seqs []string, k, topN int) []KmerCount {
	counts := make(map[string]int)
	total := 0
	for _, seq := range seqs {
		for i := 0; i+k <= len(seq); i++ {
			kmer := seq[i : i+k]
			if strings.ContainsRune(kmer, 'N') {
				continue
			}
			counts[kmer]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	out := make([]KmerCount, 0, len(counts))
	for kmer, c := range counts {
		out = append(out, KmerCount{Kmer: kmer, Freq: float64(c) / float64(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Freq != out[j].Freq {
			return out[i].Freq > out[j].Freq
		}
		return out[i].Kmer < out[j].Kmer
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// MotifHit is the number of contexts containing a motif at least once.
type MotifHit struct {
	Motif    string
	Count    int
	Fraction float64
}

// CountMotifs reports, for each motif, how many contexts contain it.
func CountMotifs(seqs []string, motifs []string) []MotifHit {
	hits := make([]MotifHit, len(motifs))
	for i, m := range motifs {
		count := 0
		for _, seq := range seqs {
			if strings.Contains(seq, m) {
				count++
			}
		}
		frac := 0.0
		if len(seqs) > 0 {
			frac = float64(count) / float64(len(seqs))
		}
		hits[i] = MotifHit{Motif: m, Count: count, Fraction: frac}
	}
	return hits
}
