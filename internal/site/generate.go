package site

import (
	"fmt"
	"math/rand"

	"github.com/rnamod/modcompare/internal/gene"
)

// RegionProfile holds the region-preference weights used when drawing
// synthetic sites. Weights are relative; they need not sum to 1.
type RegionProfile struct {
	UTR5, CDS, UTR3 float64
}

// Published region-preference profiles for the two modification classes:
// m6A is strongly 3'UTR-biased, Ψ is spread more evenly across the body.
var (
	PsiProfile = RegionProfile{UTR5: 0.20, CDS: 0.50, UTR3: 0.30}
	M6AProfile = RegionProfile{UTR5: 0.10, CDS: 0.30, UTR3: 0.60}
)

// GenerateOptions configures synthetic site generation.
type GenerateOptions struct {
	Count   int
	Prefix  string // site ID prefix, e.g. "PSI" or "M6A"
	Profile RegionProfile
	Genes   []*gene.Gene // defaults to the built-in reference table
}

// Generate draws Count synthetic sites over the gene table using the given
// random source. The source is passed explicitly so runs keyed by different
// seeds compose without shared generator state.
func Generate(opts GenerateOptions, rng *rand.Rand) ([]*Site, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("generate: negative count %d", opts.Count)
	}
	genes := opts.Genes
	if len(genes) == 0 {
		genes = gene.ReferenceGenes()
	}

	total := opts.Profile.UTR5 + opts.Profile.CDS + opts.Profile.UTR3
	if total <= 0 {
		return nil, fmt.Errorf("generate: region profile has no weight")
	}

	sites := make([]*Site, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		g := genes[rng.Intn(len(genes))]
		part := g.Partition()

		var lo, hi int64
		switch pickRegion(opts.Profile, total, rng) {
		case gene.Region5UTR:
			lo, hi = part.UTR5Start, part.UTR5End
		case gene.RegionCDS:
			lo, hi = part.CDSStart, part.CDSEnd
		default:
			lo, hi = part.UTR3Start, part.UTR3End
		}
		// A very short gene can have an empty sub-interval; fall back to the
		// whole body so the draw still lands inside the gene.
		if hi <= lo {
			lo, hi = g.Start, g.End
		}
		pos := lo + rng.Int63n(hi-lo)

		region, rel, err := gene.Classify(pos, g)
		if err != nil {
			return nil, fmt.Errorf("generate: classify drawn site: %w", err)
		}

		s := New(fmt.Sprintf("%s_site_%d", opts.Prefix, i), g.Chrom, pos, g.Strand)
		s.Score = float64(150 + rng.Intn(850))
		s.Region = region
		s.RelPos = rel
		s.Gene = g.Name
		sites = append(sites, s)
	}

	return sites, nil
}

func pickRegion(p RegionProfile, total float64, rng *rand.Rand) gene.Region {
	r := rng.Float64() * total
	switch {
	case r < p.UTR5:
		return gene.Region5UTR
	case r < p.UTR5+p.CDS:
		return gene.RegionCDS
	default:
		return gene.Region3UTR
	}
}

// Sample returns a deterministic random subset of n sites, preserving input
// order. When n is at least the collection size, a copy of the whole
// collection is returned.
func Sample(sites []*Site, n int, rng *rand.Rand) []*Site {
	if n >= len(sites) {
		out := make([]*Site, len(sites))
		copy(out, sites)
		return out
	}
	if n <= 0 {
		return nil
	}

	keep := make(map[int]bool, n)
	for _, idx := range rng.Perm(len(sites))[:n] {
		keep[idx] = true
	}

	out := make([]*Site, 0, n)
	for i, s := range sites {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out
}
