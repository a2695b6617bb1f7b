package coloc

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// Significance compares the observed overlap against the expectation under
// a uniform-genome null model.
type Significance struct {
	ExpectedOverlap float64
	Enrichment      float64 // observed / expected, 0 when expected is 0
	ChiSquare       float64
	PValue          float64
}

// AssessSignificance estimates whether the observed overlap exceeds random
// expectation. nA and nB are the collection sizes, overlap the number of
// distinct matched A sites, genomeSize the searchable genome length in bp.
func AssessSignificance(nA, nB, overlap int, genomeSize float64) (Significance, error) {
	if nA <= 0 || nB <= 0 {
		return Significance{}, fmt.Errorf("coloc: empty collection (nA=%d, nB=%d)", nA, nB)
	}
	if genomeSize <= 0 {
		return Significance{}, fmt.Errorf("coloc: non-positive genome size %g", genomeSize)
	}

	density := float64(nA) / genomeSize
	expected := float64(nB) * density

	sig := Significance{ExpectedOverlap: expected, PValue: 1}
	if expected == 0 {
		return sig, nil
	}
	sig.Enrichment = float64(overlap) / expected

	// Goodness-of-fit over [overlap, nA-overlap] vs the expected split.
	observed := [2]float64{float64(overlap), float64(nA - overlap)}
	exp := [2]float64{expected, float64(nA) - expected}
	for i := range observed {
		if exp[i] <= 0 {
			continue
		}
		d := observed[i] - exp[i]
		sig.ChiSquare += d * d / exp[i]
	}

	chi2 := distuv.ChiSquared{K: 1}
	sig.PValue = chi2.Survival(sig.ChiSquare)
	return sig, nil
}
