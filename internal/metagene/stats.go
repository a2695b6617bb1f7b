package metagene

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rnamod/modcompare/internal/gene"
)

// ChiSquareResult holds a chi-square test outcome.
type ChiSquareResult struct {
	Statistic float64
	DF        int
	PValue    float64
}

// KSResult holds a two-sample Kolmogorov-Smirnov test outcome.
type KSResult struct {
	Statistic float64
	PValue    float64
}

// DescriptiveStats summarizes a relative-position sample.
type DescriptiveStats struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
}

// comparedRegions is the fixed region order of the contingency table.
var comparedRegions = []gene.Region{gene.Region5UTR, gene.RegionCDS, gene.Region3UTR}

// CompareRegions runs a chi-square contingency test over the 3x2 table of
// region counts for two collections. RegionOther sites are excluded so the
// comparison covers the gene body only.
func CompareRegions(a, b RegionCounts) (ChiSquareResult, error) {
	table := make([][2]float64, len(comparedRegions))
	for i, r := range comparedRegions {
		table[i][0] = float64(a[r])
		table[i][1] = float64(b[r])
	}
	return chiSquareContingency(table)
}

func chiSquareContingency(table [][2]float64) (ChiSquareResult, error) {
	var rowSums []float64
	var colSums [2]float64
	grand := 0.0
	for _, row := range table {
		rowSums = append(rowSums, row[0]+row[1])
		colSums[0] += row[0]
		colSums[1] += row[1]
		grand += row[0] + row[1]
	}
	if grand == 0 {
		return ChiSquareResult{}, fmt.Errorf("metagene: empty contingency table")
	}

	res := ChiSquareResult{DF: len(table) - 1}
	for i, row := range table {
		for j := range row {
			expected := rowSums[i] * colSums[j] / grand
			if expected == 0 {
				continue
			}
			d := row[j] - expected
			res.Statistic += d * d / expected
		}
	}

	chi2 := distuv.ChiSquared{K: float64(res.DF)}
	res.PValue = chi2.Survival(res.Statistic)
	return res, nil
}

// KolmogorovSmirnov runs a two-sample KS test on the relative-position
// samples. The p-value uses the standard asymptotic approximation.
func KolmogorovSmirnov(x, y []float64) (KSResult, error) {
	if len(x) == 0 || len(y) == 0 {
		return KSResult{}, fmt.Errorf("metagene: ks test requires non-empty samples")
	}

	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)

	d := stat.KolmogorovSmirnov(xs, nil, ys, nil)

	n := float64(len(xs))
	m := float64(len(ys))
	en := math.Sqrt(n * m / (n + m))
	return KSResult{
		Statistic: d,
		PValue:    ksProbability((en + 0.12 + 0.11/en) * d),
	}, nil
}

// ksProbability evaluates the Kolmogorov distribution tail
// Q(λ) = 2 Σ (-1)^(k-1) exp(-2 k² λ²).
func ksProbability(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * 2 * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-10 {
			break
		}
		sign = -sign
	}
	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// Describe computes descriptive statistics for a sample.
func Describe(x []float64) DescriptiveStats {
	if len(x) == 0 {
		return DescriptiveStats{}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	return DescriptiveStats{
		N:      len(x),
		Mean:   stat.Mean(x, nil),
		StdDev: stat.StdDev(x, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

// DistanceStats summarizes pair distances for the colocalization report.
type DistanceStats struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Min    int64
	Max    int64
}

// DescribeDistances summarizes a set of pair distances.
func DescribeDistances(distances []int64) DistanceStats {
	if len(distances) == 0 {
		return DistanceStats{}
	}
	fs := make([]float64, len(distances))
	min, max := distances[0], distances[0]
	for i, d := range distances {
		fs[i] = float64(d)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	desc := Describe(fs)
	return DistanceStats{
		N:      desc.N,
		Mean:   desc.Mean,
		StdDev: desc.StdDev,
		Median: desc.Median,
		Min:    min,
		Max:    max,
	}
}
