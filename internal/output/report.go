package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rnamod/modcompare/internal/coloc"
	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/metagene"
)

// ComparisonReport collects the figures for the plain-text summary.
type ComparisonReport struct {
	LabelA, LabelB string

	TotalA, TotalB     int
	RegionsA, RegionsB metagene.RegionCounts

	PositionsA, PositionsB metagene.DescriptiveStats

	RegionTest metagene.ChiSquareResult
	KSTest     metagene.KSResult

	Window       int64
	Pairs        int
	AOnly, BOnly int
	Overlap      int
	Distances    metagene.DistanceStats
	Significance coloc.Significance
}

const reportRule = "================================================================================"

// WriteReport renders the comparison summary as plain text.
func WriteReport(w io.Writer, r *ComparisonReport) error {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Modification comparison: %s vs %s\n", r.LabelA, r.LabelB)
	b.WriteString(reportRule + "\n\n")

	b.WriteString("Site counts\n")
	writeCollection(&b, r.LabelA, r.TotalA, r.RegionsA)
	writeCollection(&b, r.LabelB, r.TotalB, r.RegionsB)

	b.WriteString("Relative positions\n")
	fmt.Fprintf(&b, "  %s: mean %.3f +/- %.3f, median %.3f (n=%d)\n",
		r.LabelA, r.PositionsA.Mean, r.PositionsA.StdDev, r.PositionsA.Median, r.PositionsA.N)
	fmt.Fprintf(&b, "  %s: mean %.3f +/- %.3f, median %.3f (n=%d)\n\n",
		r.LabelB, r.PositionsB.Mean, r.PositionsB.StdDev, r.PositionsB.Median, r.PositionsB.N)

	b.WriteString("Distribution tests\n")
	fmt.Fprintf(&b, "  Region chi-square: stat=%.2f df=%d p=%.3g %s\n",
		r.RegionTest.Statistic, r.RegionTest.DF, r.RegionTest.PValue, stars(r.RegionTest.PValue))
	fmt.Fprintf(&b, "  Position KS:       stat=%.4f p=%.3g %s\n\n",
		r.KSTest.Statistic, r.KSTest.PValue, stars(r.KSTest.PValue))

	fmt.Fprintf(&b, "Colocalization (window +/- %d bp)\n", r.Window)
	fmt.Fprintf(&b, "  Pairs: %d\n", r.Pairs)
	fmt.Fprintf(&b, "  %s only: %d, %s only: %d, overlap: %d\n",
		r.LabelA, r.AOnly, r.LabelB, r.BOnly, r.Overlap)
	if r.Distances.N > 0 {
		fmt.Fprintf(&b, "  Distance: mean %.1f +/- %.1f bp, median %.0f, range [%d, %d]\n",
			r.Distances.Mean, r.Distances.StdDev, r.Distances.Median,
			r.Distances.Min, r.Distances.Max)
	}
	fmt.Fprintf(&b, "  Expected overlap: %.2f, enrichment: %.2fx, p=%.3g %s\n",
		r.Significance.ExpectedOverlap, r.Significance.Enrichment,
		r.Significance.PValue, stars(r.Significance.PValue))

	b.WriteString("\n" + reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCollection(b *strings.Builder, label string, total int, regions metagene.RegionCounts) {
	fmt.Fprintf(b, "  %s: %d sites\n", label, total)
	for _, r := range []gene.Region{gene.Region5UTR, gene.RegionCDS, gene.Region3UTR, gene.RegionOther} {
		n := regions[r]
		if n == 0 && r == gene.RegionOther {
			continue
		}
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		fmt.Fprintf(b, "    %-5s %6d (%.1f%%)\n", r, n, pct)
	}
	b.WriteString("\n")
}

// stars renders the conventional significance markers.
func stars(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	}
	return ""
}
