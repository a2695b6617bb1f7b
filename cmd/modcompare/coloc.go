package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rnamod/modcompare/internal/coloc"
	"github.com/rnamod/modcompare/internal/duckdb"
	"github.com/rnamod/modcompare/internal/metagene"
	"github.com/rnamod/modcompare/internal/output"
	"github.com/rnamod/modcompare/internal/site"
)

func newColocCmd() *cobra.Command {
	var (
		window     int64
		genomeSize float64
		labelA     string
		labelB     string
		pairsPath  string
		reportPath string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "coloc <sites-a.csv> <sites-b.csv>",
		Short: "Find colocalized site pairs between two collections",
		Long: `Coloc reads two annotated site collections and emits every same-chromosome
pair whose centers lie within the distance window, inclusive. It also
writes a comparison report with region distributions, distribution tests,
and overlap significance against a uniform-genome null.`,
		Example: `  modcompare coloc psi_annotated.csv m6a_annotated.csv
  modcompare coloc --window 100 --pairs pairs.csv psi_annotated.csv m6a_annotated.csv
  modcompare coloc --db results.duckdb psi_annotated.csv m6a_annotated.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config-file values apply when the flag was not given.
			if !cmd.Flags().Changed("window") {
				window = viper.GetInt64("coloc.window")
			}
			if !cmd.Flags().Changed("genome-size") {
				genomeSize = viper.GetFloat64("coloc.genome_size")
			}

			a, err := site.ReadCSV(args[0])
			if err != nil {
				return err
			}
			b, err := site.ReadCSV(args[1])
			if err != nil {
				return err
			}
			logger.Info("collections loaded",
				zap.String(labelA, args[0]), zap.Int(labelA+"_sites", len(a)),
				zap.String(labelB, args[1]), zap.Int(labelB+"_sites", len(b)))

			result, err := coloc.Match(a, b, window)
			if err != nil {
				return err
			}
			logger.Info("matching complete",
				zap.Int64("window", window),
				zap.Int("pairs", len(result.Pairs)),
				zap.Int("overlap", result.MatchedA))

			if pairsPath != "" {
				f, closeF, err := createOutput(pairsPath)
				if err != nil {
					return err
				}
				err = output.NewPairWriter(f).WriteAll(result.Pairs)
				closeF()
				if err != nil {
					return fmt.Errorf("write pairs: %w", err)
				}
			}

			report, err := buildReport(labelA, labelB, a, b, result, window, genomeSize)
			if err != nil {
				return err
			}

			out, closeOut, err := createOutput(reportPath)
			if err != nil {
				return err
			}
			defer closeOut()
			if err := output.WriteReport(out, report); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if dbPath != "" {
				store, err := duckdb.Open(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.InsertSites(labelA, a); err != nil {
					return err
				}
				if err := store.InsertSites(labelB, b); err != nil {
					return err
				}
				if err := store.InsertPairs(result.Pairs); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().Int64VarP(&window, "window", "w", 50, "colocalization window in bp, inclusive")
	cmd.Flags().Float64Var(&genomeSize, "genome-size", 3.1e9, "searchable genome size for the overlap null model")
	cmd.Flags().StringVar(&labelA, "label-a", "psi", "display label for the first collection")
	cmd.Flags().StringVar(&labelB, "label-b", "m6a", "display label for the second collection")
	cmd.Flags().StringVar(&pairsPath, "pairs", "", "write colocalized pairs to this CSV file")
	cmd.Flags().StringVarP(&reportPath, "report", "o", "", "write the comparison report to this file (default: stdout)")
	cmd.Flags().StringVar(&dbPath, "db", "", "store sites and pairs in a DuckDB database")

	return cmd
}

// buildReport assembles the figures for the plain-text comparison summary.
func buildReport(labelA, labelB string, a, b []*site.Site, result *coloc.Result, window int64, genomeSize float64) (*output.ComparisonReport, error) {
	regionsA := metagene.CountRegions(a)
	regionsB := metagene.CountRegions(b)

	posA := metagene.RelPositions(a)
	posB := metagene.RelPositions(b)

	report := &output.ComparisonReport{
		LabelA:     labelA,
		LabelB:     labelB,
		TotalA:     len(a),
		TotalB:     len(b),
		RegionsA:   regionsA,
		RegionsB:   regionsB,
		PositionsA: metagene.Describe(posA),
		PositionsB: metagene.Describe(posB),
		Window:     window,
		Pairs:      len(result.Pairs),
	}
	report.AOnly, report.BOnly, report.Overlap = result.VennCounts()

	chi, err := metagene.CompareRegions(regionsA, regionsB)
	if err != nil {
		return nil, fmt.Errorf("region test: %w", err)
	}
	report.RegionTest = chi

	ks, err := metagene.KolmogorovSmirnov(posA, posB)
	if err != nil {
		return nil, fmt.Errorf("position test: %w", err)
	}
	report.KSTest = ks

	distances := make([]int64, len(result.Pairs))
	for i, p := range result.Pairs {
		distances[i] = p.Distance
	}
	report.Distances = metagene.DescribeDistances(distances)

	sig, err := coloc.AssessSignificance(len(a), len(b), report.Overlap, genomeSize)
	if err != nil {
		return nil, fmt.Errorf("overlap significance: %w", err)
	}
	report.Significance = sig

	return report, nil
}
