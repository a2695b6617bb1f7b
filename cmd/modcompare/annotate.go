package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rnamod/modcompare/internal/annotate"
	"github.com/rnamod/modcompare/internal/duckdb"
	"github.com/rnamod/modcompare/internal/output"
	"github.com/rnamod/modcompare/internal/site"
)

func newAnnotateCmd() *cobra.Command {
	var (
		format     string
		gtfPath    string
		assembly   string
		outPath    string
		dbPath     string
		label      string
		strict     bool
		minSupport int
		maxFDR     float64
		minFold    float64
		sampleN    int
		sampleSeed int64
	)

	cmd := &cobra.Command{
		Use:   "annotate <input-file>",
		Short: "Classify sites into transcript regions",
		Long: `Annotate labels each site with its transcript region (5'UTR, CDS, 3'UTR)
and its relative position along the owning gene body. Sites outside
every gene are labeled "other".

Input formats: bed (default), rmbase (pseudouridine site tables),
repic (m6A peak tables), csv (re-annotate a previous output).
Use '-' to read BED from stdin.`,
		Example: `  modcompare annotate psi_sites.bed
  modcompare annotate --format rmbase --min-support 3 RMBase_hg38_all_Psi_site.txt
  modcompare annotate --format repic --max-fdr 0.05 repic_m6a.tsv -o m6a_annotated.csv
  modcompare annotate --genes gencode.v46.annotation.gtf.gz sites.bed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			detected := format
			if detected == "" {
				detected = detectSiteFormat(inputPath)
			}

			sites, err := readSites(inputPath, detected, minSupport, maxFDR, minFold)
			if err != nil {
				return err
			}
			logger.Info("sites loaded",
				zap.String("format", detected),
				zap.Int("sites", len(sites)))

			if sampleN > 0 && sampleN < len(sites) {
				sites = site.Sample(sites, sampleN, rand.New(rand.NewSource(sampleSeed)))
				logger.Info("down-sampled collection",
					zap.Int("sites", len(sites)),
					zap.Int64("seed", sampleSeed))
			}

			if gtfPath == "" {
				if found := findGTF(assembly); found != "" {
					gtfPath = found
				}
			}
			catalog, geneCount, err := loadCatalog(gtfPath)
			if err != nil {
				return err
			}
			if gtfPath == "" {
				logger.Info("using built-in reference gene table", zap.Int("genes", geneCount))
			} else {
				logger.Info("gene annotation loaded",
					zap.String("path", gtfPath), zap.Int("genes", geneCount))
			}

			ann := annotate.NewAnnotator(catalog)
			ann.SetStrict(strict)
			ann.SetLogger(logger)

			intergenic, err := ann.AnnotateAll(sites)
			if err != nil {
				return err
			}
			logger.Info("annotation complete",
				zap.Int("sites", len(sites)),
				zap.Int("intergenic", intergenic))

			out, closeOut, err := createOutput(outPath)
			if err != nil {
				return err
			}
			defer closeOut()
			if err := output.NewSiteWriter(out).WriteAll(sites); err != nil {
				return fmt.Errorf("write annotated sites: %w", err)
			}

			if dbPath != "" {
				store, err := duckdb.Open(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.InsertSites(label, sites); err != nil {
					return fmt.Errorf("store annotated sites: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: bed, rmbase, repic, csv (auto-detected if not specified)")
	cmd.Flags().StringVar(&gtfPath, "genes", "", "GTF gene annotation (default: downloaded GENCODE, then built-in table)")
	cmd.Flags().StringVar(&assembly, "assembly", "GRCh38", "genome assembly used to locate downloaded annotations")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output CSV file (default: stdout)")
	cmd.Flags().StringVar(&dbPath, "db", "", "also store annotated sites in a DuckDB database")
	cmd.Flags().StringVar(&label, "label", "sites", "collection label used for database storage")
	cmd.Flags().BoolVar(&strict, "strict", false, "abort on sites that cannot be classified within their gene")
	cmd.Flags().IntVar(&minSupport, "min-support", 1, "rmbase: minimum supporting experiment count")
	cmd.Flags().Float64Var(&maxFDR, "max-fdr", 0.01, "repic: maximum peak FDR")
	cmd.Flags().Float64Var(&minFold, "min-fold", 10.0, "repic: minimum fold enrichment")
	cmd.Flags().IntVar(&sampleN, "sample", 0, "down-sample to this many sites before annotation (0 = keep all)")
	cmd.Flags().Int64Var(&sampleSeed, "sample-seed", 42, "random seed for down-sampling")

	return cmd
}

func readSites(path, format string, minSupport int, maxFDR, minFold float64) ([]*site.Site, error) {
	switch format {
	case "bed":
		return site.ReadBED(path)
	case "rmbase":
		opts := site.DefaultRMBaseOptions()
		opts.MinSupport = minSupport
		return site.ReadRMBase(path, opts)
	case "repic":
		return site.ReadREPIC(path, site.REPICOptions{MaxFDR: maxFDR, MinFoldEnrichment: minFold})
	case "csv":
		return site.ReadCSV(path)
	default:
		return nil, fmt.Errorf("unknown input format %q (expected bed, rmbase, repic, or csv)", format)
	}
}

// detectSiteFormat guesses the input format from the file name.
func detectSiteFormat(path string) string {
	lower := strings.ToLower(filepath.Base(path))
	lower = strings.TrimSuffix(lower, ".gz")

	switch {
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	case strings.Contains(lower, "rmbase"):
		return "rmbase"
	case strings.Contains(lower, "repic"):
		return "repic"
	default:
		return "bed"
	}
}
