package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rnamod/modcompare/internal/motif"
	"github.com/rnamod/modcompare/internal/output"
	"github.com/rnamod/modcompare/internal/site"
)

func newMotifCmd() *cobra.Command {
	var (
		fastaPath  string
		flank      int
		motifSet   string
		outDir     string
		sampleN    int
		sampleSeed int64
	)

	cmd := &cobra.Command{
		Use:   "motif <annotated.csv> [annotated.csv ...]",
		Short: "Summarize sequence context around sites",
		Long: `Motif extracts the flanked genomic sequence around each site (reverse
complement for reverse-strand sites), builds a per-position base frequency
matrix in the RNA alphabet, and checks known modification motifs
(pseudouridine: GUUC/UGU; m6A: DRACH). One matrix CSV is written per
input collection; enriched k-mers and motif hit rates go to the log.`,
		Example: `  modcompare motif --genome GRCh38.p14.genome.fa psi_annotated.csv
  modcompare motif --genome genome.fa.gz --motifs m6a m6a_annotated.csv
  modcompare motif --genome genome.fa --flank 15 --sample 0 psi_annotated.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("flank") {
				flank = viper.GetInt("motif.flank")
			}

			genome, err := motif.LoadGenome(fastaPath)
			if err != nil {
				return err
			}
			logger.Info("genome loaded",
				zap.String("path", fastaPath),
				zap.Int("chromosomes", genome.ChromCount()))

			for _, path := range args {
				sites, err := site.ReadCSV(path)
				if err != nil {
					return err
				}
				if sampleN > 0 && sampleN < len(sites) {
					sites = site.Sample(sites, sampleN, rand.New(rand.NewSource(sampleSeed)))
				}

				seqs, skipped := motif.ExtractContexts(genome, sites, flank)
				if skipped > 0 {
					logger.Warn("contexts skipped",
						zap.String("input", path), zap.Int("skipped", skipped))
				}

				matrix, err := motif.ComputeMatrix(seqs)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				outPath := filepath.Join(outDir, matrixName(path))
				f, closeF, err := createOutput(outPath)
				if err != nil {
					return err
				}
				err = output.WriteMotifMatrix(f, matrix, flank)
				closeF()
				if err != nil {
					return err
				}
				logger.Info("wrote frequency matrix",
					zap.String("path", outPath), zap.Int("contexts", matrix.N))

				for _, k := range motif.EnrichedKmers(seqs, 4, 10) {
					logger.Info("enriched 4-mer",
						zap.String("input", path),
						zap.String("kmer", k.Kmer),
						zap.Float64("freq", k.Freq))
				}
				for _, h := range motif.CountMotifs(seqs, motifsFor(motifSet, path)) {
					logger.Info("known motif",
						zap.String("input", path),
						zap.String("motif", h.Motif),
						zap.Int("contexts", h.Count),
						zap.Float64("fraction", h.Fraction))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fastaPath, "genome", "", "genome FASTA file (plain or gzipped)")
	cmd.Flags().IntVar(&flank, "flank", 10, "flank length around each site in bp")
	cmd.Flags().StringVar(&motifSet, "motifs", "auto", "known motif set to check: psi, m6a, or auto (from file name)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "output directory for matrix CSVs")
	cmd.Flags().IntVar(&sampleN, "sample", 2000, "down-sample to this many sites per input (0 = keep all)")
	cmd.Flags().Int64Var(&sampleSeed, "sample-seed", 42, "random seed for down-sampling")
	_ = cmd.MarkFlagRequired("genome")

	return cmd
}

// motifsFor picks the known motif list for a collection. "auto" decides
// from the file name and falls back to both lists.
func motifsFor(set, path string) []string {
	if set == "auto" {
		lower := strings.ToLower(filepath.Base(path))
		switch {
		case strings.Contains(lower, "psi"):
			set = "psi"
		case strings.Contains(lower, "m6a"):
			set = "m6a"
		}
	}
	switch set {
	case "psi":
		return motif.PsiMotifs
	case "m6a":
		return motif.M6AMotifs
	default:
		return append(append([]string{}, motif.PsiMotifs...), motif.M6AMotifs...)
	}
}

// matrixName derives the matrix file name from the input path:
// psi_annotated.csv becomes psi_annotated_pwm.csv.
func matrixName(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_pwm.csv"
}
