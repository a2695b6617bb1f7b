package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/metagene"
	"github.com/rnamod/modcompare/internal/output"
	"github.com/rnamod/modcompare/internal/site"
)

func newMetageneCmd() *cobra.Command {
	var (
		bins         int
		smooth       bool
		smoothWindow int
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "metagene <annotated.csv> [annotated.csv ...]",
		Short: "Compute metagene density profiles",
		Long: `Metagene bins the relative positions of annotated sites into a density
profile along the gene body and smooths it with a Savitzky-Golay filter.
One profile CSV is written per input collection.`,
		Example: `  modcompare metagene psi_annotated.csv m6a_annotated.csv
  modcompare metagene --bins 50 --smooth=false psi_annotated.csv
  modcompare metagene -o profiles/ psi_annotated.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("bins") {
				bins = viper.GetInt("metagene.bins")
			}
			if !cmd.Flags().Changed("smooth-window") {
				smoothWindow = viper.GetInt("metagene.smooth_window")
			}

			opts := metagene.Options{
				Bins:         bins,
				Smooth:       smooth,
				SmoothWindow: smoothWindow,
			}

			for _, path := range args {
				sites, err := site.ReadCSV(path)
				if err != nil {
					return err
				}

				profile, err := metagene.Compute(sites, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				counts := metagene.CountRegions(sites)
				logger.Info("profile computed",
					zap.String("input", path),
					zap.Int("sites", len(sites)),
					zap.Int("bins", bins),
					zap.Int("utr5", counts[gene.Region5UTR]),
					zap.Int("cds", counts[gene.RegionCDS]),
					zap.Int("utr3", counts[gene.Region3UTR]),
					zap.Int("other", counts[gene.RegionOther]))

				outPath := filepath.Join(outDir, profileName(path))
				f, closeF, err := createOutput(outPath)
				if err != nil {
					return err
				}
				err = output.WriteProfile(f, profile)
				closeF()
				if err != nil {
					return err
				}
				logger.Info("wrote profile", zap.String("path", outPath))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 100, "number of bins across the gene body")
	cmd.Flags().BoolVar(&smooth, "smooth", true, "apply Savitzky-Golay smoothing")
	cmd.Flags().IntVar(&smoothWindow, "smooth-window", 9, "smoothing window size (odd)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "output directory for profile CSVs")

	return cmd
}

// profileName derives the profile file name from the input path:
// psi_annotated.csv becomes psi_annotated_profile.csv.
func profileName(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_profile.csv"
}
