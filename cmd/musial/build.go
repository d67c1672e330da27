package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/musial-go/musial/internal/catalog"
	"github.com/musial-go/musial/internal/catalogstore"
	"github.com/musial-go/musial/internal/config"
	"github.com/musial-go/musial/internal/engine"
	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/reference"
	"github.com/musial-go/musial/internal/refio"
	"github.com/musial-go/musial/internal/seqkit"
	"github.com/musial-go/musial/internal/variantcall"
	"github.com/musial-go/musial/internal/vcfio"
)

// proteinAlphabet is the score-matrix alphabet used for protein-to-
// reference and chain-to-reference alignment (spec §4.7, §9).
const proteinAlphabet = "ACDEFGHIKLMNPQRSTVWY*"

func newBuildCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run a BUILD: reconstruct every sample and assemble the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), configPath, verbose)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the BUILD configuration document (required)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log warnings (novel terminations, divergent structures) to stderr")
	cmd.MarkFlagRequired("config")

	return cmd
}

func runBuild(ctx context.Context, configPath string, verbose bool) error {
	const op = "main.runBuild"

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if verbose {
		built, err := zap.NewDevelopment()
		if err != nil {
			return musialerr.Internal(op, err)
		}
		logger = built
	}
	defer logger.Sync()

	sequences, err := refio.LoadFASTA(cfg.ReferenceSequencePath)
	if err != nil {
		return err
	}
	annotations, err := refio.LoadAnnotations(cfg.ReferenceAnnotationPath)
	if err != nil {
		return err
	}

	specs := make([]reference.FeatureSpec, 0, len(cfg.Features))
	for name, f := range cfg.Features {
		specs = append(specs, reference.FeatureSpec{
			Name:            name,
			IsCodingSeq:     f.IsCodingSequence,
			StructureHandle: f.StructurePath,
			MatchAttr:       f.MatchAttribute,
			MatchValue:      f.MatchValue,
		})
	}

	store, err := reference.Build(sequences, annotations, specs)
	if err != nil {
		return err
	}

	structures := make(map[string]engine.StructureReader, len(cfg.Features))
	for name, f := range cfg.Features {
		if f.StructurePath == "" {
			continue
		}
		reader, err := refio.LoadStructure(f.StructurePath)
		if err != nil {
			return err
		}
		structures[name] = reader
	}

	samples := make([]*variantcall.Sample, 0, len(cfg.Samples))
	for name, s := range cfg.Samples {
		reader, err := vcfio.Open(s.SourcePath)
		if err != nil {
			return err
		}
		samples = append(samples, variantcall.NewSample(name, reader))
	}

	matrix := seqkit.NewScoreMatrix(proteinAlphabet, 1, -1, 0, -4, 'X')

	driver := engine.New(store, cfg.FilterConfig(), matrix, cfg.Threads, logger)

	parameters := catalog.Parameters{
		MinCoverage:     cfg.MinCoverage,
		MinQuality:      cfg.MinQuality,
		MinHomFrequency: cfg.MinHomFrequency,
		MinHetFrequency: cfg.MinHetFrequency,
		MaxHetFrequency: cfg.MaxHetFrequency,
		Threads:         cfg.Threads,
		GenomeAnalysis:  cfg.GenomeAnalysis,
	}
	software := catalog.SoftwareInfo{
		Name:    "musial",
		Version: version,
		RunID:   uuid.NewString(),
	}

	cat, err := driver.Run(ctx, samples, structures, parameters, software, cfg.ExcludedPositions, time.Now())
	if err != nil {
		return err
	}

	data, err := catalog.Marshal(cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.OutputPath, data, 0644); err != nil {
		return musialerr.IO(op, err)
	}

	if cfg.DuckDBPath != "" {
		if err := mirrorToDuckDB(cfg.DuckDBPath, cat); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "musial: wrote catalog to %s (run %s)\n", cfg.OutputPath, software.RunID)
	logger.Info("build complete",
		zap.String("runId", software.RunID),
		zap.Int("samples", len(samples)),
		zap.Int("features", len(cat.Features)),
	)
	return nil
}

// mirrorToDuckDB writes every allele and proteoform of the assembled
// catalog into the optional DuckDB side-store for SQL querying (spec's
// explicitly-out-of-scope "on-disk serialization choice" extended as an
// ambient convenience, not a replacement for the JSON catalog).
func mirrorToDuckDB(path string, cat *catalog.Catalog) error {
	const op = "main.mirrorToDuckDB"
	store, err := catalogstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var alleleRows []catalogstore.AlleleRow
	var proteoformRows []catalogstore.ProteoformRow
	for _, feature := range cat.SortedFeatureNames() {
		entry := cat.Features[feature]
		for _, allele := range entry.Alleles {
			alleleRows = append(alleleRows, catalogstore.AlleleRow{
				Feature:                  feature,
				ID:                       allele.ID,
				Variants:                 allele.Variants,
				Samples:                  joinSamples(allele.Samples),
				Substitutions:            allele.Substitutions,
				Insertions:               allele.Insertions,
				Deletions:                allele.Deletions,
				Frequency:                allele.Frequency,
				PercentVariablePositions: allele.PercentVariablePositions,
			})
		}
		for _, proteoform := range entry.Proteoforms {
			proteoformRows = append(proteoformRows, catalogstore.ProteoformRow{
				Feature:                       feature,
				ID:                            proteoform.ID,
				Variants:                      proteoform.Variants,
				Samples:                       joinSamples(proteoform.Samples),
				Substitutions:                 proteoform.Substitutions,
				Insertions:                    proteoform.Insertions,
				Deletions:                     proteoform.Deletions,
				Frequency:                     proteoform.Frequency,
				PercentVariablePositions:      proteoform.PercentVariablePositions,
				FirstNovelTerminationPosition: proteoform.FirstNovelTerminationPosition,
				TruncationPercentage:          proteoform.TruncationPercentage,
			})
		}
	}

	if err := store.WriteAlleles(alleleRows); err != nil {
		return musialerr.IO(op, err)
	}
	if err := store.WriteProteoforms(proteoformRows); err != nil {
		return musialerr.IO(op, err)
	}
	return nil
}

func joinSamples(samples []string) string {
	out := ""
	for i, s := range samples {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
