// Package engine drives a full build run (C-Driver): scheduling one
// job per sample across a worker pool (each job reconstructs that
// sample at every feature in turn; features of one sample are not
// processed in parallel), funneling results into each feature's
// aggregation index, and, once every sample
// has been processed, running structure reconciliation and statistics
// to assemble the final catalog (spec §5, §7).
package engine

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/musial-go/musial/internal/aggregate"
	"github.com/musial-go/musial/internal/catalog"
	"github.com/musial-go/musial/internal/filter"
	"github.com/musial-go/musial/internal/musialerr"
	"github.com/musial-go/musial/internal/reconstruct"
	"github.com/musial-go/musial/internal/reference"
	"github.com/musial-go/musial/internal/seqkit"
	"github.com/musial-go/musial/internal/stats"
	"github.com/musial-go/musial/internal/structure"
	"github.com/musial-go/musial/internal/variantcall"
)

// StructureReader yields the protein chains of one feature's externally
// supplied 3D structure. Parsing any concrete structure file format
// (PDB, mmCIF, ...) is out of scope (spec §1); callers provide an
// adapter implementing this interface the same way variantcall.Reader
// and reference.AnnotationRecord keep their own formats opaque.
type StructureReader interface {
	Chains() ([]structure.Chain, error)
}

// Driver holds everything a build run needs that does not change across
// samples: the reference store, the acceptance thresholds, the
// alignment scoring matrix, worker-pool width, and the logger warnings
// are recorded to.
type Driver struct {
	store     *reference.Store
	filterCfg *filter.Config
	matrix    *seqkit.ScoreMatrix
	threads   int
	logger    *zap.Logger
}

// New creates a Driver. threads <= 0 is treated as 1 (no parallelism).
func New(store *reference.Store, filterCfg *filter.Config, matrix *seqkit.ScoreMatrix, threads int, logger *zap.Logger) *Driver {
	if threads <= 0 {
		threads = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{store: store, filterCfg: filterCfg, matrix: matrix, threads: threads, logger: logger}
}

// Run schedules one reconstruction job per sample (covering every
// feature of that sample in turn), fail-fast: a
// single job's error cancels every other in-flight job and aborts the
// run with no partial result (spec §5). Once all samples are processed
// it reconciles structures, computes statistics and assembles the
// catalog, tagged with buildTime.
func (d *Driver) Run(
	ctx context.Context,
	samples []*variantcall.Sample,
	structures map[string]StructureReader,
	parameters catalog.Parameters,
	software catalog.SoftwareInfo,
	excludedPositions map[string][]int64,
	buildTime time.Time,
) (*catalog.Catalog, error) {
	features := d.store.Features()

	indices := make(map[string]*aggregate.FeatureIndex, len(features))
	translatedRef := make(map[string]string, len(features))
	for _, f := range features {
		indices[f.Name] = aggregate.NewFeatureIndex(f.Name)
		if !f.IsCoding {
			continue
		}
		refSeq, err := d.store.FeatureSequence(f)
		if err != nil {
			return nil, err
		}
		translated, err := seqkit.Translate(refSeq, f.IsSense, true, false)
		if err != nil {
			return nil, musialerr.Biof("engine.Run", "translating reference of feature %q: %v", f.Name, err)
		}
		translatedRef[f.Name] = translated
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.threads)
	for _, sample := range samples {
		sample := sample
		g.Go(func() error {
			return d.processSample(gctx, sample, features, indices, translatedRef)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalSamples := len(samples)
	fg, fgctx := errgroup.WithContext(ctx)
	fg.SetLimit(d.threads)
	entries := make([]*catalog.FeatureEntry, len(features))
	nucVariants := make([]map[string]map[string]*catalog.VariantEntry, len(features))
	for i, f := range features {
		i, f := i, f
		fg.Go(func() error {
			select {
			case <-fgctx.Done():
				return fgctx.Err()
			default:
			}
			entry, sites, err := d.finalizeFeature(f, indices[f.Name], translatedRef[f.Name], totalSamples, structures)
			if err != nil {
				return err
			}
			entries[i] = entry
			nucVariants[i] = sites
			return nil
		})
	}
	if err := fg.Wait(); err != nil {
		return nil, err
	}

	builder := catalog.NewBuilder(parameters, software, excludedPositions)
	for i, f := range features {
		builder.AddFeature(entries[i])
		builder.SetNucleotideVariants(f.Name, nucVariants[i])
	}
	for _, sample := range samples {
		alleleOf, proteoformOf := sample.Assignments()
		annotations := make(map[string]string, len(alleleOf)+len(proteoformOf))
		for feature, id := range alleleOf {
			annotations["AL!"+feature] = id
		}
		for feature, id := range proteoformOf {
			annotations["PF!"+feature] = id
		}
		builder.AddSample(sample.Name, annotations)
	}

	return builder.Build(buildTime), nil
}

// processSample reads one sample's variant-call stream once, then
// reconstructs and submits it at every feature in turn.
func (d *Driver) processSample(ctx context.Context, sample *variantcall.Sample, features []*reference.Feature, indices map[string]*aggregate.FeatureIndex, translatedRef map[string]string) error {
	records, err := readAllRecords(sample.Source)
	closeErr := sample.Source.Close()
	if err != nil {
		return musialerr.IO("engine.processSample", err)
	}
	if closeErr != nil {
		return musialerr.IO("engine.processSample", closeErr)
	}

	for _, f := range features {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		variants, err := acceptedVariants(records, f, d.filterCfg)
		if err != nil {
			return err
		}
		refSeq, err := d.store.FeatureSequence(f)
		if err != nil {
			return err
		}

		result, err := reconstruct.Reconstruct(f.Start, refSeq, f.IsCoding, f.IsSense, translatedRef[f.Name], d.matrix, variants)
		if err != nil {
			return err
		}

		idx := indices[f.Name]
		alleleID, _, _ := idx.SubmitAllele(sample.Name, result.NucleotideVariants)
		sample.AssignAllele(f.Name, alleleID)

		if f.IsCoding {
			proteoformID, _, _ := idx.SubmitProteoform(sample.Name, result.AminoAcidVariants)
			sample.AssignProteoform(f.Name, proteoformID)
			if result.FirstNovelTermination != "" {
				d.logger.Warn("novel termination introduced",
					zap.String("sample", sample.Name),
					zap.String("feature", f.Name),
					zap.String("position", result.FirstNovelTermination),
				)
			}
		}
	}
	return nil
}

// readAllRecords drains a sample's variant-call stream. Next returns
// (nil, nil) at end of stream (spec's Reader contract).
func readAllRecords(r variantcall.Reader) ([]*variantcall.Record, error) {
	var out []*variantcall.Record
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return out, nil
		}
		out = append(out, rec)
	}
}

// acceptedVariants filters records down to the ones that lie within f
// and pass the acceptance thresholds, classifying each into an
// AcceptedVariant the reconstructor can apply.
func acceptedVariants(records []*variantcall.Record, f *reference.Feature, cfg *filter.Config) ([]reconstruct.AcceptedVariant, error) {
	var out []reconstruct.AcceptedVariant
	for _, rec := range records {
		if rec.Contig != f.Contig || !f.Contains(rec.Position) {
			continue
		}
		decision := filter.Evaluate(cfg, rec, rec.Contig, f.Name)
		if !decision.Accepted {
			continue
		}
		out = append(out, reconstruct.AcceptedVariant{
			Position:         rec.Position,
			ReferenceContent: rec.ReferenceContent,
			AlternateContent: rec.AlternateContent,
			Kind:             reconstruct.ClassifyKind(rec.AlternateContent),
			Primary:          rec.IsPrimary,
		})
	}
	return out, nil
}

// finalizeFeature builds the catalog entry for one feature once every
// sample has submitted: allele/proteoform statistics, the amino-acid
// variant table embedded in the entry, the nucleotide variant-site
// table returned separately for the top-level keying catalog.Catalog
// uses, and structure reconciliation when a reader is supplied.
func (d *Driver) finalizeFeature(
	f *reference.Feature,
	idx *aggregate.FeatureIndex,
	translatedReference string,
	totalSamples int,
	structures map[string]StructureReader,
) (*catalog.FeatureEntry, map[string]map[string]*catalog.VariantEntry, error) {
	refSeq, err := d.store.FeatureSequence(f)
	if err != nil {
		return nil, nil, err
	}

	entry := &catalog.FeatureEntry{
		Name:               f.Name,
		NucleotideSequence: refSeq,
		Chromosome:         f.Contig,
		Start:              f.Start,
		End:                f.End,
		IsSense:            f.IsSense,
		IsCodingSequence:   f.IsCoding,
		Alleles:            make(map[string]*catalog.AlleleEntry),
	}
	if f.IsCoding {
		entry.TranslatedNucleotideSequence = translatedReference
	}

	nucSites := idx.NucleotideSites.NucleotideSites()
	nucVariants := make(map[string]map[string]*catalog.VariantEntry, len(nucSites))
	for _, site := range nucSites {
		altMap := make(map[string]*catalog.VariantEntry, len(site.Variants))
		for alt, rec := range site.Variants {
			occurrence := rec.Occurrence()
			altMap[alt] = &catalog.VariantEntry{
				ReferenceContent: rec.ReferenceContent,
				Frequency:        alleleOccurrenceFrequency(idx, occurrence, totalSamples),
				Primary:          rec.Primary,
				Occurrence:       occurrence,
			}
		}
		nucVariants[strconv.FormatInt(site.Position, 10)] = altMap
	}

	for _, allele := range idx.Alleles() {
		counts := stats.NucleotideCounts(allele.Descriptor)
		samples := allele.Samples()
		pct := stats.PercentVariablePositions(stats.NucleotidePositions(allele.Descriptor), f.Length())
		allele.SetStats(aggregate.AlleleStats{Substitutions: counts.Substitutions, Insertions: counts.Insertions, Deletions: counts.Deletions})
		entry.Alleles[allele.ID] = &catalog.AlleleEntry{
			ID:                       allele.ID,
			Variants:                 allele.Descriptor,
			Samples:                  samples,
			Substitutions:            counts.Substitutions,
			Insertions:               counts.Insertions,
			Deletions:                counts.Deletions,
			Frequency:                stats.Frequency(len(samples), totalSamples),
			PercentVariablePositions: pct,
		}
	}

	if f.IsCoding {
		proteinLength := int64(len(translatedReference))

		aaSites := idx.AminoAcidSites.AminoAcidSites()
		entry.AminoAcidVariants = make(map[string]map[string]*catalog.VariantEntry, len(aaSites))
		for _, site := range aaSites {
			altMap := make(map[string]*catalog.VariantEntry, len(site.Variants))
			for alt, rec := range site.Variants {
				occurrence := rec.Occurrence()
				altMap[alt] = &catalog.VariantEntry{
					ReferenceContent: rec.ReferenceContent,
					Frequency:        proteoformOccurrenceFrequency(idx, occurrence, totalSamples),
					Occurrence:       occurrence,
				}
			}
			entry.AminoAcidVariants[site.Key] = altMap
		}

		entry.Proteoforms = make(map[string]*catalog.ProteoformEntry)
		for _, proteoform := range idx.Proteoforms() {
			counts := stats.AminoAcidCounts(proteoform.Descriptor)
			samples := proteoform.Samples()
			firstNovel := stats.FirstNovelTermination(proteoform.Descriptor)
			effectiveLength := stats.EffectiveProteinLength(firstNovel, proteinLength)
			pct := stats.PercentVariablePositions(stats.AminoAcidPositions(proteoform.Descriptor), effectiveLength)
			truncation, _ := stats.TruncationPercentage(firstNovel, proteinLength)

			// The catalog schema mandates the literal "N/A" sentinel for
			// "no novel termination" (spec §3); "" is only the internal
			// no-termination marker stats/aggregate use for their own
			// empty-string checks.
			terminationPosition := firstNovel
			if terminationPosition == "" {
				terminationPosition = "N/A"
			}

			proteoform.SetStats(aggregate.ProteoformStats{
				Substitutions:         counts.Substitutions,
				Insertions:            counts.Insertions,
				Deletions:             counts.Deletions,
				FirstNovelTermination: firstNovel,
				TruncationPercentage:  truncation,
			})
			entry.Proteoforms[proteoform.ID] = &catalog.ProteoformEntry{
				ID:                            proteoform.ID,
				Variants:                      proteoform.Descriptor,
				Samples:                       samples,
				Substitutions:                 counts.Substitutions,
				Insertions:                    counts.Insertions,
				Deletions:                     counts.Deletions,
				Frequency:                     stats.Frequency(len(samples), totalSamples),
				PercentVariablePositions:      pct,
				FirstNovelTerminationPosition: terminationPosition,
				TruncationPercentage:          truncation,
			}
		}

		if reader, ok := structures[f.Name]; ok && reader != nil {
			structureText, proteinSequences, err := d.reconcileStructure(f, reader, translatedReference)
			if err != nil {
				return nil, nil, err
			}
			entry.StructureText = structureText
			entry.ProteinSequences = proteinSequences
		}
	}

	return entry, nucVariants, nil
}

// alleleOccurrenceFrequency turns a variant-site's occurrence (allele
// ids) into the fraction of samples carrying the variant: the sum of
// each carrying allele's sample count, over total samples (spec §3's
// "frequency across samples" variant-record annotation, distinct from
// an allele's own |samples|/total_samples frequency).
func alleleOccurrenceFrequency(idx *aggregate.FeatureIndex, occurrence []string, totalSamples int) string {
	carriers := 0
	for _, id := range occurrence {
		if allele, ok := idx.Allele(id); ok {
			carriers += allele.SampleCount()
		}
	}
	return stats.Frequency(carriers, totalSamples)
}

// proteoformOccurrenceFrequency mirrors alleleOccurrenceFrequency for
// amino-acid variant sites, whose occurrence sets hold proteoform ids.
func proteoformOccurrenceFrequency(idx *aggregate.FeatureIndex, occurrence []string, totalSamples int) string {
	carriers := 0
	for _, id := range occurrence {
		if proteoform, ok := idx.Proteoform(id); ok {
			carriers += proteoform.SampleCount()
		}
	}
	return stats.Frequency(carriers, totalSamples)
}

// reconcileStructure reconciles every chain of a feature's structure
// against its translated reference, logging a warning for any chain
// whose divergent-segment count crosses spec §4.7's threshold. It
// returns both the padded/renumbered structure text and each chain's
// original, un-reconciled protein sequence — spec §6 lists
// "proteinSequences by chain" and "structure text" as two distinct
// per-feature output keys.
func (d *Driver) reconcileStructure(f *reference.Feature, reader StructureReader, translatedReference string) (structureText, proteinSequences map[string]string, err error) {
	chains, err := reader.Chains()
	if err != nil {
		return nil, nil, musialerr.IO("engine.reconcileStructure", err)
	}

	structureText = make(map[string]string, len(chains))
	proteinSequences = make(map[string]string, len(chains))
	for _, chain := range chains {
		result, err := structure.Reconcile(translatedReference, chain, d.matrix)
		if err != nil {
			return nil, nil, err
		}
		structureText[result.ChainID] = result.PaddedSequence
		proteinSequences[chain.ID] = chain.Sequence
		if result.Warning {
			d.logger.Warn("divergent structure segments",
				zap.String("feature", f.Name),
				zap.String("chain", chain.ID),
				zap.Int("divergentSegments", result.DivergentSegments),
			)
		}
	}
	return structureText, proteinSequences, nil
}
