// Package catalog assembles and (de)serializes the final in-memory
// catalog document (C9), matching the published schema bit-exactly
// (spec §6).
package catalog

import (
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/musial-go/musial/internal/musialerr"
)

// Parameters echoes the thresholds and run configuration the build was
// invoked with.
type Parameters struct {
	MinCoverage     int64   `json:"minCoverage"`
	MinQuality      float64 `json:"minQuality"`
	MinHomFrequency float64 `json:"minHomFrequency"`
	MinHetFrequency float64 `json:"minHetFrequency"`
	MaxHetFrequency float64 `json:"maxHetFrequency"`
	Threads         int     `json:"threads"`
	GenomeAnalysis  bool    `json:"genomeAnalysis"`
}

// VariantEntry is one alternate-content record at a nucleotide or
// amino-acid variant site.
type VariantEntry struct {
	ReferenceContent string   `json:"referenceContent"`
	Frequency        string   `json:"frequency"`
	Primary          bool     `json:"primary,omitempty"`
	Occurrence       []string `json:"occurrence"`
}

// AlleleEntry is one allele record within a feature.
type AlleleEntry struct {
	ID                       string   `json:"id"`
	Variants                 string   `json:"variants"`
	Samples                  []string `json:"samples"`
	Substitutions            int      `json:"substitutions"`
	Insertions               int      `json:"insertions"`
	Deletions                int      `json:"deletions"`
	Frequency                string   `json:"frequency"`
	PercentVariablePositions float64  `json:"percentVariablePositions"`
}

// ProteoformEntry mirrors AlleleEntry plus the amino-acid-specific
// termination annotations (spec §3).
type ProteoformEntry struct {
	ID                          string   `json:"id"`
	Variants                    string   `json:"variants"`
	Samples                     []string `json:"samples"`
	Substitutions               int      `json:"substitutions"`
	Insertions                  int      `json:"insertions"`
	Deletions                   int      `json:"deletions"`
	Frequency                   string   `json:"frequency"`
	PercentVariablePositions    float64  `json:"percentVariablePositions"`
	FirstNovelTerminationPosition string `json:"firstNovelTerminationPosition"`
	TruncationPercentage        float64  `json:"truncationPercentage,omitempty"`
}

// FeatureEntry is one reference feature's entry in the catalog.
type FeatureEntry struct {
	Name                         string                             `json:"name"`
	NucleotideSequence           string                             `json:"nucleotideSequence"`
	TranslatedNucleotideSequence string                             `json:"translatedNucleotideSequence,omitempty"`
	ProteinSequences             map[string]string                  `json:"proteinSequences,omitempty"`
	StructureText                map[string]string                  `json:"structureText,omitempty"`
	Chromosome                   string                             `json:"chromosome"`
	Start                        int64                              `json:"start"`
	End                          int64                              `json:"end"`
	IsSense                      bool                               `json:"isSense"`
	IsCodingSequence             bool                               `json:"isCodingSequence"`
	Alleles                      map[string]*AlleleEntry            `json:"alleles"`
	Proteoforms                  map[string]*ProteoformEntry        `json:"proteoforms,omitempty"`
	AminoAcidVariants            map[string]map[string]*VariantEntry `json:"aminoacidVariants,omitempty"`
}

// SampleEntry is one analyzed sample's entry; Annotations carries the
// per-feature "AL!<feature>" / "PF!<feature>" assignment keys (spec §6).
type SampleEntry struct {
	Name        string            `json:"name"`
	Annotations map[string]string `json:"annotations"`
}

// SoftwareInfo identifies the build that produced the catalog.
type SoftwareInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	RunID   string `json:"runId"`
}

// Catalog is the top-level document (spec §6). NucleotideVariants is
// keyed feature name -> position (decimal string) -> alt -> record:
// contig positions are not globally unique, so the feature name
// disambiguates them at the top level the way aminoacidVariants is
// already scoped by living inside each feature entry.
type Catalog struct {
	Parameters         Parameters                                     `json:"parameters"`
	Features           map[string]*FeatureEntry                       `json:"features"`
	Samples            map[string]*SampleEntry                        `json:"samples"`
	Software           SoftwareInfo                                   `json:"software"`
	Date               string                                         `json:"date"`
	NucleotideVariants map[string]map[string]map[string]*VariantEntry `json:"nucleotideVariants"`
	ExcludedPositions  map[string][]int64                             `json:"excludedPositions"`
}

// Builder assembles a Catalog incrementally as the driver finishes
// each feature and sample (spec §6; lifecycle note in §3: "the catalog
// is immutable once assembled").
type Builder struct {
	parameters         Parameters
	features           map[string]*FeatureEntry
	samples            map[string]*SampleEntry
	software           SoftwareInfo
	nucleotideVariants map[string]map[string]map[string]*VariantEntry
	excludedPositions  map[string][]int64
}

// NewBuilder creates an empty Builder.
func NewBuilder(parameters Parameters, software SoftwareInfo, excludedPositions map[string][]int64) *Builder {
	return &Builder{
		parameters:         parameters,
		features:           make(map[string]*FeatureEntry),
		samples:            make(map[string]*SampleEntry),
		software:           software,
		nucleotideVariants: make(map[string]map[string]map[string]*VariantEntry),
		excludedPositions:  excludedPositions,
	}
}

// AddFeature installs a fully-assembled feature entry.
func (b *Builder) AddFeature(entry *FeatureEntry) {
	b.features[entry.Name] = entry
}

// AddSample installs a sample's annotations.
func (b *Builder) AddSample(name string, annotations map[string]string) {
	b.samples[name] = &SampleEntry{Name: name, Annotations: annotations}
}

// SetNucleotideVariants installs the feature's nucleotide-variant-site
// table (position -> alt -> record), keyed under the feature name.
func (b *Builder) SetNucleotideVariants(feature string, sites map[string]map[string]*VariantEntry) {
	b.nucleotideVariants[feature] = sites
}

// Build finalizes the catalog with the given timestamp.
func (b *Builder) Build(date time.Time) *Catalog {
	return &Catalog{
		Parameters:         b.parameters,
		Features:           b.features,
		Samples:            b.samples,
		Software:           b.software,
		Date:               date.UTC().Format(time.RFC3339),
		NucleotideVariants: b.nucleotideVariants,
		ExcludedPositions:  b.excludedPositions,
	}
}

// Marshal renders the catalog as its canonical JSON document.
func Marshal(c *Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, musialerr.Internalf("catalog.Marshal", "encode catalog: %v", err)
	}
	return data, nil
}

// Unmarshal parses a catalog document previously produced by Marshal.
func Unmarshal(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, musialerr.IO("catalog.Unmarshal", err)
	}
	return &c, nil
}

// SortedFeatureNames returns the catalog's feature names in sorted
// order, for stable downstream iteration.
func (c *Catalog) SortedFeatureNames() []string {
	names := make([]string, 0, len(c.Features))
	for n := range c.Features {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
