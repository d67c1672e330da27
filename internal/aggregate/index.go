package aggregate

import "sync"

const internerShardCount = 32

// ReferenceAlleleID and ReferenceProteoformID are the reserved ids for
// the empty variant set, i.e. the reference itself (spec §3).
const (
	ReferenceAlleleID     = "AL_REFERENCE"
	ReferenceProteoformID = "PF_REFERENCE"
)

type alleleShard struct {
	mu    sync.Mutex
	byID  map[string]*Allele
}

type proteoformShard struct {
	mu   sync.Mutex
	byID map[string]*Proteoform
}

// FeatureIndex owns one feature's four concurrent indices: the allele
// and proteoform interners, and the nucleotide/amino-acid variant-site
// tables they wire on creation (spec §4.5, §4.6, §5). A build runs one
// FeatureIndex per feature; all samples at that feature submit into it
// concurrently.
type FeatureIndex struct {
	Name string

	NucleotideSites *siteTable
	AminoAcidSites  *siteTable

	alleleShards     [internerShardCount]*alleleShard
	proteoformShards [internerShardCount]*proteoformShard
}

// NewFeatureIndex allocates an empty index for a feature.
func NewFeatureIndex(name string) *FeatureIndex {
	f := &FeatureIndex{
		Name:            name,
		NucleotideSites: newSiteTable(),
		AminoAcidSites:  newSiteTable(),
	}
	for i := range f.alleleShards {
		f.alleleShards[i] = &alleleShard{byID: make(map[string]*Allele)}
	}
	for i := range f.proteoformShards {
		f.proteoformShards[i] = &proteoformShard{byID: make(map[string]*Proteoform)}
	}
	return f
}

func (f *FeatureIndex) alleleShard(id string) *alleleShard {
	return f.alleleShards[fnvHash(id)%internerShardCount]
}

func (f *FeatureIndex) proteoformShard(id string) *proteoformShard {
	return f.proteoformShards[fnvHash(id)%internerShardCount]
}

// SubmitAllele interns sampleID's nucleotide-variant pattern at this
// feature: the first submission for a given canonical fingerprint
// creates the Allele record and wires every variant into the
// nucleotide-site table; every submission, winner or not, adds
// sampleID to the allele's sample set. Both steps are safe under
// unbounded concurrent callers (spec §4.5, §5, property #2/#3).
func (f *FeatureIndex) SubmitAllele(sampleID string, variants []NucleotideVariant) (id string, allele *Allele, created bool) {
	descriptors := make([]string, len(variants))
	for i, v := range variants {
		descriptors[i] = v.Descriptor()
	}
	id = IdentityOf(descriptors, "AL", ReferenceAlleleID)

	shard := f.alleleShard(id)
	shard.mu.Lock()
	allele, ok := shard.byID[id]
	created = !ok
	if !ok {
		allele = newAllele(id, Canonicalize(descriptors))
		shard.byID[id] = allele
	}
	shard.mu.Unlock()

	if created {
		for _, v := range variants {
			f.NucleotideSites.upsertNucleotide(v.Position, v.Alt, v.ReferenceContent, v.Primary, id)
		}
	}
	allele.AddSample(sampleID)
	return id, allele, created
}

// SubmitProteoform mirrors SubmitAllele for amino-acid variant patterns
// at a coding feature.
func (f *FeatureIndex) SubmitProteoform(sampleID string, variants []AminoAcidVariant) (id string, proteoform *Proteoform, created bool) {
	descriptors := make([]string, len(variants))
	for i, v := range variants {
		descriptors[i] = v.Descriptor()
	}
	id = IdentityOf(descriptors, "PF", ReferenceProteoformID)

	shard := f.proteoformShard(id)
	shard.mu.Lock()
	proteoform, ok := shard.byID[id]
	created = !ok
	if !ok {
		proteoform = newProteoform(id, Canonicalize(descriptors))
		shard.byID[id] = proteoform
	}
	shard.mu.Unlock()

	if created {
		for _, v := range variants {
			key := formatAminoAcidKey(v.Position, v.Insertion)
			f.AminoAcidSites.upsertAminoAcid(key, v.Alt, v.ReferenceContent, false, id)
		}
	}
	proteoform.AddSample(sampleID)
	return id, proteoform, created
}

// Allele returns the allele record for id, if it has been created.
func (f *FeatureIndex) Allele(id string) (*Allele, bool) {
	shard := f.alleleShard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	a, ok := shard.byID[id]
	return a, ok
}

// Proteoform returns the proteoform record for id, if it has been
// created.
func (f *FeatureIndex) Proteoform(id string) (*Proteoform, bool) {
	shard := f.proteoformShard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	p, ok := shard.byID[id]
	return p, ok
}

// Alleles returns a snapshot of every interned allele, sorted by id.
func (f *FeatureIndex) Alleles() []*Allele {
	out := make([]*Allele, 0)
	for _, shard := range f.alleleShards {
		shard.mu.Lock()
		for _, a := range shard.byID {
			out = append(out, a)
		}
		shard.mu.Unlock()
	}
	sortAlleles(out)
	return out
}

// Proteoforms returns a snapshot of every interned proteoform, sorted
// by id.
func (f *FeatureIndex) Proteoforms() []*Proteoform {
	out := make([]*Proteoform, 0)
	for _, shard := range f.proteoformShards {
		shard.mu.Lock()
		for _, p := range shard.byID {
			out = append(out, p)
		}
		shard.mu.Unlock()
	}
	sortProteoforms(out)
	return out
}
