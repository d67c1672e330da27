package aggregate

import "sync"

// VariantRecord is a single (position, alternate content) nucleotide or
// amino-acid variant site, annotated with the reference content it
// replaces and the set of allele/proteoform ids that carry it (spec
// §4.5/§4.6). A site's occurrence set only grows during a build;
// removeOccurrence reports when a record's set has become empty, but
// nothing removes such a record from its site, and the build driver
// never calls it since submissions never retract a sample.
type VariantRecord struct {
	Alt              string
	ReferenceContent string
	Primary          bool

	mu         sync.Mutex
	occurrence map[string]struct{}
}

func newVariantRecord(alt, referenceContent string, primary bool) *VariantRecord {
	return &VariantRecord{
		Alt:              alt,
		ReferenceContent: referenceContent,
		Primary:          primary,
		occurrence:       make(map[string]struct{}),
	}
}

// addOccurrence atomically extends the record's occurrence set.
func (v *VariantRecord) addOccurrence(id string) {
	v.mu.Lock()
	v.occurrence[id] = struct{}{}
	v.mu.Unlock()
}

// removeOccurrence drops id from the occurrence set and reports whether
// the record is now empty and eligible for removal from its site.
func (v *VariantRecord) removeOccurrence(id string) (empty bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.occurrence, id)
	return len(v.occurrence) == 0
}

// Occurrence returns a snapshot of the ids carrying this variant.
func (v *VariantRecord) Occurrence() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]string, 0, len(v.occurrence))
	for id := range v.occurrence {
		ids = append(ids, id)
	}
	return ids
}

// Frequency returns the number of allele/proteoform ids in the
// occurrence set divided by totalSamples. It counts carrying records,
// not carrying samples.
func (v *VariantRecord) Frequency(totalSamples int) float64 {
	if totalSamples == 0 {
		return 0
	}
	v.mu.Lock()
	n := len(v.occurrence)
	v.mu.Unlock()
	return float64(n) / float64(totalSamples)
}

// nucleotideSite is one reference position's alternate-content table.
type nucleotideSite struct {
	mu      sync.Mutex
	byAlt   map[string]*VariantRecord
}

// aminoAcidSite is one (position, insertion-index) compound key's
// alternate-residue table (spec §3, key format "P+I").
type aminoAcidSite struct {
	mu    sync.Mutex
	byAlt map[string]*VariantRecord
}

// siteTable is a concurrent map of site key -> site, guarded by a small
// mutex shard set rather than a single global lock (spec §5): distinct
// positions/compound-keys almost never contend, so sharding on the key
// gives create-or-join semantics without serializing unrelated sites.
type siteTable struct {
	shards [siteShardCount]*siteShard
}

const siteShardCount = 32

type siteShard struct {
	mu   sync.Mutex
	nuc  map[int64]*nucleotideSite
	amin map[string]*aminoAcidSite
}

func newSiteTable() *siteTable {
	t := &siteTable{}
	for i := range t.shards {
		t.shards[i] = &siteShard{
			nuc:  make(map[int64]*nucleotideSite),
			amin: make(map[string]*aminoAcidSite),
		}
	}
	return t
}

func (t *siteTable) nucShard(position int64) *siteShard {
	return t.shards[uint64(position)%siteShardCount]
}

func (t *siteTable) aminoShard(key string) *siteShard {
	return t.shards[fnvHash(key)%siteShardCount]
}

func fnvHash(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// upsertNucleotide returns the VariantRecord for (position, alt),
// creating the site and/or record if absent, and records the
// occurrence of id on it.
func (t *siteTable) upsertNucleotide(position int64, alt, referenceContent string, primary bool, id string) *VariantRecord {
	shard := t.nucShard(position)
	shard.mu.Lock()
	site, ok := shard.nuc[position]
	if !ok {
		site = &nucleotideSite{byAlt: make(map[string]*VariantRecord)}
		shard.nuc[position] = site
	}
	shard.mu.Unlock()

	site.mu.Lock()
	rec, ok := site.byAlt[alt]
	if !ok {
		rec = newVariantRecord(alt, referenceContent, primary)
		site.byAlt[alt] = rec
	}
	site.mu.Unlock()

	rec.addOccurrence(id)
	return rec
}

// upsertAminoAcid mirrors upsertNucleotide for the "P+I" keyed table.
func (t *siteTable) upsertAminoAcid(key string, alt, referenceContent string, primary bool, id string) *VariantRecord {
	shard := t.aminoShard(key)
	shard.mu.Lock()
	site, ok := shard.amin[key]
	if !ok {
		site = &aminoAcidSite{byAlt: make(map[string]*VariantRecord)}
		shard.amin[key] = site
	}
	shard.mu.Unlock()

	site.mu.Lock()
	rec, ok := site.byAlt[alt]
	if !ok {
		rec = newVariantRecord(alt, referenceContent, primary)
		site.byAlt[alt] = rec
	}
	site.mu.Unlock()

	rec.addOccurrence(id)
	return rec
}

// NucleotidePosition is a read-only snapshot of one position's variant
// table, for statistics and catalog assembly.
type NucleotidePosition struct {
	Position int64
	Variants map[string]*VariantRecord
}

// AminoAcidPosition mirrors NucleotidePosition for the "P+I" table.
type AminoAcidPosition struct {
	Key      string
	Variants map[string]*VariantRecord
}

// NucleotideSites returns every populated position in ascending numeric
// order (spec §3's iteration-order requirement).
func (t *siteTable) NucleotideSites() []NucleotidePosition {
	out := make([]NucleotidePosition, 0)
	for _, shard := range t.shards {
		shard.mu.Lock()
		for pos, site := range shard.nuc {
			site.mu.Lock()
			variants := make(map[string]*VariantRecord, len(site.byAlt))
			for alt, rec := range site.byAlt {
				variants[alt] = rec
			}
			site.mu.Unlock()
			out = append(out, NucleotidePosition{Position: pos, Variants: variants})
		}
		shard.mu.Unlock()
	}
	sortNucleotidePositions(out)
	return out
}

// AminoAcidSites returns every populated "P+I" key in ascending order by
// position then insertion index.
func (t *siteTable) AminoAcidSites() []AminoAcidPosition {
	out := make([]AminoAcidPosition, 0)
	for _, shard := range t.shards {
		shard.mu.Lock()
		for key, site := range shard.amin {
			site.mu.Lock()
			variants := make(map[string]*VariantRecord, len(site.byAlt))
			for alt, rec := range site.byAlt {
				variants[alt] = rec
			}
			site.mu.Unlock()
			out = append(out, AminoAcidPosition{Key: key, Variants: variants})
		}
		shard.mu.Unlock()
	}
	sortAminoAcidPositions(out)
	return out
}
