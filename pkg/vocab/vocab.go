// Package vocab maintains the per-field vocabularies that feed the form's
// dropdown suggestions. Values are learned from every saved record, so the
// vocabulary grows organically and the operator rarely re-types a known
// country or parent company.
package vocab

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/record"
)

// Other is the placeholder offered by the form for free-text entry. It is
// never absorbed into a vocabulary, so the placeholder cannot pollute the
// suggestions it sits next to.
const Other = "Other"

// Field names with a flat (unscoped) vocabulary.
const (
	FieldCountry       = "country"
	FieldParentCompany = "parent_company"
	FieldContinent     = "continent"
)

// Index holds the observed values per field. Region values are scoped per
// country: "Tyrol" under Austria and "Tyrol" under Italy are independent
// entries. The index only ever grows; it is a derived view that can always
// be reproduced by rescanning the records.
type Index struct {
	fields  map[string]map[string]struct{}
	regions map[string]map[string]struct{}
}

// New returns an empty index.
func New() *Index {
	return &Index{
		fields:  make(map[string]map[string]struct{}),
		regions: make(map[string]map[string]struct{}),
	}
}

// Observe adds a value to a field's vocabulary. Empty values and the Other
// sentinel are ignored; inserting a known value is a no-op.
func (ix *Index) Observe(field, value string) {
	if value == "" || value == Other {
		return
	}
	set, ok := ix.fields[field]
	if !ok {
		set = make(map[string]struct{})
		ix.fields[field] = set
	}
	set[value] = struct{}{}
}

// ObserveRegion adds a region under its country. A country never seen
// before starts with a fresh empty set.
func (ix *Index) ObserveRegion(country, region string) {
	if country == "" || region == "" || region == Other {
		return
	}
	set, ok := ix.regions[country]
	if !ok {
		set = make(map[string]struct{})
		ix.regions[country] = set
	}
	set[region] = struct{}{}
}

// ObserveRecord absorbs every enumerable field of a saved record.
func (ix *Index) ObserveRecord(rec record.Record) {
	ix.Observe(FieldCountry, rec.Country)
	ix.Observe(FieldParentCompany, rec.ParentCompany)
	ix.Observe(FieldContinent, rec.Continent)
	ix.ObserveRegion(rec.Country, rec.Region)
}

// ValuesFor returns the sorted vocabulary for a flat field. Unknown fields
// yield an empty slice.
func (ix *Index) ValuesFor(field string) []string {
	return sortedKeys(ix.fields[field])
}

// RegionsFor returns the sorted regions observed under a country. A
// country with no observations yields an empty slice, not an error.
func (ix *Index) RegionsFor(country string) []string {
	return sortedKeys(ix.regions[country])
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Rebuild resets the index and rescans every folder's persisted record.
// A folder whose metadata fails to parse is skipped; one corrupt record
// must not cost the vocabulary of all the others.
func (ix *Index) Rebuild(store *record.Store, folders []string) {
	ix.fields = make(map[string]map[string]struct{})
	ix.regions = make(map[string]map[string]struct{})
	for _, folder := range folders {
		if !store.HasMetadata(folder) {
			continue
		}
		rec, err := store.Load(folder)
		if err != nil {
			continue
		}
		ix.ObserveRecord(rec)
	}
}

// cacheFile is the YAML shape of the on-disk vocabulary cache.
type cacheFile struct {
	Fields  map[string][]string `yaml:"fields"`
	Regions map[string][]string `yaml:"regions"`
}

// SaveCache writes the index to a YAML cache file. The cache is purely a
// derived view; Rebuild remains the source of truth.
func (ix *Index) SaveCache(path string) error {
	cf := cacheFile{
		Fields:  make(map[string][]string, len(ix.fields)),
		Regions: make(map[string][]string, len(ix.regions)),
	}
	for field, set := range ix.fields {
		cf.Fields[field] = sortedKeys(set)
	}
	for country, set := range ix.regions {
		cf.Regions[country] = sortedKeys(set)
	}

	data, err := yaml.Marshal(cf)
	if err != nil {
		return fmt.Errorf("failed to marshal vocabulary cache: %w", err)
	}
	return utils.WriteFileAtomic(path, data, 0644)
}

// LoadCache populates the index from a YAML cache file, replacing the
// current contents. Sentinel values in a tampered cache are still refused.
func (ix *Index) LoadCache(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read vocabulary cache: %w", err)
	}
	var cf cacheFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse vocabulary cache: %w", err)
	}

	ix.fields = make(map[string]map[string]struct{})
	ix.regions = make(map[string]map[string]struct{})
	for field, values := range cf.Fields {
		for _, v := range values {
			ix.Observe(field, v)
		}
	}
	for country, regions := range cf.Regions {
		for _, v := range regions {
			ix.ObserveRegion(country, v)
		}
	}
	return nil
}
