package rihap

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// MergeResult is the outcome of Merge. It is either Merged or Conflicted;
// callers branch with a type switch.
type MergeResult interface {
	// MergedRecords returns one record per distinct location, in ascending
	// location order. Conflicting samples are already excluded.
	MergedRecords() []*Variant
	mergeResult()
}

// Merged is returned when no sample received two different calls at one
// location.
type Merged struct {
	Records []*Variant
}

// Conflicted is returned when at least one sample received two different
// calls at the same location. Records hold the merge with those samples
// dropped.
type Conflicted struct {
	Records   []*Variant
	Conflicts []Conflict
}

// Conflict names a sample dropped from the merged record at Location.
type Conflict struct {
	Sample   string
	Location Location
}

func (m Merged) MergedRecords() []*Variant     { return m.Records }
func (c Conflicted) MergedRecords() []*Variant { return c.Records }
func (Merged) mergeResult()                    {}
func (Conflicted) mergeResult()                {}

// Merge collapses records that share a location into a single record.
//
// Records are grouped by exact location. Within a group the input order is
// the iteration order, so the ID of the merged record is the last non-missing
// ID in input order. Locations holding a single record pass through
// unchanged. The dictionary only orders the output.
func Merge(records []*Variant, dict *Dictionary) MergeResult {
	groups := make(map[Location][]*Variant)
	var order []Location
	for _, v := range records {
		if _, exists := groups[v.Location]; !exists {
			order = append(order, v.Location)
		}
		groups[v.Location] = append(groups[v.Location], v)
	}

	slices.SortStableFunc(order, dict.Compare)

	out := make([]*Variant, 0, len(order))
	var conflicts []Conflict
	for _, loc := range order {
		group := groups[loc]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}

		if log.IsLevelEnabled(log.DebugLevel) {
			for _, v := range group {
				log.Debugf("MERGING\t%s", v)
			}
		}

		merged, dropped := mergeSamePosition(group)
		for _, sample := range dropped {
			conflicts = append(conflicts, Conflict{Sample: sample, Location: loc})
		}
		log.Debugf("MERGED\t%d\t%s", len(group), loc)
		out = append(out, merged)
	}

	if len(conflicts) > 0 {
		return Conflicted{Records: out, Conflicts: conflicts}
	}
	return Merged{Records: out}
}

// mergeSamePosition merges records that all share one location. It returns
// the merged record and the samples excluded because they were given
// different calls.
func mergeSamePosition(group []*Variant) (*Variant, []string) {
	first := group[0]
	merged := &Variant{
		Location:  first.Location,
		ID:        first.ID,
		Ref:       first.Ref,
		Genotypes: make(map[string]Genotype),
	}

	addAllele := func(a string) {
		if a == "" || a == MissingValue || a == merged.Ref || slices.Contains(merged.Alts, a) {
			return
		}
		merged.Alts = append(merged.Alts, a)
	}

	conflicted := make(map[string]bool)
	var dropped []string
	for _, v := range group {
		if v.HasID() {
			merged.ID = v.ID
		}

		if v.Ref != merged.Ref {
			log.Warnf("Reference alleles disagree at %s (%s vs %s); treating %s as an alternate", v.Location, merged.Ref, v.Ref, v.Ref)
		}
		addAllele(v.Ref)
		for _, a := range v.Alts {
			addAllele(a)
		}

		var removed []string
		for _, sample := range v.Samples() {
			g := v.Genotypes[sample]
			if g.IsNoCall() || conflicted[sample] {
				continue
			}
			if prev, seen := merged.Genotypes[sample]; seen && !prev.SameGenotype(g) {
				conflicted[sample] = true
				removed = append(removed, sample)
				delete(merged.Genotypes, sample)
				continue
			}
			merged.Genotypes[sample] = g
			for _, a := range g.Alleles {
				addAllele(a)
			}
		}

		if len(removed) > 0 {
			log.Warnf("Samples included twice with different genotype. Removed. %s %s", v.Location, strings.Join(removed, " "))
			dropped = append(dropped, removed...)
		}
	}

	return merged, dropped
}
