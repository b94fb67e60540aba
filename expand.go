package rihap

import (
	"golang.org/x/exp/slices"

	log "github.com/sirupsen/logrus"
)

// Interval is the result of expanding one pair of consecutive markers.
type Interval struct {
	First  *Variant
	Second *Variant
	// Groups assigns every population sample the origin it shares at both
	// markers, or OriginNeither when the markers disagree.
	Groups map[string]Origin
	// Records are the expanded records in location order.
	Records []*Variant
	// Degraded is set when merging hit a genotype conflict and Records hold
	// the unmerged records instead.
	Degraded  bool
	Conflicts []Conflict

	members [len(Origins)][]string
}

// Members returns the samples assigned to o, in population header order.
func (iv *Interval) Members(o Origin) []string {
	if int(o) >= len(iv.members) {
		return nil
	}
	return iv.members[o]
}

// Expand fills the gap between two consecutive population markers a and b.
//
// Samples whose origin is the same parent at both markers receive that
// parent's calls at every parental record overlapping [a.Start, b.End].
// Samples of BOTH origin receive the calls of each parent in turn. Every
// sample also keeps its own population calls in the region. The records are
// then merged per location.
func (e *Engine) Expand(a, b *Variant) (*Interval, error) {
	iv := &Interval{
		First:  a,
		Second: b,
		Groups: make(map[string]Origin, len(e.Population.Samples())),
	}

	for _, sample := range e.Population.Samples() {
		o := ClassifyOrigin(a, sample, e.Parents)
		if o2 := ClassifyOrigin(b, sample, e.Parents); o2 != o {
			log.Debugf("RI_INTERVAL_ORIGIN\t%s\t%s at %s but %s at %s", sample, o, a.Location, o2, b.Location)
			o = OriginNeither
		}
		iv.Groups[sample] = o
		iv.members[o] = append(iv.members[o], sample)
	}

	contig, start, end := a.Contig, a.Start, b.End
	p1, p2, both := iv.members[OriginParent1], iv.members[OriginParent2], iv.members[OriginBoth]

	var parent1Records, parent2Records, own []*Variant
	var err error
	if len(p1)+len(both) > 0 {
		if parent1Records, err = readRegion(e.Parent1, contig, start, end); err != nil {
			return nil, err
		}
	}
	if len(p2)+len(both) > 0 {
		if parent2Records, err = readRegion(e.Parent2, contig, start, end); err != nil {
			return nil, err
		}
	}
	if len(e.Population.Samples()) > 0 {
		if own, err = readRegion(e.Population, contig, start, end); err != nil {
			return nil, err
		}
	}

	var union []*Variant
	union = append(union, copyParent(parent1Records, e.Parents.Parent1, p1)...)
	union = append(union, copyOwn(own, p1)...)
	union = append(union, copyParent(parent2Records, e.Parents.Parent2, p2)...)
	union = append(union, copyOwn(own, p2)...)
	union = append(union, copyParent(parent1Records, e.Parents.Parent1, both)...)
	union = append(union, copyOwn(own, both)...)
	union = append(union, copyParent(parent2Records, e.Parents.Parent2, both)...)
	neither := copyOwn(own, iv.members[OriginNeither])

	all := make([]*Variant, 0, len(union)+len(neither))
	all = append(all, union...)
	all = append(all, neither...)

	switch result := Merge(all, e.Dict).(type) {
	case Merged:
		iv.Records = result.Records
	case Conflicted:
		log.Warnf("Genotype conflict while merging the interval between %s and %s; writing %d unmerged records without the NEITHER samples' own calls", displayID(a), displayID(b), len(union))
		slices.SortStableFunc(union, func(x, y *Variant) int {
			return e.Dict.Compare(x.Location, y.Location)
		})
		iv.Records = union
		iv.Degraded = true
		iv.Conflicts = result.Conflicts
	}

	return iv, nil
}

// readRegion collects every record of s overlapping the region. The cursor
// is closed before returning.
func readRegion(s *Store, contig string, start, end uint32) (records []*Variant, err error) {
	cur, err := s.Query(contig, start, end)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for v := cur.Read(); v != nil; v = cur.Read() {
		records = append(records, v)
	}

	return records, cur.Error()
}

// copyParent synthesizes, for each parental record, a record giving every
// member the parent's call. Records where the parent has no call are
// skipped.
func copyParent(records []*Variant, parent string, members []string) []*Variant {
	if len(members) == 0 {
		return nil
	}

	var out []*Variant
	for _, rec := range records {
		call, ok := rec.Genotype(parent)
		if !ok || call.IsNoCall() {
			continue
		}

		v := synthesize(rec, len(members))
		for _, sample := range members {
			v.Genotypes[sample] = Genotype{
				Sample:  sample,
				Alleles: slices.Clone(call.Alleles),
				Phased:  call.Phased,
			}
		}
		out = append(out, v)
	}

	return out
}

// copyOwn synthesizes, for each population record, a record holding only
// the members' own calls. Records where no member has a call are skipped.
func copyOwn(records []*Variant, members []string) []*Variant {
	if len(members) == 0 {
		return nil
	}

	var out []*Variant
	for _, rec := range records {
		v := synthesize(rec, len(members))
		called := false
		for _, sample := range members {
			g, ok := rec.Genotype(sample)
			if !ok {
				continue
			}
			v.Genotypes[sample] = g
			called = called || !g.IsNoCall()
		}
		if called {
			out = append(out, v)
		}
	}

	return out
}

// synthesize starts a new record at rec's location with rec's ID and
// alleles and no genotypes.
func synthesize(rec *Variant, nSamples int) *Variant {
	return &Variant{
		Location:  rec.Location,
		ID:        rec.ID,
		Ref:       rec.Ref,
		Alts:      slices.Clone(rec.Alts),
		Genotypes: make(map[string]Genotype, nSamples),
	}
}

func displayID(v *Variant) string {
	if v.HasID() {
		return v.ID
	}
	return v.Location.String()
}
