package rihap

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Location is a 1-based, inclusive genomic span. End is the last reference
// base covered by the REF allele.
type Location struct {
	Contig string
	Start  uint32
	End    uint32
}

// String renders the location in UCSC style, chr:start-end.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d-%d", l.Contig, l.Start, l.End)
}

// Variant is one VCF record restricted to what the engine needs: location,
// ID, alleles and per-sample genotypes. Variants materialized from a Store are
// shared views and must not be modified; synthesized variants are built
// fresh.
type Variant struct {
	Location
	ID        string
	Ref       string
	Alts      []string
	Genotypes map[string]Genotype
}

// HasID reports whether the variant carries a non-missing ID.
func (v *Variant) HasID() bool {
	return v.ID != "" && v.ID != MissingValue
}

// Genotype returns the genotype of sample, if the record holds one.
func (v *Variant) Genotype(sample string) (Genotype, bool) {
	g, ok := v.Genotypes[sample]
	return g, ok
}

// Alleles returns the reference allele followed by the alternates.
func (v *Variant) Alleles() []string {
	out := make([]string, 0, len(v.Alts)+1)
	out = append(out, v.Ref)
	return append(out, v.Alts...)
}

// Samples returns the names of samples with a genotype on this record, sorted.
func (v *Variant) Samples() []string {
	names := maps.Keys(v.Genotypes)
	slices.Sort(names)
	return names
}

// String identifies the variant for logs.
func (v *Variant) String() string {
	id := v.ID
	if !v.HasID() {
		id = MissingValue
	}
	return fmt.Sprintf("%s %s %s>%v", v.Location, id, v.Ref, v.Alts)
}

// endOf returns the last reference base covered by a REF allele starting at
// pos.
func endOf(pos uint32, ref string) uint32 {
	if len(ref) == 0 {
		return pos
	}
	return pos + uint32(len(ref)) - 1
}

// ParseRegion parses a chr:start-end region, or a bare chr:pos.
func ParseRegion(s string) (Location, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return Location{}, fmt.Errorf("region %q is not chr:start-end", s)
	}

	loc := Location{Contig: s[:i]}
	span := strings.ReplaceAll(s[i+1:], ",", "")
	startText, endText, hasEnd := strings.Cut(span, "-")
	if !hasEnd {
		endText = startText
	}

	start, err := strconv.ParseUint(startText, 10, 32)
	if err != nil {
		return Location{}, fmt.Errorf("region %q: invalid start: %w", s, err)
	}
	end, err := strconv.ParseUint(endText, 10, 32)
	if err != nil {
		return Location{}, fmt.Errorf("region %q: invalid end: %w", s, err)
	}
	if end < start {
		return Location{}, fmt.Errorf("region %q ends before it starts", s)
	}

	loc.Start, loc.End = uint32(start), uint32(end)
	return loc, nil
}
