package rihap

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// MissingValue is the VCF placeholder for a missing field or allele.
const MissingValue = "."

// Genotype is one sample's call at one variant. Alleles hold allele
// sequences, not indices, so calls from different files can be compared
// directly. An empty allele list, or one made only of MissingValue, is a
// no-call.
type Genotype struct {
	Sample  string
	Alleles []string
	Phased  bool
}

// IsNoCall reports whether no allele of the genotype was called.
func (g Genotype) IsNoCall() bool {
	for _, a := range g.Alleles {
		if a != MissingValue {
			return false
		}
	}
	return true
}

// SameGenotype reports whether both genotypes carry the same multiset of
// alleles. Call order and phasing are ignored.
func (g Genotype) SameGenotype(other Genotype) bool {
	if len(g.Alleles) != len(other.Alleles) {
		return false
	}
	a := slices.Clone(g.Alleles)
	b := slices.Clone(other.Alleles)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// IsHomRef reports whether every allele equals ref.
func (g Genotype) IsHomRef(ref string) bool {
	if g.IsNoCall() {
		return false
	}
	for _, a := range g.Alleles {
		if a != ref {
			return false
		}
	}
	return true
}

// IsHomAlt reports whether all alleles are one identical non-reference
// allele.
func (g Genotype) IsHomAlt(ref string) bool {
	if g.IsNoCall() {
		return false
	}
	first := g.Alleles[0]
	if first == ref || first == MissingValue {
		return false
	}
	for _, a := range g.Alleles[1:] {
		if a != first {
			return false
		}
	}
	return true
}

// String renders the alleles by sequence, e.g. A/G.
func (g Genotype) String() string {
	if len(g.Alleles) == 0 {
		return MissingValue
	}
	return strings.Join(g.Alleles, g.separator())
}

func (g Genotype) separator() string {
	if g.Phased {
		return "|"
	}
	return "/"
}

// alleleIndices maps the genotype onto alleles (REF first), the form vcfgo
// keeps in SampleGenotype.GT. Missing alleles, and alleles absent from the
// list, are -1. A no-call is diploid missing.
func (g Genotype) alleleIndices(alleles []string) []int {
	if len(g.Alleles) == 0 {
		return []int{-1, -1}
	}
	idx := make([]int, len(g.Alleles))
	for i, a := range g.Alleles {
		idx[i] = -1
		if a == MissingValue {
			continue
		}
		idx[i] = slices.Index(alleles, a)
	}
	return idx
}

// decodeGT parses a VCF GT field such as 0/1, 1|1 or ./. against alleles
// (REF first).
func decodeGT(sample, gt string, alleles []string) (Genotype, error) {
	g := Genotype{Sample: sample}
	if gt == "" || gt == MissingValue {
		return g, nil
	}

	sep := "/"
	if strings.Contains(gt, "|") {
		sep = "|"
		g.Phased = true
	}

	for _, field := range strings.Split(gt, sep) {
		if field == MissingValue {
			g.Alleles = append(g.Alleles, MissingValue)
			continue
		}
		i, err := strconv.Atoi(field)
		if err != nil {
			return g, fmt.Errorf("sample %s: unparseable GT %q: %w", sample, gt, err)
		}
		if i < 0 || i >= len(alleles) {
			return g, fmt.Errorf("sample %s: GT %q references allele %d but only %d alleles exist", sample, gt, i, len(alleles))
		}
		g.Alleles = append(g.Alleles, alleles[i])
	}

	return g, nil
}
