package rihap

import (
	log "github.com/sirupsen/logrus"
)

// Origin records which parental strain a sample's call agrees with, either at
// one variant or across an interval.
type Origin uint8

const (
	OriginParent1 Origin = iota
	OriginParent2
	// OriginBoth means the call equals both parents' calls, which happens when
	// the parents are identical at the site.
	OriginBoth
	// OriginNeither covers no-calls and calls that match neither parent.
	OriginNeither
)

// Origins lists every Origin value in declaration order.
var Origins = [...]Origin{OriginParent1, OriginParent2, OriginBoth, OriginNeither}

func (o Origin) String() string {
	switch o {
	case OriginParent1:
		return "PARENT1"
	case OriginParent2:
		return "PARENT2"
	case OriginBoth:
		return "BOTH"
	case OriginNeither:
		return "NEITHER"

	default:
		return "Illegal selection"
	}
}

// Parents names the two founder strains. The names are fixed for a run.
type Parents struct {
	Parent1 string
	Parent2 string
}

// Name returns the sample name behind a single-parent origin, or the origin's
// label for BOTH and NEITHER.
func (p Parents) Name(o Origin) string {
	switch o {
	case OriginParent1:
		return p.Parent1
	case OriginParent2:
		return p.Parent2
	}
	return o.String()
}

// Contains reports whether sample is one of the parents.
func (p Parents) Contains(sample string) bool {
	return sample == p.Parent1 || sample == p.Parent2
}

// ClassifyOrigin decides which parent contributed the allele a sample carries
// at v by comparing the sample's call with both parents' calls on the same
// record. A parent without a genotype on v never matches.
func ClassifyOrigin(v *Variant, sample string, p Parents) Origin {
	g, ok := v.Genotype(sample)
	if !ok || g.IsNoCall() {
		return OriginNeither
	}

	p1, ok1 := v.Genotype(p.Parent1)
	p2, ok2 := v.Genotype(p.Parent2)
	matches1 := ok1 && g.SameGenotype(p1)
	matches2 := ok2 && g.SameGenotype(p2)

	switch {
	case matches1 && matches2:
		log.Debugf("RI_VARIANT_ORIGIN\t%s has same genotype (%s) as %s (%s) and %s (%s)", sample, g, p.Parent1, p1, p.Parent2, p2)
		return OriginBoth
	case matches1:
		return OriginParent1
	case matches2:
		return OriginParent2
	}
	return OriginNeither
}
