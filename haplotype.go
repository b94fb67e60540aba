package rihap

import (
	log "github.com/sirupsen/logrus"
)

// Haplotype classifies whether a sample is homozygous for one allele class.
// HaplotypeAbsent means no records were available, which is different from
// HaplotypeNeither (records present but not consistently homozygous).
type Haplotype uint8

const (
	HaplotypeAbsent Haplotype = iota
	HaplotypeRef
	HaplotypeAlt
	HaplotypeNeither
)

func (h Haplotype) String() string {
	switch h {
	case HaplotypeAbsent:
		return "ABSENT"
	case HaplotypeRef:
		return "REF"
	case HaplotypeAlt:
		return "ALT"
	case HaplotypeNeither:
		return "NEITHER"

	default:
		return "Illegal selection"
	}
}

// VariantIterator is a sequential source of variants, such as a Cursor. Read
// returns nil when the source is exhausted or has failed; Error tells which.
type VariantIterator interface {
	Read() *Variant
	Error() error
}

// GenotypeHaplotype classifies one sample's call at v.
func GenotypeHaplotype(v *Variant, sample string) Haplotype {
	g, ok := v.Genotype(sample)
	switch {
	case !ok:
		return HaplotypeNeither
	case g.IsHomRef(v.Ref):
		return HaplotypeRef
	case g.IsHomAlt(v.Ref):
		return HaplotypeAlt
	}
	return HaplotypeNeither
}

// IntervalHaplotype classifies a sample over every variant it reads: REF or
// ALT when the sample is homozygous for that class at every variant, NEITHER
// otherwise, and ABSENT when there are no variants. Reading stops at the
// first disagreement.
func IntervalHaplotype(it VariantIterator, sample string) (Haplotype, error) {
	v := it.Read()
	if v == nil {
		if err := it.Error(); err != nil {
			return HaplotypeAbsent, err
		}
		log.Debugf("GETTING_HAPLOTYPE\t%s\titerator empty", sample)
		return HaplotypeAbsent, nil
	}

	start := GenotypeHaplotype(v, sample)
	if start == HaplotypeNeither {
		log.Debugf("GETTING_HAPLOTYPE\t%s\tfirst haplotype is neither", sample)
		return HaplotypeNeither, nil
	}

	for v = it.Read(); v != nil; v = it.Read() {
		if h := GenotypeHaplotype(v, sample); h != start {
			log.Debugf("GETTING_HAPLOTYPE\t%s\t%s not equal to %s", sample, h, start)
			return HaplotypeNeither, nil
		}
	}
	if err := it.Error(); err != nil {
		return HaplotypeAbsent, err
	}

	log.Debugf("GETTING_HAPLOTYPE\t%s\treturning %s", sample, start)
	return start, nil
}

// CommonHaplotype combines two interval classifications: equal values are
// kept, an ABSENT side defers to the other, and any other disagreement is
// NEITHER.
func CommonHaplotype(h1, h2 Haplotype) Haplotype {
	switch {
	case h1 == h2:
		return h1
	case h1 == HaplotypeAbsent:
		return h2
	case h2 == HaplotypeAbsent:
		return h1
	}
	return HaplotypeNeither
}
