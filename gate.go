package rihap

import (
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultMaxBPDistance is the largest gap, in bp between starts, that is
	// interpolated.
	DefaultMaxBPDistance uint32 = 1000000
	// DefaultMaxCMDistance is the genetic distance threshold in cM.
	DefaultMaxCMDistance = 1.0
)

// GateDecision is the outcome of gating one pair of consecutive markers.
type GateDecision uint8

const (
	GateAllow GateDecision = iota
	GateCrossContig
	GateTooFarBP
	GateWithinCM
)

func (d GateDecision) String() string {
	switch d {
	case GateAllow:
		return "allow"
	case GateCrossContig:
		return "cross-contig"
	case GateTooFarBP:
		return "bp-distance"
	case GateWithinCM:
		return "cm-distance"

	default:
		return "Illegal selection"
	}
}

// Gate decides whether two consecutive population markers are close enough
// to interpolate parental genotypes between them.
type Gate struct {
	MaxBPDistance uint32
	MaxCMDistance float64
	// Map is optional. Markers without a position skip the genetic check.
	Map GeneticMap
}

// NewGate returns a Gate with the given thresholds.
func NewGate(maxBP uint32, maxCM float64, m GeneticMap) *Gate {
	return &Gate{MaxBPDistance: maxBP, MaxCMDistance: maxCM, Map: m}
}

// Allow reports whether interpolation between a and b should be attempted.
func (g *Gate) Allow(a, b *Variant) bool {
	return g.Decide(a, b) == GateAllow
}

// Decide gates a pair of markers that are consecutive in the population
// store.
//
// The genetic-distance check rejects pairs that are WITHIN MaxCMDistance of
// each other, not pairs that are further apart.
func (g *Gate) Decide(a, b *Variant) GateDecision {
	if a.Contig != b.Contig {
		log.Warnf("Moving from %s to %s", a.Contig, b.Contig)
		return GateCrossContig
	}

	if int64(b.Start)-int64(a.Start) > int64(g.MaxBPDistance) {
		log.Debugf("Markers not within %d bp of each other. Skipping. %s  %s", g.MaxBPDistance, a.ID, b.ID)
		return GateTooFarBP
	}

	p1, ok1 := g.Map.Lookup(a.ID)
	p2, ok2 := g.Map.Lookup(b.ID)
	if !ok1 || !ok2 {
		return GateAllow
	}

	dist, sameChrom := p1.Distance(p2)
	if !sameChrom {
		log.Warnf("Markers %s (%s) and %s (%s) are on different genetic map chromosomes; ignoring cM distance", a.ID, p1.Chromosome, b.ID, p2.Chromosome)
		return GateAllow
	}

	if dist <= g.MaxCMDistance {
		log.Debugf("Markers within %g cM of each other. Skipping. %s  %s", g.MaxCMDistance, a.ID, b.ID)
		return GateWithinCM
	}

	return GateAllow
}
