package rihap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func marker(contig string, pos uint32, id string) *Variant {
	return newVariant(contig, pos, id, "A", []string{"G"})
}

func TestGateRejectsCrossContig(t *testing.T) {
	g := NewGate(DefaultMaxBPDistance, DefaultMaxCMDistance, nil)

	for _, pos := range []uint32{1, 100, 5000000} {
		assert.Equal(t, GateCrossContig, g.Decide(marker("chr1", 100, "rs1"), marker("chr2", pos, "rs2")))
		assert.False(t, g.Allow(marker("chr1", 100, "rs1"), marker("chr2", pos, "rs2")))
	}
}

func TestGateBPDistance(t *testing.T) {
	g := NewGate(1000, DefaultMaxCMDistance, nil)

	assert.Equal(t, GateAllow, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 1100, "rs2")))
	assert.Equal(t, GateTooFarBP, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 1101, "rs2")))
	assert.Equal(t, GateAllow, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 100, "rs2")))
}

func TestGateGeneticDistance(t *testing.T) {
	m := GeneticMap{
		"rs1": {Chromosome: "1", CM: 10},
		"rs2": {Chromosome: "1", CM: 10.5},
		"rs3": {Chromosome: "1", CM: 12},
		"rs4": {Chromosome: "2", CM: 10.2},
	}
	g := NewGate(DefaultMaxBPDistance, DefaultMaxCMDistance, m)

	// Markers within the cM threshold are skipped
	assert.Equal(t, GateWithinCM, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 200, "rs2")))
	assert.Equal(t, GateAllow, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 200, "rs3")))

	// Unknown positions and mismatched map chromosomes have no opinion
	assert.Equal(t, GateAllow, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 200, "rs9")))
	assert.Equal(t, GateAllow, g.Decide(marker("chr1", 100, "."), marker("chr1", 200, "rs2")))
	assert.Equal(t, GateAllow, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 200, "rs4")))

	// The bp check comes first
	assert.Equal(t, GateTooFarBP, g.Decide(marker("chr1", 100, "rs1"), marker("chr1", 2000000, "rs2")))
}

func TestGateDecisionString(t *testing.T) {
	assert.Equal(t, "allow", GateAllow.String())
	assert.Equal(t, "cm-distance", GateWithinCM.String())
	assert.Equal(t, "Illegal selection", GateDecision(9).String())
}
