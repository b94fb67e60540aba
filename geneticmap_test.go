package rihap

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGeneticMap(t *testing.T) {
	m, err := ReadGeneticMap(strings.NewReader("rs1\t1\t0.5\nrs2 1 2.25\n# comment\nrs3\t2\t10\n"))
	require.NoError(t, err)
	require.Len(t, m, 3)

	p, ok := m.Lookup("rs2")
	require.True(t, ok)
	assert.Equal(t, GeneticPosition{Chromosome: "1", CM: 2.25}, p)

	_, ok = m.Lookup("rs4")
	assert.False(t, ok)
	_, ok = m.Lookup(".")
	assert.False(t, ok)
}

func TestReadGeneticMapDuplicateLastWins(t *testing.T) {
	m, err := ReadGeneticMap(strings.NewReader("rs1\t1\t0.5\nrs1\t1\t0.75\n"))
	require.NoError(t, err)

	p, ok := m.Lookup("rs1")
	require.True(t, ok)
	assert.Equal(t, 0.75, p.CM)
}

func TestReadGeneticMapMalformed(t *testing.T) {
	_, err := ReadGeneticMap(strings.NewReader("rs1\t1\n"))
	var tfe *TableFormatError
	require.True(t, errors.As(err, &tfe))
	assert.Contains(t, err.Error(), GeneticMapFormat)

	_, err = ReadGeneticMap(strings.NewReader("rs1\t1\tfar\n"))
	assert.Error(t, err)
}

func TestGeneticDistance(t *testing.T) {
	a := GeneticPosition{Chromosome: "1", CM: 3.5}
	b := GeneticPosition{Chromosome: "1", CM: 1.0}

	d, ok := a.Distance(b)
	require.True(t, ok)
	assert.InDelta(t, 2.5, d, 1e-9)

	_, ok = a.Distance(GeneticPosition{Chromosome: "2", CM: 3.5})
	assert.False(t, ok)

	var none GeneticMap
	_, ok = none.Lookup("rs1")
	assert.False(t, ok)
}
