package rihap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenotypeIsNoCall(t *testing.T) {
	assert.True(t, gt("S").IsNoCall())
	assert.True(t, gt("S", ".").IsNoCall())
	assert.True(t, gt("S", ".", ".").IsNoCall())
	assert.False(t, gt("S", "A", ".").IsNoCall())
	assert.False(t, gt("S", "A", "A").IsNoCall())
}

func TestSameGenotypeIgnoresOrder(t *testing.T) {
	assert.True(t, gt("S", "A", "G").SameGenotype(gt("T", "G", "A")))
	assert.True(t, gt("S", "A", "A").SameGenotype(Genotype{Sample: "T", Alleles: []string{"A", "A"}, Phased: true}))
	assert.False(t, gt("S", "A", "A").SameGenotype(gt("T", "A", "G")))
	assert.False(t, gt("S", "A").SameGenotype(gt("T", "A", "A")))
}

func TestSameGenotypeDoesNotReorderAlleles(t *testing.T) {
	g := gt("S", "G", "A")
	g.SameGenotype(gt("T", "A", "G"))
	assert.Equal(t, []string{"G", "A"}, g.Alleles)
}

func TestHomozygosity(t *testing.T) {
	assert.True(t, gt("S", "A", "A").IsHomRef("A"))
	assert.False(t, gt("S", "A", "G").IsHomRef("A"))
	assert.False(t, gt("S", ".", ".").IsHomRef("A"))

	assert.True(t, gt("S", "G", "G").IsHomAlt("A"))
	assert.True(t, gt("S", "T").IsHomAlt("A"))
	assert.False(t, gt("S", "G", "T").IsHomAlt("A"))
	assert.False(t, gt("S", "A", "A").IsHomAlt("A"))
	assert.False(t, gt("S", ".", ".").IsHomAlt("A"))
}

func TestDecodeGT(t *testing.T) {
	alleles := []string{"A", "G", "T"}

	g, err := decodeGT("S", "0/1", alleles)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "G"}, g.Alleles)
	assert.False(t, g.Phased)

	g, err = decodeGT("S", "2|2", alleles)
	require.NoError(t, err)
	assert.Equal(t, []string{"T", "T"}, g.Alleles)
	assert.True(t, g.Phased)

	g, err = decodeGT("S", "./.", alleles)
	require.NoError(t, err)
	assert.True(t, g.IsNoCall())

	g, err = decodeGT("S", ".", alleles)
	require.NoError(t, err)
	assert.Empty(t, g.Alleles)

	_, err = decodeGT("S", "3/0", alleles)
	assert.Error(t, err)

	_, err = decodeGT("S", "x/0", alleles)
	assert.Error(t, err)
}

func TestAlleleIndices(t *testing.T) {
	alleles := []string{"A", "G"}

	assert.Equal(t, []int{-1, -1}, gt("S").alleleIndices(alleles))
	assert.Equal(t, []int{0, 1}, gt("S", "A", "G").alleleIndices(alleles))
	assert.Equal(t, []int{1, 0}, Genotype{Sample: "S", Alleles: []string{"G", "A"}, Phased: true}.alleleIndices(alleles))
	assert.Equal(t, []int{-1, 1}, gt("S", ".", "G").alleleIndices(alleles))
	assert.Equal(t, []int{-1, -1}, gt("S", "C", "C").alleleIndices(alleles))
}
