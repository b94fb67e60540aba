package rihap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDistinctLocationsIsNoOp(t *testing.T) {
	d := testDictionary()
	a := newVariant("chr2", 50, "rs3", "C", []string{"T"}, gt("S", "C", "T"))
	b := newVariant("chr1", 200, "rs2", "A", []string{"G"}, gt("S", "G", "G"))
	c := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "A"))

	result := Merge([]*Variant{a, b, c}, d)
	merged, ok := result.(Merged)
	require.True(t, ok)

	assert.Equal(t, []*Variant{c, b, a}, merged.Records)
}

func TestMergeSameGenotypeKeptOnce(t *testing.T) {
	a := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "G"), gt("T", "A", "A"))
	b := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "G", "A"))

	result := Merge([]*Variant{a, b}, testDictionary())
	require.IsType(t, Merged{}, result)

	records := result.MergedRecords()
	require.Len(t, records, 1)
	g, ok := records[0].Genotype("S")
	require.True(t, ok)
	assert.True(t, g.SameGenotype(gt("S", "A", "G")))
	assert.Len(t, records[0].Genotypes, 2)
}

func TestMergeConflictDropsSample(t *testing.T) {
	a := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "A"), gt("T", "G", "G"))
	b := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "G", "G"), gt("T", "G", "G"))
	c := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "A"))

	result := Merge([]*Variant{a, b, c}, testDictionary())
	conflicted, ok := result.(Conflicted)
	require.True(t, ok)

	require.Len(t, conflicted.Records, 1)
	_, hasS := conflicted.Records[0].Genotype("S")
	assert.False(t, hasS, "a conflicted sample stays excluded even when a later call agrees")
	_, hasT := conflicted.Records[0].Genotype("T")
	assert.True(t, hasT)

	assert.Equal(t, []Conflict{{Sample: "S", Location: a.Location}}, conflicted.Conflicts)
}

func TestMergeIDIsLastNonMissing(t *testing.T) {
	d := testDictionary()
	mk := func(id string) *Variant {
		return newVariant("chr1", 100, id, "A", []string{"G"})
	}

	records := Merge([]*Variant{mk("rs1"), mk("."), mk("rs3")}, d).MergedRecords()
	assert.Equal(t, "rs3", records[0].ID)

	records = Merge([]*Variant{mk("rs1"), mk("."), mk("")}, d).MergedRecords()
	assert.Equal(t, "rs1", records[0].ID)
}

func TestMergeUnionsAlleles(t *testing.T) {
	a := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "G"))
	b := newVariant("chr1", 100, "rs1", "A", []string{"T"}, gt("T", "T", "T"))
	c := newVariant("chr1", 100, "rs1", "A", []string{"G", "C"}, gt("U", "C", "G"))

	records := Merge([]*Variant{a, b, c}, testDictionary()).MergedRecords()
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Ref)
	assert.Equal(t, []string{"G", "T", "C"}, records[0].Alts)
	assert.Len(t, records[0].Genotypes, 3)
}

func TestMergeIgnoresNoCalls(t *testing.T) {
	a := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", ".", "."))
	b := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "G"))
	c := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S"))

	result := Merge([]*Variant{a, b, c}, testDictionary())
	require.IsType(t, Merged{}, result)

	g, ok := result.MergedRecords()[0].Genotype("S")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "G"}, g.Alleles)
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	a := newVariant("chr1", 100, "rs1", "A", []string{"G"}, gt("S", "A", "A"))
	b := newVariant("chr1", 100, "rs2", "A", []string{"T"}, gt("S", "T", "T"))

	Merge([]*Variant{a, b}, testDictionary())

	assert.Equal(t, "rs1", a.ID)
	assert.Equal(t, []string{"G"}, a.Alts)
	assert.Len(t, a.Genotypes, 1)
	assert.Len(t, b.Genotypes, 1)
}
