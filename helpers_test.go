package rihap

import (
	"strconv"
	"strings"
	"testing"

	"github.com/brentp/vcfgo"
	"github.com/stretchr/testify/require"
)

const testVCFHeader = "##fileformat=VCFv4.2\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n"

// vcfText assembles a VCF with a GT-only FORMAT for samples.
func vcfText(samples []string, records ...string) string {
	var b strings.Builder
	b.WriteString(testVCFHeader)
	b.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT")
	for _, s := range samples {
		b.WriteString("\t")
		b.WriteString(s)
	}
	b.WriteString("\n")
	for _, r := range records {
		b.WriteString(r)
		b.WriteString("\n")
	}
	return b.String()
}

// vcfRecord formats one data line.
func vcfRecord(contig string, pos int, id, ref, alt string, gts ...string) string {
	fields := append([]string{contig, strconv.Itoa(pos), id, ref, alt, ".", ".", ".", "GT"}, gts...)
	return strings.Join(fields, "\t")
}

func buildStore(t *testing.T, text string) *Store {
	t.Helper()

	s, err := BuildIndex(strings.NewReader(text), "", nil, CompressionZStandard)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func headerOf(t *testing.T, text string) *vcfgo.Header {
	t.Helper()

	rdr, err := vcfgo.NewReader(strings.NewReader(text), true)
	require.NoError(t, err)

	return rdr.Header
}

func gt(sample string, alleles ...string) Genotype {
	return Genotype{Sample: sample, Alleles: alleles}
}

func newVariant(contig string, pos uint32, id, ref string, alts []string, gts ...Genotype) *Variant {
	v := &Variant{
		Location:  Location{Contig: contig, Start: pos, End: endOf(pos, ref)},
		ID:        id,
		Ref:       ref,
		Alts:      alts,
		Genotypes: make(map[string]Genotype),
	}
	for _, g := range gts {
		v.Genotypes[g.Sample] = g
	}
	return v
}

func testDictionary() *Dictionary {
	return NewDictionary([]Contig{{Name: "chr1", Length: 1000000}, {Name: "chr2", Length: 500000}})
}

// sliceIterator serves variants from memory, then err.
type sliceIterator struct {
	variants []*Variant
	err      error
}

func (s *sliceIterator) Read() *Variant {
	if len(s.variants) == 0 {
		return nil
	}
	v := s.variants[0]
	s.variants = s.variants[1:]
	return v
}

func (s *sliceIterator) Error() error {
	if len(s.variants) > 0 {
		return nil
	}
	return s.err
}

// dataLines returns the non-header lines of VCF text, split into fields.
func dataLines(text string) [][]string {
	var out [][]string
	for _, line := range strings.Split(text, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.Split(line, "\t"))
	}
	return out
}
