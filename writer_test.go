package rihap

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVCFWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewVCFWriter(&buf, headerOf(t, vcfText([]string{"A", "B", "C"})))
	require.NoError(t, err)

	v := newVariant("chr1", 100, "", "A", []string{"G", "T"},
		gt("A", "T", "G"),
		Genotype{Sample: "C", Alleles: []string{"A", "A"}, Phased: true},
	)
	assert.Equal(t, "chr1\t100\t.\tA\tG,T\t.\t.\t.\tGT\t2/1\t./.\t0|0", w.Format(v))

	noAlt := newVariant("chr2", 7, "rs7", "C", nil, gt("B", "C", "C"))
	assert.Equal(t, "chr2\t7\trs7\tC\t.\t.\t.\t.\tGT\t./.\t0/0\t./.", w.Format(noAlt))

	require.NoError(t, w.Write(v))
	require.NoError(t, w.Write(noAlt))
	require.NoError(t, w.Close())
	assert.Equal(t, 2, w.Written)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "##fileformat=VCF"))
	assert.Contains(t, out, "#CHROM")
	assert.Len(t, dataLines(out), 2)
}

func TestVCFWriterRecord(t *testing.T) {
	w, err := NewVCFWriter(io.Discard, headerOf(t, vcfText([]string{"A", "B"})))
	require.NoError(t, err)

	rec := w.Record(newVariant("chr3", 42, "rs42", "T", []string{"C"},
		Genotype{Sample: "B", Alleles: []string{"C", "T"}, Phased: true},
	))

	assert.Equal(t, "chr3", rec.Chromosome)
	assert.Equal(t, uint64(42), rec.Pos)
	assert.Equal(t, "rs42", rec.Id_)
	assert.Equal(t, "T", rec.Reference)
	assert.Equal(t, []string{"C"}, rec.Alternate)
	assert.Equal(t, []string{"GT"}, rec.Format)
	require.Len(t, rec.Samples, 2)

	assert.Equal(t, []int{-1, -1}, rec.Samples[0].GT)
	assert.Equal(t, "./.", rec.Samples[0].Fields["GT"])
	assert.Equal(t, []int{1, 0}, rec.Samples[1].GT)
	assert.True(t, rec.Samples[1].Phased)
	assert.Equal(t, "1|0", rec.Samples[1].Fields["GT"])
}

func TestGTField(t *testing.T) {
	assert.Equal(t, "./.", gtField([]int{-1, -1}, false))
	assert.Equal(t, "0/1", gtField([]int{0, 1}, false))
	assert.Equal(t, "2|0", gtField([]int{2, 0}, true))
	assert.Equal(t, "1", gtField([]int{1}, false))
}

func TestCreateVCFCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vcf.gz")
	w, err := CreateVCF(path, headerOf(t, vcfText([]string{"S"})))
	require.NoError(t, err)
	require.NoError(t, w.Write(newVariant("chr1", 5, "rs5", "A", []string{"G"}, gt("S", "G", "G"))))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	text, err := io.ReadAll(gz)
	require.NoError(t, err)

	lines := dataLines(string(text))
	require.Len(t, lines, 1)
	assert.Equal(t, "1/1", lines[0][9])
}

func TestCreateVCFPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vcf")
	w, err := CreateVCF(path, headerOf(t, vcfText([]string{"S"})))
	require.NoError(t, err)
	require.NoError(t, w.Write(newVariant("chr1", 5, "rs5", "A", []string{"G"}, gt("S", "A", "G"))))
	require.NoError(t, w.Close())

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(text), "chr1\t5\trs5\tA\tG\t.\t.\t.\tGT\t0/1\n")
}
