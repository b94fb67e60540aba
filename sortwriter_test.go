package rihap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSortingWriter(t *testing.T, window uint32) (*SortingWriter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewVCFWriter(&buf, headerOf(t, vcfText([]string{"S"})))
	require.NoError(t, err)

	return NewSortingWriter(w, testDictionary(), window), &buf
}

func siteAt(contig string, pos uint32) *Variant {
	return newVariant(contig, pos, ".", "A", []string{"G"}, gt("S", "A", "G"))
}

func writtenPositions(buf *bytes.Buffer) []string {
	var out []string
	for _, fields := range dataLines(buf.String()) {
		out = append(out, fields[0]+":"+fields[1])
	}
	return out
}

func TestSortingWriterReordersWithinWindow(t *testing.T) {
	s, buf := newTestSortingWriter(t, 100)

	require.NoError(t, s.Write(siteAt("chr1", 500)))
	require.NoError(t, s.Write(siteAt("chr1", 450)))
	require.NoError(t, s.Write(siteAt("chr1", 520)))
	require.NoError(t, s.out.Flush())
	assert.Empty(t, dataLines(buf.String()), "nothing has left the window yet")

	// 700 pushes everything before 600 out of the window
	require.NoError(t, s.Write(siteAt("chr1", 700)))
	require.NoError(t, s.Write(siteAt("chr1", 650)))
	require.NoError(t, s.Close())

	assert.Equal(t, []string{"chr1:450", "chr1:500", "chr1:520", "chr1:650", "chr1:700"}, writtenPositions(buf))
}

func TestSortingWriterRejectsRecordBehindFrontier(t *testing.T) {
	s, _ := newTestSortingWriter(t, 100)

	require.NoError(t, s.Write(siteAt("chr1", 500)))
	require.NoError(t, s.Write(siteAt("chr1", 700)))

	// 500 has been written
	assert.NoError(t, s.Write(siteAt("chr1", 500)))
	assert.Error(t, s.Write(siteAt("chr1", 499)))
}

func TestSortingWriterDeduplicates(t *testing.T) {
	s, buf := newTestSortingWriter(t, 100)

	require.NoError(t, s.Write(siteAt("chr1", 100)))
	require.NoError(t, s.Write(siteAt("chr1", 100)))
	other := siteAt("chr1", 100)
	other.Genotypes["S"] = gt("S", "G", "G")
	require.NoError(t, s.Write(other))
	require.NoError(t, s.Close())

	lines := dataLines(buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "0/1", lines[0][9])
	assert.Equal(t, "1/1", lines[1][9])
}

func TestSortingWriterFlushesOnContigChange(t *testing.T) {
	s, buf := newTestSortingWriter(t, 1000000)

	require.NoError(t, s.Write(siteAt("chr1", 900)))
	require.NoError(t, s.Write(siteAt("chr1", 100)))
	require.NoError(t, s.Write(siteAt("chr2", 50)))
	require.NoError(t, s.out.Flush())
	assert.Equal(t, []string{"chr1:100", "chr1:900"}, writtenPositions(buf))

	// A new contig starts a new frontier
	require.NoError(t, s.Write(siteAt("chr2", 10)))
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"chr1:100", "chr1:900", "chr2:10", "chr2:50"}, writtenPositions(buf))
}

func TestSortingWriterDefaultWindow(t *testing.T) {
	s, _ := newTestSortingWriter(t, 0)
	assert.Equal(t, DefaultSortWindow, s.Window)
}
