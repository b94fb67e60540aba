package rihap

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/brentp/vcfgo"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
)

// Sink receives the records produced by a run.
type Sink interface {
	Write(v *Variant) error
}

// VCFWriter writes variants as VCF records under a fixed header. Samples
// absent from a record are written as ./.
type VCFWriter struct {
	Written int

	w       *bufio.Writer
	vcf     *vcfgo.Writer
	header  *vcfgo.Header
	samples []string
	closers []io.Closer
}

// NewVCFWriter writes hdr to w and returns a writer for records with the
// header's samples.
func NewVCFWriter(w io.Writer, hdr *vcfgo.Header) (*VCFWriter, error) {
	bw := bufio.NewWriter(w)

	if hdr.SampleFormats == nil {
		hdr.SampleFormats = make(map[string]*vcfgo.SampleFormat)
	}
	if _, ok := hdr.SampleFormats["GT"]; !ok {
		hdr.SampleFormats["GT"] = &vcfgo.SampleFormat{
			Id:          "GT",
			Description: "Genotype",
			Number:      "1",
			Type:        "String",
		}
	}

	vw, err := vcfgo.NewWriter(bw, hdr)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &VCFWriter{w: bw, vcf: vw, header: hdr, samples: hdr.SampleNames}, nil
}

// CreateVCF creates path and writes hdr to it. Paths ending in .gz are BGZF
// compressed, and "-" writes to stdout.
func CreateVCF(path string, hdr *vcfgo.Header) (*VCFWriter, error) {
	var out io.Writer = os.Stdout
	var closers []io.Closer

	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		out = f
		closers = append(closers, f)

		if strings.HasSuffix(path, ".gz") {
			bg, err := bgzf.NewWriterLevel(f, gzip.DefaultCompression, 1)
			if err != nil {
				f.Close()
				return nil, pfx.Err(err)
			}
			out = bg
			closers = append(closers, bg)
		}
	}

	w, err := NewVCFWriter(out, hdr)
	if err != nil {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
		return nil, err
	}
	w.closers = closers

	return w, nil
}

// Record converts v into a vcfgo variant carrying one GT sample per header
// sample.
func (w *VCFWriter) Record(v *Variant) *vcfgo.Variant {
	rec := &vcfgo.Variant{
		Chromosome: v.Contig,
		Pos:        uint64(v.Start),
		Id_:        v.ID,
		Reference:  v.Ref,
		Alternate:  v.Alts,
		Quality:    vcfgo.MISSING_VAL,
		Filter:     MissingValue,
		Info_:      vcfgo.NewInfoByte([]byte(MissingValue), w.header),
		Format:     []string{"GT"},
		Samples:    make([]*vcfgo.SampleGenotype, len(w.samples)),
		Header:     w.header,
	}
	if rec.Id_ == "" {
		rec.Id_ = MissingValue
	}
	if len(rec.Alternate) == 0 {
		rec.Alternate = []string{MissingValue}
	}

	alleles := v.Alleles()
	for i, sample := range w.samples {
		sg := vcfgo.NewSampleGenotype()
		g, ok := v.Genotypes[sample]
		if ok {
			sg.GT = g.alleleIndices(alleles)
			sg.Phased = g.Phased
		} else {
			sg.GT = []int{-1, -1}
		}
		sg.Fields["GT"] = gtField(sg.GT, sg.Phased)
		rec.Samples[i] = sg
	}

	return rec
}

// Format renders v as one VCF data line without the trailing newline.
func (w *VCFWriter) Format(v *Variant) string {
	return w.Record(v).String()
}

// Write writes v immediately. Output is buffered, so write errors are
// reported by Flush and Close.
func (w *VCFWriter) Write(v *Variant) error {
	w.writeRecord(w.Record(v))
	return nil
}

func (w *VCFWriter) writeRecord(rec *vcfgo.Variant) {
	w.vcf.WriteVariant(rec)
	w.Written++
}

// gtField renders allele indices as a GT field, with -1 as missing.
func gtField(gt []int, phased bool) string {
	sep := "/"
	if phased {
		sep = "|"
	}
	parts := make([]string, len(gt))
	for i, a := range gt {
		if a < 0 {
			parts[i] = MissingValue
			continue
		}
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, sep)
}

// Flush writes any buffered lines to the underlying writer.
func (w *VCFWriter) Flush() error {
	if err := w.w.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Close flushes buffered output and closes any file CreateVCF opened.
func (w *VCFWriter) Close() error {
	err := w.w.Flush()
	for i := len(w.closers) - 1; i >= 0; i-- {
		if cerr := w.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	w.closers = nil
	if err != nil {
		return pfx.Err(err)
	}
	return nil
}
