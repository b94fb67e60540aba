package rihap

import (
	"fmt"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/carbocation/pfx"
	"golang.org/x/exp/slices"
)

// DefaultSortWindow is how far, in bp, records may arrive behind the most
// advanced record of their contig.
const DefaultSortWindow uint32 = 50000000

// SortingWriter buffers records that arrive slightly out of order and
// writes them to a VCFWriter in dictionary order. A record is written once
// the newest start on its contig is more than Window bp past it; all
// buffered records are written when the contig changes. Identical lines are
// written once.
type SortingWriter struct {
	Window uint32

	out      *VCFWriter
	dict     *Dictionary
	buffer   []bufferedRecord
	contig   string
	maxStart uint32
	minStart uint32

	// frontier is the start of the last record written on the current
	// contig.
	frontier uint32
	flushed  bool
	lastLine string
}

type bufferedRecord struct {
	v    *Variant
	rec  *vcfgo.Variant
	line string
}

// NewSortingWriter wraps out. A zero window selects DefaultSortWindow.
func NewSortingWriter(out *VCFWriter, dict *Dictionary, window uint32) *SortingWriter {
	if window == 0 {
		window = DefaultSortWindow
	}
	return &SortingWriter{Window: window, out: out, dict: dict}
}

// Write buffers v, writing any records that have fallen out of the window.
func (s *SortingWriter) Write(v *Variant) error {
	if v.Contig != s.contig {
		if err := s.flush(true); err != nil {
			return err
		}
		s.contig = v.Contig
		s.maxStart = 0
		s.frontier = 0
		s.flushed = false
	}

	if s.flushed && v.Start < s.frontier {
		return pfx.Err(fmt.Errorf("record at %s arrived after records through %s:%d were written; the %d bp sort window is too small", v.Location, s.contig, s.frontier, s.Window))
	}

	if len(s.buffer) == 0 || v.Start < s.minStart {
		s.minStart = v.Start
	}
	if v.Start > s.maxStart {
		s.maxStart = v.Start
	}
	rec := s.out.Record(v)
	s.buffer = append(s.buffer, bufferedRecord{v: v, rec: rec, line: rec.String()})

	return s.flush(false)
}

// flush writes buffered records behind the window, or every buffered record
// when all is set.
func (s *SortingWriter) flush(all bool) error {
	if len(s.buffer) == 0 {
		return nil
	}

	var threshold uint32
	if !all {
		if s.maxStart <= s.Window {
			return nil
		}
		threshold = s.maxStart - s.Window
		if s.minStart >= threshold {
			return nil
		}
	}

	slices.SortStableFunc(s.buffer, func(a, b bufferedRecord) int {
		if c := s.dict.Compare(a.v.Location, b.v.Location); c != 0 {
			return c
		}
		return strings.Compare(a.line, b.line)
	})

	n := len(s.buffer)
	if !all {
		n = 0
		for n < len(s.buffer) && s.buffer[n].v.Start < threshold {
			n++
		}
	}

	for _, rec := range s.buffer[:n] {
		if s.flushed && rec.line == s.lastLine {
			continue
		}
		s.out.writeRecord(rec.rec)
		s.lastLine = rec.line
		s.flushed = true
		s.frontier = rec.v.Start
	}

	s.buffer = append(s.buffer[:0], s.buffer[n:]...)
	if len(s.buffer) > 0 {
		s.minStart = s.buffer[0].v.Start
	}

	return nil
}

// Close writes every buffered record and closes the underlying writer.
func (s *SortingWriter) Close() error {
	if err := s.flush(true); err != nil {
		s.out.Close()
		return err
	}
	return s.out.Close()
}
