package rihap

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DictionaryFormat is the expected row layout of a reference size table.
const DictionaryFormat = "chr   size"

// Contig is one reference sequence and its length.
type Contig struct {
	Name   string
	Length uint32
}

// Dictionary is the ordered list of reference contigs. Its order defines the
// total order used to group and sort variants.
type Dictionary struct {
	contigs []Contig
	rank    map[string]int
}

// NewDictionary builds a Dictionary from contigs in the given order.
func NewDictionary(contigs []Contig) *Dictionary {
	d := &Dictionary{
		contigs: make([]Contig, 0, len(contigs)),
		rank:    make(map[string]int, len(contigs)),
	}
	for _, c := range contigs {
		if _, exists := d.rank[c.Name]; exists {
			log.Warnf("Reference dictionary lists contig %s more than once; keeping the first entry", c.Name)
			continue
		}
		d.rank[c.Name] = len(d.contigs)
		d.contigs = append(d.contigs, c)
	}
	return d
}

// ReadDictionary parses a reference size table (one "chr size" row per
// contig).
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	var contigs []Contig
	err := readTable(r, 2, DictionaryFormat, func(_ int, fields []string) error {
		size, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return fmt.Errorf("contig %s: invalid size %q: %w", fields[0], fields[1], err)
		}
		contigs = append(contigs, Contig{Name: fields[0], Length: uint32(size)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Created dictionary with %d sequences.", len(contigs))
	return NewDictionary(contigs), nil
}

// OpenDictionary reads the reference size table at path.
func OpenDictionary(path string) (*Dictionary, error) {
	var d *Dictionary
	err := readTableFile(path, func(r io.Reader) (err error) {
		d, err = ReadDictionary(r)
		return err
	})
	return d, err
}

// Contigs returns the contigs in dictionary order.
func (d *Dictionary) Contigs() []Contig {
	return d.contigs
}

// Len is the number of contigs.
func (d *Dictionary) Len() int {
	return len(d.contigs)
}

// Has reports whether the dictionary lists contig.
func (d *Dictionary) Has(contig string) bool {
	_, ok := d.rank[contig]
	return ok
}

// CompareContigs orders two contig names. Contigs absent from the dictionary
// sort after every known contig, by name. A nil Dictionary orders by name.
func (d *Dictionary) CompareContigs(a, b string) int {
	if a == b {
		return 0
	}
	if d != nil {
		ra, okA := d.rank[a]
		rb, okB := d.rank[b]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
	}
	return strings.Compare(a, b)
}

// Compare orders two locations by contig, then start, then end.
func (d *Dictionary) Compare(a, b Location) int {
	if c := d.CompareContigs(a.Contig, b.Contig); c != 0 {
		return c
	}
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.End < b.End:
		return -1
	case a.End > b.End:
		return 1
	}
	return 0
}
