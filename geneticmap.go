package rihap

import (
	"fmt"
	"io"
	"math"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// GeneticMapFormat is the expected row layout of a marker centiMorgan table.
const GeneticMapFormat = "snpID   chr   cM_pos"

// GeneticPosition places a marker on the genetic map.
type GeneticPosition struct {
	Chromosome string
	CM         float64
}

// GeneticMap holds genetic positions keyed by marker ID. A missing ID means
// the position is unknown.
type GeneticMap map[string]GeneticPosition

// ReadGeneticMap parses "ID chr cM" rows. When an ID repeats, the last row
// wins.
func ReadGeneticMap(r io.Reader) (GeneticMap, error) {
	m := make(GeneticMap)
	err := readTable(r, 3, GeneticMapFormat, func(_ int, fields []string) error {
		cm, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("marker %s: invalid cM position %q: %w", fields[0], fields[2], err)
		}
		if _, exists := m[fields[0]]; exists {
			log.Warnf("Map already contains SNP %s. Overwriting.", fields[0])
		}
		m[fields[0]] = GeneticPosition{Chromosome: fields[1], CM: cm}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// OpenGeneticMap reads the centiMorgan table at path.
func OpenGeneticMap(path string) (GeneticMap, error) {
	var m GeneticMap
	err := readTableFile(path, func(r io.Reader) (err error) {
		m, err = ReadGeneticMap(r)
		return err
	})
	return m, err
}

// Lookup returns the genetic position of a marker ID.
func (m GeneticMap) Lookup(id string) (GeneticPosition, bool) {
	if m == nil || id == "" || id == MissingValue {
		return GeneticPosition{}, false
	}
	p, ok := m[id]
	return p, ok
}

// Distance is the absolute cM distance between two positions. Positions on
// different chromosomes have no defined distance.
func (p GeneticPosition) Distance(other GeneticPosition) (float64, bool) {
	if p.Chromosome != other.Chromosome {
		return 0, false
	}
	return math.Abs(p.CM - other.CM), true
}
