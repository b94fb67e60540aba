package rihap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const walkPageSize = 1000

// RegionQuerier returns the records overlapping a 1-based inclusive region.
type RegionQuerier interface {
	Query(contig string, start, end uint32) (*Cursor, error)
}

// Store is a VCF loaded into a SQLite index. It supports region queries and
// a sequential walk over every record in file order.
type Store struct {
	// Path is the VCF the store was built from, or the index file when the
	// store was opened with OpenIndex.
	Path     string
	DB       *sqlx.DB
	Metadata *Metadata

	samples   []string
	sampleSet map[string]bool
	buffer    []byte
}

// OpenStore opens the VCF at vcfPath as a Store. When indexPath names an
// existing index built from the same file, the index is reused; otherwise
// the VCF is indexed into indexPath, or into memory when indexPath is empty.
func OpenStore(ctx context.Context, vcfPath, indexPath string) (*Store, error) {
	meta, err := fingerprint(ctx, vcfPath)
	if err != nil {
		return nil, err
	}

	if indexPath != "" && meta != nil {
		if s := reuseIndex(indexPath, meta); s != nil {
			log.Infof("Reusing index %s for %s", indexPath, vcfPath)
			s.Path = vcfPath
			return s, nil
		}
	}

	in, err := openInput(ctx, vcfPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	log.Infof("Indexing %s", vcfPath)
	s, err := BuildIndex(in, indexPath, meta, CompressionZStandard)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", vcfPath, err))
	}
	s.Path = vcfPath

	return s, nil
}

func reuseIndex(indexPath string, meta *Metadata) *Store {
	if _, err := os.Stat(indexPath); err != nil {
		return nil
	}

	s, err := OpenIndex(indexPath)
	if err != nil {
		log.Warnf("Ignoring unreadable index %s: %v", indexPath, err)
		return nil
	}

	if !s.Metadata.Matches(meta) {
		log.Infof("Index %s was built from a different version of %s; rebuilding", indexPath, meta.Filename)
		s.Close()
		return nil
	}

	return s
}

// OpenIndex opens an index file written by BuildIndex.
func OpenIndex(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	s, err := newStore(db, path)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func newStore(db *sqlx.DB, path string) (*Store, error) {
	s := &Store{
		Path:      path,
		DB:        db,
		Metadata:  &Metadata{},
		sampleSet: make(map[string]bool),
	}

	if err := db.Get(s.Metadata, "SELECT * FROM Metadata LIMIT 1"); err != nil {
		return nil, pfx.Err(err)
	}

	samples, err := ReadSamples(db)
	if err != nil {
		return nil, err
	}
	for _, sample := range samples {
		s.samples = append(s.samples, sample.SampleID)
		s.sampleSet[sample.SampleID] = true
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Samples returns the sample names in VCF header order.
func (s *Store) Samples() []string {
	return s.samples
}

// HasSample reports whether the VCF has a column for sample.
func (s *Store) HasSample(sample string) bool {
	return s.sampleSet[sample]
}

// Len returns the number of indexed variants.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.DB.Get(&n, "SELECT COUNT(*) FROM Variant"); err != nil {
		return 0, pfx.Err(err)
	}
	return n, nil
}

// Query returns a Cursor over every record overlapping [start, end] on
// contig, in file order. The caller must Close the cursor.
func (s *Store) Query(contig string, start, end uint32) (*Cursor, error) {
	log.Debugf("QUERYING\t%s\t%s:%d-%d", s.Path, contig, start, end)

	// Records starting more than MaxSpan before start cannot reach it; the
	// lower bound lets the region index narrow the scan.
	lower := int64(start) - int64(s.Metadata.MaxSpan)

	rows, err := s.DB.Queryx("SELECT "+variantColumns+" FROM Variant WHERE chromosome = ? AND position >= ? AND position <= ? AND end_position >= ? ORDER BY variant_index", contig, lower, end, start)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Cursor{store: s, rows: rows}, nil
}

// Walk returns a Walker over every record in file order.
func (s *Store) Walk() *Walker {
	return &Walker{store: s, pageSize: walkPageSize}
}

// decode materializes a Variant from an index row.
func (s *Store) decode(row *variantRow) (*Variant, error) {
	v := &Variant{
		Location: Location{
			Contig: row.Chromosome,
			Start:  row.Position,
			End:    row.End,
		},
		ID:        row.RSID,
		Ref:       row.Ref,
		Alts:      splitAlts(row.Alt),
		Genotypes: make(map[string]Genotype, len(s.samples)),
	}

	if len(s.samples) == 0 {
		return v, nil
	}

	var err error
	s.buffer, err = s.Metadata.Compression.decompress(s.buffer, row.Genotypes)
	if err != nil {
		return nil, err
	}

	fields := strings.Split(string(s.buffer), "\t")
	if len(fields) != len(s.samples) {
		return nil, fmt.Errorf("%s: %d genotypes for %d samples", v.Location, len(fields), len(s.samples))
	}

	alleles := v.Alleles()
	for i, sample := range s.samples {
		g, err := decodeGT(sample, fields[i], alleles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Location, err)
		}
		v.Genotypes[sample] = g
	}

	return v, nil
}
