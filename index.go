package rihap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brentp/vcfgo"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// ErrUnsorted is returned when a VCF is not sorted by position within each
// contig, or when the records of one contig are not contiguous.
var ErrUnsorted = errors.New("VCF records are not sorted")

const indexSchema = `
CREATE TABLE Metadata (
	filename TEXT NOT NULL,
	file_size INT NOT NULL,
	last_write_time INT NOT NULL,
	first_1000_bytes BLOB,
	index_creation_time INT NOT NULL,
	compression INT NOT NULL,
	max_span INT NOT NULL
);
CREATE TABLE Sample (
	sample_index INT NOT NULL PRIMARY KEY,
	sample_id TEXT NOT NULL
);
CREATE TABLE Variant (
	variant_index INT NOT NULL PRIMARY KEY,
	chromosome TEXT NOT NULL,
	position INT NOT NULL,
	end_position INT NOT NULL,
	rsid TEXT NOT NULL,
	ref TEXT NOT NULL,
	alt TEXT NOT NULL,
	genotypes BLOB NOT NULL
);
`

const indexRegion = `CREATE INDEX variant_region ON Variant (chromosome, position)`

// The index is written once and then only read, so durability is traded for
// load speed.
const indexPragmas = `PRAGMA journal_mode = OFF; PRAGMA synchronous = OFF; PRAGMA auto_vacuum = NONE;`

// openDB connects to the SQLite index at path. An empty path opens a private
// in-memory database.
func openDB(path string) (*sqlx.DB, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html . It seems that sqlite3 permitted
	// URI filenames without the file: prefix, but that is not standard.
	dsn := "file::memory:"
	if path != "" {
		dsn = path
		if !strings.HasPrefix(dsn, "file:") {
			dsn = "file:" + dsn
		}
	}

	db, err := sqlx.Connect(whichSQLiteDriver, dsn)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// One connection per store: an in-memory database only exists on the
	// connection that created it, and a Cursor must be closed before the next
	// query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(indexPragmas); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return db, nil
}

// BuildIndex reads a VCF from r and loads it into a new SQLite index at
// indexPath, replacing any file already there. An empty indexPath builds the
// index in memory. meta describes the source file and may be nil.
func BuildIndex(r io.Reader, indexPath string, meta *Metadata, compression Compression) (*Store, error) {
	if indexPath != "" {
		if err := os.Remove(indexPath); err != nil && !os.IsNotExist(err) {
			return nil, pfx.Err(err)
		}
	}

	db, err := openDB(indexPath)
	if err != nil {
		return nil, err
	}

	if meta == nil {
		meta = &Metadata{}
	}
	meta.Compression = compression
	meta.IndexCreationTime = Time(time.Now())

	if err := loadVCF(db, r, meta); err != nil {
		db.Close()
		return nil, err
	}

	s, err := newStore(db, indexPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func loadVCF(db *sqlx.DB, r io.Reader, meta *Metadata) error {
	rdr, err := vcfgo.NewReader(r, true)
	if err != nil {
		return pfx.Err(err)
	}

	if _, err := db.Exec(indexSchema); err != nil {
		return pfx.Err(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	for i, name := range rdr.Header.SampleNames {
		if _, err := tx.Exec("INSERT INTO Sample (sample_index, sample_id) VALUES (?, ?)", i, name); err != nil {
			return pfx.Err(err)
		}
	}

	stmt, err := tx.Preparex(`INSERT INTO Variant (variant_index, chromosome, position, end_position, rsid, ref, alt, genotypes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()

	order := newOrderCheck()
	gts := make([]string, len(rdr.Header.SampleNames))
	nVariants := 0
	for v := rdr.Read(); v != nil; v = rdr.Read() {
		if err := rdr.Error(); err != nil {
			log.Warnf("Parsing %s:%d: %v", v.Chromosome, v.Pos, err)
			rdr.Clear()
		}
		if err := v.Header.ParseSamples(v); err != nil {
			log.Warnf("Sample parsing error at %s:%d: %v", v.Chromosome, v.Pos, err)
		}

		pos := uint32(v.Pos)
		if err := order.check(v.Chromosome, pos); err != nil {
			return pfx.Err(err)
		}

		end := endOf(pos, v.Reference)
		if span := end - pos; span > meta.MaxSpan {
			meta.MaxSpan = span
		}

		for i := range gts {
			gts[i] = MissingValue
			if i < len(v.Samples) {
				gts[i] = gtString(v.Samples[i])
			}
		}
		block, err := meta.Compression.compress([]byte(strings.Join(gts, "\t")))
		if err != nil {
			return pfx.Err(err)
		}

		nVariants++
		if _, err := stmt.Exec(nVariants, v.Chromosome, pos, end, v.Id(), v.Reference, altString(v.Alternate), block); err != nil {
			return pfx.Err(err)
		}
	}
	if err := rdr.Error(); err != nil {
		log.Warnf("Parsing the final record: %v", err)
	}

	if _, err := tx.NamedExec(`INSERT INTO Metadata (filename, file_size, last_write_time, first_1000_bytes, index_creation_time, compression, max_span)
	VALUES (:filename, :file_size, :last_write_time, :first_1000_bytes, :index_creation_time, :compression, :max_span)`, meta); err != nil {
		return pfx.Err(err)
	}

	if _, err := tx.Exec(indexRegion); err != nil {
		return pfx.Err(err)
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	log.Debugf("Indexed %d variants and %d samples from %s", nVariants, len(rdr.Header.SampleNames), meta.Filename)

	return nil
}

// orderCheck enforces the order the population walk relies on: positions
// never decrease within a contig, and a contig is never revisited.
type orderCheck struct {
	contig string
	last   uint32
	seen   map[string]bool
}

func newOrderCheck() *orderCheck {
	return &orderCheck{seen: make(map[string]bool)}
}

func (o *orderCheck) check(contig string, pos uint32) error {
	if contig != o.contig {
		if o.seen[contig] {
			return fmt.Errorf("%w: contig %s reappears after %s", ErrUnsorted, contig, o.contig)
		}
		o.seen[contig] = true
		o.contig = contig
		o.last = 0
	}

	if pos < o.last {
		return fmt.Errorf("%w: %s:%d follows %s:%d", ErrUnsorted, contig, pos, contig, o.last)
	}
	o.last = pos

	return nil
}

// gtString renders a parsed sample back into its GT field.
func gtString(s *vcfgo.SampleGenotype) string {
	if s == nil || len(s.GT) == 0 {
		return MissingValue
	}

	sep := "/"
	if s.Phased {
		sep = "|"
	}

	parts := make([]string, len(s.GT))
	for i, a := range s.GT {
		if a < 0 {
			parts[i] = MissingValue
			continue
		}
		parts[i] = strconv.Itoa(a)
	}

	return strings.Join(parts, sep)
}

func altString(alts []string) string {
	var kept []string
	for _, a := range alts {
		if a != "" && a != MissingValue {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return MissingValue
	}
	return strings.Join(kept, ",")
}

func splitAlts(alt string) []string {
	if alt == "" || alt == MissingValue {
		return nil
	}
	return strings.Split(alt, ",")
}
