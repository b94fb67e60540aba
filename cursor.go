package rihap

import (
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// variantRow conforms to the rows of the SQLite table "Variant" and can be
// parsed with sqlx.
type variantRow struct {
	Index      int64  `db:"variant_index"`
	Chromosome string `db:"chromosome"`
	Position   uint32 `db:"position"`
	End        uint32 `db:"end_position"`
	RSID       string `db:"rsid"`
	Ref        string `db:"ref"`
	Alt        string `db:"alt"`
	Genotypes  []byte `db:"genotypes"`
}

const variantColumns = `variant_index, chromosome, position, end_position, rsid, ref, alt, genotypes`

// Cursor iterates over the result of a region query. It holds the store's
// only connection, so it must be closed before the store is queried again.
type Cursor struct {
	VariantsSeen int

	store *Store
	rows  *sqlx.Rows
	row   variantRow
	err   error
}

// Read returns the next variant, or nil when the query is exhausted or an
// error occurred. Check Error after Read returns nil.
func (c *Cursor) Read() *Variant {
	if c.err != nil || c.rows == nil {
		return nil
	}

	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = pfx.Err(err)
		}
		c.Close()
		return nil
	}

	if err := c.rows.StructScan(&c.row); err != nil {
		c.err = pfx.Err(err)
		c.Close()
		return nil
	}

	v, err := c.store.decode(&c.row)
	if err != nil {
		c.err = pfx.Err(err)
		c.Close()
		return nil
	}

	c.VariantsSeen++
	return v
}

// Error returns the first error encountered by Read.
func (c *Cursor) Error() error {
	return c.err
}

// Close releases the connection. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}

// Walker reads every variant of a store in file order. It fetches one page
// of rows at a time, so region queries may be issued between calls to Read.
type Walker struct {
	VariantsSeen int

	store    *Store
	pageSize int
	page     []variantRow
	last     int64
	done     bool
	err      error
}

// Read returns the next variant, or nil at the end of the store or on error.
func (w *Walker) Read() *Variant {
	if w.err != nil {
		return nil
	}

	if len(w.page) == 0 {
		if w.done {
			return nil
		}
		if err := w.fetch(); err != nil {
			w.err = err
			return nil
		}
		if len(w.page) == 0 {
			return nil
		}
	}

	row := &w.page[0]
	w.page = w.page[1:]
	w.last = row.Index

	v, err := w.store.decode(row)
	if err != nil {
		w.err = pfx.Err(err)
		return nil
	}

	w.VariantsSeen++
	return v
}

func (w *Walker) fetch() error {
	w.page = w.page[:0]
	err := w.store.DB.Select(&w.page, "SELECT "+variantColumns+" FROM Variant WHERE variant_index > ? ORDER BY variant_index LIMIT ?", w.last, w.pageSize)
	if err != nil {
		return pfx.Err(err)
	}
	if len(w.page) < w.pageSize {
		w.done = true
	}
	return nil
}

// Error returns the first error encountered by Read.
func (w *Walker) Error() error {
	return w.err
}
