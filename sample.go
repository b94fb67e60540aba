package rihap

import (
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

type Sample struct {
	Index    int    `db:"sample_index"`
	SampleID string `db:"sample_id"`
}

// ReadSamples returns the samples of an index in VCF header order.
func ReadSamples(db *sqlx.DB) ([]Sample, error) {
	var samples []Sample
	if err := db.Select(&samples, "SELECT sample_index, sample_id FROM Sample ORDER BY sample_index"); err != nil {
		return nil, pfx.Err(err)
	}

	return samples, nil
}
