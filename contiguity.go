package rihap

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// ContiguityError reports a population record found strictly between two
// markers that were supposed to be consecutive.
type ContiguityError struct {
	First    Location
	Second   Location
	Offender Location
	// OffenderID is the ID of the offending record, if it has one.
	OffenderID string
}

func (e *ContiguityError) Error() string {
	return fmt.Sprintf("markers %s and %s are not consecutive: found %s (%s) between them", e.First, e.Second, e.Offender, e.OffenderID)
}

// CheckConsecutive verifies that no record of pop starts strictly between
// the starts of a and b. Records sharing a start with either marker are
// allowed.
func CheckConsecutive(pop RegionQuerier, a, b *Variant) (err error) {
	cur, err := pop.Query(a.Contig, a.Start, b.Start)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil && err == nil {
			err = pfx.Err(cerr)
		}
	}()

	for v := cur.Read(); v != nil; v = cur.Read() {
		if v.Start > a.Start && v.Start < b.Start {
			return &ContiguityError{
				First:      a.Location,
				Second:     b.Location,
				Offender:   v.Location,
				OffenderID: v.ID,
			}
		}
	}

	return cur.Error()
}
