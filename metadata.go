package rihap

import "bytes"

// Metadata describes the VCF an index was built from. It is stored in the
// Metadata table of every index and compared against a VCF to decide whether
// a persisted index can be reused.
type Metadata struct {
	Filename           string      `db:"filename"`
	FileSize           int64       `db:"file_size"`
	LastWriteTime      Time        `db:"last_write_time"`
	FirstThousandBytes []byte      `db:"first_1000_bytes"`
	IndexCreationTime  Time        `db:"index_creation_time"`
	Compression        Compression `db:"compression"`
	MaxSpan            uint32      `db:"max_span"`
}

// Matches reports whether the index described by m was built from the file
// described by other.
func (m *Metadata) Matches(other *Metadata) bool {
	if m == nil || other == nil {
		return false
	}
	return m.Filename == other.Filename &&
		m.FileSize == other.FileSize &&
		m.LastWriteTime.Equal(other.LastWriteTime) &&
		bytes.Equal(m.FirstThousandBytes, other.FirstThousandBytes)
}
