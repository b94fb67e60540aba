package rihap

// WhichSQLiteDriver names the database/sql driver the index is opened with.
// It depends on whether the binary was built with cgo.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
