//go:build !cgo

package rihap

// Without cgo, fall back to the pure Go modernc sqlite driver.

import (
	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"
