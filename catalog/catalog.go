// Package catalog defines the metadata store that indexes Shot files by
// position and file name, and an SQLite implementation of it.
package catalog

import "errors"

// Axis identifiers used by the acquisition software.
const (
	ScanAxisID  = 109
	IndexAxisID = 110
)

// Common errors
var (
	ErrClosed      = errors.New("catalog is closed")
	ErrUnknownAxis = errors.New("unknown axis")
)

// Axis holds the bounds of one spatial scan axis.
type Axis struct {
	ID    int
	Start int
	End   int
	Step  int
}

// Record is the metadata row emitted for each Shot file.
type Record struct {
	Origin       [3]float64
	Scale        [3]float64
	DataSize     int64 // payload bytes
	StartPos     int64
	ConnectionID int
	Version      int64
	UddString    string
	IsFileSystem bool
	FileName     string
	Checksum     uint32 // Fletcher-32 of the payload
	HasChecksum  bool   // false for rows written without a checksum
}

// Catalog is the collaborator a shot writer reports to. Calls made between
// two Commit calls form one unit; Rollback discards the pending unit.
type Catalog interface {
	UpdateAxisBounds(a Axis) error
	InsertFileRecord(r Record) error
	Commit() error
	Rollback() error
	CloseAndCompact() error
}

// Lister is implemented by catalogs that can enumerate their records.
type Lister interface {
	Records() ([]Record, error)
}
