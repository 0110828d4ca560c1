// Package storage defines the flat-file persistence contracts the domain
// depends on. Implementations live in infrastructure/storage/flatfile.
package storage

import (
	"context"
)

// Log is append/read/overwrite access to one delimited file with a fixed
// column schema.
type Log interface {
	// Path returns the file the log is bound to.
	Path() string

	// Columns returns the declared column names (the header row).
	Columns() []string

	// Append writes rows to the end of the file, creating it if absent.
	// Every row must have exactly len(Columns()) cells; otherwise nothing
	// is written.
	Append(ctx context.Context, rows ...[]string) error

	// ReadAll returns every row, without the header unless includeHeader is set.
	// A missing or empty file yields no rows and no error.
	ReadAll(ctx context.Context, includeHeader bool) ([][]string, error)

	// Overwrite replaces the whole file with rows (header included).
	// An empty row set is rejected.
	Overwrite(ctx context.Context, rows [][]string) error

	// FieldMap zips the cells of row to the column names.
	FieldMap(row []string) (map[string]string, error)
}

// Partitions hands out one Log per calendar day.
type Partitions interface {
	// Discover lists the dates ("YYYYMMDD") that already have a log file,
	// in ascending order.
	Discover(ctx context.Context) ([]string, error)

	// Open returns the log for date. The file is not created until the
	// first append.
	Open(date string) Log
}

// Archiver keeps copies of a log's contents before destructive rewrites.
type Archiver interface {
	Archive(ctx context.Context, name string, rows [][]string) (string, error)
}
