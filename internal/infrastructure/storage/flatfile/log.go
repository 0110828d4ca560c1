// Package flatfile provides `;`-delimited text file storage for the register.
// Files are human-readable and diffable; there is no locking and no
// crash recovery beyond atomic rename on full rewrites.
//
// Rows are written with encoding/csv rules: besides cells containing the
// delimiter, cells that contain a quote, a line break or start with a space
// are quoted as well. Such rows are not byte-identical to what the legacy
// program wrote, but both read back to the same cells.
package flatfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kassa/internal/core/apperror"
	"kassa/internal/core/storage"
)

// Delimiter separates cells within a row.
const Delimiter = ';'

var tracer = otel.Tracer("kassa/flatfile")

// Compile-time check that Log implements storage.Log interface.
var _ storage.Log = (*Log)(nil)

// Log is one delimited file with a fixed column schema.
type Log struct {
	path    string
	columns []string
}

// NewLog binds a log to path. Nothing is touched on disk.
func NewLog(path string, columns []string) *Log {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Log{path: path, columns: cols}
}

// Path returns the underlying file path.
func (l *Log) Path() string { return l.path }

// Columns returns a copy of the column names.
func (l *Log) Columns() []string {
	cols := make([]string, len(l.columns))
	copy(cols, l.columns)
	return cols
}

// Append writes rows to the end of the file in a single write.
func (l *Log) Append(ctx context.Context, rows ...[]string) (err error) {
	_, span := tracer.Start(ctx, "flatfile.append",
		trace.WithAttributes(
			attribute.String("file.path", l.path),
			attribute.Int("rows", len(rows)),
		))
	defer func() { endSpan(span, err) }()

	if len(rows) == 0 {
		return nil
	}
	if err := l.checkArity(rows); err != nil {
		return err
	}

	payload, err := encode(rows)
	if err != nil {
		return apperror.NewStorage("encode rows", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return apperror.NewStorage("open "+l.path, err)
	}

	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return apperror.NewStorage("append to "+l.path, err)
	}
	if err := f.Close(); err != nil {
		return apperror.NewStorage("close "+l.path, err)
	}
	return nil
}

// ReadAll loads the whole file.
func (l *Log) ReadAll(ctx context.Context, includeHeader bool) (rows [][]string, err error) {
	_, span := tracer.Start(ctx, "flatfile.read",
		trace.WithAttributes(attribute.String("file.path", l.path)))
	defer func() { endSpan(span, err) }()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return [][]string{}, nil
	}
	if err != nil {
		return nil, apperror.NewStorage("open "+l.path, err)
	}
	defer f.Close()

	r := newReader(f)
	rows = make([][]string, 0)
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			return nil, apperror.NewCorruptLog(l.path, line, err)
		}
		if first {
			first = false
			if !includeHeader {
				continue
			}
		}
		rows = append(rows, rec)
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}

// Overwrite atomically replaces the file: rows are written to a temporary
// file in the same directory which is then renamed over the original.
func (l *Log) Overwrite(ctx context.Context, rows [][]string) (err error) {
	_, span := tracer.Start(ctx, "flatfile.overwrite",
		trace.WithAttributes(
			attribute.String("file.path", l.path),
			attribute.Int("rows", len(rows)),
		))
	defer func() { endSpan(span, err) }()

	if len(rows) == 0 {
		return apperror.NewSchemaViolation("refusing to overwrite with an empty row set").
			WithDetail("file", l.path)
	}
	if err := l.checkArity(rows); err != nil {
		return err
	}

	payload, err := encode(rows)
	if err != nil {
		return apperror.NewStorage("encode rows", err)
	}

	dir, base := filepath.Split(l.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return apperror.NewStorage("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return apperror.NewStorage("write "+tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return apperror.NewStorage("sync "+tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return apperror.NewStorage("close "+tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return apperror.NewStorage("chmod "+tmpName, err)
	}
	if err = os.Rename(tmpName, l.path); err != nil {
		return apperror.NewStorage("replace "+l.path, err)
	}
	return nil
}

// FieldMap zips row cells to column names.
func (l *Log) FieldMap(row []string) (map[string]string, error) {
	if len(row) != len(l.columns) {
		return nil, l.arityError(0, len(row))
	}
	m := make(map[string]string, len(l.columns))
	for i, col := range l.columns {
		m[col] = row[i]
	}
	return m, nil
}

func (l *Log) checkArity(rows [][]string) error {
	for i, row := range rows {
		if len(row) != len(l.columns) {
			return l.arityError(i, len(row))
		}
	}
	return nil
}

func (l *Log) arityError(index, got int) *apperror.AppError {
	return apperror.NewSchemaViolation(
		fmt.Sprintf("row has %d cells, %s expects %d", got, filepath.Base(l.path), len(l.columns)),
	).
		WithDetail("file", l.path).
		WithDetail("row", index).
		WithDetail("expected", len(l.columns)).
		WithDetail("got", got)
}

// encode renders rows with the register's dialect. Legacy files use CRLF
// line endings, so new rows do too.
func encode(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = Delimiter
	w.UseCRLF = true
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	// Arity is checked by the callers that know which schema applies.
	cr.FieldsPerRecord = -1
	return cr
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
