package flatfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kassa/internal/core/apperror"
	"kassa/internal/core/clock"
	"kassa/internal/core/storage"
)

// SnapshotExt is appended to every archived snapshot.
const SnapshotExt = ".csv.zst"

const snapshotStampLayout = "20060102T150405"

// Compile-time check that SnapshotArchive implements storage.Archiver interface.
var _ storage.Archiver = (*SnapshotArchive)(nil)

// SnapshotArchive stores zstd-compressed copies of a log's rows.
type SnapshotArchive struct {
	dir     string
	clock   clock.Clock
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewSnapshotArchive creates an archive writing into dir. A nil clock
// means wall time.
func NewSnapshotArchive(dir string, clk clock.Clock) (*SnapshotArchive, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if clk == nil {
		clk = clock.NewRealClock()
	}

	return &SnapshotArchive{
		dir:     dir,
		clock:   clk,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Archive writes rows to <dir>/<name>-<stamp>.csv.zst and returns the path.
// Nothing is written for an empty row set.
func (a *SnapshotArchive) Archive(ctx context.Context, name string, rows [][]string) (path string, err error) {
	_, span := tracer.Start(ctx, "flatfile.archive",
		trace.WithAttributes(
			attribute.String("snapshot.name", name),
			attribute.Int("rows", len(rows)),
		))
	defer func() { endSpan(span, err) }()

	if len(rows) == 0 {
		return "", nil
	}

	payload, err := encode(rows)
	if err != nil {
		return "", apperror.NewStorage("encode snapshot", err)
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", apperror.NewStorage("create "+a.dir, err)
	}

	stamp := a.clock.Now().Format(snapshotStampLayout)
	path = filepath.Join(a.dir, fmt.Sprintf("%s-%s%s", name, stamp, SnapshotExt))
	for n := 2; fileExists(path); n++ {
		path = filepath.Join(a.dir, fmt.Sprintf("%s-%s-%d%s", name, stamp, n, SnapshotExt))
	}
	compressed := a.encoder.EncodeAll(payload, nil)
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return "", apperror.NewStorage("write "+path, err)
	}

	span.SetAttributes(
		attribute.Int("bytes.raw", len(payload)),
		attribute.Int("bytes.compressed", len(compressed)),
	)
	return path, nil
}

// Restore decodes an archived snapshot back into rows (header included).
func (a *SnapshotArchive) Restore(path string) ([][]string, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.NewStorage("read "+path, err)
	}

	raw, err := a.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, apperror.NewCorruptLog(path, 0, err)
	}

	rows, err := newReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, apperror.NewCorruptLog(path, 0, err)
	}
	return rows, nil
}

// Close releases the zstd decoder.
func (a *SnapshotArchive) Close() {
	a.decoder.Close()
	_ = a.encoder.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
