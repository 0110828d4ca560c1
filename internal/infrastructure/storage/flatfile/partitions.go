package flatfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"kassa/internal/core/apperror"
	"kassa/internal/core/storage"
)

// DateLayout is the calendar-day format embedded in partition file names.
const DateLayout = "20060102"

// Compile-time check that DailyPartitions implements storage.Partitions interface.
var _ storage.Partitions = (*DailyPartitions)(nil)

// DailyPartitions maps calendar days to files named <prefix><YYYYMMDD><ext>
// inside one directory.
type DailyPartitions struct {
	dir     string
	prefix  string
	ext     string
	columns []string
}

// NewDailyPartitions creates a partition set rooted at dir.
func NewDailyPartitions(dir, prefix, ext string, columns []string) *DailyPartitions {
	return &DailyPartitions{
		dir:     dir,
		prefix:  prefix,
		ext:     ext,
		columns: columns,
	}
}

// Discover scans dir for partition files. Names that do not carry a valid
// date are ignored.
func (p *DailyPartitions) Discover(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, apperror.NewStorage("scan "+p.dir, err)
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if date, ok := p.DateOf(e.Name()); ok {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// Open returns the log for date.
func (p *DailyPartitions) Open(date string) storage.Log {
	return NewLog(filepath.Join(p.dir, p.FileName(date)), p.columns)
}

// FileName builds the partition file name for date.
func (p *DailyPartitions) FileName(date string) string {
	return p.prefix + date + p.ext
}

// DateOf extracts the date from a partition file name.
func (p *DailyPartitions) DateOf(name string) (string, bool) {
	if !strings.HasPrefix(name, p.prefix) || !strings.HasSuffix(name, p.ext) {
		return "", false
	}
	date := strings.TrimSuffix(strings.TrimPrefix(name, p.prefix), p.ext)
	if len(date) != len(DateLayout) {
		return "", false
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}
