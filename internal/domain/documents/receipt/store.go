package receipt

import (
	"context"
	"errors"
	"slices"

	"kassa/internal/core/apperror"
	"kassa/internal/core/clock"
	"kassa/internal/core/numerator"
	"kassa/internal/core/storage"
	"kassa/internal/metrics"
	"kassa/pkg/logger"
)

// StoreConfig configures the receipt store.
type StoreConfig struct {
	Partitions storage.Partitions
	Clock      clock.Clock
	// Numerator allocates serials for new drafts. It may also be set after
	// construction with SetNumerator when it is backed by the store itself.
	Numerator numerator.Generator
}

// Store owns every receipt log and the receipts reconstructed from them.
type Store struct {
	partitions storage.Partitions
	clock      clock.Clock
	numerator  numerator.Generator

	logs     map[string]storage.Log
	dates    []string
	receipts map[string][]*Receipt
}

var errNoNumerator = errors.New("receipt store has no numerator")

// Ensure the store can back a numerator.
var _ numerator.Source = (*Store)(nil)

// NewStore creates an empty store. Call Load before use.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		partitions: cfg.Partitions,
		clock:      cfg.Clock,
		numerator:  cfg.Numerator,
		logs:       make(map[string]storage.Log),
		receipts:   make(map[string][]*Receipt),
	}
	if s.clock == nil {
		s.clock = clock.NewRealClock()
	}
	return s
}

// SetNumerator replaces the serial allocator.
func (s *Store) SetNumerator(g numerator.Generator) {
	s.numerator = g
}

// Load discovers every day log and reconstructs its receipts. Days whose
// log holds no receipts are opened but not listed by Dates.
func (s *Store) Load(ctx context.Context) error {
	dates, err := s.partitions.Discover(ctx)
	if err != nil {
		return err
	}

	s.logs = make(map[string]storage.Log, len(dates))
	s.receipts = make(map[string][]*Receipt, len(dates))
	s.dates = s.dates[:0]

	total := 0
	for _, date := range dates {
		log := s.partitions.Open(date)
		s.logs[date] = log

		rows, err := log.ReadAll(ctx, false)
		if err != nil {
			return err
		}
		receipts, err := reconstruct(log, date, rows)
		if err != nil {
			return err
		}
		if len(receipts) == 0 {
			continue
		}
		s.dates = append(s.dates, date)
		s.receipts[date] = receipts
		total += len(receipts)
	}

	metrics.SetReceiptsLoaded(total)
	logger.Info(ctx, "receipts loaded", "dates", len(s.dates), "receipts", total)
	return nil
}

// LastNumber implements numerator.Source: the highest serial on the most
// recent date that has receipts.
func (s *Store) LastNumber(_ context.Context) (int64, bool, error) {
	if len(s.dates) == 0 {
		return 0, false, nil
	}

	latest := slices.Max(s.dates)
	var (
		last  int64
		found bool
	)
	for _, r := range s.receipts[latest] {
		n, err := numerator.Parse(r.serial)
		if err != nil {
			return 0, false, err
		}
		if !found || n > last {
			last, found = n, true
		}
	}
	return last, found, nil
}

// CreateDraft opens a new receipt stamped with the current time.
func (s *Store) CreateDraft(ctx context.Context) (*Receipt, error) {
	if s.numerator == nil {
		return nil, apperror.NewInternal(errNoNumerator)
	}
	serial, err := s.numerator.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	r := NewDraft(serial, s.clock.Now())
	logger.Debug(ctx, "draft opened", "serial", serial, "date", r.date)
	return r, nil
}

// CommitDraft persists r to the log of its date and makes it visible to
// lookups. An empty receipt is a no-op. All rows go out in one append so
// a receipt never ends up split across other receipts' rows.
func (s *Store) CommitDraft(ctx context.Context, r *Receipt) error {
	if r.IsEmpty() {
		return nil
	}
	if r.kind != KindDraft {
		return apperror.NewValidation("receipt already persisted").
			WithDetail("serial", r.serial)
	}

	log, ok := s.logs[r.date]
	if !ok {
		log = s.partitions.Open(r.date)
		s.logs[r.date] = log
	}

	rows := r.Rows()
	if len(s.receipts[r.date]) == 0 {
		existing, err := log.ReadAll(ctx, true)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			rows = append([][]string{log.Columns()}, rows...)
		}
	}

	if err := log.Append(ctx, rows...); err != nil {
		return err
	}

	if len(s.receipts[r.date]) == 0 {
		s.dates = append(s.dates, r.date)
	}
	r.seal()
	s.receipts[r.date] = append(s.receipts[r.date], r)

	total, _ := r.Total().Float64()
	metrics.RecordReceiptPaid(r.Len(), total)
	logger.Info(ctx, "receipt paid",
		"serial", r.serial,
		"date", r.date,
		"lines", r.Len(),
		"total", r.Total().String(),
	)
	return nil
}

// FindBySerial searches every date for a receipt.
func (s *Store) FindBySerial(serial string) (*Receipt, bool) {
	for _, date := range s.dates {
		for _, r := range s.receipts[date] {
			if r.serial == serial {
				return r, true
			}
		}
	}
	return nil, false
}

// Dates lists days with receipts: discovered days first, then days first
// paid during this run.
func (s *Store) Dates() []string {
	return slices.Clone(s.dates)
}

// ReceiptsOn lists the receipts of date in log order.
func (s *Store) ReceiptsOn(date string) []*Receipt {
	return slices.Clone(s.receipts[date])
}
