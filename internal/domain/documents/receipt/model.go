// Package receipt provides checkout receipts and the per-day receipt logs
// they are persisted to.
package receipt

import (
	"fmt"
	"io"
	"time"

	"kassa/internal/core/apperror"
	"kassa/internal/core/types"
	"kassa/internal/domain/catalogs/product"
)

const (
	// DateLayout names the day a receipt belongs to and its log partition.
	DateLayout = "20060102"
	// TimeLayout is the wall-clock time stored on every receipt row.
	TimeLayout = "15:04:05"
)

// Kind distinguishes receipts being built from receipts already on disk.
type Kind int

const (
	KindDraft Kind = iota
	KindHistorical
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDraft:
		return "draft"
	case KindHistorical:
		return "historical"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Receipt is one checkout: a serial number, the day and time it was opened
// and the product lines sold. Totals are computed from the lines on demand.
type Receipt struct {
	kind   Kind
	serial string
	date   string
	time   string
	day    time.Time
	lines  []*product.Product
}

// NewDraft opens a receipt stamped with now.
func NewDraft(serial string, now time.Time) *Receipt {
	y, m, d := now.Date()
	return &Receipt{
		kind:   KindDraft,
		serial: serial,
		date:   now.Format(DateLayout),
		time:   now.Format(TimeLayout),
		day:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// NewHistorical recreates a persisted receipt header. Lines are added by
// the store while reading the log.
func NewHistorical(serial, date, clockTime string) (*Receipt, error) {
	if _, err := time.Parse(DateLayout+TimeLayout, date+clockTime); err != nil {
		return nil, apperror.NewValidation("invalid receipt timestamp").
			WithDetail("date", date).
			WithDetail("time", clockTime).
			WithCause(err)
	}
	day, _ := time.Parse(DateLayout, date)
	return &Receipt{
		kind:   KindHistorical,
		serial: serial,
		date:   date,
		time:   clockTime,
		day:    day,
	}, nil
}

// Kind tells a draft from a persisted receipt.
func (r *Receipt) Kind() Kind { return r.kind }

// Serial returns the receipt number as written to the log.
func (r *Receipt) Serial() string { return r.serial }

// Date returns the receipt day as YYYYMMDD.
func (r *Receipt) Date() string { return r.date }

// Time returns the wall-clock time the receipt was opened, HH:MM:SS.
func (r *Receipt) Time() string { return r.time }

// Len returns the number of lines.
func (r *Receipt) Len() int { return len(r.lines) }

// IsEmpty reports whether the receipt has no lines.
func (r *Receipt) IsEmpty() bool { return len(r.lines) == 0 }

// AddLine appends an independent copy of p. Only drafts accept lines.
func (r *Receipt) AddLine(p *product.Product) error {
	if r.kind != KindDraft {
		return apperror.NewValidation("receipt is closed").
			WithDetail("serial", r.serial)
	}
	r.lines = append(r.lines, p.Clone())
	return nil
}

// Lines returns copies of the line items in insertion order.
func (r *Receipt) Lines() []*product.Product {
	out := make([]*product.Product, len(r.lines))
	for i, p := range r.lines {
		out[i] = p.Clone()
	}
	return out
}

// ReferenceDate is the day campaign windows are evaluated against: the
// receipt's own date, not today.
func (r *Receipt) ReferenceDate() time.Time {
	return r.day
}

// DateTime combines date and time.
func (r *Receipt) DateTime() time.Time {
	t, _ := time.Parse(DateLayout+TimeLayout, r.date+r.time)
	return t
}

// Total sums the line totals.
func (r *Receipt) Total() types.Money {
	day := r.ReferenceDate()
	total := types.Zero()
	for _, p := range r.lines {
		total = total.Add(p.LineTotal(day))
	}
	return total
}

// Rows serializes the receipt, one log row per line:
// [serial, time, id, description, amount, active_price, w|q, yes|no].
func (r *Receipt) Rows() [][]string {
	if len(r.lines) == 0 {
		return nil
	}
	day := r.ReferenceDate()
	rows := make([][]string, 0, len(r.lines))
	for _, p := range r.lines {
		row := append([]string{r.serial, r.time}, p.LineCells(day)...)
		rows = append(rows, row)
	}
	return rows
}

// Render prints one line per item followed by the total.
// An empty receipt prints nothing.
func (r *Receipt) Render(w io.Writer) error {
	if len(r.lines) == 0 {
		return nil
	}
	day := r.ReferenceDate()
	for _, p := range r.lines {
		_, err := fmt.Fprintf(w, "%s %s * %s = %s\n",
			p.Description(),
			product.FormatAmount(p.Amount(), p.PriceType()),
			types.FormatDecimal(p.ActivePrice(day)),
			types.FormatDecimal(p.LineTotal(day).Round(2)),
		)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", types.FormatDecimal(r.Total().Round(2)))
	return err
}

func (r *Receipt) seal() {
	r.kind = KindHistorical
}
