package product

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"kassa/internal/core/apperror"
	"kassa/internal/core/clock"
	"kassa/internal/core/storage"
	"kassa/internal/core/types"
	"kassa/internal/metrics"
	"kassa/pkg/logger"
)

// ErrProductNotFound matches the error Find and UpdateNamePrice return for
// an unknown id (errors.Is compares code and message).
var ErrProductNotFound = apperror.NewNotFound("product", nil)

// Confirmer gates destructive catalog rewrites. affectedRows is the number
// of rows (header included) that differ from the file on disk.
type Confirmer interface {
	Confirm(ctx context.Context, affectedRows int) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, affectedRows int) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, affectedRows int) (bool, error) {
	return f(ctx, affectedRows)
}

// Decline is the Confirmer used when none is configured.
var Decline = ConfirmFunc(func(context.Context, int) (bool, error) { return false, nil })

// CatalogConfig configures the catalog.
type CatalogConfig struct {
	Log       storage.Log
	Confirmer Confirmer
	// Archiver is optional; when set the previous file contents are
	// archived before every rewrite that changes rows.
	Archiver storage.Archiver
	Clock    clock.Clock
}

// Catalog is the in-memory working set of products backed by one log.
// products is the canonical state; persisted mirrors what was last read
// from or written to disk and is what a declined commit rolls back to.
type Catalog struct {
	log       storage.Log
	confirmer Confirmer
	archiver  storage.Archiver
	clock     clock.Clock

	products  []*Product
	persisted []*Product
}

// NewCatalog creates an empty catalog. Call Load before use.
func NewCatalog(cfg CatalogConfig) *Catalog {
	c := &Catalog{
		log:       cfg.Log,
		confirmer: cfg.Confirmer,
		archiver:  cfg.Archiver,
		clock:     cfg.Clock,
	}
	if c.confirmer == nil {
		c.confirmer = Decline
	}
	if c.clock == nil {
		c.clock = clock.NewRealClock()
	}
	return c
}

// Load replaces the working set with the products stored in the log.
func (c *Catalog) Load(ctx context.Context) error {
	rows, err := c.log.ReadAll(ctx, false)
	if err != nil {
		return err
	}

	products := make([]*Product, 0, len(rows))
	for i, row := range rows {
		fields, err := c.log.FieldMap(row)
		if err != nil {
			return apperror.NewCorruptLog(c.log.Path(), i+2, err)
		}
		p, err := FromCatalogFields(fields)
		if err != nil {
			return apperror.NewCorruptLog(c.log.Path(), i+2, err)
		}
		products = append(products, p)
	}

	c.products = products
	c.persisted = cloneAll(products)

	logger.Info(ctx, "catalog loaded", "file", c.log.Path(), "products", len(products))
	return nil
}

// Find returns a copy of the product with id.
func (c *Catalog) Find(id string) (*Product, error) {
	if i := c.indexOf(id); i >= 0 {
		return c.products[i].Clone(), nil
	}
	return nil, apperror.NewNotFound("product", id)
}

// List returns copies of all products in file order.
func (c *Catalog) List() []*Product {
	return cloneAll(c.products)
}

// Today returns the reference day for price display.
func (c *Catalog) Today() time.Time {
	return c.clock.Now()
}

// UpdateNamePrice changes description and/or regular price and commits.
// An empty description or a price that is not positive means "keep the
// current value"; a price of exactly zero therefore cannot be set here.
// Returns false when the commit was declined; the change is rolled back.
func (c *Catalog) UpdateNamePrice(ctx context.Context, id, description string, price types.Money) (bool, error) {
	i := c.indexOf(id)
	if i < 0 {
		return false, apperror.NewNotFound("product", id)
	}

	p := c.products[i].Clone()
	if strings.TrimSpace(description) != "" {
		p.SetDescription(description)
	}
	if price.IsPositive() {
		p.SetPrice(price)
	}
	c.products[i] = p

	return c.Commit(ctx)
}

// StartCampaign parses start and end ("YYYYMMDD"), sets the campaign on the
// product and commits. Returns false for an unknown id, a price that is not
// positive, a malformed or inverted window, or a declined commit.
func (c *Catalog) StartCampaign(ctx context.Context, id string, price types.Money, start, end string) (bool, error) {
	if !price.IsPositive() {
		logger.Warn(ctx, "campaign rejected: price not positive", "product_id", id, "price", price.String())
		return false, nil
	}
	startDay, err := ParseDate(start)
	if err != nil {
		logger.Warn(ctx, "campaign rejected: bad start date", "product_id", id, "start", start)
		return false, nil
	}
	endDay, err := ParseDate(end)
	if err != nil {
		logger.Warn(ctx, "campaign rejected: bad end date", "product_id", id, "end", end)
		return false, nil
	}
	if endDay.Before(startDay) {
		logger.Warn(ctx, "campaign rejected: end before start", "product_id", id, "start", start, "end", end)
		return false, nil
	}

	i := c.indexOf(id)
	if i < 0 {
		return false, nil
	}

	p := c.products[i].Clone()
	p.StartCampaign(price, startDay, endDay)
	c.products[i] = p

	return c.Commit(ctx)
}

// Commit writes the whole catalog back. When any row differs from the file
// on disk the Confirmer must approve first; a declined or failed commit
// leaves the file untouched and restores the last persisted state.
func (c *Catalog) Commit(ctx context.Context) (bool, error) {
	next := c.Rows()

	current, err := c.log.ReadAll(ctx, true)
	if err != nil {
		c.rollback()
		metrics.RecordCatalogCommit(metrics.CommitFailed)
		return false, err
	}

	affected := diffRows(current, next)
	if affected == 0 {
		c.persisted = cloneAll(c.products)
		metrics.RecordCatalogCommit(metrics.CommitUnchanged)
		return true, nil
	}

	ok, err := c.confirmer.Confirm(ctx, affected)
	if err != nil || !ok {
		c.rollback()
		metrics.RecordCatalogCommit(metrics.CommitDeclined)
		logger.Info(ctx, "catalog commit declined", "affected_rows", affected)
		return false, err
	}

	if c.archiver != nil {
		name := strings.TrimSuffix(filepath.Base(c.log.Path()), filepath.Ext(c.log.Path()))
		path, err := c.archiver.Archive(ctx, name, current)
		if err != nil {
			c.rollback()
			metrics.RecordCatalogCommit(metrics.CommitFailed)
			return false, err
		}
		if path != "" {
			logger.Debug(ctx, "catalog snapshot archived", "path", path)
		}
	}

	if err := c.log.Overwrite(ctx, next); err != nil {
		c.rollback()
		metrics.RecordCatalogCommit(metrics.CommitFailed)
		return false, err
	}

	c.persisted = cloneAll(c.products)
	metrics.RecordCatalogCommit(metrics.CommitWritten)
	logger.Info(ctx, "catalog committed", "affected_rows", affected, "products", len(c.products))
	return true, nil
}

// Rows serializes the catalog, header first.
func (c *Catalog) Rows() [][]string {
	rows := make([][]string, 0, len(c.products)+1)
	rows = append(rows, c.log.Columns())
	for _, p := range c.products {
		rows = append(rows, p.CatalogRow())
	}
	return rows
}

func (c *Catalog) rollback() {
	c.products = cloneAll(c.persisted)
}

func (c *Catalog) indexOf(id string) int {
	for i, p := range c.products {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

// diffRows counts positions where the two row sets differ; a row present
// on only one side counts as differing.
func diffRows(current, next [][]string) int {
	n := max(len(current), len(next))
	affected := 0
	for i := 0; i < n; i++ {
		if i >= len(current) || i >= len(next) || !slices.Equal(current[i], next[i]) {
			affected++
		}
	}
	return affected
}

func cloneAll(products []*Product) []*Product {
	out := make([]*Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
