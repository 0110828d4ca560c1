package receipt

import (
	"fmt"

	"kassa/internal/core/apperror"
	"kassa/internal/core/numerator"
	"kassa/internal/core/storage"
	"kassa/internal/core/types"
	"kassa/internal/domain/catalogs/product"
)

// Columns is the receipt log schema.
var Columns = []string{
	"serial_nr",
	"time",
	"product_id",
	"product_description",
	"amount",
	"price",
	"type",
	"campaign",
}

// lineFromFields rebuilds a sold line. The stored price is the price that
// was charged; a campaign flag becomes a one-day campaign on the receipt
// date at that same price so the line serializes back unchanged.
func lineFromFields(f map[string]string, r *Receipt) (*product.Product, error) {
	price, err := types.NewMoneyFromString(f["price"])
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", f["price"], err)
	}

	priceType, err := product.ParsePriceType(f["type"])
	if err != nil {
		return nil, err
	}

	amount, err := types.NewMoneyFromString(f["amount"])
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", f["amount"], err)
	}

	p := product.New(f["product_id"], f["product_description"], price, priceType)
	p.SetAmount(amount)

	switch f["campaign"] {
	case product.CampaignFlagYes:
		p.StartCampaign(price, r.ReferenceDate(), r.ReferenceDate())
	case product.CampaignFlagNo:
	default:
		return nil, fmt.Errorf("campaign flag %q", f["campaign"])
	}
	return p, nil
}

// reconstruct groups the rows of one day's log into receipts. Rows of a
// receipt are contiguous; a serial that shows up again after another one
// means the log was edited or interleaved and is reported as corrupt.
func reconstruct(log storage.Log, date string, rows [][]string) ([]*Receipt, error) {
	var (
		receipts []*Receipt
		current  *Receipt
		seen     = make(map[string]bool)
	)

	for i, row := range rows {
		// header is line 1
		line := i + 2

		fields, err := log.FieldMap(row)
		if err != nil {
			return nil, apperror.NewCorruptLog(log.Path(), line, err)
		}

		serial := fields["serial_nr"]
		if current == nil || current.serial != serial {
			if _, err := numerator.Parse(serial); err != nil {
				return nil, apperror.NewCorruptLog(log.Path(), line, err)
			}
			if seen[serial] {
				return nil, apperror.NewCorruptLog(log.Path(), line,
					fmt.Errorf("serial %s reappears after another receipt", serial))
			}
			current, err = NewHistorical(serial, date, fields["time"])
			if err != nil {
				return nil, apperror.NewCorruptLog(log.Path(), line, err)
			}
			seen[serial] = true
			receipts = append(receipts, current)
		}

		p, err := lineFromFields(fields, current)
		if err != nil {
			return nil, apperror.NewCorruptLog(log.Path(), line, err)
		}
		current.lines = append(current.lines, p)
	}
	return receipts, nil
}
