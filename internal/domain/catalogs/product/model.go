// Package product provides the product catalog: sellable items, their
// weight- or quantity-based pricing and time-bounded campaign prices.
package product

import (
	"fmt"
	"time"

	"kassa/internal/core/apperror"
	"kassa/internal/core/types"
)

// DateLayout is the calendar-day format used for campaign windows.
const DateLayout = "20060102"

// PriceType defines whether an item is sold by weight or by piece.
type PriceType string

const (
	PriceTypeWeight   PriceType = "w" // fractional amounts
	PriceTypeQuantity PriceType = "q" // integral amounts
)

// ParsePriceType converts a stored type code.
func ParsePriceType(code string) (PriceType, error) {
	switch PriceType(code) {
	case PriceTypeWeight, PriceTypeQuantity:
		return PriceType(code), nil
	}
	return "", apperror.NewValidation("invalid price type").
		WithDetail("field", "price_type").
		WithDetail("value", code)
}

// Code returns the single-letter code written to the logs.
func (t PriceType) Code() string { return string(t) }

// IsFractional reports whether amounts of this type may have a fractional part.
func (t PriceType) IsFractional() bool { return t == PriceTypeWeight }

// Campaign is a discounted price valid on every day of [Start, End].
type Campaign struct {
	Price types.Money
	Start time.Time
	End   time.Time
}

// Covers reports whether day falls inside the window, both ends inclusive.
// Only the calendar day of each time is compared.
func (c Campaign) Covers(day time.Time) bool {
	d := civilDay(day)
	return !d.Before(civilDay(c.Start)) && !d.After(civilDay(c.End))
}

// Product is a sellable item. As a catalog record its amount is 1; as a
// receipt line it carries the sold quantity or weight.
type Product struct {
	id          string
	description string
	price       types.Money
	priceType   PriceType
	amount      types.Amount
	campaign    *Campaign
}

// New creates a catalog record with amount 1 and no campaign.
func New(id, description string, price types.Money, priceType PriceType) *Product {
	return &Product{
		id:          id,
		description: description,
		price:       price,
		priceType:   priceType,
		amount:      types.One(),
	}
}

// ID returns the catalog key.
func (p *Product) ID() string { return p.id }

// Description returns the display name.
func (p *Product) Description() string { return p.description }

// Price returns the regular price, ignoring any campaign.
func (p *Product) Price() types.Money { return p.price }

// PriceType tells whether the price is per piece or per kilogram.
func (p *Product) PriceType() PriceType { return p.priceType }

// Amount returns the line amount in the domain dictated by the price type:
// quantities are truncated to whole pieces.
func (p *Product) Amount() types.Amount {
	if p.priceType.IsFractional() {
		return p.amount
	}
	return p.amount.Truncate(0)
}

// Campaign returns the configured campaign, if any.
func (p *Product) Campaign() (Campaign, bool) {
	if p.campaign == nil {
		return Campaign{}, false
	}
	return *p.campaign, true
}

// SetAmount sets the sold quantity or weight.
func (p *Product) SetAmount(amount types.Amount) { p.amount = amount }

// SetDescription replaces the description.
func (p *Product) SetDescription(description string) { p.description = description }

// SetPrice replaces the regular price.
func (p *Product) SetPrice(price types.Money) { p.price = price }

// StartCampaign replaces any existing campaign. A price that is not
// positive clears the campaign, matching the catalog's "0 means none" cells.
func (p *Product) StartCampaign(price types.Money, start, end time.Time) {
	if !price.IsPositive() {
		p.campaign = nil
		return
	}
	p.campaign = &Campaign{
		Price: price,
		Start: civilDay(start),
		End:   civilDay(end),
	}
}

// IsOnCampaign reports whether the campaign window covers day.
func (p *Product) IsOnCampaign(day time.Time) bool {
	return p.campaign != nil && p.campaign.Covers(day)
}

// ActivePrice is the campaign price on campaign days, else the regular price.
func (p *Product) ActivePrice(day time.Time) types.Money {
	if p.IsOnCampaign(day) {
		return p.campaign.Price
	}
	return p.price
}

// LineTotal is ActivePrice × Amount.
func (p *Product) LineTotal(day time.Time) types.Money {
	return p.ActivePrice(day).Mul(p.Amount())
}

// Clone returns an independent copy.
func (p *Product) Clone() *Product {
	c := *p
	if p.campaign != nil {
		campaign := *p.campaign
		c.campaign = &campaign
	}
	return &c
}

// String implements fmt.Stringer for operator listings.
func (p *Product) String() string {
	return fmt.Sprintf("%s %s %s/%s", p.id, p.description, types.FormatDecimal(p.price), p.priceType)
}

// ParseDate parses a "YYYYMMDD" calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// civilDay drops the clock part, keeping the calendar day as seen in t's location.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
