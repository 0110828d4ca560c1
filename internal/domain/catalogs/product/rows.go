package product

import (
	"fmt"
	"time"

	"kassa/internal/core/types"
)

// Columns is the catalog log schema.
var Columns = []string{
	"id",
	"description",
	"price",
	"price_type",
	"campaign_price",
	"campaign_start",
	"campaign_end",
}

// NoCampaign is stored in all three campaign cells of a product without campaign.
const NoCampaign = "0"

// Campaign flags written to receipt rows.
const (
	CampaignFlagYes = "yes"
	CampaignFlagNo  = "no"
)

// CatalogRow serializes the master record:
// [id, description, price, w|q, campaign_price|0, campaign_start|0, campaign_end|0].
func (p *Product) CatalogRow() []string {
	campaignPrice, start, end := NoCampaign, NoCampaign, NoCampaign
	if p.campaign != nil {
		campaignPrice = types.FormatDecimal(p.campaign.Price)
		start = p.campaign.Start.Format(DateLayout)
		end = p.campaign.End.Format(DateLayout)
	}
	return []string{
		p.id,
		p.description,
		types.FormatDecimal(p.price),
		p.priceType.Code(),
		campaignPrice,
		start,
		end,
	}
}

// LineCells serializes the product as a receipt line priced on day:
// [id, description, amount, active_price, w|q, yes|no].
func (p *Product) LineCells(day time.Time) []string {
	flag := CampaignFlagNo
	if p.IsOnCampaign(day) {
		flag = CampaignFlagYes
	}
	return []string{
		p.id,
		p.description,
		FormatAmount(p.Amount(), p.priceType),
		types.FormatDecimal(p.ActivePrice(day)),
		p.priceType.Code(),
		flag,
	}
}

// FormatAmount renders an amount in the domain of priceType.
func FormatAmount(amount types.Amount, priceType PriceType) string {
	if priceType.IsFractional() {
		return types.FormatDecimal(amount)
	}
	return types.FormatInteger(amount)
}

// FromCatalogFields rebuilds a product from a catalog row keyed by column
// name. A campaign price above zero restores the stored window.
func FromCatalogFields(f map[string]string) (*Product, error) {
	price, err := types.NewMoneyFromString(f["price"])
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", f["price"], err)
	}

	priceType, err := ParsePriceType(f["price_type"])
	if err != nil {
		return nil, err
	}

	p := New(f["id"], f["description"], price, priceType)

	campaignPrice, err := types.NewMoneyFromString(f["campaign_price"])
	if err != nil {
		return nil, fmt.Errorf("campaign price %q: %w", f["campaign_price"], err)
	}
	if !campaignPrice.IsPositive() {
		return p, nil
	}

	start, err := ParseDate(f["campaign_start"])
	if err != nil {
		return nil, fmt.Errorf("campaign start %q: %w", f["campaign_start"], err)
	}
	end, err := ParseDate(f["campaign_end"])
	if err != nil {
		return nil, fmt.Errorf("campaign end %q: %w", f["campaign_end"], err)
	}
	p.StartCampaign(campaignPrice, start, end)

	return p, nil
}
