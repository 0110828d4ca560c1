package console

import (
	"context"
	"errors"

	"kassa/internal/core/apperror"
	"kassa/internal/core/types"
	"kassa/internal/domain/catalogs/product"
)

const adminMenu = "ADMIN\n1. Change price & name\n2. Start campaign\n3. Find receipts\n0. Back"

// Admin menu options.
const (
	adminBack = iota
	adminPriceName
	adminCampaign
	adminReceipts
)

// Admin runs the admin menu. A configured PIN must be entered first.
func (a *App) Admin(ctx context.Context) error {
	if a.gate != nil && a.gate.Enabled() {
		pin, err := a.con.Prompt("PIN: ")
		if err != nil {
			return err
		}
		if err := a.gate.Verify(ctx, pin); err != nil {
			a.con.Println("Access denied:", describe(err))
			return nil
		}
	}

	for {
		choice, err := a.con.Choose(adminMenu, adminReceipts)
		if err != nil {
			return err
		}

		switch choice {
		case adminBack:
			return nil
		case adminPriceName:
			err = a.changePriceAndName(ctx)
		case adminCampaign:
			err = a.startCampaign(ctx)
		case adminReceipts:
			err = a.browseReceipts(ctx)
		}
		if err != nil {
			return err
		}
	}
}

// pickProduct lists the catalog and asks for an id until a known one is
// given. An empty answer returns nil.
func (a *App) pickProduct() (*product.Product, error) {
	today := a.catalog.Today()
	for _, p := range a.catalog.List() {
		if p.IsOnCampaign(today) {
			a.con.Printf("%s (campaign %s)\n", p, types.FormatDecimal(p.ActivePrice(today)))
			continue
		}
		a.con.Println(p.String())
	}
	for {
		productID, err := a.con.Prompt("Product ID ([enter] to go back): ")
		if err != nil {
			return nil, err
		}
		if productID == "" {
			return nil, nil
		}
		p, err := a.catalog.Find(productID)
		if err == nil {
			return p, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		a.con.Printf("Unknown product %q\n", productID)
	}
}

func (a *App) changePriceAndName(ctx context.Context) error {
	p, err := a.pickProduct()
	if err != nil || p == nil {
		return err
	}

	a.con.Println("New name? ([enter] keeps the current one)")
	a.con.Println("Current name:", p.Description())
	description, err := a.con.Prompt("> ")
	if err != nil {
		return err
	}

	price := types.Zero()
	a.con.Println("New price? ([enter] keeps the current one)")
	a.con.Println("Current price:", types.FormatDecimal(p.Price()))
	for {
		line, err := a.con.Prompt("> ")
		if err != nil {
			return err
		}
		if line == "" {
			break
		}
		if price, err = ParsePrice(line); err == nil {
			break
		}
		a.con.Println("Enter a valid price")
	}

	ok, err := a.catalog.UpdateNamePrice(ctx, p.ID(), description, price)
	return a.reportCommit(ctx, ok, err)
}

func (a *App) startCampaign(ctx context.Context) error {
	p, err := a.pickProduct()
	if err != nil || p == nil {
		return err
	}

	var price types.Money
	a.con.Println("Campaign price?")
	a.con.Println("Regular price:", types.FormatDecimal(p.Price()))
	for {
		line, err := a.con.Prompt("> ")
		if err != nil {
			return err
		}
		if price, err = ParsePrice(line); err == nil {
			break
		}
		a.con.Println("Enter a valid price")
	}

	var start, end string
	for {
		if start, err = a.con.Prompt("Campaign start date (YYYYMMDD): "); err != nil {
			return err
		}
		if end, err = a.con.Prompt("Campaign end date (YYYYMMDD): "); err != nil {
			return err
		}
		_, startErr := product.ParseDate(start)
		_, endErr := product.ParseDate(end)
		if startErr == nil && endErr == nil {
			break
		}
		a.con.Println("Dates must be given as YYYYMMDD")
	}

	ok, err := a.catalog.StartCampaign(ctx, p.ID(), price, start, end)
	return a.reportCommit(ctx, ok, err)
}

func (a *App) reportCommit(ctx context.Context, ok bool, err error) error {
	switch {
	case err != nil:
		if errors.Is(err, ErrClosed) {
			return err
		}
		a.reportFailure(ctx, "saving catalog", err)
	case ok:
		a.con.Println("Saved.")
	default:
		a.con.Println("No changes saved.")
	}
	return nil
}

func (a *App) browseReceipts(ctx context.Context) error {
	for {
		a.con.Println("Available dates:")
		for _, date := range a.store.Dates() {
			a.con.Println(date)
		}
		date, err := a.con.Prompt("Date to show (YYYYMMDD), [0] to go back: ")
		if err != nil {
			return err
		}
		if date == "0" {
			return nil
		}

		receipts := a.store.ReceiptsOn(date)
		if len(receipts) == 0 {
			a.con.Printf("No receipts on %q\n", date)
			continue
		}
		for _, r := range receipts {
			a.con.Printf("Serial: %s, Time: %s, Total: %s\n", r.Serial(), r.Time(), types.FormatDecimal(r.Total().Round(2)))
		}
		if err := a.con.Pause(); err != nil {
			return err
		}

		if err := a.showReceipts(); err != nil {
			return err
		}
	}
}

func (a *App) showReceipts() error {
	for {
		serial, err := a.con.Prompt("Serial number to show, [0] to go back: ")
		if err != nil {
			return err
		}
		if serial == "0" {
			return nil
		}

		r, ok := a.store.FindBySerial(serial)
		if !ok {
			a.con.Printf("No receipt with serial %q\n", serial)
			continue
		}
		a.con.Printf("RECEIPT %s   %s\n", r.Serial(), r.DateTime().Format("2006-01-02 15:04:05"))
		if err := r.Render(a.con.Out()); err != nil {
			return err
		}
		if err := a.con.Pause(); err != nil {
			return err
		}
	}
}
