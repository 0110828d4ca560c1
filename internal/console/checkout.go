package console

import (
	"context"

	"kassa/internal/core/apperror"
)

const checkoutPrompt = "Commands:\n<product id> <amount>\nPAY\nCommand: "

// Checkout builds one receipt from operator input and persists it on PAY.
// A receipt without lines is dropped.
func (a *App) Checkout(ctx context.Context) error {
	draft, err := a.store.CreateDraft(ctx)
	if err != nil {
		return err
	}

	for {
		a.con.Println("REGISTER")
		a.con.Printf("RECEIPT %s   %s\n", draft.Serial(), draft.DateTime().Format("2006-01-02 15:04:05"))
		if err := draft.Render(a.con.Out()); err != nil {
			return err
		}

		line, err := a.con.Prompt(checkoutPrompt)
		if err != nil {
			return err
		}

		cmd, err := ParseCheckoutCommand(line)
		if err != nil {
			a.con.Println(describe(err))
			continue
		}

		if cmd.Pay {
			if err := a.store.CommitDraft(ctx, draft); err != nil {
				a.reportFailure(ctx, "saving receipt", err)
				return nil
			}
			if !draft.IsEmpty() {
				a.con.Printf("Paid. Receipt %s\n", draft.Serial())
				_ = draft.Render(a.con.Out())
			}
			return nil
		}

		p, err := a.catalog.Find(cmd.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				a.con.Printf("Unknown product %q\n", cmd.ProductID)
				continue
			}
			return err
		}
		if err := CheckAmount(cmd.Amount, p.PriceType()); err != nil {
			a.con.Println(describe(err))
			continue
		}

		p.SetAmount(cmd.Amount)
		if err := draft.AddLine(p); err != nil {
			return err
		}
	}
}
