package console

import (
	"context"
	"errors"

	"kassa/internal/core/apperror"
	appctx "kassa/internal/core/context"
	"kassa/internal/domain/auth"
	"kassa/internal/domain/catalogs/product"
	"kassa/internal/domain/documents/receipt"
	"kassa/pkg/logger"
)

const mainMenu = "REGISTER\n1. New customer\n2. Admin\n0. Exit"

// Main menu options.
const (
	optionExit = iota
	optionCheckout
	optionAdmin
)

// AppConfig wires the console to the domain.
type AppConfig struct {
	Catalog *product.Catalog
	Store   *receipt.Store
	// Gate is optional; nil leaves the admin menu open.
	Gate *auth.PinGate
}

// App runs the register menus.
type App struct {
	con     *Console
	catalog *product.Catalog
	store   *receipt.Store
	gate    *auth.PinGate
}

// NewApp creates the application.
func NewApp(con *Console, cfg AppConfig) *App {
	return &App{
		con:     con,
		catalog: cfg.Catalog,
		store:   cfg.Store,
		gate:    cfg.Gate,
	}
}

// Run shows the main menu until the operator exits or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		choice, err := a.con.Choose(mainMenu, optionAdmin)
		if err != nil {
			return closed(err)
		}

		switch choice {
		case optionExit:
			a.con.Println("Shutting down...")
			return nil
		case optionCheckout:
			err = a.Checkout(appctx.WithSession(ctx, appctx.NewSession(appctx.ModeCheckout)))
		case optionAdmin:
			err = a.Admin(appctx.WithSession(ctx, appctx.NewSession(appctx.ModeAdmin)))
		}
		if err != nil {
			return closed(err)
		}
	}
}

// closed maps end of input to a clean exit.
func closed(err error) error {
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

// describe renders err for the operator.
func describe(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

// reportFailure tells the operator a storage operation failed and logs it.
func (a *App) reportFailure(ctx context.Context, what string, err error) {
	logger.Error(ctx, what+" failed", "error", err)
	a.con.Printf("%s failed: %s\n", what, describe(err))
}
