package console

import (
	"strconv"
	"strings"

	"kassa/internal/core/apperror"
	"kassa/internal/core/types"
	"kassa/internal/domain/catalogs/product"
)

// PayCommand closes the current checkout.
const PayCommand = "pay"

// CheckoutCommand is one line typed during checkout.
type CheckoutCommand struct {
	Pay       bool
	ProductID string
	Amount    types.Amount
}

// ParseCheckoutCommand accepts "PAY" (any case) or "<product id> <amount>".
func ParseCheckoutCommand(line string) (CheckoutCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 1 && strings.EqualFold(fields[0], PayCommand) {
		return CheckoutCommand{Pay: true}, nil
	}
	if len(fields) != 2 {
		return CheckoutCommand{}, apperror.NewInvalidInput("expected <product id> <amount> or PAY")
	}

	amount, err := types.NewMoneyFromString(fields[1])
	if err != nil || !amount.IsPositive() {
		return CheckoutCommand{}, apperror.NewInvalidInput("amount must be a positive number").
			WithDetail("amount", fields[1])
	}
	return CheckoutCommand{ProductID: fields[0], Amount: amount}, nil
}

// CheckAmount rejects fractional amounts for products sold by piece.
func CheckAmount(amount types.Amount, priceType product.PriceType) error {
	if !priceType.IsFractional() && !amount.Equal(amount.Truncate(0)) {
		return apperror.NewInvalidInput("amount must be a whole number").
			WithDetail("amount", amount.String())
	}
	return nil
}

// ParseChoice reads a menu option in [0, maxOption].
func ParseChoice(s string, maxOption int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > maxOption {
		return 0, apperror.NewInvalidInput("unknown option").WithDetail("option", s)
	}
	return n, nil
}

// ParsePrice reads a strictly positive price.
func ParsePrice(s string) (types.Money, error) {
	price, err := types.NewMoneyFromString(s)
	if err != nil || !price.IsPositive() {
		return types.Zero(), apperror.NewInvalidInput("price must be a positive number").
			WithDetail("price", s)
	}
	return price, nil
}

// ParseYes reports whether s is an affirmative answer.
func ParseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
