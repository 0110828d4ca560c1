package console

import (
	"context"

	"kassa/internal/domain/catalogs/product"
)

// Confirmer asks the operator before the catalog file is rewritten.
func (c *Console) Confirmer() product.Confirmer {
	return product.ConfirmFunc(func(_ context.Context, affectedRows int) (bool, error) {
		c.Printf("%d row(s) in the catalog will change.\n", affectedRows)
		answer, err := c.Prompt("Save changes? [y/N] ")
		if err != nil {
			return false, err
		}
		return ParseYes(answer), nil
	})
}
