package cart

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/cart/dto"
)

type UseCase interface {
	// AddItem upserts a line: adding a product already in the cart replaces
	// its quantity.
	AddItem(ctx context.Context, customerID, productID string, quantity int) (*dto.CartView, error)
	// RemoveItem is idempotent; removing an absent line is not an error.
	RemoveItem(ctx context.Context, customerID, productID string) (*dto.CartView, error)
	// GetCart joins lines with live product data. Prices shown are
	// informational; checkout re-resolves them.
	GetCart(ctx context.Context, customerID string) (*dto.CartView, error)
}
