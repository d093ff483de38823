package cart

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/model"
)

type Repository interface {
	GetOrCreate(ctx context.Context, customerID string) (*model.Cart, error)
	SetItem(ctx context.Context, cartID, productID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	GetItems(ctx context.Context, cartID string) ([]model.CartItem, error)
}
