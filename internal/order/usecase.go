package order

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/model"
)

type UseCase interface {
	// Create converts the customer's cart into a priced, stock-committed
	// order. Stock decrements, the order insert and the cart clear commit
	// or roll back together.
	Create(ctx context.Context, customerID string) (*model.Order, error)

	GetForCustomer(ctx context.Context, customerID, orderID string) (*model.Order, error)
	ListForCustomer(ctx context.Context, customerID string, page, pageSize int) ([]model.Order, int, error)

	// Admin lifecycle.
	ListAdmin(ctx context.Context, status string, page, pageSize int) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, orderID string) (*model.Order, error)
}
