package order

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/order/dto"
)

type Repository interface {
	// CreateWithStock runs the whole order-creation write set in one
	// transaction: conditional stock decrement per line (guarded update, no
	// read-modify-write), order + item inserts, cart clear.
	CreateWithStock(ctx context.Context, order *model.Order) error

	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	// UpdateState persists status, payment status and gateway refs.
	UpdateState(ctx context.Context, order *model.Order) error

	// MarkPaidWithPayout transitions the order to paid/success and inserts
	// the payout in the same transaction, so a verified payment is never
	// durable without its settlement record.
	MarkPaidWithPayout(ctx context.Context, order *model.Order, payout *model.Payout) error
}
