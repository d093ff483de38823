package payout

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/payout/dto"
)

type UseCase interface {
	// Build computes the settlement record for a paid order: commission at
	// the configured rate, net amount, settlement date one cycle out. Pure
	// computation; persistence happens inside the payment-verify transaction.
	Build(order *model.Order) *model.Payout

	MarkProcessing(ctx context.Context, payoutID string) (*model.Payout, error)
	MarkPaid(ctx context.Context, payoutID string) (*model.Payout, error)
	ListForSeller(ctx context.Context, sellerID string, page, pageSize int) ([]model.Payout, int, error)
	ListAll(ctx context.Context, filters *dto.PayoutFilters) ([]model.Payout, int, error)
}
