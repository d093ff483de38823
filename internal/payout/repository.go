package payout

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/payout/dto"
)

// Repository reads and transitions payout records. Inserts happen in the
// order repository's payment-verify transaction.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Payout, error)
	FindAll(ctx context.Context, filters *dto.PayoutFilters) ([]model.Payout, int, error)
	UpdateStatus(ctx context.Context, payout *model.Payout) error
}
