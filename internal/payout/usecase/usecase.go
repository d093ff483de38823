package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pyromart/pyromart-api/config"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/notification"
	"github.com/pyromart/pyromart-api/internal/payout"
	"github.com/pyromart/pyromart-api/internal/payout/dto"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type payoutUseCase struct {
	repo       payout.Repository
	settlement config.SettlementConfig
	notifier   notification.Notifier
	logger     logger.Logger
}

func NewPayoutUseCase(repo payout.Repository, settlement config.SettlementConfig, notifier notification.Notifier, log logger.Logger) payout.UseCase {
	return &payoutUseCase{
		repo:       repo,
		settlement: settlement,
		notifier:   notifier,
		logger:     log,
	}
}

// Build computes commission in integer paise; the rate is basis points so no
// float enters the money path.
func (uc *payoutUseCase) Build(order *model.Order) *model.Payout {
	now := time.Now()
	commission := order.TotalAmount * int64(uc.settlement.CommissionRateBPS) / 10000

	return &model.Payout{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrderID:        order.ID,
		SellerID:       order.SellerID,
		GrossAmount:    order.TotalAmount,
		Commission:     commission,
		NetAmount:      order.TotalAmount - commission,
		Status:         model.PayoutStatusPending,
		SettlementDate: now.Add(uc.settlement.Cycle()),
	}
}

func (uc *payoutUseCase) MarkProcessing(ctx context.Context, payoutID string) (*model.Payout, error) {
	return uc.transition(ctx, payoutID, model.PayoutStatusProcessing)
}

func (uc *payoutUseCase) MarkPaid(ctx context.Context, payoutID string) (*model.Payout, error) {
	p, err := uc.transition(ctx, payoutID, model.PayoutStatusPaid)
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, p.SellerID, notification.RecipientSeller,
		"Payout released", fmt.Sprintf("₹%.2f has been released for order %s.", model.PaiseToRupees(p.NetAmount), p.OrderID),
		notification.CategoryPayout)

	return p, nil
}

func (uc *payoutUseCase) transition(ctx context.Context, payoutID string, status model.PayoutStatus) (*model.Payout, error) {
	p, err := uc.repo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("payout not found")
	}
	if p.Status == model.PayoutStatusPaid {
		return nil, apperr.StateConflictf("payout is already paid")
	}

	p.Status = status
	p.UpdatedAt = time.Now()
	if err := uc.repo.UpdateStatus(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *payoutUseCase) ListForSeller(ctx context.Context, sellerID string, page, pageSize int) ([]model.Payout, int, error) {
	filters := &dto.PayoutFilters{SellerID: sellerID, Page: page, PageSize: pageSize}
	filters.Normalize()
	return uc.repo.FindAll(ctx, filters)
}

func (uc *payoutUseCase) ListAll(ctx context.Context, filters *dto.PayoutFilters) ([]model.Payout, int, error) {
	filters.Normalize()
	return uc.repo.FindAll(ctx, filters)
}
