package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pyromart/pyromart-api/internal/cart"
	"github.com/pyromart/pyromart-api/internal/catalog"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/notification"
	"github.com/pyromart/pyromart-api/internal/order"
	"github.com/pyromart/pyromart-api/internal/order/dto"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type orderUseCase struct {
	repo     order.Repository
	carts    cart.Repository
	catalog  catalog.Repository
	notifier notification.Notifier
	logger   logger.Logger
}

func NewOrderUseCase(repo order.Repository, carts cart.Repository, catalogRepo catalog.Repository, notifier notification.Notifier, log logger.Logger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		carts:    carts,
		catalog:  catalogRepo,
		notifier: notifier,
		logger:   log,
	}
}

func (uc *orderUseCase) Create(ctx context.Context, customerID string) (*model.Order, error) {
	c, err := uc.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cartItems, err := uc.carts.GetItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, apperr.StateConflictf("cart is empty")
	}

	now := time.Now()
	orderID := uuid.New().String()

	// Snapshot the current catalog price per line; later price changes must
	// not touch this order. Mixed-seller carts are rejected outright rather
	// than silently attributed to the first line's seller.
	var sellerID string
	var total int64
	items := make([]model.OrderItem, 0, len(cartItems))
	for _, ci := range cartItems {
		p, err := uc.catalog.FindByID(ctx, ci.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.Visible() {
			return nil, apperr.StateConflictf("product %s is no longer available", ci.ProductID)
		}
		if sellerID == "" {
			sellerID = p.SellerID
		} else if p.SellerID != sellerID {
			return nil, apperr.StateConflictf("cart contains items from multiple sellers; order them separately")
		}

		items = append(items, model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  ci.Quantity,
			UnitPrice: p.SellingPrice,
		})
		total += p.SellingPrice * int64(ci.Quantity)
	}

	o := &model.Order{
		BaseModel:     model.BaseModel{ID: orderID, CreatedAt: now, UpdatedAt: now},
		CustomerID:    customerID,
		SellerID:      sellerID,
		TotalAmount:   total,
		Status:        model.OrderStatusPendingPayment,
		PaymentStatus: model.PaymentStatusPending,
		Items:         items,
	}

	if err := uc.repo.CreateWithStock(ctx, o); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, sellerID, notification.RecipientSeller,
		"New order received", fmt.Sprintf("Order %s for ₹%.2f is awaiting payment.", o.ID, model.PaiseToRupees(total)),
		notification.CategoryOrder)

	return o, nil
}

func (uc *orderUseCase) GetForCustomer(ctx context.Context, customerID, orderID string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFoundf("order not found")
	}
	if o.CustomerID != customerID {
		return nil, apperr.Authorizationf("not your order")
	}
	return o, nil
}

func (uc *orderUseCase) ListForCustomer(ctx context.Context, customerID string, page, pageSize int) ([]model.Order, int, error) {
	filters := &dto.OrderFilters{CustomerID: customerID, Page: page, PageSize: pageSize}
	filters.Normalize()
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) ListAdmin(ctx context.Context, status string, page, pageSize int) ([]model.Order, int, error) {
	if status != "" && !model.OrderStatus(status).Valid() {
		return nil, 0, apperr.Validationf("unknown order status %q", status)
	}
	filters := &dto.OrderFilters{Status: status, Page: page, PageSize: pageSize}
	filters.Normalize()
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() || status == model.OrderStatusCancelled {
		return nil, apperr.Validationf("invalid target status %q", status)
	}

	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFoundf("order not found")
	}
	if !o.Status.CanAdvanceTo(status) {
		return nil, apperr.StateConflictf("cannot move order from %s to %s", o.Status, status)
	}

	o.Status = status
	o.UpdatedAt = time.Now()
	if err := uc.repo.UpdateState(ctx, o); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, o.CustomerID, notification.RecipientCustomer,
		"Order update", fmt.Sprintf("Your order %s is now %s.", o.ID, o.Status),
		notification.CategoryOrder)

	return o, nil
}

// Cancel is reachable from any non-terminal state and forces the payment
// axis to failed.
func (uc *orderUseCase) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFoundf("order not found")
	}
	if o.Status.Terminal() {
		return nil, apperr.StateConflictf("order is already %s", o.Status)
	}

	o.Status = model.OrderStatusCancelled
	o.PaymentStatus = model.PaymentStatusFailed
	o.UpdatedAt = time.Now()
	if err := uc.repo.UpdateState(ctx, o); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, o.CustomerID, notification.RecipientCustomer,
		"Order cancelled", fmt.Sprintf("Your order %s has been cancelled.", o.ID),
		notification.CategoryOrder)

	return o, nil
}
