package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/config"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/notification"
	"github.com/pyromart/pyromart-api/internal/order"
	"github.com/pyromart/pyromart-api/internal/payment"
	"github.com/pyromart/pyromart-api/internal/payment/dto"
	"github.com/pyromart/pyromart-api/internal/payment/gateway"
	"github.com/pyromart/pyromart-api/internal/payout"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/cache"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

const verifyMarkerTTL = 24 * time.Hour

type paymentUseCase struct {
	orders   order.Repository
	payouts  payout.UseCase
	gw       gateway.Gateway
	cache    *cache.RedisClient
	razorpay config.RazorpayConfig
	notifier notification.Notifier
	logger   logger.Logger
}

func NewPaymentUseCase(orders order.Repository, payouts payout.UseCase, gw gateway.Gateway, redis *cache.RedisClient, razorpay config.RazorpayConfig, notifier notification.Notifier, log logger.Logger) payment.UseCase {
	return &paymentUseCase{
		orders:   orders,
		payouts:  payouts,
		gw:       gw,
		cache:    redis,
		razorpay: razorpay,
		notifier: notifier,
		logger:   log,
	}
}

func (uc *paymentUseCase) loadOwned(ctx context.Context, customerID, orderID string) (*model.Order, error) {
	o, err := uc.orders.FindByID(ctx, orderID)
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

func (uc *paymentUseCase) CreateIntent(ctx context.Context, customerID, orderID string) (*dto.PaymentIntent, error) {
	o, err := uc.loadOwned(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusPendingPayment {
		return nil, apperr.StateConflictf("order is not awaiting payment")
	}

	// TotalAmount is already integer paise, the gateway's minor unit.
	gwOrder, err := uc.gw.CreateOrder(ctx, o.TotalAmount, "INR", gateway.Receipt(o.ID))
	if err != nil {
		return nil, err
	}

	return &dto.PaymentIntent{
		OrderID:        o.ID,
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		KeyID:          uc.razorpay.KeyID,
	}, nil
}

func (uc *paymentUseCase) Verify(ctx context.Context, customerID string, input *dto.VerifyInput) (*model.Order, error) {
	o, err := uc.loadOwned(ctx, customerID, input.OrderID)
	if err != nil {
		return nil, err
	}

	// Replay of a confirmation we already accepted.
	if o.PaymentStatus == model.PaymentStatusSuccess &&
		o.GatewayPaymentRef != nil && *o.GatewayPaymentRef == input.GatewayPaymentRef {
		return o, nil
	}

	// Signature check comes before any mutation; a tampered confirmation
	// must leave the order untouched.
	if !gateway.VerifySignature(uc.razorpay.KeySecret, input.GatewayOrderRef, input.GatewayPaymentRef, input.Signature) {
		return nil, apperr.SignatureMismatchf("payment signature verification failed")
	}

	// Idempotency marker per (order, payment ref) absorbs duplicate client
	// retries racing past the replay check above.
	markerKey := fmt.Sprintf("payment:verify:%s:%s", input.OrderID, input.GatewayPaymentRef)
	markerVal := uuid.New().String()
	if uc.cache != nil {
		acquired, err := uc.cache.AcquireLock(ctx, markerKey, markerVal, verifyMarkerTTL)
		if err != nil {
			uc.logger.Error("verify idempotency marker unavailable", zap.Error(err))
		} else if !acquired {
			current, err := uc.orders.FindByID(ctx, input.OrderID)
			if err != nil {
				return nil, err
			}
			return current, nil
		}
	}

	o.Status = model.OrderStatusPaid
	o.PaymentStatus = model.PaymentStatusSuccess
	o.GatewayOrderRef = &input.GatewayOrderRef
	o.GatewayPaymentRef = &input.GatewayPaymentRef
	o.UpdatedAt = time.Now()

	p := uc.payouts.Build(o)
	if err := uc.orders.MarkPaidWithPayout(ctx, o, p); err != nil {
		// Free the marker so the client can retry the whole verification.
		if uc.cache != nil {
			if relErr := uc.cache.ReleaseLock(ctx, markerKey, markerVal); relErr != nil {
				uc.logger.Error("failed to release verify marker", zap.Error(relErr))
			}
		}
		return nil, err
	}

	uc.notifier.Notify(ctx, o.CustomerID, notification.RecipientCustomer,
		"Payment successful", fmt.Sprintf("Payment of ₹%.2f for order %s was received.", model.PaiseToRupees(o.TotalAmount), o.ID),
		notification.CategoryPayment)

	return o, nil
}

func (uc *paymentUseCase) MarkFailed(ctx context.Context, customerID, orderID string) (*model.Order, error) {
	o, err := uc.loadOwned(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, apperr.StateConflictf("order is already %s", o.Status)
	}

	o.PaymentStatus = model.PaymentStatusFailed
	o.Status = model.OrderStatusPendingPayment
	o.UpdatedAt = time.Now()
	if err := uc.orders.UpdateState(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
