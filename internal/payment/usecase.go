package payment

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/payment/dto"
)

type UseCase interface {
	// CreateIntent asks the gateway for a payment intent covering the
	// order's total. No local state changes.
	CreateIntent(ctx context.Context, customerID, orderID string) (*dto.PaymentIntent, error)

	// Verify authenticates a gateway confirmation. On signature mismatch the
	// order is left byte-for-byte untouched. On success the order moves to
	// paid/success and the payout is created in the same transaction.
	// Replays of an already-verified confirmation are no-ops.
	Verify(ctx context.Context, customerID string, input *dto.VerifyInput) (*model.Order, error)

	// MarkFailed returns the order to a retryable pending-payment state.
	MarkFailed(ctx context.Context, customerID, orderID string) (*model.Order, error)
}
