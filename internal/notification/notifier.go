package notification

import "context"

const (
	RecipientSeller   = "seller"
	RecipientCustomer = "customer"
)

const (
	CategoryProduct = "product"
	CategoryOrder   = "order"
	CategoryPayment = "payment"
	CategoryPayout  = "payout"
)

// Notifier is fire-and-forget: implementations must never surface delivery
// failures to the caller, only log them.
type Notifier interface {
	Notify(ctx context.Context, recipientID, recipientType, title, message, category string)
}

// Noop drops everything. Used in tests.
type Noop struct{}

func (Noop) Notify(ctx context.Context, recipientID, recipientType, title, message, category string) {
}
