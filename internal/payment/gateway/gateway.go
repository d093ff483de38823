package gateway

import "context"

// Order is the gateway-side payment intent created for a marketplace order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway is the create-intent side of the payment provider contract.
// Signature verification is local (see signature.go) and needs no network.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
}
