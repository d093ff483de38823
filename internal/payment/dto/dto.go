package dto

type PaymentIntent struct {
	OrderID        string `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"` // paise
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"` // public key for the client SDK
}

type VerifyInput struct {
	OrderID           string
	GatewayOrderRef   string
	GatewayPaymentRef string
	Signature         string
}
