package model

import "time"

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusPaid       PayoutStatus = "paid"
)

// Payout is one-to-one with the order that produced it; order_id carries a
// unique index so double settlement fails at the database.
type Payout struct {
	BaseModel
	OrderID        string       `db:"order_id" json:"order_id"`
	SellerID       string       `db:"seller_id" json:"seller_id"`
	GrossAmount    int64        `db:"gross_amount" json:"gross_amount"` // paise
	Commission     int64        `db:"commission" json:"commission"`     // paise
	NetAmount      int64        `db:"net_amount" json:"net_amount"`     // paise
	Status         PayoutStatus `db:"status" json:"status"`
	SettlementDate time.Time    `db:"settlement_date" json:"settlement_date"`
}
