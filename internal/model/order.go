package model

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// orderStatusRank orders the forward-moving fulfillment states. Cancelled is
// deliberately absent: it is reachable from any non-terminal state via
// Cancel, never via UpdateStatus.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPendingPayment: 0,
	OrderStatusPaid:           1,
	OrderStatusPacked:         2,
	OrderStatusShipped:        3,
	OrderStatusDelivered:      4,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok || s == OrderStatusCancelled
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanAdvanceTo reports whether next is a strictly forward fulfillment move.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok1 := orderStatusRank[s]
	to, ok2 := orderStatusRank[next]
	return ok1 && ok2 && to > from
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Order struct {
	BaseModel
	CustomerID        string        `db:"customer_id" json:"customer_id"`
	SellerID          string        `db:"seller_id" json:"seller_id"`
	TotalAmount       int64         `db:"total_amount" json:"total_amount"` // paise
	Status            OrderStatus   `db:"status" json:"status"`
	PaymentStatus     PaymentStatus `db:"payment_status" json:"payment_status"`
	GatewayOrderRef   *string       `db:"gateway_order_ref" json:"gateway_order_ref,omitempty"`
	GatewayPaymentRef *string       `db:"gateway_payment_ref" json:"gateway_payment_ref,omitempty"`
	Items             []OrderItem   `db:"-" json:"items"`
}

// OrderItem freezes name, quantity and unit price at order-creation time.
// Later catalog price changes never touch it.
type OrderItem struct {
	ID        string `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Quantity  int    `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"` // paise
}
