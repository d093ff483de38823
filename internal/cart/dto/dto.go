package dto

// CartLine is a cart item joined with live catalog data.
type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Slug      string `json:"slug"`
	UnitPrice int64  `json:"unit_price"` // current catalog price, paise
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"` // paise
	Available bool   `json:"available"`
}

type CartView struct {
	Items []CartLine `json:"items"`
	Total int64      `json:"total"` // paise, informational only
}
