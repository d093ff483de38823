package dto

type CreateProductInput struct {
	SellerID     string
	Name         string
	Description  string
	Brand        string
	CategoryMain string
	CategorySub  string
	Images       []string
	NetQuantity  string
	MRP          *int64 // paise
	SellingPrice int64  // paise
	GSTPercent   float64
	TotalBoxes   int
	PiecesPerBox int
}

// UpdateProductInput is a patch: nil fields are left untouched, and derived
// state is recomputed only for the inputs that actually changed.
type UpdateProductInput struct {
	ID           string
	CallerID     string
	CallerRole   string
	Name         *string
	Description  *string
	Brand        *string
	CategoryMain *string
	CategorySub  *string
	Images       []string // nil = unchanged
	NetQuantity  *string
	MRP          *int64
	SellingPrice *int64
	GSTPercent   *float64
	TotalBoxes   *int
	PiecesPerBox *int
}
