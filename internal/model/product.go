package model

import "github.com/lib/pq"

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
	ProductStatusBlocked  ProductStatus = "blocked"
)

type Product struct {
	BaseModel
	SellerID         string         `db:"seller_id" json:"seller_id"`
	Name             string         `db:"name" json:"name"`
	Slug             string         `db:"slug" json:"slug"`
	Description      *string        `db:"description" json:"description"`
	Brand            *string        `db:"brand" json:"brand"`
	CategoryMain     string         `db:"category_main" json:"category_main"`
	CategorySub      *string        `db:"category_sub" json:"category_sub"`
	CategoryMainSlug string         `db:"category_main_slug" json:"category_main_slug"`
	CategorySubSlug  *string        `db:"category_sub_slug" json:"category_sub_slug"`
	Images           pq.StringArray `db:"images" json:"images"`
	NetQuantity      string         `db:"net_quantity" json:"net_quantity"`
	MRP              *int64         `db:"mrp" json:"mrp"`                     // paise
	SellingPrice     int64          `db:"selling_price" json:"selling_price"` // paise
	GSTPercent       float64        `db:"gst_percent" json:"gst_percent"`
	TotalBoxes       int            `db:"total_boxes" json:"total_boxes"`
	PiecesPerBox     int            `db:"pieces_per_box" json:"pieces_per_box"`
	AvailablePieces  int            `db:"available_pieces" json:"available_pieces"`
	Status           ProductStatus  `db:"status" json:"status"`
	RejectionReason  *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	IsDeleted        bool           `db:"is_deleted" json:"is_deleted"`
}

// Visible reports whether customers may see this product.
func (p *Product) Visible() bool {
	return p.Status == ProductStatusApproved && !p.IsDeleted
}
