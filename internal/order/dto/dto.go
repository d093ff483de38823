package dto

type OrderFilters struct {
	CustomerID string
	SellerID   string
	Status     string
	Page       int
	PageSize   int
}

func (f *OrderFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 10
	}
}
