package dto

type ProductFilters struct {
	SellerID     string
	Status       string
	CategorySlug string
	SearchQuery  string
	VisibleOnly  bool // approved and not soft-deleted
	SortBy       string
	SortOrder    string
	Page         int
	PageSize     int
}

// Normalize clamps pagination to sane values.
func (f *ProductFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 10
	}
}

func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
