// Package pagination provides bounded page/limit windowing for listings.
package pagination

import "food-court/internal/domain"

const (
	// MaxLimit is the largest page size a caller may request.
	MaxLimit = 50

	DefaultPage  = 1
	DefaultLimit = 10
)

// Window is a resolved offset/limit pair ready for a SQL query.
type Window struct {
	Page   int
	Limit  int
	Offset int
}

// Info is the pagination block returned alongside a listing.
type Info struct {
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	TotalPages  int `json:"totalPages"`
}

// Resolve coerces page and limit to positive values and computes the row
// offset. A limit above MaxLimit is rejected outright rather than clamped.
func Resolve(page, limit int) (Window, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		return Window{}, domain.Validationf("limit reached, maximum of %d", MaxLimit)
	}

	safeLimit := min(limit, MaxLimit)
	return Window{
		Page:   page,
		Limit:  safeLimit,
		Offset: (page - 1) * safeLimit,
	}, nil
}

// TotalPages returns ceil(totalCount / limit).
func TotalPages(totalCount, limit int) int {
	if limit < 1 {
		return 0
	}
	return (totalCount + limit - 1) / limit
}
