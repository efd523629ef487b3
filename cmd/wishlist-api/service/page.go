package service

import "github.com/wishstock/wishlist/common/apperr"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage applies the default page size and rejects negative or
// oversized pages.
func normalizePage(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit < 0 || limit > maxPageSize {
		return 0, 0, apperr.Invalid("limit must be between 1 and %d", maxPageSize)
	}
	if offset < 0 {
		return 0, 0, apperr.Invalid("offset must not be negative")
	}
	return limit, offset, nil
}
