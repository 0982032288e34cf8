package pagination

import "math"

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"size" validate:"min=1,max=50"`
}

// Normalize clamps page to >= 1 and size into [1, PageMaxSize]
func (r *OffsetRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}

// Offset is the number of items skipped before this page.
// It saturates at math.MaxInt instead of overflowing.
func (r OffsetRequest) Offset() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Size
}

// Bounds returns the [lo, hi) slice window of this page over n items
func (r OffsetRequest) Bounds(n int) (int, int) {
	lo := r.Offset()
	if lo > n {
		lo = n
	}
	if r.Size <= 0 || r.Size > n-lo {
		return lo, n
	}
	return lo, lo + r.Size
}
