package pagination

// OffsetMeta describes the page that was served
type OffsetMeta struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

// OffsetResult represents traditional offset-based pagination
type OffsetResult[T any] struct {
	Meta  OffsetMeta `json:"meta"`
	Items []T        `json:"results"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](items []T, total int64, page int, size int) *OffsetResult[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &OffsetResult[T]{
		Meta:  OffsetMeta{Page: page, Size: size, Total: total},
		Items: items,
	}
}

// Paginate slices one page out of an in-memory list
func Paginate[T any](items []T, req OffsetRequest) []T {
	lo, hi := req.Bounds(len(items))
	return items[lo:hi]
}
