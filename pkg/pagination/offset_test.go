package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   OffsetRequest
		want OffsetRequest
	}{
		{"defaults", OffsetRequest{}, OffsetRequest{Page: 1, Size: PageDefaultSize}},
		{"negative page", OffsetRequest{Page: -3, Size: 5}, OffsetRequest{Page: 1, Size: 5}},
		{"too large", OffsetRequest{Page: 2, Size: 500}, OffsetRequest{Page: 2, Size: PageMaxSize}},
		{"valid", OffsetRequest{Page: 4, Size: 10}, OffsetRequest{Page: 4, Size: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.Normalize()
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, OffsetRequest{Page: 1, Size: 2}))
	assert.Equal(t, []int{5}, Paginate(items, OffsetRequest{Page: 3, Size: 2}))
	assert.Empty(t, Paginate(items, OffsetRequest{Page: 4, Size: 2}))
}

func TestNewOffsetResult_NeverNilItems(t *testing.T) {
	r := NewOffsetResult[int](nil, 0, 1, 20)

	assert.NotNil(t, r.Items)
	assert.Equal(t, OffsetMeta{Page: 1, Size: 20, Total: 0}, r.Meta)
}

func TestOffsetRequest_OffsetSaturates(t *testing.T) {
	tests := []struct {
		name string
		in   OffsetRequest
		want int
	}{
		{"first page", OffsetRequest{Page: 1, Size: 20}, 0},
		{"third page", OffsetRequest{Page: 3, Size: 20}, 40},
		{"zero size", OffsetRequest{Page: 3, Size: 0}, 0},
		{"largest exact", OffsetRequest{Page: math.MaxInt/50 + 1, Size: 50}, (math.MaxInt / 50) * 50},
		{"wraps past max int", OffsetRequest{Page: 2305843009213693953, Size: 20}, math.MaxInt},
		{"max page", OffsetRequest{Page: math.MaxInt, Size: 2}, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Offset())
		})
	}
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(items, OffsetRequest{Page: 2305843009213693953, Size: 20}))
		assert.Empty(t, Paginate(items, OffsetRequest{Page: math.MaxInt, Size: 50}))
	})

	lo, hi := OffsetRequest{Page: math.MaxInt, Size: 50}.Bounds(len(items))
	assert.Equal(t, 3, lo)
	assert.Equal(t, 3, hi)
}
