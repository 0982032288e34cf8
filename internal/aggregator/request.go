package aggregator

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/content-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

const KindAll = "all"

// Request is a raw search request. Empty Kind and Sort take their defaults;
// a zero Page is the first page and a zero Size the default page size.
type Request struct {
	Query string
	Kind  string
	Sort  string
	Page  int
	Size  int
}

// Query is a validated, normalized Request.
type Query struct {
	Query string
	Kind  string
	Sort  search.Sort
	Page  int
	Size  int
}

// Normalize trims and lowercases the text inputs, applies defaults and
// rejects invalid values with per-field detail.
func Normalize(r Request) (Query, error) {
	q := Query{
		Query: strings.ToLower(strings.TrimSpace(r.Query)),
		Kind:  strings.ToLower(strings.TrimSpace(r.Kind)),
		Sort:  search.Sort(strings.ToLower(strings.TrimSpace(r.Sort))),
		Page:  max(1, r.Page),
		Size:  r.Size,
	}
	if q.Kind == "" {
		q.Kind = KindAll
	}
	if q.Sort == "" {
		q.Sort = search.SortPopularity
	}
	if q.Size == 0 {
		q.Size = pagination.PageDefaultSize
	}

	fe := apperr.FieldErrors{}
	if q.Query == "" {
		fe.Add("query", "query must not be blank")
	}
	if q.Kind != KindAll && !domain.Kind(q.Kind).Valid() {
		fe.Add("kind", "kind must be one of: all, video, text")
	}
	if q.Sort != search.SortPopularity && q.Sort != search.SortRelevance {
		fe.Add("sort", "sort must be one of: popularity, relevance")
	}
	if q.Size < 1 || q.Size > pagination.PageMaxSize {
		fe.Add("size", fmt.Sprintf("size must be between 1 and %d", pagination.PageMaxSize))
	}
	if err := fe.Err(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// CacheKey is deterministic over the normalized tuple.
func (q Query) CacheKey() string {
	return fmt.Sprintf("search:%s:%s:%s:%d:%d", q.Query, q.Kind, q.Sort, q.Page, q.Size)
}

func (q Query) kindFilter() domain.Kind {
	if q.Kind == KindAll {
		return ""
	}
	return domain.Kind(q.Kind)
}

func (q Query) criteria() search.Criteria {
	return search.Criteria{
		Query: q.Query,
		Kind:  q.kindFilter(),
		Sort:  q.Sort,
		Page:  pagination.OffsetRequest{Page: q.Page, Size: q.Size},
	}
}
