package router

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/content-hunter/internal/aggregator"
	"github.com/DjordjeVuckovic/content-hunter/internal/apperr"
	"github.com/labstack/echo/v4"
)

type Searcher interface {
	Search(ctx context.Context, req aggregator.Request) ([]byte, error)
}

type SearchRouter struct {
	e           *echo.Echo
	searcher    Searcher
	middlewares []echo.MiddlewareFunc
}

type SearchRouterOption func(*SearchRouter)

// WithMiddleware adds route-level middleware to the search route. Nil
// entries are ignored.
func WithMiddleware(m ...echo.MiddlewareFunc) SearchRouterOption {
	return func(r *SearchRouter) {
		for _, fn := range m {
			if fn != nil {
				r.middlewares = append(r.middlewares, fn)
			}
		}
	}
}

func NewSearchRouter(e *echo.Echo, searcher Searcher, opts ...SearchRouterOption) *SearchRouter {
	r := &SearchRouter{
		e:        e,
		searcher: searcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SearchRouter) Bind() {
	api := r.e.Group("/api")
	api.GET("/search", r.searchHandler, r.middlewares...)
}

// searchHandler godoc
// @Summary Search aggregated content
// @Description Queries every configured provider, merges the results into the store and returns them ranked
// @Tags search
// @Produce json
// @Param query query string true "Search text"
// @Param kind query string false "Content kind" Enums(all, video, text) default(all)
// @Param sort query string false "Ordering" Enums(popularity, relevance) default(popularity)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" minimum(1) maximum(50) default(20)
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/search [get]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	req := aggregator.Request{
		Query: c.QueryParam("query"),
		Kind:  c.QueryParam("kind"),
		Sort:  c.QueryParam("sort"),
	}

	fe := apperr.FieldErrors{}
	req.Page = intParam(c, "page", fe)
	req.Size = intParam(c, "size", fe)

	if len(fe) > 0 {
		// report the remaining fields alongside the parse errors
		if _, err := aggregator.Normalize(req); err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				for field, msgs := range ve.Fields {
					for _, msg := range msgs {
						fe.Add(field, msg)
					}
				}
			}
		}
		return fe.Err()
	}

	body, err := r.searcher.Search(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSONBlob(http.StatusOK, body)
}

// intParam parses an optional integer query parameter; a missing value is 0.
func intParam(c echo.Context, name string, fe apperr.FieldErrors) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fe.Add(name, name+" must be an integer")
		return 0
	}
	return v
}
