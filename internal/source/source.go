// Package source defines the upstream content source contract and the
// resilient client that makes a source safe to call under partial failure.
package source

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

// Source fetches one page of normalized items matching a query.
// Implementations must honor ctx cancellation.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error)
}

// ErrCircuitOpen is returned without calling the source while its breaker is open.
var ErrCircuitOpen = errors.New("circuit open")

// IsCancellation reports whether err is a caller cancellation or timeout signal.
// Such errors are never retried and never count against a breaker.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
