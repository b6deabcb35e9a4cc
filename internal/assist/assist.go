// Package assist holds the gateways to the hosted model: natural-language
// product matching and order-summary generation. Gateways are expected to
// fail (missing credential, network error, malformed response); callers
// receive errors as values and degrade, never crash.
package assist

import (
	"context"
	"errors"

	"github.com/hyperengineering/shopfront/internal/types"
)

// ErrNoCredential is returned when no API key was configured for the
// gateway. Detected at construction, surfaced on every call.
var ErrNoCredential = errors.New("assist: no API key configured")

// SearchGateway selects catalog products matching a free-text query.
// Implementations must never panic or leak transport errors as anything
// other than the returned error; an error or an empty id list both mean
// "no AI result" to the caller.
type SearchGateway interface {
	MatchProducts(ctx context.Context, query string, products []types.Product) ([]string, error)
}

// SummaryGateway produces a plain-text order summary from cart lines.
type SummaryGateway interface {
	Summarize(ctx context.Context, lines []types.CartLine) (string, error)
}
