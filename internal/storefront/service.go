// Package storefront implements the intent layer of the storefront: a
// single service owning the catalog, the cart, the filter engine, and the
// two AI gateways. Every presentation-layer intent goes through here.
//
// Gateway failures never leave this package as errors: the search intent
// resolves them to the local name-match fallback and the summary intent to
// a user-visible message, so the presentation layer only ever sees values.
package storefront

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hyperengineering/shopfront/internal/assist"
	"github.com/hyperengineering/shopfront/internal/cart"
	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/hyperengineering/shopfront/internal/filter"
	"github.com/hyperengineering/shopfront/internal/types"
)

var (
	// ErrUnknownProduct is returned when a cart intent names a product
	// that is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrSearchInFlight is returned when an AI search is submitted while
	// another one is still running. Filter edits are still allowed.
	ErrSearchInFlight = errors.New("ai search already in flight")

	// ErrSummaryInFlight is returned when an order summary is requested
	// while another one is still running.
	ErrSummaryInFlight = errors.New("order summary already in flight")

	// ErrEmptyQuery mirrors the engine's requirement of a non-empty
	// trimmed query for AI search.
	ErrEmptyQuery = filter.ErrEmptyQuery
)

// Fixed summary messages. The empty-cart message is returned without ever
// calling the gateway.
const (
	EmptyCartSummary   = "No items in cart."
	summaryNoKeyNote   = "API key missing. Configure OPENAI_API_KEY to enable order summaries."
	summaryFailureNote = "Error generating order summary. Please check your connection."
)

// Service coordinates all storefront state. All intent handling is
// serialized behind one mutex, the Go rendition of the original single
// event loop; gateway calls happen outside the lock and re-enter through
// the engine's request token.
type Service struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	cart    *cart.Cart
	engine  *filter.Engine
	search  assist.SearchGateway
	summary assist.SummaryGateway
	log     *slog.Logger

	searchInFlight  bool
	summaryInFlight bool
}

// New creates the storefront service over an already loaded catalog.
func New(c *catalog.Catalog, search assist.SearchGateway, summary assist.SummaryGateway, log *slog.Logger) *Service {
	return &Service{
		catalog: c,
		cart:    cart.New(),
		engine:  filter.NewEngine(c),
		search:  search,
		summary: summary,
		log:     log,
	}
}

// Catalog returns the underlying catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// VisibleProducts returns the currently visible list with filter state and
// the list heading.
func (s *Service) VisibleProducts() types.ProductsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.engine.Visible()
	return types.ProductsResponse{
		Products: visible,
		Filter:   s.engine.State(),
		Heading:  s.engine.Heading(),
		Count:    len(visible),
	}
}

// SelectCategory applies a category filter. Category selection always wins
// over a previous or in-flight AI search.
func (s *Service) SelectCategory(cat string) types.ProductsResponse {
	s.mu.Lock()
	s.engine.SelectCategory(cat)
	s.mu.Unlock()
	return s.VisibleProducts()
}

// SetQueryText updates the free-text filter; filtering is synchronous.
func (s *Service) SetQueryText(q string) types.ProductsResponse {
	s.mu.Lock()
	s.engine.SetQuery(q)
	s.mu.Unlock()
	return s.VisibleProducts()
}

// ResetFilters restores the default filter state.
func (s *Service) ResetFilters() types.ProductsResponse {
	s.mu.Lock()
	s.engine.Reset()
	s.mu.Unlock()
	return s.VisibleProducts()
}

// SubmitAISearch runs the asynchronous AI product search for the current
// query. Only one search runs at a time; a second submit while one is in
// flight returns ErrSearchInFlight. If the user edits filters while the
// gateway call is out, the stale response is discarded and the manual
// state stands (Outcome.Applied reports which happened).
func (s *Service) SubmitAISearch(ctx context.Context) (types.SearchResponse, error) {
	s.mu.Lock()
	if s.searchInFlight {
		s.mu.Unlock()
		return types.SearchResponse{}, ErrSearchInFlight
	}

	token, err := s.engine.BeginAISearch()
	if err != nil {
		s.mu.Unlock()
		return types.SearchResponse{}, err
	}
	s.searchInFlight = true
	query := s.engine.State().Query
	products := s.catalog.Products()
	s.mu.Unlock()

	ids, gerr := s.search.MatchProducts(ctx, query, products)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchInFlight = false

	if gerr != nil {
		s.log.Warn("ai search failed, using local fallback",
			"query", query,
			"error", gerr,
		)
	}

	outcome := s.engine.ApplySearchResult(token, ids, gerr != nil)
	visible := s.engine.Visible()
	return types.SearchResponse{Products: visible, Outcome: outcome}, nil
}

// CartState returns lines, unit count, and total.
func (s *Service) CartState() types.CartResponse {
	return types.CartResponse{
		Lines: s.cart.Lines(),
		Count: s.cart.Count(),
		Total: s.cart.Total(),
	}
}

// AddToCart adds one unit of the identified product, freezing its fields
// into the cart line at add time.
func (s *Service) AddToCart(id string) (types.CartResponse, error) {
	p, err := s.catalog.ByID(id)
	if err != nil {
		return types.CartResponse{}, ErrUnknownProduct
	}
	s.cart.AddItem(p)
	return s.CartState(), nil
}

// UpdateCartQuantity adjusts a line by delta; lines reaching zero or below
// are removed. Unknown ids are a no-op, matching the cart contract.
func (s *Service) UpdateCartQuantity(id string, delta int) types.CartResponse {
	s.cart.UpdateQuantity(id, delta)
	return s.CartState()
}

// ClearCart empties the cart.
func (s *Service) ClearCart() types.CartResponse {
	s.cart.Clear()
	return s.CartState()
}

// RequestOrderSummary asks the summary gateway for a plain-text order
// note. An empty cart short-circuits to the fixed message without calling
// the gateway. Gateway failures resolve to user-visible messages, never to
// an error.
func (s *Service) RequestOrderSummary(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.summaryInFlight {
		s.mu.Unlock()
		return "", ErrSummaryInFlight
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.mu.Unlock()
		return EmptyCartSummary, nil
	}
	s.summaryInFlight = true
	s.mu.Unlock()

	text, err := s.summary.Summarize(ctx, lines)

	s.mu.Lock()
	s.summaryInFlight = false
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("order summary failed", "error", err)
		if errors.Is(err, assist.ErrNoCredential) {
			return summaryNoKeyNote, nil
		}
		return summaryFailureNote, nil
	}
	return text, nil
}
