// Package filter derives the visible product list from the current filter
// state and the catalog. Local category/text filtering is synchronous; an
// AI search temporarily overrides it with a model-selected id list, falling
// back to a name-only substring match when the model fails or finds nothing.
package filter

import (
	"errors"
	"strings"

	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/hyperengineering/shopfront/internal/types"
	"github.com/oklog/ulid/v2"
)

// ErrEmptyQuery is returned when an AI search is submitted without a
// non-empty trimmed query.
var ErrEmptyQuery = errors.New("search query is empty")

// Phase is the search-bar state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseTyping    Phase = "typing"
	PhaseAIPending Phase = "ai_pending"
	PhaseAIApplied Phase = "ai_applied"
)

// Engine owns the filter state and computes the visible list. It is not
// safe for concurrent use; the storefront service serializes access.
type Engine struct {
	catalog *catalog.Catalog
	state   types.FilterState
	phase   Phase

	// override, when non-nil, replaces local filtering with a fixed id
	// list (AI result or its fallback). A non-nil empty slice means an
	// empty visible list, which is a valid state, not an error.
	override []string

	// token identifies the most recently issued AI request. A response
	// is applied only if its token still matches; any filter edit made
	// while a request is in flight invalidates it (last request wins).
	token string
}

// NewEngine creates an engine with default filter state over the catalog.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{
		catalog: c,
		state:   types.DefaultFilterState(),
		phase:   PhaseIdle,
	}
}

// State returns the current filter state.
func (e *Engine) State() types.FilterState {
	return e.state
}

// Phase returns the current search-bar phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Visible computes the currently visible product list, in catalog order.
func (e *Engine) Visible() []types.Product {
	if e.override != nil {
		return e.catalog.SelectIDs(e.override)
	}
	return Local(e.catalog.Products(), e.state.SelectedCategory, e.state.Query)
}

// SelectCategory applies a category filter. Selecting a category always
// wins over a previous AI search: it exits AI mode, drops any AI result,
// and invalidates an in-flight request.
func (e *Engine) SelectCategory(cat string) {
	e.invalidate()
	e.state.SelectedCategory = cat
	e.syncPhase()
}

// SetQuery updates the free-text filter. Local filtering is continuous, so
// the change takes effect on the next Visible call. Editing the query also
// drops any AI override and invalidates an in-flight request.
func (e *Engine) SetQuery(q string) {
	e.invalidate()
	e.state.Query = q
	e.syncPhase()
}

// Reset restores the default filter state: empty query, category All, no
// AI override, full catalog visible.
func (e *Engine) Reset() {
	e.invalidate()
	e.state = types.DefaultFilterState()
	e.phase = PhaseIdle
}

// BeginAISearch starts an AI search for the current query. The query must
// be non-empty after trimming. AI search scope is always catalog-wide, so
// the category resets to All before the request goes out. The returned
// token must be passed back to ApplySearchResult.
func (e *Engine) BeginAISearch() (string, error) {
	if strings.TrimSpace(e.state.Query) == "" {
		return "", ErrEmptyQuery
	}

	e.state.SelectedCategory = types.CategoryAll
	e.state.AIMode = true
	e.override = nil
	e.phase = PhaseAIPending
	e.token = ulid.Make().String()
	return e.token, nil
}

// ApplySearchResult installs the outcome of an AI search. failed marks a
// gateway-level failure; it and an empty id list both resolve to the same
// fallback, a case-insensitive substring match on product names only.
// A result whose token no longer matches the latest issued request is
// discarded: the state it would overwrite is newer than the request.
// AI mode is transient; it is cleared as soon as a result is applied.
func (e *Engine) ApplySearchResult(token string, ids []string, failed bool) types.SearchOutcome {
	if token == "" || token != e.token || e.phase != PhaseAIPending {
		return types.SearchOutcome{Applied: false}
	}

	e.state.AIMode = false
	e.phase = PhaseAIApplied
	e.token = ""

	if len(ids) > 0 && !failed {
		e.override = ids
		return types.SearchOutcome{Applied: true, MatchedIDs: ids}
	}

	cause := types.FallbackEmpty
	if failed {
		cause = types.FallbackError
	}

	fallback := nameMatchIDs(e.catalog.Products(), e.state.Query)
	e.override = fallback
	return types.SearchOutcome{
		Applied:       true,
		Fallback:      true,
		FallbackCause: cause,
		MatchedIDs:    fallback,
	}
}

// invalidate drops any AI override and orphans an in-flight request.
func (e *Engine) invalidate() {
	e.override = nil
	e.token = ""
	e.state.AIMode = false
}

// syncPhase recomputes the phase after a local edit.
func (e *Engine) syncPhase() {
	if e.state.Query == "" {
		e.phase = PhaseIdle
	} else {
		e.phase = PhaseTyping
	}
}

// Heading returns the product-list heading for the current state.
func (e *Engine) Heading() string {
	switch {
	case e.state.Query != "":
		return `Results for "` + e.state.Query + `"`
	case e.state.SelectedCategory != types.CategoryAll:
		return e.state.SelectedCategory
	default:
		return "Featured Products"
	}
}

// Local applies the synchronous filter rules to products: an optional
// category filter, then an optional case-insensitive substring match on
// name or description. Input order is preserved.
func Local(products []types.Product, category, query string) []types.Product {
	out := make([]types.Product, 0, len(products))
	q := strings.ToLower(query)

	for _, p := range products {
		if category != types.CategoryAll && string(p.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// nameMatchIDs is the AI fallback: ids of products whose name contains the
// query, case-insensitively. Descriptions are deliberately not checked.
func nameMatchIDs(products []types.Product, query string) []string {
	q := strings.ToLower(query)
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
