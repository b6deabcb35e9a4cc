package types

// Category classifies a product. The storefront ships with a fixed set of
// categories; "All" is a filter-only pseudo value and never appears on a
// product itself.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFurniture   Category = "Furniture"
	CategoryClothing    Category = "Clothing"
	CategoryAccessories Category = "Accessories"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll = "All"

// Categories returns all product categories in display order.
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryFurniture,
		CategoryClothing,
		CategoryAccessories,
	}
}

// ValidCategory reports whether s names a real product category.
func ValidCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Product is a single catalog entry. Products are immutable once loaded;
// the catalog is read-only for the lifetime of the process.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

// CartLine is one cart entry. Name, Price, and Image are frozen snapshots
// taken from the product at add time, so later catalog changes never alter
// what the cart displays or charges.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns the frozen per-line amount.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// FilterState holds the local filter inputs the visible list is derived from.
type FilterState struct {
	SelectedCategory string `json:"selected_category"` // CategoryAll or a Category
	Query            string `json:"query"`
	AIMode           bool   `json:"ai_mode"` // true only while an AI search is in flight
}

// DefaultFilterState returns the session-start filter state.
func DefaultFilterState() FilterState {
	return FilterState{SelectedCategory: CategoryAll}
}

// FallbackCause records why an AI search fell back to the local name match.
// Behavior is identical either way; the cause is diagnostic data only.
type FallbackCause string

const (
	FallbackNone  FallbackCause = ""
	FallbackEmpty FallbackCause = "empty" // AI answered with no matches
	FallbackError FallbackCause = "error" // gateway call failed
)

// SearchOutcome describes how an AI search submission resolved.
type SearchOutcome struct {
	Applied       bool          `json:"applied"` // false when a later edit superseded this request
	Fallback      bool          `json:"fallback"`
	FallbackCause FallbackCause `json:"fallback_cause,omitempty"`
	MatchedIDs    []string      `json:"matched_ids"`
}

// --- HTTP DTOs ---

// ProductsResponse is the payload for GET /products.
type ProductsResponse struct {
	Products []Product   `json:"products"`
	Filter   FilterState `json:"filter"`
	Heading  string      `json:"heading"`
	Count    int         `json:"count"`
}

// CategoryRequest selects a category filter.
type CategoryRequest struct {
	Category string `json:"category"`
}

// QueryRequest sets the free-text filter.
type QueryRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the payload for POST /search/ai.
type SearchResponse struct {
	Products []Product     `json:"products"`
	Outcome  SearchOutcome `json:"outcome"`
}

// AddItemRequest adds a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// UpdateQuantityRequest adjusts a cart line by a signed delta.
type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

// CartResponse is the payload for cart reads and mutations.
type CartResponse struct {
	Lines []CartLine `json:"lines"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

// SummaryResponse is the payload for POST /cart/summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Model       string `json:"model"`
	CatalogSize int    `json:"catalog_size"`
}
