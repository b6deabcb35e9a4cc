package filter

import (
	"testing"

	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/hyperengineering/shopfront/internal/types"
)

// testProducts is a ten-item catalog with three Electronics entries,
// mirroring the shipped seed.
func testProducts() []types.Product {
	return []types.Product{
		{ID: "p1", Name: "Minimalist Leather Sofa", Category: types.CategoryFurniture, Description: "A sleek, 3-seater leather sofa ideal for modern living rooms.", Price: 1299},
		{ID: "p2", Name: "Wireless Noise-Canceling Headphones", Category: types.CategoryElectronics, Description: "High-fidelity audio with 30-hour battery life.", Price: 299},
		{ID: "p3", Name: "Vintage Denim Jacket", Category: types.CategoryClothing, Description: "Classic cut denim jacket with a vintage wash.", Price: 89},
		{ID: "p4", Name: "Smart Watch Series 5", Category: types.CategoryElectronics, Description: "Track fitness, heart rate, and messages on the go.", Price: 399},
		{ID: "p5", Name: "Oak Coffee Table", Category: types.CategoryFurniture, Description: "Solid oak wood coffee table with industrial metal legs.", Price: 150},
		{ID: "p6", Name: "Cotton Linen Shirt", Category: types.CategoryClothing, Description: "Breathable fabric perfect for summer days.", Price: 45},
		{ID: "p7", Name: "Designer Sunglasses", Category: types.CategoryAccessories, Description: "UV400 protection with a classic aviator frame.", Price: 120},
		{ID: "p8", Name: "Ceramic Vase Set", Category: types.CategoryFurniture, Description: "Set of 3 handcrafted ceramic vases.", Price: 65},
		{ID: "p9", Name: "Bluetooth Speaker", Category: types.CategoryElectronics, Description: "Portable speaker with waterproof design.", Price: 75},
		{ID: "p10", Name: "Leather Wallet", Category: types.CategoryAccessories, Description: "Genuine leather bi-fold wallet with RFID protection.", Price: 55},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.New(testProducts()))
}

func ids(products []types.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func assertIDs(t *testing.T, got []types.Product, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

// --- Local filtering (rule 2) ---

func TestLocal_CategoryOnly(t *testing.T) {
	// Selecting a category keeps exactly that category's products, in
	// catalog order. Ten items, three Electronics.
	got := Local(testProducts(), string(types.CategoryElectronics), "")
	assertIDs(t, got, "p2", "p4", "p9")
}

func TestLocal_EmptyQueryReturnsAll(t *testing.T) {
	got := Local(testProducts(), types.CategoryAll, "")
	if len(got) != 10 {
		t.Fatalf("expected 10 products, got %d", len(got))
	}
}

func TestLocal_QueryMatchesNameOrDescription(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"name match, case-insensitive", "LEATHER", []string{"p1", "p10"}},
		{"description-only match", "battery", []string{"p2"}},
		{"either field matches", "wood", []string{"p5"}},
		{"no match", "zeppelin", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Local(testProducts(), types.CategoryAll, tt.query)
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestLocal_CategoryAndQueryIntersect(t *testing.T) {
	// "leather" hits p1 (Furniture) and p10 (Accessories); the category
	// filter narrows to just the accessory.
	got := Local(testProducts(), string(types.CategoryAccessories), "leather")
	assertIDs(t, got, "p10")
}

// --- Engine state transitions ---

func TestEngine_DefaultsShowFullCatalog(t *testing.T) {
	e := newTestEngine(t)

	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseIdle)
	}
	if got := e.State(); got.SelectedCategory != types.CategoryAll || got.Query != "" || got.AIMode {
		t.Errorf("unexpected default state: %+v", got)
	}
	if len(e.Visible()) != 10 {
		t.Errorf("expected full catalog visible, got %d", len(e.Visible()))
	}
}

func TestEngine_TypingRecomputesSynchronously(t *testing.T) {
	e := newTestEngine(t)

	e.SetQuery("speaker")
	if e.Phase() != PhaseTyping {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseTyping)
	}
	assertIDs(t, e.Visible(), "p9")

	e.SetQuery("")
	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseIdle)
	}
	if len(e.Visible()) != 10 {
		t.Errorf("expected full catalog after clearing query, got %d", len(e.Visible()))
	}
}

func TestEngine_AISearchRequiresQuery(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.BeginAISearch(); err != ErrEmptyQuery {
		t.Errorf("BeginAISearch() error = %v, want ErrEmptyQuery", err)
	}

	e.SetQuery("   ")
	if _, err := e.BeginAISearch(); err != ErrEmptyQuery {
		t.Errorf("whitespace query: error = %v, want ErrEmptyQuery", err)
	}
}

func TestEngine_AISearchResetsCategoryToAll(t *testing.T) {
	e := newTestEngine(t)
	e.SelectCategory(string(types.CategoryClothing))
	e.SetQuery("something warm")

	if _, err := e.BeginAISearch(); err != nil {
		t.Fatalf("BeginAISearch() error = %v", err)
	}

	state := e.State()
	if state.SelectedCategory != types.CategoryAll {
		t.Errorf("category = %q, want %q", state.SelectedCategory, types.CategoryAll)
	}
	if !state.AIMode {
		t.Error("expected AIMode true while request is in flight")
	}
	if e.Phase() != PhaseAIPending {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseAIPending)
	}
}

func TestEngine_AIResultGovernsInCatalogOrder(t *testing.T) {
	e := newTestEngine(t)
	e.SetQuery("something for music lovers")
	token, err := e.BeginAISearch()
	if err != nil {
		t.Fatal(err)
	}

	// AI returns ids out of catalog order; the visible list follows
	// catalog order regardless.
	outcome := e.ApplySearchResult(token, []string{"p9", "p2"}, false)
	if !outcome.Applied {
		t.Fatal("expected result to be applied")
	}
	if outcome.Fallback {
		t.Error("unexpected fallback")
	}
	assertIDs(t, e.Visible(), "p2", "p9")

	// AI mode is transient: it resets once results are rendered.
	if e.State().AIMode {
		t.Error("AIMode should be false after results applied")
	}
	if e.Phase() != PhaseAIApplied {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseAIApplied)
	}
}

func TestEngine_CategorySelectionBeatsAIResult(t *testing.T) {
	e := newTestEngine(t)
	e.SetQuery("cozy")
	token, _ := e.BeginAISearch()
	e.ApplySearchResult(token, []string{"p1", "p5"}, false)

	// Selecting a category exits AI mode and the list follows local
	// filtering again (the query is still in the box).
	e.SelectCategory(string(types.CategoryElectronics))

	if e.State().AIMode {
		t.Error("AIMode should be false after category selection")
	}
	got := e.Visible()
	for _, p := range got {
		if p.Category != types.CategoryElectronics {
			t.Errorf("product %s has category %s, want Electronics", p.ID, p.Category)
		}
	}
}

func TestEngine_EmptyAIResultFallsBackToNameMatch(t *testing.T) {
	e := newTestEngine(t)
	e.SetQuery("leather")
	token, _ := e.BeginAISearch()

	outcome := e.ApplySearchResult(token, nil, false)
	if !outcome.Applied || !outcome.Fallback {
		t.Fatalf("outcome = %+v, want applied fallback", outcome)
	}
	if outcome.FallbackCause != types.FallbackEmpty {
		t.Errorf("cause = %q, want %q", outcome.FallbackCause, types.FallbackEmpty)
	}

	// Name-only: p1 and p10 names contain "leather"; p3's description
	// mentions denim but its name does not match, and descriptions are
	// not consulted by the fallback.
	assertIDs(t, e.Visible(), "p1", "p10")
}

func TestEngine_FailedAISearchFallsBack(t *testing.T) {
	e := newTestEngine(t)
	e.SetQuery("xyz123notfound")
	token, _ := e.BeginAISearch()

	outcome := e.ApplySearchResult(token, nil, true)
	if !outcome.Applied || !outcome.Fallback {
		t.Fatalf("outcome = %+v, want applied fallback", outcome)
	}
	if outcome.FallbackCause != types.FallbackError {
		t.Errorf("cause = %q, want %q", outcome.FallbackCause, types.FallbackError)
	}

	// Fallback also matches nothing: the visible list is empty, which is
	// a valid state, not an error.
	if got := e.Visible(); len(got) != 0 {
		t.Errorf("expected empty visible list, got %v", ids(got))
	}
	if e.State().AIMode {
		t.Error("AIMode should be false after fallback")
	}
}

func TestEngine_GatewayErrorWithPhantomIDsStillFallsBack(t *testing.T) {
	e := newTestEngine(t)
	e.SetQuery("sofa")
	token, _ := e.BeginAISearch()

	// A failed call never installs ids, even if the caller passes some.
	outcome := e.ApplySearchResult(token, []string{"p2"}, true)
	if !outcome.Fallback {
		t.Fatal("expected fallback on gateway failure")
	}
	assertIDs(t, e.Visible(), "p1")
}

func TestEngine_StaleResponseDiscarded(t *testing.T) {
	tests := []struct {
		name string
		edit func(e *Engine)
	}{
		{"category selected mid-flight", func(e *Engine) { e.SelectCategory(string(types.CategoryFurniture)) }},
		{"query edited mid-flight", func(e *Engine) { e.SetQuery("table") }},
		{"filters reset mid-flight", func(e *Engine) { e.Reset() }},
		{"newer search issued", func(e *Engine) { e.SetQuery("wallet"); e.BeginAISearch() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			e.SetQuery("headphones")
			token, _ := e.BeginAISearch()

			tt.edit(e)
			before := ids(e.Visible())

			outcome := e.ApplySearchResult(token, []string{"p2"}, false)
			if outcome.Applied {
				t.Fatal("stale response must not be applied")
			}

			after := ids(e.Visible())
			if len(before) != len(after) {
				t.Fatalf("stale response changed visible list: %v -> %v", before, after)
			}
			for i := range before {
				if before[i] != after[i] {
					t.Fatalf("stale response changed visible list: %v -> %v", before, after)
				}
			}
		})
	}
}

func TestEngine_ResetRestoresDefaults(t *testing.T) {
	e := newTestEngine(t)
	e.SelectCategory(string(types.CategoryClothing))
	e.SetQuery("jacket")

	e.Reset()

	state := e.State()
	if state.SelectedCategory != types.CategoryAll || state.Query != "" || state.AIMode {
		t.Errorf("state after reset = %+v", state)
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseIdle)
	}
	if len(e.Visible()) != 10 {
		t.Errorf("expected full catalog after reset, got %d", len(e.Visible()))
	}
}

func TestEngine_QueryEditAfterAIResultResumesLocalFiltering(t *testing.T) {
	e := newTestEngine(t)
	e.SetQuery("audio gear")
	token, _ := e.BeginAISearch()
	e.ApplySearchResult(token, []string{"p2", "p9"}, false)

	// The next keystroke drops the AI override entirely.
	e.SetQuery("vase")
	assertIDs(t, e.Visible(), "p8")
	if e.Phase() != PhaseTyping {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseTyping)
	}
}

func TestEngine_Heading(t *testing.T) {
	e := newTestEngine(t)

	if got := e.Heading(); got != "Featured Products" {
		t.Errorf("default heading = %q", got)
	}

	e.SelectCategory(string(types.CategoryFurniture))
	if got := e.Heading(); got != "Furniture" {
		t.Errorf("category heading = %q", got)
	}

	e.SetQuery("sofa")
	if got := e.Heading(); got != `Results for "sofa"` {
		t.Errorf("query heading = %q", got)
	}
}
