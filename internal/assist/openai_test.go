package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperengineering/shopfront/internal/types"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// mockChat returns a canned completion without touching the network.
type mockChat struct {
	content string
	err     error
	calls   int
}

func (m *mockChat) New(_ context.Context, _ openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.content}},
		},
	}, nil
}

func testProducts() []types.Product {
	return []types.Product{
		{ID: "p1", Name: "Wireless Headphones", Category: types.CategoryElectronics, Price: 99.99, Description: "Noise cancelling", Tags: []string{"audio", "wireless"}},
		{ID: "p2", Name: "Leather Sofa", Category: types.CategoryFurniture, Price: 1299, Description: "Three seater", Tags: []string{"living room"}},
	}
}

func TestMatchProducts(t *testing.T) {
	mock := &mockChat{content: `["p1", "p2"]`}
	g := &OpenAI{chat: mock, model: "gpt-4o-mini"}

	ids, err := g.MatchProducts(context.Background(), "something comfy", testProducts())
	if err != nil {
		t.Fatalf("MatchProducts() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Errorf("ids = %v, want [p1 p2]", ids)
	}
	if mock.calls != 1 {
		t.Errorf("calls = %d, want 1", mock.calls)
	}
}

func TestMatchProducts_EmptyArray(t *testing.T) {
	g := &OpenAI{chat: &mockChat{content: `[]`}, model: "gpt-4o-mini"}

	ids, err := g.MatchProducts(context.Background(), "unrelated", testProducts())
	if err != nil {
		t.Fatalf("MatchProducts() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestMatchProducts_FencedJSON(t *testing.T) {
	g := &OpenAI{chat: &mockChat{content: "```json\n[\"p2\"]\n```"}, model: "gpt-4o-mini"}

	ids, err := g.MatchProducts(context.Background(), "sofa", testProducts())
	if err != nil {
		t.Fatalf("MatchProducts() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("ids = %v, want [p2]", ids)
	}
}

func TestMatchProducts_MalformedResponse(t *testing.T) {
	g := &OpenAI{chat: &mockChat{content: "I could not find any products."}, model: "gpt-4o-mini"}

	if _, err := g.MatchProducts(context.Background(), "sofa", testProducts()); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestMatchProducts_APIError(t *testing.T) {
	apiErr := errors.New("rate limited")
	g := &OpenAI{chat: &mockChat{err: apiErr}, model: "gpt-4o-mini"}

	if _, err := g.MatchProducts(context.Background(), "sofa", testProducts()); !errors.Is(err, apiErr) {
		t.Errorf("error = %v, want wrapped %v", err, apiErr)
	}
}

func TestMatchProducts_NoCredential(t *testing.T) {
	g := NewOpenAI("", "gpt-4o-mini")

	if _, err := g.MatchProducts(context.Background(), "sofa", testProducts()); !errors.Is(err, ErrNoCredential) {
		t.Errorf("error = %v, want ErrNoCredential", err)
	}
}

func TestSummarize(t *testing.T) {
	mock := &mockChat{content: "  Your order: 2x Leather Sofa. Total $2598. Thank you!  "}
	g := &OpenAI{chat: mock, model: "gpt-4o-mini"}

	lines := []types.CartLine{{ProductID: "p2", Name: "Leather Sofa", Price: 1299, Quantity: 2}}
	text, err := g.Summarize(context.Background(), lines)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if text != "Your order: 2x Leather Sofa. Total $2598. Thank you!" {
		t.Errorf("text = %q, want trimmed summary", text)
	}
}

func TestSummarize_EmptyResponse(t *testing.T) {
	g := &OpenAI{chat: &mockChat{content: "   "}, model: "gpt-4o-mini"}

	lines := []types.CartLine{{ProductID: "p1", Name: "Wireless Headphones", Price: 99.99, Quantity: 1}}
	if _, err := g.Summarize(context.Background(), lines); err == nil {
		t.Fatal("expected error for empty summary")
	}
}

func TestSummarize_NoCredential(t *testing.T) {
	g := NewOpenAI("", "gpt-4o-mini")

	lines := []types.CartLine{{ProductID: "p1", Name: "Wireless Headphones", Price: 99.99, Quantity: 1}}
	if _, err := g.Summarize(context.Background(), lines); !errors.Is(err, ErrNoCredential) {
		t.Errorf("error = %v, want ErrNoCredential", err)
	}
}

func TestSearchPrompt(t *testing.T) {
	prompt, err := searchPrompt("cozy living room", testProducts())
	if err != nil {
		t.Fatalf("searchPrompt() error = %v", err)
	}

	for _, want := range []string{
		`"cozy living room"`,
		`"id":"p1"`,
		`"name":"Leather Sofa"`,
		`"tags":"audio, wireless"`,
		`"cat":"Furniture"`,
		"Return ONLY a JSON array of strings",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt: %s", want, prompt)
		}
	}
}

func TestSummaryPrompt(t *testing.T) {
	lines := []types.CartLine{
		{ProductID: "p2", Name: "Minimalist Leather Sofa", Price: 1299, Quantity: 2},
		{ProductID: "p1", Name: "Wireless Headphones", Price: 99.99, Quantity: 1},
	}
	prompt := summaryPrompt(lines)

	for _, want := range []string{
		"- 2x Minimalist Leather Sofa @ $1299.00 each",
		"- 1x Wireless Headphones @ $99.99 each",
		"sales assistant",
		"plain text",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt: %s", want, prompt)
		}
	}
}

func TestParseIDArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "plain array", input: `["a","b"]`, want: []string{"a", "b"}},
		{name: "surrounded by prose", input: `Here you go: ["a"] hope that helps`, want: []string{"a"}},
		{name: "empty array", input: `[]`, want: nil},
		{name: "no array", input: `nothing here`, wantErr: true},
		{name: "wrong element type", input: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDArray(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIDArray(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseIDArray(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ids[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
