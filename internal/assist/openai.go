package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperengineering/shopfront/internal/types"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface checks
var (
	_ SearchGateway  = (*OpenAI)(nil)
	_ SummaryGateway = (*OpenAI)(nil)
)

// ChatService defines the interface for making chat completion API calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements both gateways using OpenAI's chat completions API.
type OpenAI struct {
	chat  ChatService
	model openai.ChatModel
}

// NewOpenAI creates the gateway. An empty apiKey is allowed; every call
// then returns ErrNoCredential and the storefront degrades accordingly.
func NewOpenAI(apiKey, model string) *OpenAI {
	g := &OpenAI{model: openai.ChatModel(model)}
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		g.chat = client.Chat.Completions
	}
	return g
}

// ModelName returns the chat model name.
func (g *OpenAI) ModelName() string {
	return string(g.model)
}

// MatchProducts asks the model which catalog products match the query and
// returns their ids. Any failure, including a response that is not a JSON
// string array, is returned as an error; the caller falls back locally.
func (g *OpenAI) MatchProducts(ctx context.Context, query string, products []types.Product) ([]string, error) {
	if g.chat == nil {
		return nil, ErrNoCredential
	}

	prompt, err := searchPrompt(query, products)
	if err != nil {
		return nil, err
	}

	text, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	ids, err := parseIDArray(text)
	if err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return ids, nil
}

// Summarize produces a plain-text order summary for the cart lines.
func (g *OpenAI) Summarize(ctx context.Context, lines []types.CartLine) (string, error) {
	if g.chat == nil {
		return "", ErrNoCredential
	}

	text, err := g.complete(ctx, summaryPrompt(lines))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("summary generation failed: empty response")
	}
	return text, nil
}

// complete sends a single-message chat completion and returns the text.
func (g *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(g.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion failed: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// searchProduct is the trimmed product view sent to the model.
type searchProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
	Tags        string `json:"tags"`
	Category    string `json:"cat"`
}

// searchPrompt builds the product-matching prompt. Products are sent as a
// trimmed JSON list to keep the request small.
func searchPrompt(query string, products []types.Product) (string, error) {
	trimmed := make([]searchProduct, len(products))
	for i, p := range products {
		trimmed[i] = searchProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Tags:        strings.Join(p.Tags, ", "),
			Category:    string(p.Category),
		}
	}

	catalogJSON, err := json.Marshal(trimmed)
	if err != nil {
		return "", fmt.Errorf("marshal catalog context: %w", err)
	}

	return fmt.Sprintf(`User Query: %q

Based on the user query, select the IDs of the products that are most relevant.
Return ONLY a JSON array of strings (IDs). If nothing matches, return an empty array.

Products:
%s`, query, catalogJSON), nil
}

// summaryPrompt builds the order-summary prompt from the cart lines.
func summaryPrompt(lines []types.CartLine) string {
	var details strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&details, "- %dx %s @ $%.2f each\n", line.Quantity, line.Name, line.Price)
	}

	return fmt.Sprintf(`You are a professional sales assistant.
Create a clean, polite, and formatted text summary of the following order to be sent via WhatsApp or Email.
Include the total price.
Add a very short, polite thank you note at the end.
Do not use markdown formatting like bolding (**), just plain text suitable for a chat app.

Order Details:
%s`, details.String())
}

// parseIDArray extracts a JSON string array from model output. Models
// occasionally wrap JSON in code fences or prose, so we parse from the
// first '[' through the last ']'.
func parseIDArray(text string) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var ids []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
