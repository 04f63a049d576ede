package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-5-20250929"

// AnthropicClassifier asks Claude to categorize transactions that no
// deterministic stage resolved.
type AnthropicClassifier struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicClassifier(apiKey, model string) *AnthropicClassifier {
	if model == "" {
		model = defaultModel
	}

	return &AnthropicClassifier{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

type aiResponse struct {
	Classifications []Result `json:"classifications"`
}

// Classify sends one batch to the model and parses its JSON verdicts. The
// model may omit transactions it cannot place; the caller treats missing
// indexes as still pending.
func (c *AnthropicClassifier) Classify(ctx context.Context, categories []string, reqs []Request) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(categories, reqs)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling model: %w", err)
	}

	var responseText strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText.WriteString(block.Text)
		}
	}

	return parseResponse(responseText.String())
}

func buildPrompt(categories []string, reqs []Request) (string, error) {
	payload, err := json.Marshal(reqs)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("You are a bookkeeping assistant for Nigerian freelancers and small businesses.\n")
	b.WriteString("Categorize each bank transaction below into exactly one of these categories:\n")

	for _, name := range categories {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}

	b.WriteString("\nFor each transaction decide whether it is tax-deductible as a business expense ")
	b.WriteString("under the Nigeria Finance Act. Income is never deductible. Amounts are in kobo.\n\n")
	b.WriteString("Transactions:\n")
	b.Write(payload)
	b.WriteString("\n\nRespond with JSON only, no prose, in this shape:\n")
	b.WriteString(`{"classifications":[{"index":0,"category":"Groceries","is_deductible":false,"confidence":0.8}]}`)
	b.WriteString("\nSkip any transaction you cannot place with reasonable confidence.")

	return b.String(), nil
}

// parseResponse extracts the JSON object from the model's reply, which may be
// wrapped in markdown fences.
func parseResponse(text string) ([]Result, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var resp aiResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}

	return resp.Classifications, nil
}
