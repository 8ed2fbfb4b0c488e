// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
)

const (
	DefaultModel = "gemini-2.0-flash"
)

// Compile-time interface check
var _ interfaces.GeminiClient = (*Client)(nil)

// Client implements the GeminiClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// SuggestCategory picks the best-fitting category name for a
// transaction description from the given candidates. Returns an empty
// string when none fits.
func (c *Client) SuggestCategory(ctx context.Context, description string, categories []string) (string, error) {
	if len(categories) == 0 {
		return "", nil
	}

	prompt := buildSuggestCategoryPrompt(description, categories)
	answer, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	answer = strings.TrimSpace(answer)
	for _, name := range categories {
		if strings.EqualFold(answer, name) {
			return name, nil
		}
	}
	return "", nil
}

// buildSuggestCategoryPrompt creates a prompt for category suggestion
func buildSuggestCategoryPrompt(description string, categories []string) string {
	var sb strings.Builder
	sb.WriteString("Classify the following bank transaction into exactly one of the given categories.\n")
	sb.WriteString("Respond with only the category name, nothing else. If none fits, respond with NONE.\n\n")
	sb.WriteString("Transaction: ")
	sb.WriteString(description)
	sb.WriteString("\n\nCategories:\n")
	for _, name := range categories {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return sb.String()
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}
