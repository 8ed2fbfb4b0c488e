// Package interfaces defines service contracts for Arvyo
package interfaces

import (
	"context"
)

// GeminiClient provides access to the Gemini API
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// SuggestCategory picks the best-fitting category name for a
	// transaction description from the given candidates. Returns an
	// empty string when none fits.
	SuggestCategory(ctx context.Context, description string, categories []string) (string, error)

	Close() error
}
