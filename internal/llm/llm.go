package llm

import (
	"context"
	"fmt"

	"meal-agent/internal/config"
	"meal-agent/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt. The model
// identifier and output-size hint are fixed at client construction; no
// structured schema is enforced by the service, so callers recover structure
// from Content themselves.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewTextGenerator returns the completion client selected by the
// configuration. Callers that need cleanup should type-assert Closer.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMBackend {
	case config.BackendGroq:
		return NewGroqClient(cfg), nil
	case config.BackendGemini, "":
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm backend %q", cfg.LLMBackend)
	}
}
