package embedding

import (
	"context"
	"fmt"

	"github.com/interviewlens/interviewlens/internal/config"
)

// Provider is the interface for embedding providers
type Provider interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// CheckHealth checks if the provider is reachable
	CheckHealth(ctx context.Context) error

	// Name returns the provider name
	Name() string
}

// NewProvider creates an embedding provider based on configuration
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaClient(cfg.Ollama), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
