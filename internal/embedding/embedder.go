// ABOUTME: Embedding function boundary used by the cache and search engine
// ABOUTME: Backends map ordered texts to equal-length float32 vectors
package embedding

import (
	"context"
	"fmt"

	"github.com/harper/plotsearch/internal/config"
	"github.com/harper/plotsearch/internal/models"
)

// Embedder turns an ordered batch of texts into one vector per text, in the
// same order. ModelID identifies the model so cached matrices from a
// different model are never reused.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// EmbedOne embeds a single text
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 vector, got %d", models.ErrDimensionMismatch, len(vectors))
	}
	return vectors[0], nil
}

// New builds the embedder selected by cfg
func New(cfg *config.Config) (Embedder, error) {
	switch cfg.Embedder {
	case config.EmbedderOpenAI:
		return NewOpenAIEmbedder(&OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.EmbeddingModel,
			BatchSize:  cfg.BatchSize,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
	case config.EmbedderHash:
		return NewHashEmbedder(cfg.HashDimension), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Embedder)
	}
}
