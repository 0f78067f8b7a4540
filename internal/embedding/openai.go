// ABOUTME: OpenAI embeddings backend using text-embedding-3-small by default
// ABOUTME: Sends inputs in ordered batches with per-batch retry and timeout
package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/plotsearch/internal/util"
)

const (
	// DefaultOpenAIModel is the default embedding model
	DefaultOpenAIModel = string(openai.SmallEmbedding3)
	// DefaultBatchSize bounds the number of inputs per API request
	DefaultBatchSize = 256
)

// OpenAIConfig holds configuration for the OpenAI embedder
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	BatchSize  int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultOpenAIConfig returns the default embedder configuration
func DefaultOpenAIConfig(apiKey string) *OpenAIConfig {
	return &OpenAIConfig{
		APIKey:     apiKey,
		Model:      DefaultOpenAIModel,
		BatchSize:  DefaultBatchSize,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

var _ Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder wraps the OpenAI embeddings API with batching and retries
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	batchSize  int
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIEmbedder creates an embedder from config. Zero values fall back
// to the defaults.
func NewOpenAIEmbedder(cfg *OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	defaults := DefaultOpenAIConfig(cfg.APIKey)
	model := cfg.Model
	if model == "" {
		model = defaults.Model
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaults.BatchSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaults.Timeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(model),
		batchSize:  batchSize,
		timeout:    timeout,
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// ModelID returns the cache identity of the configured model
func (e *OpenAIEmbedder) ModelID() string {
	return "openai/" + string(e.model)
}

// Embed embeds texts in batches, preserving input order
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed rows %d-%d: %w", start, end-1, err)
		}
		out = append(out, batch...)
	}

	return out, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	// The API rejects empty strings
	input := make([]string, len(texts))
	for i, t := range texts {
		if t == "" {
			t = " "
		}
		input[i] = t
	}

	var vectors [][]float32
	err := util.Retry(ctx, e.maxRetries, e.retryDelay, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		resp, err := e.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: input,
			Model: e.model,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(input) {
			return fmt.Errorf("expected %d embeddings, got %d", len(input), len(resp.Data))
		}

		ordered := make([][]float32, len(input))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(ordered) || ordered[d.Index] != nil {
				return fmt.Errorf("unexpected embedding index %d", d.Index)
			}
			ordered[d.Index] = d.Embedding
		}
		vectors = ordered
		return nil
	})
	if err != nil {
		return nil, err
	}

	return vectors, nil
}
