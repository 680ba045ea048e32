// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/generative-ai-go/genai"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/api/option"

	"github.com/similigh/triagebot/internal/core/config"
)

// ErrNoEmbedder is returned when no embedding provider key is configured.
var ErrNoEmbedder = errors.New("no embedding provider configured")

// Embedder generates embeddings using Gemini or OpenAI.
type Embedder struct {
	provider   Provider
	gemini     *genai.Client
	openAI     *openai.Client
	model      string
	dimensions atomic.Int32
}

// NewEmbedder picks Gemini when its key is set and OpenAI otherwise.
// Anthropic offers no embedding endpoint.
func NewEmbedder(env *config.Env, model string) (*Embedder, error) {
	e := &Embedder{}

	switch {
	case strings.TrimSpace(env.GeminiAPIKey) != "":
		client, err := genai.NewClient(context.Background(), option.WithAPIKey(env.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		e.provider, e.gemini = ProviderGemini, client
		if strings.TrimSpace(model) == "" || isOpenAIEmbeddingModel(model) {
			model = "gemini-embedding-001"
		}
	case strings.TrimSpace(env.OpenAIAPIKey) != "":
		client := openai.NewClient(openaioption.WithAPIKey(env.OpenAIAPIKey), openaioption.WithMaxRetries(0))
		e.provider, e.openAI = ProviderOpenAI, &client
		if strings.TrimSpace(model) == "" || !isOpenAIEmbeddingModel(model) {
			model = "text-embedding-3-small"
		}
	default:
		return nil, ErrNoEmbedder
	}

	e.model = strings.TrimSpace(model)
	e.dimensions.Store(int32(embeddingDimensions(e.model)))
	return e, nil
}

// Close closes underlying provider clients.
func (e *Embedder) Close() error {
	if e.gemini != nil {
		return e.gemini.Close()
	}
	return nil
}

// Model returns the resolved model.
func (e *Embedder) Model() string {
	return e.model
}

// Embed generates an embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	var (
		vec []float32
		err error
	)
	if e.provider == ProviderGemini {
		vec, err = e.embedGemini(ctx, text)
	} else {
		vec, err = e.embedOpenAI(ctx, text)
	}
	if err != nil {
		return nil, err
	}

	// Trust the provider's output over the model table.
	e.dimensions.Store(int32(len(vec)))
	return vec, nil
}

func (e *Embedder) embedGemini(ctx context.Context, text string) ([]float32, error) {
	res, err := e.gemini.EmbeddingModel(e.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return res.Embedding.Values, nil
}

func (e *Embedder) embedOpenAI(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.openAI.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions returns the dimensionality of the embeddings.
func (e *Embedder) Dimensions() int {
	return int(e.dimensions.Load())
}

func embeddingDimensions(model string) int {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "gemini-embedding-001"), strings.Contains(m, "text-embedding-3-large"):
		return 3072
	case strings.Contains(m, "text-embedding-3-small"), strings.Contains(m, "text-embedding-ada-002"):
		return 1536
	default:
		return 768
	}
}

func isOpenAIEmbeddingModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	return strings.Contains(m, "text-embedding-3") || strings.Contains(m, "text-embedding-ada")
}
