// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package llm provides the language-model oracle and the embedder used for
// related-issue hints.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/similigh/triagebot/internal/metrics"
)

// ErrOracle wraps every oracle transport or response failure.
var ErrOracle = errors.New("oracle call failed")

// Call purposes, used for metrics and logs.
const (
	PurposeTriage = "triage"
	PurposeReview = "review"
)

// CallOptions tune a single completion.
type CallOptions struct {
	// Model is the requested model. Providers substitute their default when
	// the name belongs to another provider.
	Model     string
	MaxTokens int
	Purpose   string
}

// Oracle answers a system+user prompt with free text.
// A call is made at most once; there are no retries.
type Oracle interface {
	Complete(ctx context.Context, system, user string, opts CallOptions) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, system, user string, opts CallOptions) (string, error)

// Complete calls f.
func (f OracleFunc) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	return f(ctx, system, user, opts)
}

// Metered counts calls per purpose and outcome.
type Metered struct {
	oracle Oracle
}

// WithMetrics wraps o with call counting.
func WithMetrics(o Oracle) *Metered {
	return &Metered{oracle: o}
}

// Complete calls the wrapped oracle and records the outcome.
func (m *Metered) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	out, err := m.oracle.Complete(ctx, system, user, opts)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.OracleCalls.WithLabelValues(opts.Purpose, result).Inc()
	return out, err
}

// Close releases the wrapped oracle's client, if it holds one.
func (m *Metered) Close() error {
	if c, ok := m.oracle.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func oracleError(provider Provider, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrOracle, provider, err)
}

func emptyResponse(provider Provider) error {
	return fmt.Errorf("%w: %s: empty response", ErrOracle, provider)
}

// modelFor keeps requested when it plausibly belongs to provider.
func modelFor(provider Provider, requested string) string {
	requested = strings.TrimSpace(requested)
	lower := strings.ToLower(requested)

	switch provider {
	case ProviderAnthropic:
		if strings.HasPrefix(lower, "claude") {
			return requested
		}
		return defaultAnthropicModel
	case ProviderGemini:
		if strings.HasPrefix(lower, "gemini") {
			return requested
		}
		return defaultGeminiModel
	case ProviderOpenAI:
		if strings.HasPrefix(lower, "gpt") || strings.HasPrefix(lower, "o1") || strings.HasPrefix(lower, "o3") || strings.HasPrefix(lower, "o4") {
			return requested
		}
		return defaultOpenAIModel
	default:
		return requested
	}
}
