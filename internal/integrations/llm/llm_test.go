package llm

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/metrics"
)

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		env        config.Env
		want       Provider
		wantKey    string
		wantErr    bool
	}{
		{
			name:    "anthropic preferred when all keys set",
			env:     config.Env{AnthropicAPIKey: "a", GeminiAPIKey: "g", OpenAIAPIKey: "o"},
			want:    ProviderAnthropic,
			wantKey: "a",
		},
		{
			name:    "gemini before openai",
			env:     config.Env{GeminiAPIKey: "g", OpenAIAPIKey: "o"},
			want:    ProviderGemini,
			wantKey: "g",
		},
		{
			name:    "openai alone",
			env:     config.Env{OpenAIAPIKey: " o "},
			want:    ProviderOpenAI,
			wantKey: "o",
		},
		{
			name:       "configured provider wins",
			configured: "OpenAI",
			env:        config.Env{AnthropicAPIKey: "a", OpenAIAPIKey: "o"},
			want:       ProviderOpenAI,
			wantKey:    "o",
		},
		{
			name:       "configured provider without key",
			configured: "gemini",
			env:        config.Env{AnthropicAPIKey: "a"},
			wantErr:    true,
		},
		{
			name:       "unknown provider",
			configured: "mistral",
			env:        config.Env{AnthropicAPIKey: "a"},
			wantErr:    true,
		},
		{
			name:    "no keys",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, key, err := ResolveProvider(tt.configured, &tt.env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || key != tt.wantKey {
				t.Errorf("ResolveProvider() = %q, %q; want %q, %q", got, key, tt.want, tt.wantKey)
			}
		})
	}
}

func TestModelFor(t *testing.T) {
	tests := []struct {
		provider  Provider
		requested string
		want      string
	}{
		{ProviderAnthropic, "claude-sonnet-4-5", "claude-sonnet-4-5"},
		{ProviderAnthropic, "", defaultAnthropicModel},
		{ProviderGemini, "claude-haiku-4-5", defaultGeminiModel},
		{ProviderGemini, "gemini-2.5-pro", "gemini-2.5-pro"},
		{ProviderOpenAI, "claude-haiku-4-5", defaultOpenAIModel},
		{ProviderOpenAI, "gpt-4.1", "gpt-4.1"},
	}

	for _, tt := range tests {
		if got := modelFor(tt.provider, tt.requested); got != tt.want {
			t.Errorf("modelFor(%s, %q) = %q, want %q", tt.provider, tt.requested, got, tt.want)
		}
	}
}

func TestOracleErrorWrapsSentinel(t *testing.T) {
	cause := errors.New("connection reset")
	err := oracleError(ProviderAnthropic, cause)
	if !errors.Is(err, ErrOracle) || !errors.Is(err, cause) {
		t.Errorf("oracleError should wrap both ErrOracle and the cause: %v", err)
	}
	if !errors.Is(emptyResponse(ProviderGemini), ErrOracle) {
		t.Error("emptyResponse should wrap ErrOracle")
	}
}

func TestWithMetrics(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.OracleCalls.WithLabelValues("metrics-test", "ok"))
	errBefore := testutil.ToFloat64(metrics.OracleCalls.WithLabelValues("metrics-test", "error"))

	calls := 0
	o := WithMetrics(OracleFunc(func(_ context.Context, _, _ string, _ CallOptions) (string, error) {
		calls++
		if calls == 2 {
			return "", ErrOracle
		}
		return "{}", nil
	}))

	opts := CallOptions{Purpose: "metrics-test"}
	if out, err := o.Complete(context.Background(), "s", "u", opts); err != nil || out != "{}" {
		t.Fatalf("Complete() = %q, %v", out, err)
	}
	if _, err := o.Complete(context.Background(), "s", "u", opts); !errors.Is(err, ErrOracle) {
		t.Fatalf("Complete() error = %v, want ErrOracle", err)
	}

	if got := testutil.ToFloat64(metrics.OracleCalls.WithLabelValues("metrics-test", "ok")) - okBefore; got != 1 {
		t.Errorf("ok calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.OracleCalls.WithLabelValues("metrics-test", "error")) - errBefore; got != 1 {
		t.Errorf("error calls = %v, want 1", got)
	}
}

type closingOracle struct {
	OracleFunc
	closed int
}

func (c *closingOracle) Close() error {
	c.closed++
	return nil
}

func TestMeteredClose(t *testing.T) {
	inner := &closingOracle{OracleFunc: func(context.Context, string, string, CallOptions) (string, error) {
		return "", nil
	}}
	if err := WithMetrics(inner).Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if inner.closed != 1 {
		t.Errorf("wrapped oracle closed %d times, want 1", inner.closed)
	}

	plain := OracleFunc(func(context.Context, string, string, CallOptions) (string, error) { return "", nil })
	if err := WithMetrics(plain).Close(); err != nil {
		t.Errorf("Close() on an oracle without a client = %v", err)
	}
}

func TestNewOracleClosesGeminiClient(t *testing.T) {
	cfg := config.Default()
	cfg.Oracle.Provider = "gemini"
	o, provider, err := NewOracle(cfg, &config.Env{GeminiAPIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOracle: %v", err)
	}
	if provider != ProviderGemini {
		t.Fatalf("provider = %q, want gemini", provider)
	}
	if _, ok := o.oracle.(io.Closer); !ok {
		t.Fatalf("gemini oracle %T should expose Close", o.oracle)
	}
	if err := o.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestNewEmbedderRequiresKey(t *testing.T) {
	if _, err := NewEmbedder(&config.Env{AnthropicAPIKey: "a"}, ""); !errors.Is(err, ErrNoEmbedder) {
		t.Errorf("NewEmbedder() error = %v, want ErrNoEmbedder", err)
	}
}

func TestNewEmbedderOpenAIModelSelection(t *testing.T) {
	e, err := NewEmbedder(&config.Env{OpenAIAPIKey: "sk-test"}, "gemini-embedding-001")
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}
	if e.Model() != "text-embedding-3-small" || e.Dimensions() != 1536 {
		t.Errorf("got model %q dims %d", e.Model(), e.Dimensions())
	}
}
