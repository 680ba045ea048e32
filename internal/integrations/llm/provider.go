package llm

import (
	"fmt"
	"strings"

	"github.com/similigh/triagebot/internal/core/config"
)

// Provider identifies an oracle backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
)

const (
	defaultAnthropicModel = "claude-haiku-4-5"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// ResolveProvider picks the oracle backend and its key.
//
// An explicitly configured provider must have its key set. Otherwise the
// first provider with a key wins, in order Anthropic, Gemini, OpenAI.
func ResolveProvider(configured string, env *config.Env) (Provider, string, error) {
	keys := map[Provider]string{
		ProviderAnthropic: strings.TrimSpace(env.AnthropicAPIKey),
		ProviderGemini:    strings.TrimSpace(env.GeminiAPIKey),
		ProviderOpenAI:    strings.TrimSpace(env.OpenAIAPIKey),
	}

	if configured = strings.ToLower(strings.TrimSpace(configured)); configured != "" {
		p := Provider(configured)
		key, known := keys[p]
		switch {
		case !known:
			return "", "", fmt.Errorf("unknown oracle provider %q", configured)
		case key == "":
			return "", "", fmt.Errorf("oracle provider %s selected but its API key is not set", p)
		}
		return p, key, nil
	}

	for _, p := range []Provider{ProviderAnthropic, ProviderGemini, ProviderOpenAI} {
		if keys[p] != "" {
			return p, keys[p], nil
		}
	}
	return "", "", fmt.Errorf("no oracle API key found (set ANTHROPIC_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY)")
}

// NewOracle builds the oracle for the resolved provider.
func NewOracle(cfg *config.Config, env *config.Env) (*Metered, Provider, error) {
	provider, key, err := ResolveProvider(cfg.Oracle.Provider, env)
	if err != nil {
		return nil, "", err
	}

	var o Oracle
	switch provider {
	case ProviderAnthropic:
		o = NewAnthropicOracle(key)
	case ProviderGemini:
		o, err = NewGeminiOracle(key)
	case ProviderOpenAI:
		o = NewOpenAIOracle(key)
	}
	if err != nil {
		return nil, "", err
	}
	return WithMetrics(o), provider, nil
}
