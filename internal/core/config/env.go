// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Env holds the secrets and runtime flags read from the process environment.
type Env struct {
	GitHubToken     string `env:"GITHUB_TOKEN"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	QdrantURL       string `env:"QDRANT_URL"`
	QdrantAPIKey    string `env:"QDRANT_API_KEY"`

	// Repository is "owner/name", set by GitHub Actions.
	Repository string `env:"GITHUB_REPOSITORY"`

	CI            bool `env:"CI,default=false"`
	GitHubActions bool `env:"GITHUB_ACTIONS,default=false"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv(ctx context.Context) (*Env, error) {
	return loadEnv(ctx, envconfig.OsLookuper())
}

func loadEnv(ctx context.Context, l envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &env, nil
}

// InCI reports whether the process runs under a CI system.
func (e *Env) InCI() bool {
	return e.CI || e.GitHubActions
}
