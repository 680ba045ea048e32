// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracle calls the Gemini generateContent API.
type GeminiOracle struct {
	client *genai.Client
}

// NewGeminiOracle creates a Gemini oracle.
func NewGeminiOracle(apiKey string) (*GeminiOracle, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, oracleError(ProviderGemini, err)
	}
	return &GeminiOracle{client: client}, nil
}

// Close closes the Gemini client.
func (g *GeminiOracle) Close() error {
	return g.client.Close()
}

// Complete generates one candidate and joins its text parts.
func (g *GeminiOracle) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	model := g.client.GenerativeModel(modelFor(ProviderGemini, opts.Model))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", oracleError(ProviderGemini, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", emptyResponse(ProviderGemini)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", emptyResponse(ProviderGemini)
	}
	return sb.String(), nil
}
