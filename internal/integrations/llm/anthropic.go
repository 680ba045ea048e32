// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicOracle calls the Claude Messages API.
type AnthropicOracle struct {
	client anthropic.Client
}

// NewAnthropicOracle creates a Claude oracle. SDK retries are disabled.
func NewAnthropicOracle(apiKey string, opts ...option.RequestOption) *AnthropicOracle {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &AnthropicOracle{client: anthropic.NewClient(opts...)}
}

// Complete sends one message and joins the text blocks of the reply.
func (a *AnthropicOracle) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelFor(ProviderAnthropic, opts.Model)),
		MaxTokens: int64(opts.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", oracleError(ProviderAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", emptyResponse(ProviderAnthropic)
	}
	return sb.String(), nil
}
