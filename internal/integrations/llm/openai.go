// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIOracle calls the Chat Completions API.
type OpenAIOracle struct {
	client openai.Client
}

// NewOpenAIOracle creates an OpenAI oracle. SDK retries are disabled.
func NewOpenAIOracle(apiKey string, opts ...option.RequestOption) *OpenAIOracle {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &OpenAIOracle{client: openai.NewClient(opts...)}
}

// Complete sends the prompts and returns the first choice.
func (o *OpenAIOracle) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelFor(ProviderOpenAI, opts.Model)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(int64(opts.MaxTokens)),
	})
	if err != nil {
		return "", oracleError(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", emptyResponse(ProviderOpenAI)
	}
	return resp.Choices[0].Message.Content, nil
}
