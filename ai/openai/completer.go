package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/scrivener/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends the request to the chat API and returns the generated text
// with token usage. Usage comes from the service response when present;
// otherwise it is estimated with tiktoken so accounting never undercounts
// to zero.
func (c *Completer) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	content := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
	})

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	response, err := c.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		c.logger.Error("completion call failed", "err", err)
		return nil, classifyServiceError(err)
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return nil, ai.ErrEmptyResponse
	}

	choice := response.Choices[0]
	text := strings.TrimSpace(choice.Content)
	if text == "" {
		return nil, ai.ErrEmptyResponse
	}

	usage := usageFromGenerationInfo(choice.GenerationInfo)
	if usage.PromptTokens == 0 {
		usage.PromptTokens = int64(estimateTokens(req.System + req.Prompt))
	}
	if usage.CompletionTokens == 0 {
		usage.CompletionTokens = int64(estimateTokens(text))
	}

	c.logger.Debug("completion finished",
		"promptTokens", usage.PromptTokens,
		"completionTokens", usage.CompletionTokens)

	return &ai.Completion{Text: text, Usage: usage}, nil
}

// usageFromGenerationInfo extracts token counts from langchaingo response
// metadata. The OpenAI backend reports them as ints under these keys.
func usageFromGenerationInfo(info map[string]any) ai.Usage {
	var usage ai.Usage
	if info == nil {
		return usage
	}
	if v, ok := info["PromptTokens"].(int); ok {
		usage.PromptTokens = int64(v)
	}
	if v, ok := info["CompletionTokens"].(int); ok {
		usage.CompletionTokens = int64(v)
	}
	return usage
}
