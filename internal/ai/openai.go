package ai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func init() {
	registerFactory(ProviderOpenAI, newOpenAIClient)
}

type openaiClient struct {
	sdk   openai.Client
	model string
}

func newOpenAIClient(cfg Config) (Client, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4o
	}
	return &openaiClient{sdk: openai.NewClient(opts...), model: model}, nil
}

func (c *openaiClient) Provider() Provider { return ProviderOpenAI }

func (c *openaiClient) Stream(ctx context.Context, req Request) (<-chan Chunk, <-chan error, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	stream := c.sdk.Chat.Completions.NewStreaming(ctx, params)

	chunks := make(chan Chunk)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		var usage Usage
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) > 0 {
				if text := chunk.Choices[0].Delta.Content; text != "" {
					chunks <- Chunk{Text: text}
				}
			}
			if chunk.Usage.TotalTokens > 0 {
				usage = Usage{
					InputTokens:  int(chunk.Usage.PromptTokens),
					OutputTokens: int(chunk.Usage.CompletionTokens),
				}
			}
		}
		if err := stream.Err(); err != nil {
			errs <- err
			return
		}
		chunks <- Chunk{Done: true, Usage: usage}
	}()

	return chunks, errs, nil
}
