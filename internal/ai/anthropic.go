package ai

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func init() {
	registerFactory(ProviderAnthropic, newAnthropicClient)
}

type anthropicClient struct {
	sdk   anthropic.Client
	model string
}

func newAnthropicClient(cfg Config) (Client, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	return &anthropicClient{sdk: anthropic.NewClient(opts...), model: model}, nil
}

func (c *anthropicClient) Provider() Provider { return ProviderAnthropic }

func (c *anthropicClient) Stream(ctx context.Context, req Request) (<-chan Chunk, <-chan error, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	stream := c.sdk.Messages.NewStreaming(ctx, params)

	chunks := make(chan Chunk)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		var message anthropic.Message
		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				errs <- err
				return
			}
			if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
				if text := delta.Delta.Text; text != "" {
					chunks <- Chunk{Text: text}
				}
			}
		}
		if err := stream.Err(); err != nil {
			errs <- err
			return
		}
		chunks <- Chunk{
			Done: true,
			Usage: Usage{
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
			},
		}
	}()

	return chunks, errs, nil
}
