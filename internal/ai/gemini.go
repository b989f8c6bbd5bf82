package ai

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

func init() {
	registerFactory(ProviderGemini, newGeminiClient)
}

type geminiClient struct {
	apiKey string
	model  string
}

func newGeminiClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiClient{apiKey: cfg.APIKey, model: model}, nil
}

func (c *geminiClient) Provider() Provider { return ProviderGemini }

func (c *geminiClient) Stream(ctx context.Context, req Request) (<-chan Chunk, <-chan error, error) {
	sdk, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, nil, err
	}

	model := sdk.GenerativeModel(c.model)
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.MaxTokens > 0 {
		model.MaxOutputTokens = int32Ptr(int32(req.MaxTokens))
	}

	iter := model.GenerateContentStream(ctx, genai.Text(req.Prompt))

	chunks := make(chan Chunk)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)
		defer sdk.Close()

		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				errs <- err
				return
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if text, ok := part.(genai.Text); ok {
						chunks <- Chunk{Text: string(text)}
					}
				}
			}
		}
		chunks <- Chunk{Done: true}
	}()

	return chunks, errs, nil
}

func int32Ptr(v int32) *int32 { return &v }
