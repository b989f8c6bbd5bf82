package ai

import (
	"context"
	"testing"
	"time"
)

type fakeClient struct {
	chunks []Chunk
}

func (f *fakeClient) Provider() Provider { return ProviderAnthropic }

func (f *fakeClient) Stream(ctx context.Context, req Request) (<-chan Chunk, <-chan error, error) {
	chunks := make(chan Chunk, len(f.chunks))
	errs := make(chan error, 1)
	for _, c := range f.chunks {
		chunks <- c
	}
	close(chunks)
	close(errs)
	return chunks, errs, nil
}

func TestStreamJobAccumulatesText(t *testing.T) {
	client := &fakeClient{chunks: []Chunk{
		{Text: "hello "},
		{Text: "world"},
		{Done: true, Usage: Usage{InputTokens: 3, OutputTokens: 2}},
	}}

	job, err := StartStreamJob(context.Background(), "job-1", client, Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("StartStreamJob: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	var got []byte
	for !job.Done() && time.Now().Before(deadline) {
		data, _, err := job.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		got = append(got, data...)
	}

	if string(got) != "hello world" {
		t.Fatalf("expected accumulated text %q, got %q", "hello world", got)
	}
	if u := job.Usage(); u.InputTokens != 3 || u.OutputTokens != 2 {
		t.Fatalf("unexpected usage: %+v", u)
	}
}

func TestStreamJobClosePropagatesCancel(t *testing.T) {
	client := &fakeClient{chunks: nil}
	job, err := StartStreamJob(context.Background(), "job-2", client, Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("StartStreamJob: %v", err)
	}
	if err := job.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := job.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: Provider("bogus")})
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
