package ai

import (
	"context"
	"sync"
)

// StreamJob runs one streaming completion and exposes it as an async
// source, so the event loop drains AI output through the same multiplexer
// turn that drains subprocess stdout — no provider-specific code lives in
// the loop.
type StreamJob struct {
	id     string
	cancel context.CancelFunc
	chunks <-chan Chunk
	errs   <-chan error

	mu     sync.Mutex
	done   bool
	err    error
	usage  Usage
	closed bool
}

// StartStreamJob begins a completion against client and returns a StreamJob
// ready to be added to an async.Multiplexer.
func StartStreamJob(ctx context.Context, id string, client Client, req Request) (*StreamJob, error) {
	ctx, cancel := context.WithCancel(ctx)
	chunks, errs, err := client.Stream(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}
	return &StreamJob{id: id, cancel: cancel, chunks: chunks, errs: errs}, nil
}

// ID implements async.Source.
func (j *StreamJob) ID() string { return j.id }

// Read implements async.Source, draining whatever chunks and errors are
// immediately available without blocking once both channels are empty.
func (j *StreamJob) Read() ([]byte, bool, error) {
	var out []byte
	for {
		select {
		case c, ok := <-j.chunks:
			if !ok {
				j.mu.Lock()
				j.done = true
				j.mu.Unlock()
				return out, false, j.err
			}
			if c.Text != "" {
				out = append(out, c.Text...)
			}
			if c.Done {
				j.mu.Lock()
				j.usage = c.Usage
				j.mu.Unlock()
			}
			continue
		case err, ok := <-j.errs:
			if ok && err != nil {
				j.mu.Lock()
				j.err = err
				j.done = true
				j.mu.Unlock()
				return out, false, err
			}
		default:
			return out, true, nil
		}
	}
}

// Done implements async.Source.
func (j *StreamJob) Done() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.done
}

// Usage returns token accounting reported on the stream's final chunk.
func (j *StreamJob) Usage() Usage {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.usage
}

// Close implements async.Source, cancelling the underlying request context.
func (j *StreamJob) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()
	j.cancel()
	return nil
}
