package async

import (
	"io"
	"sync"
	"time"

	"github.com/smorimura/mle/internal/proc"
)

// ProcessSource adapts a proc.Process's stdout into a Source, letting a
// subprocess spawned by a shell-filter or shell-command feed its output
// into the async multiplexer exactly like any other background activity.
//
// The multiplexer's turn budget requires Read to return immediately whether
// or not data is available, but a pipe's Read call blocks until the writer
// produces something. ProcessSource reconciles the two by pumping the
// actual blocking read in a dedicated background goroutine and handing
// Read a channel to poll instead: the goroutine is the only thing that
// ever blocks, and Poll's turn never does.
type ProcessSource struct {
	id     string
	proc   *proc.Process
	chunks chan []byte
	errc   chan error
	once   sync.Once
	closed bool

	readErr error
	eof     bool
}

// NewProcessSource wraps p, reading from its Stdout pipe. id should be
// unique among concurrently registered sources (by convention, the view
// name or a generated token).
func NewProcessSource(id string, p *proc.Process) *ProcessSource {
	return &ProcessSource{
		id:     id,
		proc:   p,
		chunks: make(chan []byte, 16),
		errc:   make(chan error, 1),
	}
}

// ID implements Source.
func (s *ProcessSource) ID() string { return s.id }

// pump reads from the process's stdout pipe until it errors or hits EOF,
// forwarding each chunk to the channel Read polls. Started lazily so a
// ProcessSource with a nil Stdout never spawns a goroutine at all.
func (s *ProcessSource) pump() {
	defer close(s.chunks)
	buf := make([]byte, 4096)
	for {
		n, err := s.proc.Stdout.Read(buf)
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			s.chunks <- out
		}
		if err != nil {
			s.errc <- err
			return
		}
	}
}

// Read implements Source: a non-blocking poll of whatever the background
// pump goroutine has produced since the last turn.
func (s *ProcessSource) Read() ([]byte, bool, error) {
	if s.closed {
		return nil, false, ErrClosed
	}
	if s.proc.Stdout == nil {
		return nil, false, s.readErr
	}
	s.once.Do(func() { go s.pump() })

	select {
	case data, ok := <-s.chunks:
		if ok {
			return data, true, nil
		}
		return s.drainErr()
	default:
		return nil, true, nil
	}
}

// drainErr reports the terminal condition once pump's channel has closed.
func (s *ProcessSource) drainErr() ([]byte, bool, error) {
	if s.eof {
		return nil, false, s.readErr
	}
	s.eof = true
	select {
	case err := <-s.errc:
		if err == io.EOF {
			return nil, false, nil
		}
		s.readErr = err
		return nil, false, err
	default:
		return nil, false, nil
	}
}

// Done implements Source: true once the process has exited and stdout is
// drained.
func (s *ProcessSource) Done() bool {
	if s.proc.Stdout != nil && !s.closed && !s.eof {
		return false
	}
	select {
	case <-s.proc.Done():
		return true
	default:
		return false
	}
}

// Deadline implements Deadliner, bounding a runaway subprocess.
func (s *ProcessSource) Deadline() time.Time {
	return s.proc.Started.Add(10 * time.Minute)
}

// Close implements Source.
func (s *ProcessSource) Close() error {
	s.closed = true
	if s.proc.Stdout != nil {
		return s.proc.Stdout.Close()
	}
	return nil
}
