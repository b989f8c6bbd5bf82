package proc

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Supervisor tracks every shell process spawned on a view's behalf (":!cmd",
// a "|cmd" filter, or any future job-control command) and gives the editor
// one place to tear them all down on exit. Safe for concurrent use.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process
	closed    atomic.Bool
}

// NewSupervisor creates an empty Supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{processes: make(map[string]*Process)}
}

// Start pipes cmd's stdin/stdout/stderr (unless already set), starts it, and
// tracks it until it exits or Shutdown reaps it. name is a caller-chosen
// label for the process (e.g. the command text), not an identifier.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	id := uuid.New().String()
	p := NewProcess(id, name, cmd)

	var opened []interface{ Close() error }
	cleanup := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}

	if cmd.Stdin == nil {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("proc: stdin pipe for %s: %w", name, err)
		}
		p.Stdin = pipe
		opened = append(opened, pipe)
	}
	if cmd.Stdout == nil {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("proc: stdout pipe for %s: %w", name, err)
		}
		p.Stdout = pipe
		opened = append(opened, pipe)
	}
	if cmd.Stderr == nil {
		pipe, err := cmd.StderrPipe()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("proc: stderr pipe for %s: %w", name, err)
		}
		p.Stderr = pipe
		opened = append(opened, pipe)
	}

	if err := p.start(); err != nil {
		cleanup()
		return nil, err
	}

	s.processes[id] = p
	go s.reap(p)
	return p, nil
}

// reap removes a process from tracking once it exits, so Count reflects
// only still-running work.
func (s *Supervisor) reap(p *Process) {
	<-p.Done()
	s.mu.Lock()
	delete(s.processes, p.ID)
	s.mu.Unlock()
}

// Count reports how many processes are currently tracked.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// snapshot copies the current process set out from under the lock, for the
// teardown loops below that need to act on each one without holding it.
func (s *Supervisor) snapshot() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	procs := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		procs = append(procs, p)
	}
	return procs
}

// Shutdown sends SIGTERM to every tracked process and waits up to timeout
// for them to exit, then SIGKILLs whatever is still running. Blocks until
// every process has been reaped. Safe to call more than once; only the
// first call does anything.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	procs := s.snapshot()
	if len(procs) == 0 {
		return
	}
	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Terminate()
		}
	}

	exited := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.Done()
		}
		close(exited)
	}()

	select {
	case <-exited:
	case <-time.After(timeout):
		for _, p := range procs {
			if p.IsRunning() {
				_ = p.Kill()
			}
		}
		<-exited
	}

	for s.Count() > 0 {
		time.Sleep(time.Millisecond)
	}
}
