package async

import (
	"sync"
	"time"
)

// defaultDeadline bounds how long a source may stay registered, counted
// from Add, before the multiplexer kills it, for sources that don't
// implement Deadliner. Output does not extend the deadline.
const defaultDeadline = 5 * time.Minute

// Callback receives the bytes read from a source on a given turn.
type Callback func(sourceID string, data []byte)

// DoneCallback is invoked once when a source is removed, reporting why.
type DoneCallback func(sourceID string, err error)

// entry pairs a Source with its bookkeeping.
type entry struct {
	src      Source
	deadline time.Time
	lastSeen time.Time
}

// Multiplexer drains zero or more Sources once per event-loop turn. It is
// not safe for concurrent use from multiple goroutines; the event loop owns
// it and calls Poll from its single turn.
//
// Unlike a worker-pool model where each source gets its own goroutine and
// results land on a shared channel, the multiplexer is deliberately
// single-threaded: the event loop calls Poll synchronously between reading
// input, so a source can never deliver output while a command handler is
// still running, and a panic inside a source's Read cannot corrupt loop
// state out from under it.
type Multiplexer struct {
	mu      sync.Mutex
	sources map[string]*entry
	order   []string // insertion order; TTY-equivalent high-priority source first
}

// New creates an empty multiplexer.
func New() *Multiplexer {
	return &Multiplexer{sources: make(map[string]*entry)}
}

// Add registers a source. Sources are polled in the order they were added,
// so callers that want an input-equivalent source serviced first (e.g. a
// live process feeding the active view) should add it before anything else
// on that turn.
func (m *Multiplexer) Add(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deadline := time.Now().Add(defaultDeadline)
	if d, ok := src.(Deadliner); ok {
		deadline = d.Deadline()
	}
	m.sources[src.ID()] = &entry{src: src, deadline: deadline, lastSeen: time.Now()}
	m.order = append(m.order, src.ID())
}

// Remove unregisters and closes a source by ID, if present.
func (m *Multiplexer) Remove(id string) {
	m.mu.Lock()
	e, ok := m.sources[id]
	if ok {
		delete(m.sources, id)
		m.removeFromOrder(id)
	}
	m.mu.Unlock()
	if ok {
		e.src.Close()
	}
}

func (m *Multiplexer) removeFromOrder(id string) {
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Len reports how many sources are currently registered.
func (m *Multiplexer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

// Poll drains at most one read from each registered source, in priority
// order, invoking onData for any bytes produced and onDone for any source
// that finished (EOF, error, or deadline) this turn. It never blocks beyond
// what each Source.Read itself takes.
func (m *Multiplexer) Poll(onData Callback, onDone DoneCallback) {
	m.mu.Lock()
	order := make([]string, len(m.order))
	copy(order, m.order)
	m.mu.Unlock()

	now := time.Now()
	for _, id := range order {
		m.mu.Lock()
		e, ok := m.sources[id]
		m.mu.Unlock()
		if !ok {
			continue
		}

		if now.After(e.deadline) {
			m.finish(id, onDone, errDeadline)
			continue
		}

		data, more, err := e.src.Read()
		if len(data) > 0 && onData != nil {
			onData(id, data)
		}
		if err != nil {
			m.finish(id, onDone, err)
			continue
		}
		if !more || e.src.Done() {
			m.finish(id, onDone, nil)
			continue
		}
		m.mu.Lock()
		e.lastSeen = now
		m.mu.Unlock()
	}
}

func (m *Multiplexer) finish(id string, onDone DoneCallback, err error) {
	m.mu.Lock()
	e, ok := m.sources[id]
	if ok {
		delete(m.sources, id)
		m.removeFromOrder(id)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	e.src.Close()
	if onDone != nil {
		onDone(id, err)
	}
}

// Shutdown closes every registered source, for use during editor teardown.
func (m *Multiplexer) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Remove(id)
	}
}

var errDeadline = deadlineError{}

type deadlineError struct{}

func (deadlineError) Error() string { return "async: source exceeded its deadline" }
