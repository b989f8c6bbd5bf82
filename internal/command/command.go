// Package command defines the late-bound command reference registry and the
// execution context a dispatched command runs with.
package command

import (
	"fmt"
	"sync"
)

// Status is the outcome of running a command.
type Status uint8

const (
	StatusOK Status = iota
	StatusNoOp
	StatusError
	StatusAsync
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusAsync:
		return "async"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result reports what happened when a command ran.
type Result struct {
	Status Status
	Err    error
}

// OK reports successful, synchronous completion.
func OK() Result { return Result{Status: StatusOK} }

// NoOp reports that the command had nothing to do.
func NoOp() Result { return Result{Status: StatusNoOp} }

// Failed wraps an error as a command result.
func Failed(err error) Result { return Result{Status: StatusError, Err: err} }

// Async reports that the command kicked off asynchronous work (a subprocess,
// an AI completion) and will mutate state later through an async source.
func Async() Result { return Result{Status: StatusAsync} }

// ViewHandle is the minimal surface a command needs from the active view.
// Kept as an interface here (rather than importing the view package
// directly) so that view, keymap, and command do not form an import cycle.
type ViewHandle interface {
	// Name identifies the view for logging/diagnostics.
	Name() string
}

// LoopHandle is the minimal surface a command needs from the loop context
// it is running inside: requesting exit and reading the nesting depth.
// Accumulated chord parameters are carried on Context itself.
type LoopHandle interface {
	RequestExit()
	Depth() int
}

// Context is the ephemeral per-dispatch bundle handed to a command function.
type Context struct {
	// Editor is an opaque handle to the owning editor, type-asserted by
	// handlers that need editor-wide state (views registry, macro engine,
	// command registry). Using `any` here avoids a command -> editor
	// import cycle, since editor necessarily imports command.
	Editor any

	View  ViewHandle
	Loop  LoopHandle

	// Rune is the character of the keystroke that triggered this dispatch;
	// commands bound to wildcard edges read Rune to recover the captured
	// character.
	Rune rune

	// Param is the static parameter string carried by the matched trie leaf.
	Param string

	// Numeric holds the accumulated numeric-prefix parameters, in capture order.
	Numeric []int

	// Wildcard holds the accumulated wildcard-capture runes, in capture order.
	Wildcard []rune

	// UserInput is false when this dispatch originates from macro replay.
	UserInput bool

	// Paste holds pending bracketed-paste text when this dispatch was
	// produced by paste ingestion rather than a single keystroke; empty
	// otherwise. A text-insertion command checks this before falling back
	// to Rune so a paste is inserted as one batch instead of one resolver
	// pass per character.
	Paste string
}

// Func is a command's executable body.
type Func func(ctx *Context) Result

// Reference is a named, late-bound handle to a command. Keymaps may refer to
// a command by name before that name is registered; resolution happens on
// first use and is memoized.
type Reference struct {
	mu   sync.Mutex
	Name string
	fn   Func
	// Init runs once, immediately before the first resolution, letting a
	// binding attach user data to the reference lazily.
	Init func(*Reference)
	Data any
}

// NewReference creates an unresolved reference to the named command.
func NewReference(name string) *Reference {
	return &Reference{Name: name}
}

// Resolve looks up and memoizes the underlying function from the registry.
func (r *Reference) Resolve(reg *Registry) (Func, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fn != nil {
		return r.fn, nil
	}
	if r.Init != nil {
		r.Init(r)
		r.Init = nil
	}
	fn, ok := reg.lookup(r.Name)
	if !ok {
		return nil, fmt.Errorf("command: unknown command %q", r.Name)
	}
	r.fn = fn
	return fn, nil
}

// Registry is the editor-wide mapping from command name to implementation.
// Names may be referenced by keymaps before Register is called for them.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register installs (or replaces) the implementation for a command name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Has reports whether a command name is currently registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// Names returns every registered command name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	return names
}

func (r *Registry) lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}
