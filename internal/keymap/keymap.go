package keymap

import (
	"fmt"

	"github.com/smorimura/mle/internal/command"
)

// Keymap is a named trie of bindings plus the keymap-stack policy fields:
// an optional default command fired on an unmatched top-level lookup, and
// an allow-fallthru flag controlling whether an unmatched top-level lookup
// may consult the next keymap on the stack.
type Keymap struct {
	Name          string
	Root          *Node
	Default       *command.Reference
	AllowFallthru bool
}

// New creates an empty, named keymap.
func New(name string) *Keymap {
	return &Keymap{Name: name, Root: newNode()}
}

// Bind inserts a binding: a command reference reached by the given
// space-separated key pattern, with an optional static parameter.
func (k *Keymap) Bind(pattern string, ref *command.Reference, param string) error {
	path, err := ParsePattern(pattern)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return fmt.Errorf("keymap %q: %w", k.Name, ErrEmptyNode)
	}
	k.Root.insert(path, ref, param)
	return nil
}

// SetDefault sets the command invoked when no prefix of the input matches
// at the top level of this keymap.
func (k *Keymap) SetDefault(ref *command.Reference) {
	k.Default = ref
}

// Stack is a per-view ordered list of keymaps. The tail (last element) is
// consulted first; resolution only continues downward past a keymap whose
// AllowFallthru flag is set.
type Stack struct {
	maps []*Keymap
}

// NewStack creates an empty keymap stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds a keymap to the top of the stack.
func (s *Stack) Push(k *Keymap) {
	s.maps = append(s.maps, k)
}

// Pop removes and returns the top keymap, or nil if the stack is empty.
func (s *Stack) Pop() *Keymap {
	if len(s.maps) == 0 {
		return nil
	}
	top := s.maps[len(s.maps)-1]
	s.maps = s.maps[:len(s.maps)-1]
	return top
}

// Top returns the keymap at the top of the stack without removing it.
func (s *Stack) Top() *Keymap {
	if len(s.maps) == 0 {
		return nil
	}
	return s.maps[len(s.maps)-1]
}

// Len reports the number of keymaps on the stack.
func (s *Stack) Len() int {
	return len(s.maps)
}

// At returns the keymap at the given stack depth, counting from the top
// (0 is the top). Returns nil if out of range.
func (s *Stack) At(depthFromTop int) *Keymap {
	idx := len(s.maps) - 1 - depthFromTop
	if idx < 0 || idx >= len(s.maps) {
		return nil
	}
	return s.maps[idx]
}

// Registry is the editor-wide mapping from keymap name to definition,
// populated by the CLI/RC "-K"/"-k" options and consulted by name when a
// view needs to install a keymap (e.g. "mle_normal", "mle_prompt_input").
type Registry struct {
	maps map[string]*Keymap
}

// NewRegistry creates an empty keymap registry.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]*Keymap)}
}

// Register installs a keymap under its own name.
func (r *Registry) Register(k *Keymap) {
	r.maps[k.Name] = k
}

// Get returns the named keymap, or nil if it is not registered.
func (r *Registry) Get(name string) *Keymap {
	return r.maps[name]
}

// GetOrCreate returns the named keymap, creating and registering an empty
// one if it did not already exist.
func (r *Registry) GetOrCreate(name string) *Keymap {
	if k, ok := r.maps[name]; ok {
		return k
	}
	k := New(name)
	r.maps[name] = k
	return k
}
