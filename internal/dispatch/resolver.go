// Package dispatch implements the keymap trie/stack walk that turns a
// stream of keystrokes into resolved commands, need-more-input states, or
// unbound misses.
package dispatch

import (
	"errors"
	"strconv"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/key"
	"github.com/smorimura/mle/internal/keymap"
)

// maxNumericDigits bounds the numeric-prefix accumulator; exceeding it is an
// input-overflow error that aborts the whole pending chord.
const maxNumericDigits = 9

// ErrNumericOverflow reports a numeric prefix longer than maxNumericDigits.
var ErrNumericOverflow = errors.New("dispatch: numeric prefix too long")

// Outcome classifies the result of a single resolution step.
type Outcome int

const (
	Unbound Outcome = iota
	NeedMore
	Resolved
)

// State is the resolver's cross-keystroke memory: the trie node a
// multi-keystroke chord has reached so far, the in-progress numeric-digit
// buffer, and the parameters accumulated along the way. It corresponds to
// the numeric/wildcard/binding_node fields of a loop context.
type State struct {
	Node       *keymap.Node
	NumericBuf string
	Numeric    []int
	Wildcard   []rune
}

// NewState returns a State anchored at the top of the keymap stack.
func NewState() *State {
	return &State{}
}

// Reset clears all in-progress chord state. Called after every resolved or
// unbound outcome so the next keystroke starts a fresh chord.
func (s *State) Reset() {
	s.Node = nil
	s.NumericBuf = ""
	s.Numeric = nil
	s.Wildcard = nil
}

// Resolution reports what happened in response to one keystroke. Numeric
// and Wildcard are snapshotted from State at the moment of resolution,
// since a Resolved outcome resets State immediately afterward — a command
// reading st.Numeric after Resolve returns would otherwise always see nil.
type Resolution struct {
	Outcome  Outcome
	Command  *command.Reference
	Param    string
	Err      error
	Numeric  []int
	Wildcard []rune
}

// Resolve walks the keymap stack (or the in-progress chord node) for one
// input keystroke. When peek is true, State is left untouched: Resolve only
// reports what *would* happen, used by paste ingestion to classify a
// buffered keystroke without committing to it.
func Resolve(stack *keymap.Stack, st *State, input keymap.Keystroke, peek bool) Resolution {
	if st.Node != nil {
		res := stepFrom(st.Node, st, input, peek)
		if res.Outcome == Resolved {
			res.Numeric, res.Wildcard = st.Numeric, st.Wildcard
		}
		if !peek && res.Outcome != NeedMore {
			st.Reset()
		}
		return res
	}

	depth := 0
	for {
		km := stack.At(depth)
		if km == nil {
			if !peek {
				st.Reset()
			}
			return Resolution{Outcome: Unbound}
		}

		res := stepFrom(km.Root, st, input, peek)
		if res.Err != nil {
			if !peek {
				st.Reset()
			}
			return res
		}
		if res.Outcome != Unbound {
			if res.Outcome == Resolved {
				res.Numeric, res.Wildcard = st.Numeric, st.Wildcard
			}
			if !peek && res.Outcome == Resolved {
				st.Reset()
			}
			return res
		}

		if km.Default != nil {
			numeric, wildcard := st.Numeric, st.Wildcard
			if !peek {
				st.Reset()
			}
			return Resolution{Outcome: Resolved, Command: km.Default, Numeric: numeric, Wildcard: wildcard}
		}
		if !km.AllowFallthru {
			if !peek {
				st.Reset()
			}
			return Resolution{Outcome: Unbound}
		}
		depth++
	}
}

// ResolveEvent is a convenience wrapper converting a key.Event first.
func ResolveEvent(stack *keymap.Stack, st *State, ev key.Event, peek bool) Resolution {
	return Resolve(stack, st, keymap.FromEvent(ev), peek)
}

// stepFrom performs one per-node resolution step: numeric accumulation,
// numeric finalization, exact match, wildcard fallback.
func stepFrom(node *keymap.Node, st *State, input keymap.Keystroke, peek bool) Resolution {
	if input.IsDigit() {
		if _, ok := node.Children[keymap.Numeric]; ok {
			if len(st.NumericBuf)+1 > maxNumericDigits {
				return Resolution{Outcome: Unbound, Err: ErrNumericOverflow}
			}
			if !peek {
				st.NumericBuf += string(input.Rune)
				st.Node = node
			}
			return Resolution{Outcome: NeedMore}
		}
	}

	if st.NumericBuf != "" {
		if numChild, ok := node.Children[keymap.Numeric]; ok {
			n, _ := strconv.Atoi(st.NumericBuf)
			if !peek {
				st.Numeric = append(st.Numeric, n)
				st.NumericBuf = ""
			}
			node = numChild
		}
	}

	child, ok := node.Children[input]
	wildcardUsed := false
	if !ok {
		if wc, wok := node.Children[keymap.Wildcard]; wok {
			child, ok, wildcardUsed = wc, true, true
		}
	}
	if !ok {
		return Resolution{Outcome: Unbound}
	}

	if !peek && wildcardUsed {
		st.Wildcard = append(st.Wildcard, input.Rune)
	}

	if child.IsLeaf() {
		return Resolution{Outcome: Resolved, Command: child.Command, Param: child.Param}
	}
	if len(child.Children) > 0 {
		if !peek {
			st.Node = child
		}
		return Resolution{Outcome: NeedMore}
	}
	return Resolution{Outcome: Unbound}
}
