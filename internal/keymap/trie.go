package keymap

import (
	"errors"

	"github.com/smorimura/mle/internal/command"
)

// ErrEmptyNode is returned when an insert would produce a node with neither
// children nor a leaf payload.
var ErrEmptyNode = errors.New("keymap: binding node cannot be empty")

// Node is a trie node: either an interior node with children, a leaf
// carrying a command reference, or both. Bind rejects an empty pattern, so
// insertion never creates a node that is neither.
type Node struct {
	Children map[Keystroke]*Node
	Command  *command.Reference
	Param    string
}

func newNode() *Node {
	return &Node{Children: make(map[Keystroke]*Node)}
}

// IsLeaf reports whether this node carries a resolved command.
func (n *Node) IsLeaf() bool {
	return n.Command != nil
}

// Child returns the child bound to the given keystroke, or nil.
func (n *Node) Child(k Keystroke) *Node {
	return n.Children[k]
}

// insert walks/creates nodes for the given keystroke path and attaches the
// command reference and static parameter at the terminal node.
func (n *Node) insert(path []Keystroke, ref *command.Reference, param string) {
	cur := n
	for _, k := range path {
		next, ok := cur.Children[k]
		if !ok {
			next = newNode()
			cur.Children[k] = next
		}
		cur = next
	}
	cur.Command = ref
	cur.Param = param
}

// Remove detaches the child at the given keystroke, letting the garbage
// collector reclaim its subtree once unreferenced elsewhere.
func (n *Node) Remove(k Keystroke) {
	delete(n.Children, k)
}
