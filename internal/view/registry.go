package view

import "fmt"

// Registry owns every live view and the three collections that let the
// editor answer "what's next" in O(1): a circular ring over all views (for
// broadcast/iteration), a doubly-linked list over top-level views (for
// next-window/prev-window cycling), and a split parent/child edge per view
// (for deciding who becomes active when a split closes).
type Registry struct {
	nextID int
	byID   map[int]*View

	allHead *View // arbitrary entry point into the all-views ring
	topHead *View // arbitrary entry point into the top-views list
	active  *View
}

// NewRegistry creates an empty view registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]*View)}
}

// Open creates a view of the given type over buf, inserts it into the
// all-views ring and, if it is not a split child, the top-views list, and
// makes it active.
func (r *Registry) Open(name string, typ Type, buf *Buffer) *View {
	r.nextID++
	v := &View{id: r.nextID, Name_: name, Type: typ, Buffer: buf, Keymaps: nil}
	r.byID[v.id] = v
	r.linkAll(v)
	r.linkTop(v)
	r.active = v
	return v
}

// OpenSplit creates a view as a split child of parent: it joins the
// all-views ring but not the top-views list, since it is reached through
// its parent.
func (r *Registry) OpenSplit(parent *View, name string, buf *Buffer) *View {
	r.nextID++
	v := &View{id: r.nextID, Name_: name, Type: TypeEdit, Buffer: buf}
	r.byID[v.id] = v
	r.linkAll(v)
	if parent.splitChild != nil {
		r.detachSplitChild(parent)
	}
	parent.splitChild = v
	v.splitParent = parent
	r.active = v
	return v
}

func (r *Registry) linkAll(v *View) {
	if r.allHead == nil {
		v.nextAll, v.prevAll = v, v
		r.allHead = v
		return
	}
	tail := r.allHead.prevAll
	v.nextAll = r.allHead
	v.prevAll = tail
	tail.nextAll = v
	r.allHead.prevAll = v
}

func (r *Registry) unlinkAll(v *View) {
	if v.nextAll == v {
		r.allHead = nil
		v.nextAll, v.prevAll = nil, nil
		return
	}
	v.prevAll.nextAll = v.nextAll
	v.nextAll.prevAll = v.prevAll
	if r.allHead == v {
		r.allHead = v.nextAll
	}
	v.nextAll, v.prevAll = nil, nil
}

func (r *Registry) linkTop(v *View) {
	if r.topHead == nil {
		v.nextTop, v.prevTop = v, v
		r.topHead = v
		return
	}
	tail := r.topHead.prevTop
	v.nextTop = r.topHead
	v.prevTop = tail
	tail.nextTop = v
	r.topHead.prevTop = v
}

func (r *Registry) unlinkTop(v *View) {
	if v.prevTop == nil && v.nextTop == nil {
		return
	}
	if v.nextTop == v {
		r.topHead = nil
	} else {
		v.prevTop.nextTop = v.nextTop
		v.nextTop.prevTop = v.prevTop
		if r.topHead == v {
			r.topHead = v.nextTop
		}
	}
	v.nextTop, v.prevTop = nil, nil
}

func (r *Registry) detachSplitChild(parent *View) {
	child := parent.splitChild
	if child == nil {
		return
	}
	parent.splitChild = nil
	child.splitParent = nil
	r.linkTop(child)
}

// Close removes v from the registry. If v was a split child, its parent
// becomes active; if v had a split child of its own, that child is promoted
// into the top-views list. Returns the view that should become active next,
// or nil if the registry is now empty.
func (r *Registry) Close(v *View) *View {
	delete(r.byID, v.id)

	var next *View
	if child := v.splitChild; child != nil {
		r.detachSplitChild(v)
		next = child
	}

	if v.IsTopLevel() {
		if next == nil {
			if v.nextTop != v {
				next = v.nextTop
			}
		}
		r.unlinkTop(v)
	} else {
		parent := v.splitParent
		parent.splitChild = nil
		v.splitParent = nil
		if next == nil {
			next = parent
		}
	}

	r.unlinkAll(v)

	if r.active == v {
		r.active = next
	}
	return next
}

// SetActive marks v as the active view. Returns an error if v is not
// registered (e.g. it was already closed).
func (r *Registry) SetActive(v *View) error {
	if _, ok := r.byID[v.id]; !ok {
		return fmt.Errorf("view: %q is not open", v.Name_)
	}
	r.active = v
	return nil
}

// Active returns the currently active view, or nil if none is open.
func (r *Registry) Active() *View {
	return r.active
}

// Get looks up a view by ID.
func (r *Registry) Get(id int) *View {
	return r.byID[id]
}

// Len reports how many views are currently open.
func (r *Registry) Len() int {
	return len(r.byID)
}

// NextTop returns the next view in top-views cycling order after v.
func (r *Registry) NextTop(v *View) *View {
	if v.nextTop == nil {
		return v
	}
	return v.nextTop
}

// PrevTop returns the previous view in top-views cycling order before v.
func (r *Registry) PrevTop(v *View) *View {
	if v.prevTop == nil {
		return v
	}
	return v.prevTop
}

// AllViews returns every open view, in ring order starting from an
// unspecified but stable entry point.
func (r *Registry) AllViews() []*View {
	out := make([]*View, 0, len(r.byID))
	if r.allHead == nil {
		return out
	}
	v := r.allHead
	for {
		out = append(out, v)
		v = v.nextAll
		if v == r.allHead {
			break
		}
	}
	return out
}
