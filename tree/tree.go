/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/cmn/debug"
	"github.com/NVIDIA/emberplus-go/glow"
)

// Tree is the session's in-memory mirror of the peer's device tree
// (spec.md §3). The zero value is an empty tree ready to use. Tree
// itself is not safe for concurrent use — per spec.md §5 it is owned
// by a single session task.
type Tree struct {
	root childSet
}

// rootContainer adapts Tree's top-level childSet to the Container interface so
// merge/attach logic (below) can treat "root" and any ordinary
// Node/Matrix uniformly instead of special-casing depth zero.
type rootContainer struct{ t *Tree }

func (rootContainer) Number() int           { return 0 }
func (rootContainer) Identifier() string    { return "" }
func (rootContainer) Description() string   { return "" }
func (rootContainer) Path() []int           { return nil }
func (rootContainer) Kind() Kind            { return KindNode }
func (rootContainer) setPath([]int)         {}
func (rootContainer) mergeScalars(Elem)     {}
func (r rootContainer) children() *childSet { return &r.t.root }

func (t *Tree) container() Container { return rootContainer{t} }

// AddChild attaches a freshly constructed top-level element to the
// tree (spec.md §4.C addChild), failing with DuplicateNumber (wrapped
// as cos.ErrInvalidRequest) if a sibling with the same number exists.
func (t *Tree) AddChild(e Elem) error {
	e.setPath([]int{e.Number()})
	return t.root.add(e)
}

// GetElementByNumber returns the top-level element numbered n, if any.
func (t *Tree) GetElementByNumber(n int) (Elem, bool) { return t.root.get(n) }

// Children returns the tree's top-level elements in insertion order.
func (t *Tree) Children() []Elem { return t.root.list() }

// Clear removes every element from the tree (spec.md §3 "a node is
// destroyed ... or its parent is clear()ed (root-only operation)").
func (t *Tree) Clear() { t.root.clear() }

// GetElementByPath walks path from the tree root, returning nil on any
// miss — never a partial match (spec.md §4.C getElementByPath).
func (t *Tree) GetElementByPath(path []int) Elem {
	if len(path) == 0 {
		return nil
	}
	var cur Elem
	cs := &t.root
	for i, seg := range path {
		e, ok := cs.get(seg)
		if !ok {
			return nil
		}
		cur = e
		if i == len(path)-1 {
			break
		}
		cont, ok := e.(Container)
		if !ok {
			return nil
		}
		cs = cont.children()
	}
	return cur
}

// mergeChildInto merges child into parent's childSet by number,
// recursing into nested children when both sides are containers. It
// returns the element now installed at that number (existing, updated
// in place, or the newly attached child).
func mergeChildInto(parent Container, child Elem) Elem {
	cs := parent.children()
	existing, ok := cs.get(child.Number())
	if !ok {
		child.setPath(append(parent.Path(), child.Number()))
		// Descendants decoded positionally carry paths relative to the
		// fragment; re-stamp them below the child's absolute path.
		var stamp func(Elem)
		stamp = func(e Elem) {
			if c, ok := e.(Container); ok {
				for _, gc := range c.children().list() {
					gc.setPath(append(e.Path(), gc.Number()))
					stamp(gc)
				}
			}
		}
		stamp(child)
		cs.replace(child)
		return child
	}
	existing.mergeScalars(child)
	if ic, ok := child.(Container); ok {
		if ec, ok := existing.(Container); ok {
			for _, gc := range ic.children().list() {
				mergeChildInto(ec, gc)
			}
		}
	}
	return existing
}

// walkToParent descends from root along ancestorPath, creating
// placeholder Node containers for any segment not yet present (a
// qualified fragment may name a path whose ancestors this client has
// never fetched a directory for).
func walkToParent(root Container, ancestorPath []int) Container {
	cur := root
	built := cur.Path()
	for _, seg := range ancestorPath {
		cs := cur.children()
		e, ok := cs.get(seg)
		built = append(built, seg)
		if !ok {
			ph := NewNode(seg, "")
			ph.setPath(append([]int(nil), built...))
			cs.replace(ph)
			e = ph
		}
		c, ok := e.(Container)
		if !ok {
			return cur
		}
		cur = c
	}
	return cur
}

// Update merges decoded elements into the tree (spec.md §4.C update,
// §4.D rule 3 "unsolicited updates ... still merged"). Scalar fields
// present in a fragment overwrite; absent fields are preserved.
// Qualified and positional forms are both accepted uniformly since
// every element already carries (or had assigned, at decode time) its
// absolute path. Returns the elements actually touched, for
// value-change event emission.
func (t *Tree) Update(elems []Elem) []Elem {
	root := t.container()
	touched := make([]Elem, 0, len(elems))
	for _, e := range elems {
		path := e.Path()
		if len(path) == 0 {
			// A bare positional element decoded directly under Root
			// carries no path (only decodeNode's nested "children" field
			// assigns one) — such an element is always a root child.
			path = []int{e.Number()}
		}
		debug.Assert(len(path) > 0, "Update: empty path after defaulting")
		parent := walkToParent(root, path[:len(path)-1])
		touched = append(touched, mergeChildInto(parent, e))
	}
	return touched
}

// SaveTree encodes the whole tree as a single Root message
// (spec.md §6 "Tree export"): decoding that byte stream back through
// DecodeMessage + Update reconstructs an equivalent tree.
func (t *Tree) SaveTree(w *ber.Writer) {
	// Reuses the tag/shape of a RootElementCollection (application 11
	// wrapping an ElementCollection), the same envelope a getDirectory
	// response on root arrives in.
	w.StartSequence(glow.Tag(glow.TagRoot))
	encodeElementCollection(w, t.root.list())
	w.EndSequence()
}
