/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// Node is a container element (spec.md §3): identifier, optional
// description, online flag, schema identifiers, and number-addressed
// children.
type Node struct {
	Element
	IsOnline          *bool
	SchemaIdentifiers []string

	kids childSet
}

func NewNode(number int, identifier string) *Node {
	return &Node{Element: Element{number: number, identifier: identifier}}
}

func (n *Node) Kind() Kind           { return KindNode }
func (n *Node) children() *childSet  { return &n.kids }
func (n *Node) Children() []Elem     { return n.kids.list() }

// AddChild attaches child to n, assigning its cached path from n's own
// path (spec.md §4.C addChild).
func (n *Node) AddChild(child Elem) error {
	child.setPath(append(n.Path(), child.Number()))
	return n.kids.add(child)
}

func (n *Node) GetElementByNumber(num int) (Elem, bool) { return n.kids.get(num) }

func (n *Node) mergeScalars(src Elem) {
	o, ok := src.(*Node)
	if !ok {
		return
	}
	if o.identifier != "" {
		n.identifier = o.identifier
	}
	if o.description != "" {
		n.description = o.description
	}
	if o.IsOnline != nil {
		n.IsOnline = o.IsOnline
	}
	if o.SchemaIdentifiers != nil {
		n.SchemaIdentifiers = o.SchemaIdentifiers
	}
}

// encodeContents writes the context-1 contents set shared by the
// positional and qualified wire forms.
func (n *Node) encodeContents(w *ber.Writer) {
	w.StartSequence(ber.Context(1))
	if n.identifier != "" {
		w.WriteString(ber.Context(0), n.identifier)
	}
	if n.description != "" {
		w.WriteString(ber.Context(1), n.description)
	}
	if n.IsOnline != nil {
		w.WriteBoolean(ber.Context(2), *n.IsOnline)
	}
	for _, s := range n.SchemaIdentifiers {
		w.WriteString(ber.Context(3), s)
	}
	w.EndSequence()
}

// Encode writes n as a positional Node structure (application tag 3).
func (n *Node) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagNode))
	w.StartSequence(ber.Context(0))
	w.WriteInteger(ber.Context(0), int64(n.number))
	w.EndSequence()
	n.encodeContents(w)
	if len(n.kids.list()) > 0 {
		w.StartSequence(ber.Context(2))
		encodeElementCollection(w, n.kids.list())
		w.EndSequence()
	}
	w.EndSequence()
}

// EncodeQualified writes n as a QualifiedNode structure (application
// tag 10), carrying its absolute path instead of a bare number.
func (n *Node) EncodeQualified(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagQualifiedNode))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(n.Path()))
	w.EndSequence()
	n.encodeContents(w)
	if len(n.kids.list()) > 0 {
		w.StartSequence(ber.Context(2))
		encodeElementCollection(w, n.kids.list())
		w.EndSequence()
	}
	w.EndSequence()
}

func pathToArcs(path []int) []uint64 {
	arcs := make([]uint64, len(path))
	for i, p := range path {
		arcs[i] = uint64(p)
	}
	return arcs
}

func arcsToPath(arcs []uint64) []int {
	path := make([]int, len(arcs))
	for i, a := range arcs {
		path[i] = int(a)
	}
	return path
}

func decodeNodeContents(r *ber.Reader, n *Node) error {
	if err := r.EnterSequence(ber.Context(1)); err != nil {
		return err
	}
	for !r.AtEnd() {
		tag, _, err := r.PeekTag()
		if err != nil {
			return err
		}
		switch tag.Number {
		case 0:
			if n.identifier, err = r.ReadString(); err != nil {
				return err
			}
		case 1:
			if n.description, err = r.ReadString(); err != nil {
				return err
			}
		case 2:
			b, err := r.ReadBoolean()
			if err != nil {
				return err
			}
			n.IsOnline = &b
		case 3:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			n.SchemaIdentifiers = append(n.SchemaIdentifiers, s)
		default:
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	}
	return r.ExitSequence()
}

// decodeNode reads a positional or qualified Node (the caller has
// already matched the outer application tag and knows which).
func decodeNode(r *ber.Reader, qualified bool) (*Node, error) {
	n := &Node{}
	if err := r.EnterSequence(ber.Context(0)); err != nil {
		return nil, err
	}
	if qualified {
		arcs, err := r.ReadRelativeOID()
		if err != nil {
			return nil, err
		}
		n.path = arcsToPath(arcs)
		if len(n.path) > 0 {
			n.number = n.path[len(n.path)-1]
		}
	} else {
		num, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		n.number = int(num)
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		switch {
		case tag.Number == 1 && constructed:
			if err := decodeNodeContents(r, n); err != nil {
				return nil, err
			}
		case tag.Number == 2 && constructed:
			if err := r.EnterSequence(ber.Context(2)); err != nil {
				return nil, err
			}
			kids, err := decodeElementCollection(r)
			if err != nil {
				return nil, err
			}
			for _, k := range kids {
				k.setPath(append(n.Path(), k.Number()))
				_ = n.kids.add(k)
			}
			if err := r.ExitSequence(); err != nil {
				return nil, err
			}
		default:
			if err := r.SkipValue(); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}
