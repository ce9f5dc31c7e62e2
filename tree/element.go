// Package tree implements the Ember+ in-memory device tree: typed
// nodes, number/path-based identity, and update-merge semantics
// (spec.md §3/§4.C). It builds on ber/glow for wire encode/decode but
// never holds a Writer/Reader open across a mutation — each Encode or
// Decode call is self-contained.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"strconv"
	"strings"
)

// Kind tags which concrete element a value is, replacing the source's
// isParameter/isMatrix/isFunction runtime checks (spec.md §9) with an
// enum callers can switch on exhaustively.
type Kind int

const (
	KindNode Kind = iota
	KindParameter
	KindMatrix
	KindFunction
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindParameter:
		return "parameter"
	case KindMatrix:
		return "matrix"
	case KindFunction:
		return "function"
	case KindTemplate:
		return "template"
	default:
		return "invalid"
	}
}

// Elem is the common interface every tree element satisfies: the
// envelope fields from spec.md §3 (number, identifier, path) plus the
// unexported setPath/mergeScalars hooks the merge walk uses. Node
// and Matrix also satisfy Container; Parameter, Function, and Template
// do not (their only "children" are not number-addressable).
type Elem interface {
	Number() int
	Identifier() string
	Description() string
	Path() []int
	Kind() Kind

	setPath(path []int)
	mergeScalars(src Elem)
}

// Container is an Elem that may hold number-addressed children
// (Node, Matrix).
type Container interface {
	Elem
	children() *childSet
}

// Element is the common envelope embedded by every concrete node type.
// It deliberately holds no parent pointer: the source's cyclic
// `_parent` field is replaced by a cached absolute path, set once by
// the owning Tree/Container at attach time and otherwise read-only
// (spec.md §9 "cyclic parent refs").
type Element struct {
	number      int
	identifier  string
	description string
	path        []int
}

func (e *Element) Number() int          { return e.number }
func (e *Element) Identifier() string   { return e.identifier }
func (e *Element) Description() string  { return e.description }
func (e *Element) Path() []int          { p := make([]int, len(e.path)); copy(p, e.path); return p }
func (e *Element) setPath(path []int)   { e.path = append([]int(nil), path...) }

// PathString renders an element's path in Ember+'s dotted-decimal form
// ("1.3.2"). The root's own path is the empty string.
func PathString(path []int) string {
	segs := make([]string, len(path))
	for i, n := range path {
		segs[i] = strconv.Itoa(n)
	}
	return strings.Join(segs, ".")
}

// ParsePath parses a dotted-decimal path back into numeric segments.
func ParsePath(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
