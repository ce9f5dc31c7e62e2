/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// encodeElementCollection writes elems as an ElementCollection
// (application tag 4): the SEQUENCE OF payload shared by a Node's
// children field and the top-level Root message.
func encodeElementCollection(w *ber.Writer, elems []Elem) {
	w.StartSequence(glow.Tag(glow.TagElementCollection))
	for _, e := range elems {
		switch v := e.(type) {
		case *Node:
			v.Encode(w)
		case *Parameter:
			v.Encode(w)
		case *Matrix:
			v.Encode(w)
		case *Function:
			v.Encode(w)
		case *Template:
			v.Encode(w)
		}
	}
	w.EndSequence()
}

// decodeElementCollection reads an ElementCollection, dispatching each
// member by its application tag. Unknown application tags are skipped
// whole, for forward compatibility with element kinds this client does
// not model.
func decodeElementCollection(r *ber.Reader) ([]Elem, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagElementCollection)); err != nil {
		return nil, err
	}
	elems, err := decodeElements(r)
	if err != nil {
		return nil, err
	}
	return elems, r.ExitSequence()
}

// decodeElements reads a run of application-tagged elements up to the
// current sequence's end, without itself opening an ElementCollection
// wrapper — used both by decodeElementCollection and by Root decoding,
// which wraps the same member set differently.
func decodeElements(r *ber.Reader) ([]Elem, error) {
	var elems []Elem
	for !r.AtEnd() {
		tag, _, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		if tag.Class != ber.ClassApplication {
			if err := r.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}
		if tag.Number == glow.TagElementCollection {
			nested, err := decodeElementCollection(r)
			if err != nil {
				return nil, err
			}
			elems = append(elems, nested...)
			continue
		}
		var e Elem
		switch tag.Number {
		case glow.TagNode:
			e, err = decodeNode(r, false)
		case glow.TagQualifiedNode:
			e, err = decodeNode(r, true)
		case glow.TagParameter:
			e, err = decodeParameter(r, false)
		case glow.TagQualifiedParameter:
			e, err = decodeParameter(r, true)
		case glow.TagMatrix:
			e, err = decodeMatrix(r, false)
		case glow.TagQualifiedMatrix:
			e, err = decodeMatrix(r, true)
		case glow.TagFunction:
			e, err = decodeFunction(r, false)
		case glow.TagQualifiedFunction:
			e, err = decodeFunction(r, true)
		case glow.TagTemplate:
			e, err = decodeTemplate(r, false)
		case glow.TagQualifiedTemplate:
			e, err = decodeTemplate(r, true)
		default:
			err = r.SkipValue()
		}
		if err != nil {
			return nil, err
		}
		if e != nil {
			elems = append(elems, e)
		}
	}
	return elems, nil
}
