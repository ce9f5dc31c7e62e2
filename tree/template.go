/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// Template is a schema-describing element the original protocol sends
// to advertise a reusable Node/Parameter/Function shape
// (SPEC_FULL.md §7 supplement — dropped by the distilled spec, restored
// here since a real Ember+ provider may emit one alongside directory
// responses). This client treats it as an opaque pass-through: it is
// merged and re-encoded byte for byte rather than decoded field by
// field, since nothing in this session engine instantiates templates.
type Template struct {
	Element
	Described []byte // raw content octets of the "described" choice
}

func NewTemplate(number int, identifier string) *Template {
	return &Template{Element: Element{number: number, identifier: identifier}}
}

func (t *Template) Kind() Kind { return KindTemplate }

func (t *Template) mergeScalars(src Elem) {
	o, ok := src.(*Template)
	if !ok {
		return
	}
	if o.identifier != "" {
		t.identifier = o.identifier
	}
	if o.Described != nil {
		t.Described = o.Described
	}
}

func (t *Template) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagTemplate))
	w.StartSequence(ber.Context(0))
	w.WriteInteger(ber.Context(0), int64(t.number))
	w.EndSequence()
	w.WriteOctets(ber.Context(1), t.Described)
	w.EndSequence()
}

func decodeTemplate(r *ber.Reader, qualified bool) (*Template, error) {
	t := &Template{}
	if err := r.EnterSequence(ber.Context(0)); err != nil {
		return nil, err
	}
	if qualified {
		arcs, err := r.ReadRelativeOID()
		if err != nil {
			return nil, err
		}
		t.path = arcsToPath(arcs)
		if len(t.path) > 0 {
			t.number = t.path[len(t.path)-1]
		}
	} else {
		num, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		t.number = int(num)
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	for !r.AtEnd() {
		tag, _, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		if tag.Number == 1 {
			if t.Described, err = r.ReadOctets(); err != nil {
				return nil, err
			}
			continue
		}
		if err := r.SkipValue(); err != nil {
			return nil, err
		}
	}
	return t, nil
}
