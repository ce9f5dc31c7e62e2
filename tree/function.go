/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// TupleItemDescription names one argument or result slot of a Function
// (spec.md §3: "ordered arguments and result tuple schemas, each
// (name, type)").
type TupleItemDescription struct {
	Name string
	Type glow.ParameterType
}

func (t *TupleItemDescription) encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagTupleItemDescription))
	w.WriteString(ber.Context(0), t.Name)
	w.WriteInteger(ber.Context(1), int64(t.Type))
	w.EndSequence()
}

func decodeTupleItemDescription(r *ber.Reader) (TupleItemDescription, error) {
	var t TupleItemDescription
	if err := r.EnterSequence(glow.Tag(glow.TagTupleItemDescription)); err != nil {
		return t, err
	}
	name, err := r.ReadString()
	if err != nil {
		return t, err
	}
	typ, err := r.ReadInteger()
	if err != nil {
		return t, err
	}
	t.Name, t.Type = name, glow.ParameterType(typ)
	return t, r.ExitSequence()
}

// Function is an invocable remote procedure element (spec.md §3).
type Function struct {
	Element
	Arguments []TupleItemDescription
	Result    []TupleItemDescription
}

func NewFunction(number int, identifier string) *Function {
	return &Function{Element: Element{number: number, identifier: identifier}}
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) mergeScalars(src Elem) {
	o, ok := src.(*Function)
	if !ok {
		return
	}
	if o.identifier != "" {
		f.identifier = o.identifier
	}
	if o.description != "" {
		f.description = o.description
	}
	if o.Arguments != nil {
		f.Arguments = o.Arguments
	}
	if o.Result != nil {
		f.Result = o.Result
	}
}

func (f *Function) encodeContents(w *ber.Writer) {
	w.StartSequence(ber.Context(1))
	if f.identifier != "" {
		w.WriteString(ber.Context(0), f.identifier)
	}
	if f.description != "" {
		w.WriteString(ber.Context(1), f.description)
	}
	if len(f.Arguments) > 0 {
		w.StartSequence(ber.Context(2))
		for i := range f.Arguments {
			f.Arguments[i].encode(w)
		}
		w.EndSequence()
	}
	if len(f.Result) > 0 {
		w.StartSequence(ber.Context(3))
		for i := range f.Result {
			f.Result[i].encode(w)
		}
		w.EndSequence()
	}
	w.EndSequence()
}

func (f *Function) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagFunction))
	w.StartSequence(ber.Context(0))
	w.WriteInteger(ber.Context(0), int64(f.number))
	w.EndSequence()
	f.encodeContents(w)
	w.EndSequence()
}

func (f *Function) EncodeQualified(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagQualifiedFunction))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(f.Path()))
	w.EndSequence()
	f.encodeContents(w)
	w.EndSequence()
}

func decodeFunctionContents(r *ber.Reader, f *Function) error {
	if err := r.EnterSequence(ber.Context(1)); err != nil {
		return err
	}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return err
		}
		switch {
		case tag.Number == 0 && !constructed:
			if f.identifier, err = r.ReadString(); err != nil {
				return err
			}
		case tag.Number == 1 && !constructed:
			if f.description, err = r.ReadString(); err != nil {
				return err
			}
		case (tag.Number == 2 || tag.Number == 3) && constructed:
			if err := r.EnterSequence(ber.Context(tag.Number)); err != nil {
				return err
			}
			var items []TupleItemDescription
			for !r.AtEnd() {
				item, err := decodeTupleItemDescription(r)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			if err := r.ExitSequence(); err != nil {
				return err
			}
			if tag.Number == 2 {
				f.Arguments = items
			} else {
				f.Result = items
			}
		default:
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	}
	return r.ExitSequence()
}

func decodeFunction(r *ber.Reader, qualified bool) (*Function, error) {
	f := &Function{}
	if err := r.EnterSequence(ber.Context(0)); err != nil {
		return nil, err
	}
	if qualified {
		arcs, err := r.ReadRelativeOID()
		if err != nil {
			return nil, err
		}
		f.path = arcsToPath(arcs)
		if len(f.path) > 0 {
			f.number = f.path[len(f.path)-1]
		}
	} else {
		num, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		f.number = int(num)
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		if tag.Number == 1 && constructed {
			if err := decodeFunctionContents(r, f); err != nil {
				return nil, err
			}
			continue
		}
		if err := r.SkipValue(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// InvocationRequest is an outbound function call (spec.md §4.C
// invokeRequest): a client-allocated monotonically increasing
// invocation id correlates it to its InvocationResult, independent of
// the single-in-flight rule the rest of the pipeline follows
// (spec.md §4.D rule 5).
type InvocationRequest struct {
	InvocationID int32
	Path         []int
	Arguments    []*Scalar
}

func (i *InvocationRequest) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagQualifiedFunction))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(i.Path))
	w.EndSequence()
	w.StartSequence(ber.Context(2)) // "invocation" field
	w.StartSequence(glow.Tag(glow.TagInvocation))
	w.WriteInteger(ber.Context(0), int64(i.InvocationID))
	if len(i.Arguments) > 0 {
		w.StartSequence(ber.Context(1))
		for _, a := range i.Arguments {
			a.encode(w, ber.Context(0))
		}
		w.EndSequence()
	}
	w.EndSequence()
	w.EndSequence()
	w.EndSequence()
}

// InvocationResult is the peer's answer to an InvocationRequest,
// matched back to the waiter by InvocationID (spec.md §4.D).
type InvocationResult struct {
	InvocationID int32
	Success      bool
	Result       []*Scalar
}

func decodeInvocationResult(r *ber.Reader) (*InvocationResult, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagInvocationResult)); err != nil {
		return nil, err
	}
	res := &InvocationResult{Success: true}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		switch {
		case tag.Number == 0 && !constructed:
			n, err := r.ReadInteger()
			if err != nil {
				return nil, err
			}
			res.InvocationID = int32(n)
		case tag.Number == 1 && !constructed:
			ok, err := r.ReadBoolean()
			if err != nil {
				return nil, err
			}
			res.Success = ok
		case tag.Number == 2 && constructed:
			if err := r.EnterSequence(ber.Context(2)); err != nil {
				return nil, err
			}
			for !r.AtEnd() {
				v, err := decodeScalar(r, ber.Context(0))
				if err != nil {
					return nil, err
				}
				res.Result = append(res.Result, v)
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
	return res, r.ExitSequence()
}

// InvokeRequest builds the InvocationRequest fragment for a call to f
// (spec.md §4.C invokeRequest).
func (f *Function) InvokeRequest(invocationID int32, args []*Scalar) *InvocationRequest {
	return &InvocationRequest{InvocationID: invocationID, Path: f.Path(), Arguments: args}
}
