/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// Request is everything the pipeline (component D) needs to encode one
// outbound message: exactly one of its payload fields is set, chosen
// by whichever tree method built it (getDirectoryRequest,
// setValueRequest, invokeRequest, connectRequest — spec.md §4.C).
type Request struct {
	Kind    Kind   // target element kind; ignored when Path is empty (root)
	Path    []int  // target path; nil for a root-level command
	Command glow.CommandNumber

	Value      *Scalar     // set by SetValueRequest
	Connection *Connection // set by (*Matrix).ConnectRequest
	Invocation *InvocationRequest
}

// GetDirectoryRequest builds the command asking the peer to expand the
// children of an element at path (or the whole tree, for an empty
// path) one level (spec.md §4.C getDirectoryRequest).
func GetDirectoryRequest(kind Kind, path []int) *Request {
	return &Request{Kind: kind, Path: path, Command: glow.CommandGetDirectory}
}

// SubscribeRequest/UnsubscribeRequest ask the peer to start or stop
// pushing unsolicited value-change updates for path
// (SPEC_FULL.md §7 supplement restoring Subscribe/Unsubscribe).
func SubscribeRequest(kind Kind, path []int) *Request {
	return &Request{Kind: kind, Path: path, Command: glow.CommandSubscribe}
}

func UnsubscribeRequest(kind Kind, path []int) *Request {
	return &Request{Kind: kind, Path: path, Command: glow.CommandUnsubscribe}
}

// SetValueRequest builds the minimal fragment mutating only path's
// value (spec.md §4.C setValueRequest, parameters only).
func (p *Parameter) SetValueRequest(v *Scalar) *Request {
	return &Request{Kind: KindParameter, Path: p.Path(), Value: v}
}

// Encode writes req as a Root message (application tag 11).
func (req *Request) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagRoot))
	switch {
	case req.Invocation != nil:
		req.Invocation.Encode(w)
	case req.Value != nil:
		encodeSetValue(w, req.Path, req.Value)
	case req.Connection != nil:
		encodeConnect(w, req.Path, req.Connection)
	case len(req.Path) == 0:
		(&Command{Number: req.Command}).Encode(w)
	default:
		encodeDirectoryOrSubscribe(w, req.Kind, req.Path, req.Command)
	}
	w.EndSequence()
}

func qualifiedTagFor(k Kind) ber.Tag {
	switch k {
	case KindParameter:
		return glow.Tag(glow.TagQualifiedParameter)
	case KindMatrix:
		return glow.Tag(glow.TagQualifiedMatrix)
	case KindFunction:
		return glow.Tag(glow.TagQualifiedFunction)
	default:
		return glow.Tag(glow.TagQualifiedNode)
	}
}

// encodeDirectoryOrSubscribe writes a qualified, content-free element
// at path carrying a single Command child in its "children" slot
// (context 2) — this session engine's own convention for "act on
// this element", shared by getDirectory/subscribe/unsubscribe.
func encodeDirectoryOrSubscribe(w *ber.Writer, kind Kind, path []int, cmd glow.CommandNumber) {
	w.StartSequence(qualifiedTagFor(kind))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(path))
	w.EndSequence()
	w.StartSequence(ber.Context(2))
	(&Command{Number: cmd}).Encode(w)
	w.EndSequence()
	w.EndSequence()
}

func encodeSetValue(w *ber.Writer, path []int, v *Scalar) {
	w.StartSequence(glow.Tag(glow.TagQualifiedParameter))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(path))
	w.EndSequence()
	w.StartSequence(ber.Context(1))
	v.encode(w, ber.Context(paramValue))
	w.EndSequence()
	w.EndSequence()
}

func encodeConnect(w *ber.Writer, path []int, c *Connection) {
	w.StartSequence(glow.Tag(glow.TagQualifiedMatrix))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(path))
	w.EndSequence()
	w.StartSequence(ber.Context(matrixConnections))
	w.StartSequence(glow.Tag(glow.TagConnection))
	w.WriteInteger(ber.Context(0), int64(c.Target))
	w.StartSequence(ber.Context(1))
	for _, s := range c.Sources {
		w.WriteInteger(ber.Context(0), int64(s))
	}
	w.EndSequence()
	w.WriteInteger(ber.Context(2), int64(c.Operation))
	w.EndSequence()
	w.EndSequence()
	w.EndSequence()
}

// DecodeMessage reads one inbound Root message (a decoded response or
// unsolicited update) and returns its top-level elements plus, when
// present, an InvocationResult. The caller (the session pipeline) runs
// match predicates over the returned elements and merges them into the
// local tree (spec.md §4.D).
func DecodeMessage(r *ber.Reader) (elems []Elem, result *InvocationResult, err error) {
	if err := r.EnterSequence(glow.Tag(glow.TagRoot)); err != nil {
		return nil, nil, err
	}
	tag, _, err := r.PeekTag()
	if err != nil {
		return nil, nil, err
	}
	if tag == glow.Tag(glow.TagInvocationResult) {
		result, err = decodeInvocationResult(r)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, r.ExitSequence()
	}
	elems, err = decodeElements(r)
	if err != nil {
		return nil, nil, err
	}
	return elems, nil, r.ExitSequence()
}
