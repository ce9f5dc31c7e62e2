/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package s101

// Keepalive bundles a Writer with the request/response exchange the
// session layer drives to detect a silently dead transport
// (spec.md §4.D "keep-alive"; the peer is expected to answer a
// request with a response within the session's configured timeout).
type Keepalive struct {
	w *Writer
}

func NewKeepalive(w *Writer) *Keepalive { return &Keepalive{w: w} }

// SendRequest emits a keep-alive request frame.
func (k *Keepalive) SendRequest() error { return k.w.WriteKeepAliveRequest() }

// Respond emits a keep-alive response frame, the expected answer to a
// peer-initiated request (this client only ever sends requests and
// answers with responses, never the reverse, per spec.md §4.D).
func (k *Keepalive) Respond() error { return k.w.WriteKeepAliveResponse() }
