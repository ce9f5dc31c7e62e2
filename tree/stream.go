/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// StreamEntry is one sample pushed for a subscribed parameter's
// streamIdentifier, decoded from an unsolicited StreamCollection
// message (SPEC_FULL.md §7 stream supplement — dropped by the
// distilled spec but present in the original protocol wherever a
// Parameter declares a streamIdentifier).
type StreamEntry struct {
	StreamIdentifier int32
	Value            *Scalar
}

// Encode writes s as a StreamEntry (application tag 5): a stream
// identifier followed by its sample value. EncodeStreamCollection uses
// it for each entry.
func (s *StreamEntry) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagStreamEntry))
	w.WriteInteger(ber.Context(0), int64(s.StreamIdentifier))
	s.Value.encode(w, ber.Context(1))
	w.EndSequence()
}

func decodeStreamEntry(r *ber.Reader) (*StreamEntry, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagStreamEntry)); err != nil {
		return nil, err
	}
	id, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	v, err := decodeScalar(r, ber.Context(1))
	if err != nil {
		return nil, err
	}
	return &StreamEntry{StreamIdentifier: int32(id), Value: v}, r.ExitSequence()
}

// EncodeStreamCollection writes entries as a StreamCollection
// (application tag 6).
func EncodeStreamCollection(w *ber.Writer, entries []*StreamEntry) {
	w.StartSequence(glow.Tag(glow.TagStreamCollection))
	for _, e := range entries {
		e.Encode(w)
	}
	w.EndSequence()
}

// DecodeStreamCollection reads a StreamCollection message — a batch of
// StreamEntry samples the peer pushes without a matching request
// (spec.md §4.D rule 3, "unsolicited updates").
func DecodeStreamCollection(r *ber.Reader) ([]*StreamEntry, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagStreamCollection)); err != nil {
		return nil, err
	}
	var entries []*StreamEntry
	for !r.AtEnd() {
		e, err := decodeStreamEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, r.ExitSequence()
}
