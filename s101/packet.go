/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package s101

import "github.com/NVIDIA/emberplus-go/cmn/cos"

// Reassembler accumulates EmBER packets belonging to one logical
// message across multiple S101 frames (spec.md §4.A), mirroring the
// teacher's rpdu read-loop bookkeeping (a done/last pair) but keyed off
// First/Last flags instead of a declared payload length.
type Reassembler struct {
	buf     []byte
	started bool
}

// Feed appends f's payload to the in-progress message. It returns the
// complete message and true once a Last-flagged frame arrives; until
// then it returns (nil, false).
//
// A frame arriving without First set while no message is in progress
// is a protocol error (a gap swallowed a First frame) and is reported
// as cos.ErrFrame without losing synchronization: the reassembler
// resets and waits for the next First frame.
func (a *Reassembler) Feed(f *Frame) ([]byte, bool, error) {
	if f.First() {
		a.buf = a.buf[:0]
		a.started = true
	} else if !a.started {
		return nil, false, cos.NewErrFrame("packet without a preceding First flag", nil)
	}
	a.buf = append(a.buf, f.Payload()...)
	if !f.Last() {
		return nil, false, nil
	}
	msg := append([]byte(nil), a.buf...)
	a.buf = a.buf[:0]
	a.started = false
	return msg, true, nil
}

// Reset discards any in-progress message, used when a FrameError forces
// the caller to resynchronize (spec.md §7: frame errors never tear down
// the session, but a partially assembled message must be abandoned).
func (a *Reassembler) Reset() { a.buf = a.buf[:0]; a.started = false }

// SplitPayload slices a full EmBER-encoded message into packets no
// larger than maxFramePayload and returns the chunks only; PacketFlags
// gives the First/Last flags each chunk must be sent with (spec.md §4.A:
// the sender splits, the S101 layer on the other end reassembles).
func SplitPayload(payload []byte) [][]byte {
	if len(payload) == 0 {
		return [][]byte{{}}
	}
	var chunks [][]byte
	for off := 0; off < len(payload); off += maxFramePayload {
		end := off + maxFramePayload
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[off:end])
	}
	return chunks
}

// PacketFlags returns the First/Last flag byte for chunk i of n total
// chunks (as produced by SplitPayload), exported so callers building
// their own packetization can still match this package's flag
// conventions.
func PacketFlags(i, n int) byte {
	var f packetFlags
	if i == 0 {
		f |= flagFirstPacket
	}
	if i == n-1 {
		f |= flagLastPacket
	}
	return byte(f)
}
