/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package s101

import (
	"bufio"
	"io"

	"github.com/NVIDIA/emberplus-go/cmn/cos"
	"github.com/NVIDIA/emberplus-go/cmn/debug"
)

// Frame is one decoded S101 frame: either an EmBER payload packet
// (possibly one of several composing a larger message, per First/Last)
// or a keep-alive request/response carrying no payload.
type Frame struct {
	cmd     command
	flags   packetFlags
	payload []byte
}

func (f *Frame) IsEmber() bool             { return f.cmd == cmdEmBER }
func (f *Frame) IsKeepAliveRequest() bool  { return f.cmd == cmdKeepAliveRequest }
func (f *Frame) IsKeepAliveResponse() bool { return f.cmd == cmdKeepAliveResponse }
func (f *Frame) First() bool               { return f.flags.first() }
func (f *Frame) Last() bool                { return f.flags.last() }
func (f *Frame) Payload() []byte           { return f.payload }

func (f *Frame) String() string {
	return "s101 frame " + f.cmd.String() + " " + fl2s(f.flags)
}

// buildBody lays out the unescaped header+payload+CRC for an outbound
// frame, i.e. everything that sits between the BOF and EOF delimiters.
func buildBody(cmd command, flags packetFlags, payload []byte) []byte {
	header := []byte{
		slotZero,
		byte(emberType),
		byte(cmd),
		protocolVersion,
		byte(flags),
		dtdGlow,
		glowVersion[0],
		glowVersion[1],
	}
	body := make([]byte, 0, len(header)+len(payload)+2)
	body = append(body, header...)
	body = append(body, payload...)
	trailer := crcTrailer(body)
	body = append(body, trailer[0], trailer[1])
	return body
}

// writeEscaped writes b to w, CE-escaping every byte needsEscape
// reports, i.e. every byte >= 0xF8 (spec.md §4.A byte-stuffing).
func writeEscaped(w io.Writer, b []byte) error {
	buf := make([]byte, 0, len(b)+2)
	for _, c := range b {
		if needsEscape(c) {
			buf = append(buf, ce, c^xor)
		} else {
			buf = append(buf, c)
		}
	}
	_, err := w.Write(buf)
	return err
}

// Writer serializes outbound S101 frames onto a byte stream transport
// (spec.md §1's ByteStream collaborator).
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteEmberPacket writes one packet of an (possibly multi-packet)
// EmBER message. flags is a PacketFlags()-style byte: First set only
// on the first packet, Last only on the last (spec.md §4.A reassembly
// is symmetric with how the sender must slice — see SplitPayload).
func (w *Writer) WriteEmberPacket(flags byte, payload []byte) error {
	return w.writeFrame(cmdEmBER, packetFlags(flags), payload)
}

func (w *Writer) WriteKeepAliveRequest() error {
	return w.writeFrame(cmdKeepAliveRequest, flagSinglePacket, nil)
}

func (w *Writer) WriteKeepAliveResponse() error {
	return w.writeFrame(cmdKeepAliveResponse, flagSinglePacket, nil)
}

func (w *Writer) writeFrame(cmd command, flags packetFlags, payload []byte) error {
	if _, err := w.w.Write([]byte{bof}); err != nil {
		return cos.NewErrTransport(err)
	}
	if err := writeEscaped(w.w, buildBody(cmd, flags, payload)); err != nil {
		return cos.NewErrTransport(err)
	}
	if _, err := w.w.Write([]byte{eof}); err != nil {
		return cos.NewErrTransport(err)
	}
	return nil
}

// Reader decodes a stream of S101 frames (spec.md §4.A). It is stateless
// across frames: each ReadFrame call scans forward to the next BOF,
// un-stuffs bytes up to the matching EOF, and validates the CRC,
// discarding anything before the first BOF (resynchronizing after a
// previous FrameError, per spec.md §7 "FrameError is never fatal").
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader { return &Reader{br: bufio.NewReader(r)} }

// ReadFrame reads and validates the next frame. A malformed frame
// (bad CRC, truncated header, or a stream error reading its bytes)
// is returned as a cos.ErrFrame; the caller should log it and keep
// reading — the connection itself is still up.
func (r *Reader) ReadFrame() (*Frame, error) {
	if err := r.syncToBOF(); err != nil {
		return nil, err
	}
	raw, err := r.readEscapedUntilEOF()
	if err != nil {
		return nil, cos.NewErrFrame("truncated frame", err)
	}
	if len(raw) < headerLen+2 {
		return nil, cos.NewErrFrame("frame shorter than header+crc", nil)
	}
	if !crcOK(raw) {
		return nil, cos.NewErrFrame("crc mismatch", nil)
	}
	debug.Assert(len(raw) >= headerLen+2, "ReadFrame: short frame slipped past the length check")
	f := &Frame{
		cmd:     command(raw[2]),
		flags:   packetFlags(raw[4]),
		payload: append([]byte(nil), raw[headerLen:len(raw)-2]...),
	}
	return f, nil
}

// syncToBOF discards bytes until it consumes a BOF delimiter.
func (r *Reader) syncToBOF() error {
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			return cos.NewErrTransport(err)
		}
		if b == bof {
			return nil
		}
	}
}

// readEscapedUntilEOF reads and un-stuffs bytes until an unescaped EOF,
// returning the unescaped header+payload+crc region.
func (r *Reader) readEscapedUntilEOF() ([]byte, error) {
	var out []byte
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case eof:
			return out, nil
		case ce:
			esc, err := r.br.ReadByte()
			if err != nil {
				return nil, err
			}
			out = append(out, esc^xor)
		case bof:
			// A bare BOF inside a frame means the previous frame never
			// terminated; resynchronize on this one instead of failing.
			out = out[:0]
		default:
			out = append(out, b)
		}
	}
}
