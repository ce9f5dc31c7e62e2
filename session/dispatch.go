/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package session

import (
	"context"
	"time"

	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/cmn/cos"
	"github.com/NVIDIA/emberplus-go/cmn/nlog"
	"github.com/NVIDIA/emberplus-go/s101"
	"github.com/NVIDIA/emberplus-go/tree"
)

// readLoop is the pipeline's sole reader: decode one S101 frame at a
// time, reassemble multi-packet EmBER messages, and dispatch each
// complete message either to the waiting pending Send, a waiting
// Invoke, or — when nothing matches — the OnValueChange callback for
// an unsolicited update (spec.md §4.D rule 3).
func (s *Session) readLoop(ctx context.Context) error {
	keepalive := s101.NewKeepalive(s.w)
	var asm s101.Reassembler
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f, err := s.r.ReadFrame()
		if err == nil {
			s.lastRecvNano.Store(s.clock.Now().UnixNano())
		}
		if err != nil {
			if _, fatal := err.(*cos.ErrTransport); fatal {
				// The underlying stream is gone (closed/reset), not a
				// recoverable framing problem — stop the pipeline
				// instead of spinning on an endless stream of errors.
				nlog.Errorf("session: transport lost: %v", err)
				return err
			}
			nlog.Warningf("session: recovered from frame error: %v", err)
			s.metrics.FrameError()
			s.errs.Add(err)
			if s.OnFrameError != nil {
				s.OnFrameError(err)
			}
			asm.Reset()
			continue
		}
		switch {
		case f.IsKeepAliveRequest():
			s.writeMu.Lock()
			_ = keepalive.Respond()
			s.writeMu.Unlock()
		case f.IsKeepAliveResponse():
			// no correlation kept for responses to our own requests;
			// their mere arrival is evidence the transport is alive.
		case f.IsEmber():
			msg, done, err := asm.Feed(f)
			if err != nil {
				s.metrics.FrameError()
				if s.OnFrameError != nil {
					s.OnFrameError(err)
				}
				continue
			}
			if !done {
				continue
			}
			s.dispatch(msg)
		}
	}
}

func (s *Session) dispatch(raw []byte) {
	r := ber.NewReader(raw)
	elems, result, err := tree.DecodeMessage(r)
	if err != nil {
		s.metrics.FrameError()
		if s.OnFrameError != nil {
			s.OnFrameError(err)
		}
		return
	}
	if result != nil {
		s.invMu.Lock()
		ch, ok := s.invocations[result.InvocationID]
		s.invMu.Unlock()
		if ok {
			ch <- result
		}
		return
	}

	touched := s.tree.Update(elems)

	s.mu.Lock()
	pr := s.pending
	s.mu.Unlock()
	if pr != nil && pr.match(touched) {
		s.mu.Lock()
		if s.pending == pr {
			s.pending = nil
		}
		s.mu.Unlock()
		pr.respCh <- pipelineResult{elems: touched}
		return
	}
	if s.OnValueChange != nil {
		s.OnValueChange(touched)
	}
}

// keepAliveLoop sends a keep-alive request on cfg.KeepAliveInterval
// while the session is Active, and declares the transport dead if
// nothing at all has been heard from the peer for cfg.KeepAliveTimeout
// (spec.md §6 "keepAliveTimeout").
func (s *Session) keepAliveLoop(ctx context.Context) error {
	t := time.NewTicker(s.cfg.KeepAliveInterval)
	defer t.Stop()
	ka := s101.NewKeepalive(s.w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if s.state.get() != Active {
				continue
			}
			if silent := s.clock.Now().Sub(time.Unix(0, s.lastRecvNano.Load())); silent > s.cfg.KeepAliveTimeout {
				nlog.Warningf("session: no frame from peer in %s, declaring transport dead", silent)
				return cos.NewErrTransport(cos.NewErrTimeout("keepalive", s.cfg.KeepAliveTimeout.String()))
			}
			s.writeMu.Lock()
			err := ka.SendRequest()
			s.writeMu.Unlock()
			if err != nil {
				return err
			}
		}
	}
}
