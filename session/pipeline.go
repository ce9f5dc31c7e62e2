/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package session

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/cmn/cos"
	"github.com/NVIDIA/emberplus-go/cmn/mono"
	"github.com/NVIDIA/emberplus-go/s101"
	"github.com/NVIDIA/emberplus-go/tree"
)

// Metrics is the optional instrumentation hook a Session reports to
// (spec.md §4.D ambient observability — satisfied by package stats'
// Collector; kept as an interface here so session never imports
// stats, avoiding a cycle).
type Metrics interface {
	RequestSent()
	RequestTimeout()
	FrameError()
	ObserveLatency(time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RequestSent()                 {}
func (noopMetrics) RequestTimeout()              {}
func (noopMetrics) FrameError()                  {}
func (noopMetrics) ObserveLatency(time.Duration) {}

// matcher decides whether a decoded update satisfies the currently
// in-flight request (spec.md §4.D "response matching predicates per
// operation type").
type matcher func(elems []tree.Elem) bool

type pendingRequest struct {
	match  matcher
	respCh chan pipelineResult
}

type pipelineResult struct {
	elems []tree.Elem
	err   error
}

// Session owns the single in-flight request/response pipeline for one
// connected peer (spec.md §4.D, §5 "owned by a single session task").
// Tree is not safe for concurrent use and Session is its only writer.
type Session struct {
	cfg     Config
	w       *s101.Writer
	r       *s101.Reader
	tree    *tree.Tree
	metrics Metrics
	clock   mono.Clock

	sem *semaphore.Weighted // gates at most one in-flight non-invocation request

	// writeMu serializes every write to w: Send, Invoke, and the
	// keep-alive request/response paths in dispatch.go all share one
	// wire, and a frame's BOF+body+EOF (s101.Writer.writeFrame) is three
	// separate io.Writer.Write calls that must never interleave with
	// another goroutine's.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending *pendingRequest
	state   stateBox

	// lastRecvNano is the clock.Now().UnixNano() of the most recently
	// read frame (keep-alive or otherwise); keepAliveLoop compares
	// against it to decide whether the peer has gone silent for longer
	// than cfg.KeepAliveTimeout (spec.md §6).
	lastRecvNano atomic.Int64

	invMu       sync.Mutex
	invocations map[int32]chan *tree.InvocationResult
	nextInvID   int32

	// OnValueChange is invoked (never concurrently) for every fragment
	// merged into the tree that wasn't the answer to an in-flight
	// request — an unsolicited update (spec.md §4.D rule 3).
	OnValueChange func(touched []tree.Elem)
	// OnFrameError is invoked for every frame the s101 layer had to
	// drop; the connection itself stays up (spec.md §7).
	OnFrameError func(error)

	errs   cos.Errs
	g      *errgroup.Group
	gctx   context.Context
	cancel context.CancelFunc
}

// New builds a Session over an already-open byte stream. The caller
// drives its lifetime with Start/Close.
func New(rw io.ReadWriter, t *tree.Tree, cfg Config) *Session {
	return &Session{
		cfg:         cfg,
		w:           s101.NewWriter(rw),
		r:           s101.NewReader(rw),
		tree:        t,
		metrics:     noopMetrics{},
		clock:       mono.Real{},
		sem:         semaphore.NewWeighted(1),
		invocations: make(map[int32]chan *tree.InvocationResult),
	}
}

// SetMetrics wires an instrumentation collector; passing nil reverts
// to a no-op.
func (s *Session) SetMetrics(m Metrics) {
	if m == nil {
		m = noopMetrics{}
	}
	s.metrics = m
}

// SetClock overrides the Clock collaborator (spec.md §1); tests use
// this to control deadline expiry without sleeping. Passing nil
// reverts to the real clock.
func (s *Session) SetClock(c mono.Clock) {
	if c == nil {
		c = mono.Real{}
	}
	s.clock = c
}

// Start transitions Idle -> Active and launches the read loop and
// (if configured) the keep-alive driver under an errgroup so either
// goroutine's failure tears down the other (spec.md §4.D). ctx bounds
// only the startup check itself — the goroutines run under a context
// the session owns for its whole lifetime, canceled solely by Close,
// so a caller deriving a connect-timeout context (and canceling it the
// moment Start returns) can't tear the pipeline down out from under
// itself.
func (s *Session) Start(ctx context.Context) error {
	if !s.state.compareAndSwap(Idle, Active) {
		return cos.NewErrInvalidRequest("session already started")
	}
	if err := ctx.Err(); err != nil {
		s.state.set(Idle)
		return err
	}
	s.lastRecvNano.Store(s.clock.Now().UnixNano())
	sctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	g, gctx := errgroup.WithContext(sctx)
	s.g, s.gctx = g, gctx
	g.Go(func() error { return s.readLoop(gctx) })
	if s.cfg.KeepAliveInterval > 0 {
		g.Go(func() error { return s.keepAliveLoop(gctx) })
	}
	return nil
}

// Close drains in-flight work and stops the pipeline (spec.md §4.D
// Draining state).
func (s *Session) Close() error {
	prev := s.state.get()
	if prev == Closed {
		return nil
	}
	s.state.set(Draining)
	if s.cancel != nil {
		s.cancel()
	}
	var err error
	if s.g != nil {
		err = s.g.Wait()
	}
	s.state.set(Closed)
	s.failPending(cos.NewErrConnectionClosed())
	return err
}

func (s *Session) State() State { return s.state.get() }

// FrameErrors summarizes the distinct frame errors observed so far
// (spec.md §7: they never tear the session down, but should still be
// visible to the caller), empty if none occurred.
func (s *Session) FrameErrors() string { return s.errs.Error() }

// Send writes req and blocks until a decoded update satisfies match,
// the configured RequestTimeout elapses, or the session closes
// (spec.md §4.D: exactly one such request may be outstanding at a
// time — enforced by sem).
func (s *Session) Send(ctx context.Context, req *tree.Request, match matcher) ([]tree.Elem, error) {
	if s.state.get() != Active {
		return nil, cos.NewErrConnectionClosed()
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	pr := &pendingRequest{match: match, respCh: make(chan pipelineResult, 1)}
	s.mu.Lock()
	s.pending = pr
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.pending == pr {
			s.pending = nil
		}
		s.mu.Unlock()
	}()

	w := ber.NewWriter(256)
	req.Encode(w)
	start := s.clock.Now()
	if err := s.writeEmberMessage(w.Bytes()); err != nil {
		return nil, err
	}
	s.metrics.RequestSent()

	select {
	case res := <-pr.respCh:
		s.metrics.ObserveLatency(s.clock.Now().Sub(start))
		return res.elems, res.err
	case <-s.clock.After(s.cfg.RequestTimeout):
		s.metrics.RequestTimeout()
		return nil, cos.NewErrTimeout(tree.PathString(req.Path), s.cfg.RequestTimeout.String())
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.gctx.Done():
		return nil, cos.NewErrConnectionClosed()
	}
}

// Invoke sends a function call and waits for its InvocationResult,
// correlated purely by invocation id — the *result* may arrive out of
// order with respect to the rest of the pipeline (spec.md §4.D rule 5),
// but the *write* of the invocation request still has to obey the
// single-active-request rule relative to non-invocations, so it
// acquires the same sem Send does before touching the wire.
func (s *Session) Invoke(ctx context.Context, req *tree.InvocationRequest) (*tree.InvocationResult, error) {
	if s.state.get() != Active {
		return nil, cos.NewErrConnectionClosed()
	}
	ch := make(chan *tree.InvocationResult, 1)
	s.invMu.Lock()
	s.nextInvID++
	req.InvocationID = s.nextInvID
	s.invocations[req.InvocationID] = ch
	s.invMu.Unlock()
	defer func() {
		s.invMu.Lock()
		delete(s.invocations, req.InvocationID)
		s.invMu.Unlock()
	}()

	w := ber.NewWriter(256)
	(&tree.Request{Kind: tree.KindFunction, Path: req.Path, Invocation: req}).Encode(w)
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	err := s.writeEmberMessage(w.Bytes())
	s.sem.Release(1)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		return res, nil
	case <-s.clock.After(s.cfg.RequestTimeout):
		return nil, cos.NewErrTimeout("invocation", s.cfg.RequestTimeout.String())
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.gctx.Done():
		return nil, cos.NewErrConnectionClosed()
	}
}

// writeEmberMessage splits payload into s101 packets (spec.md §4.A)
// and writes them in order, holding writeMu so no other writer path
// can interleave bytes mid-frame.
func (s *Session) writeEmberMessage(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	chunks := s101.SplitPayload(payload)
	for i, c := range chunks {
		if err := s.w.WriteEmberPacket(s101.PacketFlags(i, len(chunks)), c); err != nil {
			return cos.NewErrTransport(err)
		}
	}
	return nil
}

func (s *Session) failPending(err error) {
	s.mu.Lock()
	pr := s.pending
	s.pending = nil
	s.mu.Unlock()
	if pr != nil {
		pr.respCh <- pipelineResult{err: err}
	}
}
