/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */

// Package client is the caller-facing facade over the session pipeline
// and the in-memory tree (spec.md §1, §6): Connect/Disconnect, the
// directory/value/invoke/matrix operations, subscriptions, and an
// event stream a UI or automation layer can drive off of.
package client

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/NVIDIA/emberplus-go/cmn/cos"
	"github.com/NVIDIA/emberplus-go/cmn/nlog"
	"github.com/NVIDIA/emberplus-go/session"
	"github.com/NVIDIA/emberplus-go/tree"
)

// ByteStream is the external transport collaborator this module never
// implements itself (spec.md §1) — a TCP connection, a serial port, or
// anything else that moves bytes in both directions.
type ByteStream interface {
	io.ReadWriter
	io.Closer
}

// Config bundles the session pipeline's tunables with the facade's own
// connect-phase timeout.
type Config struct {
	session.Config
	ConnectTimeout time.Duration `json:"connectTimeout"`
}

// DefaultConfig matches spec.md §6's stated defaults.
func DefaultConfig() Config {
	return Config{Config: session.DefaultConfig(), ConnectTimeout: 5 * time.Second}
}

// Client is the facade a consumer of this module actually drives.
type Client struct {
	cfg    Config
	stream ByteStream
	sess   *session.Session
	tree   *tree.Tree

	mu   sync.Mutex
	subs map[string][]func([]tree.Elem)

	events chan Event
}

// New wraps an already-dialed stream; call Connect to bring the
// pipeline up.
func New(stream ByteStream, cfg Config) *Client {
	t := &tree.Tree{}
	c := &Client{
		cfg:    cfg,
		stream: stream,
		tree:   t,
		subs:   make(map[string][]func([]tree.Elem)),
		events: make(chan Event, 64),
	}
	c.sess = session.New(stream, t, cfg.Config)
	c.sess.OnValueChange = c.onValueChange
	c.sess.OnFrameError = c.onFrameError
	return c
}

// Events returns the channel Connect/Disconnect/value-change/
// invocation/error notifications are published on (spec.md §6).
func (c *Client) Events() <-chan Event { return c.events }

// Connect starts the pipeline and blocks until it is Active or
// cfg.ConnectTimeout elapses.
func (c *Client) Connect(ctx context.Context) error {
	nlog.Infoln("client: connecting")
	c.emit(Event{Kind: EventConnecting})
	cctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()
	if err := c.sess.Start(cctx); err != nil {
		nlog.Warningf("client: connect failed: %v", err)
		c.emit(Event{Kind: EventError, Err: err})
		return err
	}
	nlog.Infoln("client: connected")
	c.emit(Event{Kind: EventConnected})
	return nil
}

// Disconnect drains in-flight requests and tears the pipeline down.
func (c *Client) Disconnect() error {
	nlog.Infoln("client: disconnecting")
	err := c.sess.Close()
	closeErr := c.stream.Close()
	c.emit(Event{Kind: EventDisconnected})
	if err != nil {
		return err
	}
	return closeErr
}

func (c *Client) IsConnected() bool { return c.sess.State() == session.Active }

// SetMetrics wires an instrumentation collector (e.g. stats.Collector)
// into the underlying session; passing nil reverts to a no-op. Kept
// here so callers never need to reach past the facade into session.
func (c *Client) SetMetrics(m session.Metrics) { c.sess.SetMetrics(m) }

// Tree exposes the local mirror directly for read-only inspection
// (spec.md §6 allows direct tree reads outside the request pipeline).
func (c *Client) Tree() *tree.Tree { return c.tree }

func (c *Client) onFrameError(err error) {
	c.emit(Event{Kind: EventError, Err: cos.NewErrFrame("s101", err)})
}
