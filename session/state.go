/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package session

import ratomic "sync/atomic"

// State is the session's lifecycle stage (spec.md §4.D): Idle before
// Connect, Active while the pipeline is serving requests, Draining
// once Disconnect has been called but in-flight work hasn't yet
// finished, Closed once the transport is torn down.
type State int32

const (
	Idle State = iota
	Active
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// stateBox is an atomically-swapped State, read from multiple
// goroutines (the pipeline loop, keep-alive driver, and caller-facing
// facade) without a mutex.
type stateBox struct{ v ratomic.Int32 }

func (b *stateBox) get() State       { return State(b.v.Load()) }
func (b *stateBox) set(s State)      { b.v.Store(int32(s)) }
func (b *stateBox) compareAndSwap(old, new State) bool {
	return b.v.CompareAndSwap(int32(old), int32(new))
}
