/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package client

import "github.com/NVIDIA/emberplus-go/tree"

// EventKind enumerates the notifications a Client publishes
// (spec.md §6).
type EventKind string

const (
	EventConnecting       EventKind = "connecting"
	EventConnected        EventKind = "connected"
	EventDisconnected     EventKind = "disconnected"
	EventError            EventKind = "error"
	EventValueChange      EventKind = "value-change"
	EventInvocationResult EventKind = "invocationResult"
)

// Event is the single notification type published on Client.Events().
type Event struct {
	Kind       EventKind
	Elems      []tree.Elem
	Err        error
	Invocation *tree.InvocationResult
}

func (c *Client) emit(e Event) {
	select {
	case c.events <- e:
	default:
		// A slow consumer must not block the pipeline; drop the event
		// rather than stall request/response dispatch.
	}
}

// onValueChange is wired to session.Session.OnValueChange: every
// fragment merged into the tree that wasn't the answer to an
// in-flight request (spec.md §4.D rule 3) is published as a
// value-change event and routed to any subscription whose path is a
// prefix of (or equal to) an element that changed.
func (c *Client) onValueChange(touched []tree.Elem) {
	if len(touched) == 0 {
		return
	}
	c.emit(Event{Kind: EventValueChange, Elems: touched})

	c.mu.Lock()
	subs := make(map[string][]func([]tree.Elem), len(c.subs))
	for k, v := range c.subs {
		subs[k] = v
	}
	c.mu.Unlock()

	for pathStr, cbs := range subs {
		var matched []tree.Elem
		for _, e := range touched {
			if pathHasPrefix(e.Path(), pathStr) {
				matched = append(matched, e)
			}
		}
		if len(matched) == 0 {
			continue
		}
		for _, cb := range cbs {
			cb(matched)
		}
	}
}

func pathHasPrefix(path []int, prefixStr string) bool {
	prefix, err := tree.ParsePath(prefixStr)
	if err != nil {
		return false
	}
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}
