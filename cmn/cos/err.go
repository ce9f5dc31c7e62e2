// Package cos provides common low-level types and utilities for the
// Ember+ session engine.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	"sync"
	ratomic "sync/atomic"

	"github.com/pkg/errors"
)

// The eight error kinds from the session-engine contract (spec.md §7).
// ErrTransport, ErrFrame and ErrDecode carry an optional cause reachable
// through Unwrap; ErrTransport also records it with github.com/pkg/errors
// (WithStack) and exposes it through Cause().
type (
	ErrTransport struct {
		cause error
	}
	ErrFrame struct {
		reason string
		cause  error
	}
	ErrDecode struct {
		reason string
		cause  error
	}
	ErrTimeout struct {
		path string
		d    string
	}
	ErrInvalidRequest struct {
		reason string
	}
	ErrAccess struct {
		path string
	}
	ErrPathNotFound struct {
		path string
		seg  string
	}
	ErrConnectionClosed struct{}
)

func NewErrTransport(cause error) *ErrTransport { return &ErrTransport{cause: errors.WithStack(cause)} }
func (e *ErrTransport) Error() string           { return "transport error: " + e.cause.Error() }
func (e *ErrTransport) Unwrap() error           { return e.cause }
func (e *ErrTransport) Cause() error            { return e.cause }

func NewErrFrame(reason string, cause error) *ErrFrame { return &ErrFrame{reason: reason, cause: cause} }
func (e *ErrFrame) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("frame error: %s: %v", e.reason, e.cause)
	}
	return "frame error: " + e.reason
}
func (e *ErrFrame) Unwrap() error { return e.cause }

func NewErrDecode(reason string, cause error) *ErrDecode { return &ErrDecode{reason: reason, cause: cause} }
func (e *ErrDecode) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("decode error: %s: %v", e.reason, e.cause)
	}
	return "decode error: " + e.reason
}
func (e *ErrDecode) Unwrap() error { return e.cause }

func NewErrTimeout(path string, d string) *ErrTimeout { return &ErrTimeout{path: path, d: d} }
func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("request to %q timed out after %s", e.path, e.d)
}

func NewErrInvalidRequest(format string, a ...any) *ErrInvalidRequest {
	return &ErrInvalidRequest{reason: fmt.Sprintf(format, a...)}
}
func (e *ErrInvalidRequest) Error() string { return "invalid request: " + e.reason }

func NewErrAccess(path string) *ErrAccess { return &ErrAccess{path: path} }
func (e *ErrAccess) Error() string        { return fmt.Sprintf("%q is not writable", e.path) }

// NewErrPathNotFound reports that tree-walk discovery (spec.md §4.D,
// "getNodeByPath / expand") found no element at path.
// seg is the first path segment that the peer never advertised; per
// spec.md §9's resolution of the source's uninitialized-`pos` message,
// the error always names the first unknown segment, never a partial
// position computed from incomplete state.
func NewErrPathNotFound(path, seg string) *ErrPathNotFound {
	return &ErrPathNotFound{path: path, seg: seg}
}
func (e *ErrPathNotFound) Error() string {
	return fmt.Sprintf("path discovery for %q failed at the first unknown segment %q", e.path, e.seg)
}

func NewErrConnectionClosed() *ErrConnectionClosed { return &ErrConnectionClosed{} }
func (*ErrConnectionClosed) Error() string         { return "connection closed" }

func IsErrTimeout(err error) bool {
	_, ok := err.(*ErrTimeout)
	return ok
}

func IsErrConnectionClosed(err error) bool {
	_, ok := err.(*ErrConnectionClosed)
	return ok
}

//
// Errs - bounded aggregate of distinct errors, e.g. frame errors
// observed while a session stays up (spec.md §7: "FrameError is never
// fatal").
//

const maxErrs = 4

type Errs struct {
	errs []error
	cnt  int64
	mu   sync.Mutex
}

func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
		ratomic.StoreInt64(&e.cnt, int64(len(e.errs)))
	}
}

func (e *Errs) Cnt() int { return int(ratomic.LoadInt64(&e.cnt)) }

func (e *Errs) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return ""
	}
	s := e.errs[0].Error()
	if n := len(e.errs); n > 1 {
		s = fmt.Sprintf("%s (and %d more)", s, n-1)
	}
	return s
}
