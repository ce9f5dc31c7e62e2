/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package client

import (
	"context"
	"io"
	"strconv"

	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/cmn/cos"
	"github.com/NVIDIA/emberplus-go/glow"
	"github.com/NVIDIA/emberplus-go/tree"
)

// pathMatcher builds the matcher a directory/value/connect request
// waits on: the response satisfies the request once a merged update
// touches the element at path (spec.md §4.D "response matching predicates
// per operation type").
func pathMatcher(path []int) func([]tree.Elem) bool {
	return func(touched []tree.Elem) bool {
		if len(path) == 0 {
			// A root-level getDirectory has nothing of its own to match
			// against — any update arriving while it's outstanding is
			// necessarily its answer, since Send allows only one
			// request in flight at a time (spec.md §4.D).
			return len(touched) > 0
		}
		for _, e := range touched {
			if pathEqual(e.Path(), path) {
				return true
			}
		}
		return false
	}
}

func pathEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetDirectory asks the peer to expand path one level (the whole tree
// for a nil/empty path) and returns the resulting children read back
// out of the local mirror (spec.md §4.C getDirectory).
func (c *Client) GetDirectory(ctx context.Context, path []int) ([]tree.Elem, error) {
	kind := tree.KindNode
	if e := c.tree.GetElementByPath(path); e != nil {
		kind = e.Kind()
	}
	req := tree.GetDirectoryRequest(kind, path)
	if _, err := c.sess.Send(ctx, req, pathMatcher(path)); err != nil {
		return nil, err
	}
	if len(path) == 0 {
		return c.tree.Children(), nil
	}
	e := c.tree.GetElementByPath(path)
	if e == nil {
		seg := len(path) - 1
		for i := range path {
			if c.tree.GetElementByPath(path[:i+1]) == nil {
				seg = i
				break
			}
		}
		return nil, cos.NewErrPathNotFound(tree.PathString(path), strconv.Itoa(path[seg]))
	}
	switch t := e.(type) {
	case *tree.Node:
		return t.Children(), nil
	case *tree.Matrix:
		return t.Children(), nil
	default:
		return nil, nil
	}
}

// GetElementByPath returns the element at path from the local mirror,
// or nil if it hasn't been retrieved yet (spec.md §4.C
// getElementByPath — a pure local read, no round trip).
func (c *Client) GetElementByPath(path []int) tree.Elem {
	return c.tree.GetElementByPath(path)
}

// SetValue asks the peer to change the parameter at path to v and
// waits for the confirmed update (spec.md §4.C setValue).
func (c *Client) SetValue(ctx context.Context, path []int, v *tree.Scalar) error {
	e := c.tree.GetElementByPath(path)
	p, ok := e.(*tree.Parameter)
	if !ok {
		return cos.NewErrInvalidRequest("not a parameter: " + tree.PathString(path))
	}
	req := p.SetValueRequest(v)
	_, err := c.sess.Send(ctx, req, pathMatcher(path))
	return err
}

// InvokeFunction calls the function at path with args and returns its
// result (spec.md §4.C invoke).
func (c *Client) InvokeFunction(ctx context.Context, path []int, args []*tree.Scalar) (*tree.InvocationResult, error) {
	e := c.tree.GetElementByPath(path)
	f, ok := e.(*tree.Function)
	if !ok {
		return nil, cos.NewErrInvalidRequest("not a function: " + tree.PathString(path))
	}
	return c.sess.Invoke(ctx, f.InvokeRequest(0, args))
}

// validateMatrixTargets preflights target/source indices against the
// matrix's advertised bounds, failing synchronously rather than
// sending a connect request the peer is certain to reject
// (spec.md §4.C connect's "target/source must be within range" edge
// case).
func validateMatrixTargets(m *tree.Matrix, target int, sources []int) error {
	if target < 0 || target >= m.TargetCount {
		return cos.NewErrInvalidRequest("matrix target out of range")
	}
	for _, s := range sources {
		if s < 0 || s >= m.SourceCount {
			return cos.NewErrInvalidRequest("matrix source out of range")
		}
	}
	return nil
}

func (c *Client) matrixRequest(ctx context.Context, path []int, op glow.MatrixOperation, target int, sources []int) error {
	e := c.tree.GetElementByPath(path)
	m, ok := e.(*tree.Matrix)
	if !ok {
		return cos.NewErrInvalidRequest("not a matrix: " + tree.PathString(path))
	}
	if err := validateMatrixTargets(m, target, sources); err != nil {
		return err
	}
	req := m.ConnectRequest(op, target, sources)
	_, err := c.sess.Send(ctx, req, pathMatcher(path))
	return err
}

// MatrixConnect adds sources to target's connection (spec.md §4.C
// connectRequest, operation=connect).
func (c *Client) MatrixConnect(ctx context.Context, path []int, target int, sources []int) error {
	return c.matrixRequest(ctx, path, glow.OperationConnect, target, sources)
}

// MatrixDisconnect removes sources from target's connection.
func (c *Client) MatrixDisconnect(ctx context.Context, path []int, target int, sources []int) error {
	return c.matrixRequest(ctx, path, glow.OperationDisconnect, target, sources)
}

// MatrixSetConnection replaces target's sources wholesale.
func (c *Client) MatrixSetConnection(ctx context.Context, path []int, target int, sources []int) error {
	return c.matrixRequest(ctx, path, glow.OperationAbsolute, target, sources)
}

// Subscribe registers cb to be called with every touched element whose
// path is path or a descendant of it, and sends a subscribe request so
// the peer starts pushing unsolicited updates for it (SPEC_FULL.md §7
// supplement restoring Subscribe/Unsubscribe).
func (c *Client) Subscribe(ctx context.Context, path []int, cb func([]tree.Elem)) error {
	kind := tree.KindNode
	if e := c.tree.GetElementByPath(path); e != nil {
		kind = e.Kind()
	}
	key := tree.PathString(path)
	c.mu.Lock()
	c.subs[key] = append(c.subs[key], cb)
	c.mu.Unlock()

	req := tree.SubscribeRequest(kind, path)
	_, err := c.sess.Send(ctx, req, pathMatcher(path))
	return err
}

// Unsubscribe removes every callback registered for path and tells the
// peer to stop pushing updates for it.
func (c *Client) Unsubscribe(ctx context.Context, path []int) error {
	key := tree.PathString(path)
	c.mu.Lock()
	delete(c.subs, key)
	c.mu.Unlock()

	kind := tree.KindNode
	if e := c.tree.GetElementByPath(path); e != nil {
		kind = e.Kind()
	}
	req := tree.UnsubscribeRequest(kind, path)
	_, err := c.sess.Send(ctx, req, pathMatcher(path))
	return err
}

// SaveTree serializes the local mirror as a single Root BER message —
// a snapshot a caller can replay later without re-walking the peer
// (spec.md §4.C saveTree-style bulk export).
func (c *Client) SaveTree(w io.Writer) error {
	bw := ber.NewWriter(1024)
	c.tree.SaveTree(bw)
	_, err := w.Write(bw.Bytes())
	return err
}
