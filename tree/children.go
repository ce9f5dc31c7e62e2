/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import "github.com/NVIDIA/emberplus-go/cmn/cos"

// childSet holds a Container's number-addressed children: an ordered
// slice (decode/insertion order, what getDirectory responses and
// saveTree iterate over) plus a number->Elem map for the O(1) lookup
// spec.md §4.C's getElementByNumber requires.
type childSet struct {
	order []Elem
	byNum map[int]Elem
}

func (c *childSet) add(e Elem) error {
	if c.byNum == nil {
		c.byNum = make(map[int]Elem)
	}
	if _, dup := c.byNum[e.Number()]; dup {
		return cos.NewErrInvalidRequest("duplicate child number %d", e.Number())
	}
	c.byNum[e.Number()] = e
	c.order = append(c.order, e)
	return nil
}

// replace installs e at number n unconditionally, used by merge to
// swap in an updated child without going through the duplicate check.
func (c *childSet) replace(e Elem) {
	if c.byNum == nil {
		c.byNum = make(map[int]Elem)
	}
	if _, exists := c.byNum[e.Number()]; !exists {
		c.order = append(c.order, e)
	} else {
		for i, o := range c.order {
			if o.Number() == e.Number() {
				c.order[i] = e
				break
			}
		}
	}
	c.byNum[e.Number()] = e
}

func (c *childSet) get(n int) (Elem, bool) {
	if c.byNum == nil {
		return nil, false
	}
	e, ok := c.byNum[n]
	return e, ok
}

func (c *childSet) list() []Elem { return c.order }

func (c *childSet) clear() {
	c.order = nil
	c.byNum = nil
}
