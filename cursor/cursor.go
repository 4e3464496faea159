// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a configuration value tree.
package cursor

import (
	"fmt"

	"github.com/creachadair/cfgtree"
)

// Path follows path from v as Cursor.Down does, and returns the value it
// reaches if that value has type T.
func Path[T cfgtree.Value](v cfgtree.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	result, ok := c.Value().(T)
	if !ok {
		return result, fmt.Errorf("wrong value type %T", c.Value())
	}
	return result, nil
}

// A Cursor records a position in a configuration tree as the stack of values
// leading to it from an origin.
type Cursor struct {
	org cfgtree.Value
	stk []cfgtree.Value
	err error
}

// New returns a cursor positioned at origin.
func New(origin cfgtree.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() cfgtree.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() cfgtree.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path returns the values from the origin to the current value, inclusive.
func (c *Cursor) Path() []cfgtree.Value {
	return append([]cfgtree.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up pops the current value, unless c is at its origin, and returns c.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down moves c along path from the current value and returns c. Traversal
// stops at the first element that cannot be followed, leaving c at the last
// value reached and recording the error for Err.
//
// A string element selects the first entry of an object with that key, as
// Object.Get does. An int element selects a list element, or an object entry,
// by position; negative positions count from the end. An element of type
//
//	func(cfgtree.Value) (cfgtree.Value, error)
//
// is called with the current value, and its result becomes the next value.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	cur := c.Value()
	for _, elt := range path {
		next, err := step(cur, elt)
		if err != nil {
			c.err = err
			break
		}
		c.stk = append(c.stk, next)
		cur = next
	}
	return c
}

// step returns the value selected by elt from cur.
func step(cur cfgtree.Value, elt any) (cfgtree.Value, error) {
	switch t := elt.(type) {
	case string:
		o, ok := cur.(*cfgtree.Object)
		if !ok {
			return nil, fmt.Errorf("cannot select key %q from %v", t, kindOf(cur))
		}
		if e := o.Get(t); e != nil {
			return e.Value, nil
		}
		return nil, fmt.Errorf("key %q not found", t)

	case int:
		var n int
		switch v := cur.(type) {
		case *cfgtree.List:
			n = v.Len()
		case *cfgtree.Object:
			n = v.Len()
		default:
			return nil, fmt.Errorf("cannot select position %d from %v", t, kindOf(cur))
		}
		i := t
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("position %d out of range (n=%d)", t, n)
		}
		if l, ok := cur.(*cfgtree.List); ok {
			return l.At(i), nil
		}
		return cur.(*cfgtree.Object).Entries()[i].Value, nil

	case func(cfgtree.Value) (cfgtree.Value, error):
		return t(cur)

	default:
		return nil, fmt.Errorf("invalid path element %T", elt)
	}
}

func kindOf(v cfgtree.Value) cfgtree.Kind {
	if v == nil {
		return cfgtree.Invalid
	}
	return v.Kind()
}
