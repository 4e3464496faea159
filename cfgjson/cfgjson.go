// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cfgjson converts configuration trees to and from JSON.
//
// Import accepts standard JSON as well as JSON with comments and trailing
// commas (HuJSON). Only the subset of JSON that has a configuration
// equivalent is accepted: the root must be an object, arrays must be
// homogeneous, and null, true, false, and negative numbers are rejected.
package cfgjson

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/cfgtree"
	"github.com/creachadair/cfgtree/internal/escape"
	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// Import parses data as JSON and converts it into a configuration object.
// Errors have concrete type *cfgtree.Error. Conversion errors carry the
// location in data of the value that could not be converted.
func Import(data []byte) (*cfgtree.Object, error) {
	root, err := hujson.Parse(data)
	if err != nil {
		return nil, &cfgtree.Error{Kind: cfgtree.UnexpectedToken, Message: err.Error()}
	}
	c := converter{src: data}
	v, err := c.value(root)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*cfgtree.Object)
	if !ok {
		cfgtree.Free(v)
		return nil, c.errorf(root, cfgtree.UnexpectedToken, "root is %v, not an object", v.Kind())
	}
	return obj, nil
}

type converter struct {
	src []byte
}

func (c converter) value(v hujson.Value) (cfgtree.Value, error) {
	switch t := v.Value.(type) {
	case *hujson.Object:
		return c.object(v, t)
	case *hujson.Array:
		return c.array(v, t)
	case hujson.Literal:
		return c.literal(v, t)
	default:
		return nil, c.errorf(v, cfgtree.InvalidValue, "unknown value type %T", v.Value)
	}
}

func (c converter) object(v hujson.Value, t *hujson.Object) (_ cfgtree.Value, err error) {
	obj := cfgtree.NewObject()
	defer func() {
		if err != nil {
			obj.Free()
		}
	}()
	for _, m := range t.Members {
		name, ok := m.Name.Value.(hujson.Literal)
		if !ok || name.Kind() != '"' {
			return nil, c.errorf(m.Name, cfgtree.UnexpectedToken, "invalid object key")
		}
		key, err := escape.Unquote(mem.B(name))
		if err != nil {
			return nil, c.errorf(m.Name, cfgtree.InvalidValue, "key: %v", err)
		}
		if err := cfgtree.CheckKey(key); err != nil {
			return nil, c.errorf(m.Name, cfgtree.InvalidValue, "key %q cannot be represented", key)
		}
		elt, err := c.value(m.Value)
		if err != nil {
			return nil, err
		}
		if _, err := obj.Add(key, elt); err != nil {
			cfgtree.Free(elt)
			return nil, c.errorf(m.Name, cfgtree.DuplicateKey, "key %q already exists", key)
		}
	}
	return obj, nil
}

func (c converter) array(v hujson.Value, t *hujson.Array) (_ cfgtree.Value, err error) {
	list := cfgtree.NewList(cfgtree.Invalid)
	defer func() {
		if err != nil {
			list.Free()
		}
	}()
	for _, e := range t.Elements {
		elt, err := c.value(e)
		if err != nil {
			return nil, err
		}
		if err := list.Append(elt); err != nil {
			cfgtree.Free(elt)
			return nil, c.errorf(e, cfgtree.HeterogeneousList, "%v element in list of %v", elt.Kind(), list.Elem())
		}
	}
	return list, nil
}

func (c converter) literal(v hujson.Value, lit hujson.Literal) (cfgtree.Value, error) {
	switch lit.Kind() {
	case '"':
		s, err := escape.Unquote(mem.B(lit))
		if err != nil {
			return nil, c.errorf(v, cfgtree.InvalidValue, "string: %v", err)
		}
		if err := cfgtree.CheckString(s); err != nil {
			return nil, c.errorf(v, cfgtree.InvalidValue, "string %q contains a quotation mark", s)
		}
		return cfgtree.String(s), nil
	case '0':
		f, err := strconv.ParseFloat(string(lit), 64)
		if err != nil {
			return nil, c.errorf(v, cfgtree.InvalidValue, "number %s out of range", lit)
		}
		if f < 0 {
			return nil, c.errorf(v, cfgtree.InvalidValue, "negative number %s", lit)
		}
		return cfgtree.Number(f), nil
	default:
		return nil, c.errorf(v, cfgtree.InvalidValue, "%s has no configuration equivalent", lit)
	}
}

// errorf reports an error of the given kind located at the start of v.
func (c converter) errorf(v hujson.Value, kind cfgtree.ErrorKind, msg string, args ...any) *cfgtree.Error {
	err := &cfgtree.Error{Kind: kind, Offset: v.StartOffset, Message: fmt.Sprintf(msg, args...)}
	if v.StartOffset >= 0 && v.StartOffset <= len(c.src) {
		pre := c.src[:v.StartOffset]
		err.Location.Line = bytes.Count(pre, []byte("\n")) + 1
		err.Location.Column = len(pre) - (bytes.LastIndexByte(pre, '\n') + 1)
	}
	return err
}

// Export renders o as formatted standard JSON. Numbers are written in their
// shortest exact decimal form. Export reports InvalidValue for numbers that JSON
// cannot represent.
func Export(o *cfgtree.Object) ([]byte, error) {
	if o == nil {
		return nil, &cfgtree.Error{Kind: cfgtree.InvalidValue, Message: "nil object"}
	}
	v, err := exportValue(o)
	if err != nil {
		return nil, err
	}
	v.Format()
	v.Standardize()
	return v.Pack(), nil
}

func exportValue(v cfgtree.Value) (hujson.Value, error) {
	switch t := v.(type) {
	case *cfgtree.Object:
		out := &hujson.Object{Members: make([]hujson.ObjectMember, 0, t.Len())}
		for key, val := range t.All() {
			ev, err := exportValue(val)
			if err != nil {
				return hujson.Value{}, err
			}
			out.Members = append(out.Members, hujson.ObjectMember{
				Name:  hujson.Value{Value: quoted(key)},
				Value: ev,
			})
		}
		return hujson.Value{Value: out}, nil

	case *cfgtree.List:
		out := &hujson.Array{Elements: make([]hujson.ArrayElement, 0, t.Len())}
		for _, val := range t.All() {
			ev, err := exportValue(val)
			if err != nil {
				return hujson.Value{}, err
			}
			out.Elements = append(out.Elements, ev)
		}
		return hujson.Value{Value: out}, nil

	case cfgtree.String:
		return hujson.Value{Value: quoted(string(t))}, nil

	case cfgtree.Number:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return hujson.Value{}, &cfgtree.Error{Kind: cfgtree.InvalidValue, Message: "number " + t.String() + " has no JSON representation"}
		}
		return hujson.Value{Value: hujson.Literal(strconv.AppendFloat(nil, f, 'g', -1, 64))}, nil

	default:
		return hujson.Value{}, &cfgtree.Error{Kind: cfgtree.InvalidValue, Message: "unsupported value"}
	}
}

func quoted(s string) hujson.Literal { return hujson.Literal(escape.AppendQuote(nil, mem.S(s))) }
