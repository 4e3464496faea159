// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"fmt"
	"iter"
	"slices"
)

// Kind is the type of a configuration value.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid    Kind = iota // no kind; the element kind of an empty list
	ObjectKind             // object: {key:value,...}
	ListKind               // list: [value,...]
	StringKind             // string: "text"
	NumberKind             // number: 1.5
)

var kindName = [...]string{
	Invalid:    "invalid",
	ObjectKind: "object",
	ListKind:   "list",
	StringKind: "string",
	NumberKind: "number",
}

func (k Kind) String() string {
	if int(k) >= len(kindName) {
		return kindName[Invalid]
	}
	return kindName[k]
}

// A Value is a configuration value. The concrete type is one of *Object,
// *List, String, or Number.
type Value interface {
	// Kind reports the kind of the value.
	Kind() Kind

	// String renders the value in canonical text form.
	String() string

	isValue()
}

// A String is a string value. Strings are stored verbatim; there is no
// escape processing.
type String string

// Kind satisfies the Value interface.
func (String) Kind() Kind { return StringKind }

// String satisfies the Value interface.
func (s String) String() string { return `"` + string(s) + `"` }

func (String) isValue() {}

// A Number is a numeric value.
type Number float64

// Kind satisfies the Value interface.
func (Number) Kind() Kind { return NumberKind }

// String satisfies the Value interface.
func (n Number) String() string { return formatNumber(float64(n), defaultPrecision) }

func (Number) isValue() {}

// Ownership records whether a tree is responsible for releasing a key or
// value. Releasing an owned value clears it; a borrowed value is left intact
// for its caller to manage.
type Ownership bool

// Constants defining the valid Ownership values.
const (
	Owned    Ownership = false
	Borrowed Ownership = true
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Flags override the default ownership of a key or value when it is added to
// an object or list. By default keys are owned, numbers are borrowed, and all
// other values are owned.
type Flags uint8

// Constants defining the valid Flags values. If both ValueBorrowed and
// ValueOwned are set, ValueBorrowed takes precedence.
const (
	KeyBorrowed   Flags = 1 << iota // the key is managed by the caller
	ValueBorrowed                   // the value is managed by the caller
	ValueOwned                      // the value is managed by the tree
)

func joinFlags(fs []Flags) (out Flags) {
	for _, f := range fs {
		out |= f
	}
	return
}

// valueOwnership reports the ownership of a value of kind k under flags f.
func (f Flags) valueOwnership(k Kind) Ownership {
	switch {
	case f&ValueBorrowed != 0:
		return Borrowed
	case f&ValueOwned != 0:
		return Owned
	case k == NumberKind:
		return Borrowed
	}
	return Owned
}

// An Entry is a single key-value pair belonging to an Object.
type Entry struct {
	Key   string
	Value Value

	keyOwn, valOwn Ownership
}

// KeyOwnership reports whether the key of e is owned or borrowed.
func (e *Entry) KeyOwnership() Ownership { return e.keyOwn }

// ValueOwnership reports whether the value of e is owned or borrowed.
func (e *Entry) ValueOwnership() Ownership { return e.valOwn }

func (e *Entry) release() {
	if e.valOwn == Owned {
		release(e.Value)
		e.Value = nil
	}
	if e.keyOwn == Owned {
		e.Key = ""
	}
}

// An Object is an ordered collection of entries. The zero value is an empty
// object ready for use.
type Object struct {
	entries []*Entry
}

// NewObject returns a new empty object.
func NewObject() *Object { return new(Object) }

// Kind satisfies the Value interface.
func (*Object) Kind() Kind { return ObjectKind }

// String satisfies the Value interface.
func (o *Object) String() string { return formatValue(o) }

func (*Object) isValue() {}

// Len reports the number of entries in o.
func (o *Object) Len() int { return len(o.entries) }

// Entries returns the entries of o in insertion order. The caller must not
// modify the returned slice.
func (o *Object) Entries() []*Entry { return o.entries }

// All is a range function over the keys and values of o in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, e := range o.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Free releases the contents of o. Every owned key and value is released
// exactly once; borrowed keys and values are not touched. After Free, o is
// empty.
func (o *Object) Free() {
	for _, e := range o.entries {
		e.release()
	}
	o.entries = nil
	releaseHook(o)
}

// A List is an ordered sequence of values that all have the same kind. The
// kind is fixed by the first element added.
type List struct {
	elem   Kind
	flags  Flags
	values []Value
}

// Kind satisfies the Value interface.
func (*List) Kind() Kind { return ListKind }

// String satisfies the Value interface.
func (l *List) String() string { return formatValue(l) }

func (*List) isValue() {}

// Elem reports the kind of the elements of l. It returns Invalid if l is
// empty and no kind was given when it was created.
func (l *List) Elem() Kind { return l.elem }

// Ownership reports whether the elements of l are owned or borrowed.
func (l *List) Ownership() Ownership { return l.flags.valueOwnership(l.elem) }

// Len reports the number of elements in l.
func (l *List) Len() int { return len(l.values) }

// At returns the element of l at index i. It panics if i is out of range.
func (l *List) At(i int) Value { return l.values[i] }

// Values returns the elements of l. The caller must not modify the returned
// slice.
func (l *List) Values() []Value { return l.values }

// All is a range function over the elements of l.
func (l *List) All() iter.Seq2[int, Value] { return slices.All(l.values) }

// Append adds v to the end of l. If l has no element kind yet, the kind of v
// becomes its element kind. Append reports HeterogeneousList if the kind of v
// differs from the element kind of l.
func (l *List) Append(v Value) error {
	if isNil(v) {
		return errorf(InvalidValue, "nil list element")
	}
	if l.elem == Invalid {
		l.elem = v.Kind()
	} else if k := v.Kind(); k != l.elem {
		return errorf(HeterogeneousList, "cannot add %v to a list of %v", k, l.elem)
	}
	l.values = append(l.values, v)
	return nil
}

// Free releases the elements of l, unless they are borrowed. After Free, l
// is empty but retains its element kind.
func (l *List) Free() {
	if l.Ownership() == Owned {
		for _, v := range l.values {
			release(v)
		}
	}
	l.values = nil
	releaseHook(l)
}

// ListOf constructs a list containing the given values, which must all have
// the same kind. It panics if they do not; use NewList and Append to check.
func ListOf(vs ...Value) *List {
	var l List
	for _, v := range vs {
		if err := l.Append(v); err != nil {
			panic(fmt.Sprintf("ListOf: %v", err))
		}
	}
	return &l
}

// isNil reports whether v is nil or a nil container pointer.
func isNil(v Value) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *Object:
		return t == nil
	case *List:
		return t == nil
	}
	return false
}

// Free releases v and any values it owns. Free is a no-op for a number.
func Free(v Value) { release(v) }

// release releases an owned value.
func release(v Value) {
	switch t := v.(type) {
	case *Object:
		t.Free()
	case *List:
		t.Free()
	case String:
		releaseHook(t)
	}
}

// releaseHook is called for each value released by a tree.
var releaseHook = func(Value) {}

// Equal reports whether a and b are structurally equal: they have the same
// kind, the same keys in the same order, and equal elements. Ownership is not
// compared.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || len(x.entries) != len(y.entries) {
			return false
		}
		for i, e := range x.entries {
			f := y.entries[i]
			if e.Key != f.Key || !Equal(e.Value, f.Value) {
				return false
			}
		}
		return true
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.values) != len(y.values) || (len(x.values) != 0 && x.elem != y.elem) {
			return false
		}
		return slices.EqualFunc(x.values, y.values, Equal)
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	}
	return a == nil && b == nil
}
