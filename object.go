// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"slices"

	"github.com/creachadair/mds/mapset"
)

// Get returns the first entry of o whose key is exactly key, or nil.
func (o *Object) Get(key string) *Entry {
	for _, e := range o.entries {
		if e.Key == key {
			return e
		}
	}
	return nil
}

// GetKind returns the first entry of o whose key is exactly key, if its value
// has kind k. It returns nil if there is no such key, or if the value of the
// first match has a different kind.
func (o *Object) GetKind(key string, k Kind) *Entry {
	if e := o.Get(key); e != nil && e.Value != nil && e.Value.Kind() == k {
		return e
	}
	return nil
}

// Lookup returns the value of the first entry of o with the given key, if it
// has concrete type T.
func Lookup[T Value](o *Object, key string) (T, bool) {
	if e := o.Get(key); e != nil {
		v, ok := e.Value.(T)
		return v, ok
	}
	var zero T
	return zero, false
}

// Add adds a new entry for key and v to the end of o, and returns the entry.
// Add reports DuplicateKey if o already has an entry for key.
//
// By default the key is owned, a Number value is borrowed, and any other
// value is owned; flags override these defaults.
func (o *Object) Add(key string, v Value, flags ...Flags) (*Entry, error) {
	if isNil(v) {
		return nil, errorf(InvalidValue, "nil value for key %q", key)
	}
	if o.Get(key) != nil {
		return nil, errorf(DuplicateKey, "key %q already exists", key)
	}
	return o.add(key, v, joinFlags(flags)), nil
}

// add adds an entry without checking for duplicates.
func (o *Object) add(key string, v Value, f Flags) *Entry {
	e := &Entry{
		Key:    key,
		Value:  v,
		keyOwn: Ownership(f&KeyBorrowed != 0),
		valOwn: f.valueOwnership(v.Kind()),
	}
	o.entries = append(o.entries, e)
	return e
}

// Remove removes the first entry of o with the given key, and reports
// whether such an entry was found. The order of the remaining entries is
// preserved. The owned parts of the removed entry are released.
func (o *Object) Remove(key string) bool {
	i := slices.IndexFunc(o.entries, func(e *Entry) bool { return e.Key == key })
	if i < 0 {
		return false
	}
	o.entries[i].release()
	o.entries = slices.Delete(o.entries, i, i+1)
	return true
}

// NewList returns a new empty list whose elements will have kind k. If k is
// Invalid, the element kind is set by the first element appended.
// By default, number elements are borrowed and other elements are owned;
// the ValueBorrowed and ValueOwned flags override this.
func NewList(k Kind, flags ...Flags) *List {
	return &List{elem: k, flags: joinFlags(flags) &^ KeyBorrowed}
}

// DuplicateKeys returns the keys that occur more than once in o, in order of
// their second occurrence. Objects built by Add never have duplicate keys,
// but the parser accepts them unless DisallowDuplicateKeys is set.
func DuplicateKeys(o *Object) []string {
	seen := mapset.New[string]()
	dups := mapset.New[string]()
	var out []string
	for _, e := range o.entries {
		if !seen.Has(e.Key) {
			seen.Add(e.Key)
		} else if !dups.Has(e.Key) {
			dups.Add(e.Key)
			out = append(out, e.Key)
		}
	}
	return out
}
