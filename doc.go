// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package cfgtree implements a parser, serializer, and in-memory tree for a
// small bracketed configuration format.
//
// # Syntax
//
// A configuration is a single object. The grammar is:
//
//	config  := object
//	object  := '{' (entry (',' entry)*)? '}'
//	entry   := key ':' value
//	key     := (any char except ':')+
//	value   := object | list | string | number
//	list    := '[' (value (',' value)*)? ']'
//	string  := '"' (any char except '"')* '"'
//	number  := digit+ ('.' digit*)*
//	comment := '#' (any char except '#')* '#'
//
// Whitespace and comments may appear wherever a value or separator is
// expected. Keys are not quoted and strings have no escape sequences. All
// the elements of a list must have the same kind.
//
// # Loading and Saving
//
// Load parses an object from a CharReader, and Save writes the canonical text
// of an object to a CharWriter:
//
//	obj, err := cfgtree.Load(cfgtree.NewReader(input))
//	if err != nil {
//	   log.Fatalf("Load failed: %v", err)
//	}
//	defer obj.Free()
//	if err := cfgtree.Save(cfgtree.NewWriter(os.Stdout), obj); err != nil {
//	   log.Fatalf("Save failed: %v", err)
//	}
//
// Errors have concrete type *Error. Use errors.Is with an ErrorKind to check
// the class of an error:
//
//	if errors.Is(err, cfgtree.HeterogeneousList) { ... }
//
// # Ownership
//
// Each key and value in a tree is either owned by the tree or borrowed from
// the caller. Free releases the owned parts of a tree exactly once and leaves
// borrowed parts alone, so a caller may attach a subtree it manages itself
// without that subtree being cleared when the parent is freed:
//
//	shared := cfgtree.NewObject()
//	root.Add("shared", shared, cfgtree.ValueBorrowed)
//	root.Free() // shared is left intact
//
// The parser marks the objects, lists, and strings it produces as owned.
// Numbers are held by value and are reported as borrowed.
package cfgtree
