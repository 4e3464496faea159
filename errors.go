// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import "fmt"

// ErrorKind is a coarse classification of the errors reported by this
// package. An ErrorKind is itself an error, so that callers can test the
// class of an error with errors.Is:
//
//	if errors.Is(err, cfgtree.HeterogeneousList) { ... }
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	UnexpectedEOF     ErrorKind = iota + 1 // input ended where a token was required
	UnexpectedToken                        // invalid character for the current production
	HeterogeneousList                      // list element kind differs from the list kind
	DuplicateKey                           // key already present in the object
	AllocationFailure                      // storage could not be grown
	InvalidValue                           // value cannot be stored or serialized
	IOFailure                              // stream reported an error other than end of input
)

var kindStr = [...]string{
	0:                 "unknown error",
	UnexpectedEOF:     "unexpected end of input",
	UnexpectedToken:   "unexpected token",
	HeterogeneousList: "heterogeneous list",
	DuplicateKey:      "duplicate key",
	AllocationFailure: "allocation failure",
	InvalidValue:      "invalid value",
	IOFailure:         "I/O failure",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[0]
	}
	return kindStr[k]
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// Error is the concrete type of errors reported by this package.
type Error struct {
	Kind     ErrorKind
	Location LineCol // zero if the error did not arise from source text
	Offset   int     // byte offset of the error in the source, if Location is set
	Message  string

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Location.IsZero() {
		return msg
	}
	return fmt.Sprintf("at %s: %s", e.Location, msg)
}

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

func errorf(kind ErrorKind, msg string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(msg, args...)}
}
