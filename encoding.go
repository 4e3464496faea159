// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"errors"
	"math"
	"strconv"

	"go4.org/mem"
)

const defaultPrecision = 6

// Save writes the canonical text of o to w using the default settings. If w
// has a Flush method, it is called after a successful write.
func Save(w CharWriter, o *Object) error { return NewEncoder(w).Encode(o) }

// An Encoder writes the canonical text of values to a CharWriter.
//
// The canonical form has no whitespace. Entries are written in insertion
// order, strings are written verbatim between quotes, and numbers are written
// in fixed-point notation with a fixed number of fractional digits.
type Encoder struct {
	w    CharWriter
	prec int
}

// NewEncoder constructs a new Encoder that writes output to w.
func NewEncoder(w CharWriter) *Encoder { return &Encoder{w: w, prec: defaultPrecision} }

// Precision sets the number of fractional digits written for numbers.
// If n == 0, numbers are written as integers. Negative values are ignored.
func (e *Encoder) Precision(n int) {
	if n >= 0 {
		e.prec = n
	}
}

// Encode writes the canonical text of o. It reports InvalidValue for a value
// that cannot be written so that it parses back to the same value, and stops
// at the first write that fails. Output already written is not retracted.
func (e *Encoder) Encode(o *Object) (err error) {
	defer recoverFailure(&err)
	if o == nil {
		return errorf(InvalidValue, "nil object")
	}
	e.encodeObject(o)
	if f, ok := e.w.(interface{ Flush() error }); ok {
		e.check(f.Flush())
	}
	return nil
}

func (e *Encoder) encodeValue(v Value) {
	switch t := v.(type) {
	case *Object:
		e.encodeObject(t)
	case *List:
		e.encodeList(t)
	case String:
		if err := checkString(string(t)); err != nil {
			e.fail(err)
		}
		e.writeByte('"')
		e.writeString(string(t))
		e.writeByte('"')
	case Number:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			e.fail(errorf(InvalidValue, "number %v cannot be represented", f))
		} else if f == 0 {
			f = 0 // drop the sign of -0
		}
		e.writeString(formatNumber(f, e.prec))
	default:
		e.fail(errorf(InvalidValue, "unsupported value %T", v))
	}
}

func (e *Encoder) encodeObject(o *Object) {
	e.writeByte('{')
	for i, ent := range o.entries {
		if i > 0 {
			e.writeByte(',')
		}
		if err := checkKey(ent.Key); err != nil {
			e.fail(err)
		}
		e.writeString(ent.Key)
		e.writeByte(':')
		e.encodeValue(ent.Value)
	}
	e.writeByte('}')
}

func (e *Encoder) encodeList(l *List) {
	e.writeByte('[')
	for i, v := range l.values {
		if i > 0 {
			e.writeByte(',')
		}
		e.encodeValue(v)
	}
	e.writeByte(']')
}

// CheckKey reports an InvalidValue error if key cannot be written as an
// object key and parsed back unchanged.
func CheckKey(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return nil
}

// CheckString reports an InvalidValue error if s cannot be written as a
// string value and parsed back unchanged.
func CheckString(s string) error {
	if err := checkString(s); err != nil {
		return err
	}
	return nil
}

func checkString(s string) *Error {
	if mem.IndexByte(mem.S(s), '"') >= 0 {
		return errorf(InvalidValue, "string %q contains a quotation mark", s)
	}
	return nil
}

func checkKey(key string) *Error {
	switch {
	case key == "":
		return errorf(InvalidValue, "empty key")
	case mem.IndexByte(mem.S(key), ':') >= 0:
		return errorf(InvalidValue, "key %q contains a colon", key)
	case isSpace(key[0]) || key[0] == '#':
		return errorf(InvalidValue, "key %q has a leading space or comment mark", key)
	case key[0] == '}':
		// A first entry would read back as the end of an empty object.
		return errorf(InvalidValue, "key %q begins with a closing brace", key)
	}
	return nil
}

func (e *Encoder) writeByte(c byte) { e.check(e.w.WriteChar(c)) }

func (e *Encoder) writeString(s string) {
	for i := 0; i < len(s); i++ {
		e.writeByte(s[i])
	}
}

// check fails with err if it is not nil. Errors of type *Error are reported
// as-is; any other error is reported as an IOFailure.
func (e *Encoder) check(err error) {
	if err == nil {
		return
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		cerr = errorf(IOFailure, "write: %v", err)
		cerr.err = err
	}
	e.fail(cerr)
}

func (e *Encoder) fail(err *Error) { panic(failure{err}) }

// formatNumber renders f in fixed-point notation with prec fractional digits.
func formatNumber(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// formatValue renders v in canonical text, for use by String methods.
// Values that cannot be encoded are rendered as their error in angle brackets.
func formatValue(v Value) string {
	var buf Buffer
	e := NewEncoder(&buf)
	err := func() (err error) {
		defer recoverFailure(&err)
		e.encodeValue(v)
		return nil
	}()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return buf.String()
}
