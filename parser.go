// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/creachadair/mds/mapset"
	"go4.org/mem"
)

// Load parses a configuration object from r using the default settings.
// In case of error, Load returns a nil object and an error of concrete type
// *Error; no partial tree is returned.
func Load(r CharReader) (*Object, error) { return NewDecoder(r).Decode() }

// LoadString parses a configuration object from the text of s.
func LoadString(s string) (*Object, error) { return Load(NewBuffer(s)) }

// A Decoder parses configuration text from a CharReader.
type Decoder struct {
	s      *Scanner
	buf    []byte // scratch for keys, strings, and numbers
	nodups bool   // reject duplicate keys in objects
	strict bool   // reject numbers with more than one "."
}

// NewDecoder constructs a new Decoder that consumes input from r.
func NewDecoder(r CharReader) *Decoder { return &Decoder{s: NewScanner(r)} }

// AllowComments configures the decoder to skip (true) or reject (false)
// comments delimited by "#". Comments are allowed by default.
func (d *Decoder) AllowComments(ok bool) { d.s.AllowComments(ok) }

// DisallowDuplicateKeys configures the decoder to reject (true) or accept
// (false) objects with more than one entry for the same key. By default
// duplicates are accepted and kept in input order.
func (d *Decoder) DisallowDuplicateKeys(ok bool) { d.nodups = ok }

// StrictNumbers configures the decoder to reject (true) or accept (false)
// numbers containing more than one ".". In permissive mode, which is the
// default, the text from the second "." onward is ignored when converting.
func (d *Decoder) StrictNumbers(ok bool) { d.strict = ok }

// Decode parses a single object from the input. The object must be followed
// only by whitespace and comments.
func (d *Decoder) Decode() (_ *Object, err error) {
	defer recoverFailure(&err)

	ch, err := d.s.Next()
	if err != nil {
		d.readFail(err, `want "{"`)
	} else if ch != '{' {
		d.syntaxError(UnexpectedToken, `got %q, want "{"`, ch)
	}
	obj := d.parseObject()
	if ch, err := d.s.Next(); err == nil {
		obj.Free()
		d.syntaxError(UnexpectedToken, "extra input %q after object", ch)
	} else if !errors.Is(err, io.EOF) {
		obj.Free()
		d.readFail(err, "want end of input")
	}
	return obj, nil
}

// failure carries an *Error through a panic to the nearest recoverFailure.
type failure struct{ err *Error }

func recoverFailure(errp *error) {
	if perr := recover(); perr != nil {
		if f, ok := perr.(failure); ok {
			*errp = f.err
		} else {
			panic(perr)
		}
	}
}

func (d *Decoder) syntaxError(kind ErrorKind, msg string, args ...any) {
	panic(failure{d.s.failf(kind, msg, args...)})
}

func (d *Decoder) readFail(err error, label string) {
	panic(failure{d.s.readFail(err, label).(*Error)})
}

func (d *Decoder) check(err error) {
	if err != nil {
		panic(failure{err.(*Error)})
	}
}

// parseValue parses a value of kind k, whose leading character has already
// been consumed by the probe.
func (d *Decoder) parseValue(k Kind) Value {
	switch k {
	case ObjectKind:
		return d.parseObject()
	case ListKind:
		return d.parseList()
	case StringKind:
		return d.parseString()
	case NumberKind:
		d.s.unread()
		return d.parseNumber()
	}
	panic("unreachable")
}

// parseObject consumes zero or more comma-separated key:value entries.
// Precondition: "{" has been consumed.
// Postcondition: "}" has been consumed.
func (d *Decoder) parseObject() *Object {
	obj := NewObject()
	ok := false
	defer func() {
		if !ok {
			obj.Free()
		}
	}()

	ch, err := d.s.Next()
	if err != nil {
		d.readFail(err, `want key or "}"`)
	} else if ch == '}' {
		ok = true
		return obj // empty object
	}
	d.s.unread()

	var seen mapset.Set[string]
	if d.nodups {
		seen = mapset.New[string]()
	}
	for {
		key := d.parseKey()
		if seen != nil {
			if seen.Has(key) {
				d.syntaxError(DuplicateKey, "key %q already exists", key)
			}
			seen.Add(key)
		}
		k, err := d.s.Probe()
		d.check(err)
		obj.add(key, d.parseValue(k), 0)

		ch, err := d.s.Next()
		if err != nil {
			d.readFail(err, `want "," or "}"`)
		} else if ch == '}' {
			ok = true
			return obj
		} else if ch != ',' {
			d.syntaxError(UnexpectedToken, `got %q, want "," or "}"`, ch)
		}
	}
}

// parseKey consumes the raw text of a key and its ":" separator. Whitespace
// and comments before the key are skipped; the key itself is read verbatim.
func (d *Decoder) parseKey() string {
	ch, err := d.s.Next()
	if err != nil {
		d.readFail(err, "want key")
	} else if ch == ':' {
		d.syntaxError(UnexpectedToken, "empty key")
	}
	d.buf = append(d.buf[:0], ch)
	for {
		ch, err := d.s.readByte()
		if err != nil {
			d.readFail(err, `want ":"`)
		} else if ch == ':' {
			return string(d.buf)
		}
		d.buf = append(d.buf, ch)
	}
}

// parseList consumes zero or more comma-separated values of the same kind.
// Precondition: "[" has been consumed.
// Postcondition: "]" has been consumed.
func (d *Decoder) parseList() *List {
	lst := NewList(Invalid)
	ok := false
	defer func() {
		if !ok {
			lst.Free()
		}
	}()

	ch, err := d.s.Next()
	if err != nil {
		d.readFail(err, `want value or "]"`)
	} else if ch == ']' {
		ok = true
		return lst // empty list
	}
	d.s.unread()

	for {
		k, err := d.s.Probe()
		d.check(err)
		v := d.parseValue(k)
		if lst.elem != Invalid && k != lst.elem {
			release(v)
			d.syntaxError(HeterogeneousList, "got %v, want %v", k, lst.elem)
		}
		d.check(lst.Append(v))

		ch, err := d.s.Next()
		if err != nil {
			d.readFail(err, `want "," or "]"`)
		} else if ch == ']' {
			ok = true
			return lst
		} else if ch != ',' {
			d.syntaxError(UnexpectedToken, `got %q, want "," or "]"`, ch)
		}
	}
}

// parseString consumes raw bytes up to the closing quote.
// Precondition: the opening quote has been consumed.
func (d *Decoder) parseString() String {
	d.buf = d.buf[:0]
	for {
		ch, err := d.s.readByte()
		if err != nil {
			d.readFail(err, "unterminated string")
		} else if ch == '"' {
			return String(d.buf)
		}
		d.buf = append(d.buf, ch)
	}
}

// parseNumber consumes a run of digits and "." characters, and pushes back
// the first byte that follows it.
func (d *Decoder) parseNumber() Number {
	d.buf = d.buf[:0]
	for {
		ch, err := d.s.readByte()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			d.readFail(err, "reading number")
		} else if !isNumber(ch) {
			d.s.unread()
			break
		}
		d.buf = append(d.buf, ch)
	}

	text := mem.B(d.buf)
	if i := mem.IndexByte(text, '.'); i >= 0 {
		if j := mem.IndexByte(text.SliceFrom(i+1), '.'); j >= 0 {
			if d.strict {
				d.syntaxError(UnexpectedToken, "invalid number %q", text.StringCopy())
			}
			text = text.SliceTo(i + 1 + j)
		}
	}
	v, err := strconv.ParseFloat(text.StringCopy(), 64)
	if err != nil || math.IsInf(v, 0) {
		d.syntaxError(UnexpectedToken, "invalid number %q", text.StringCopy())
	}
	return Number(v)
}
