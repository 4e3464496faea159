// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"errors"
	"fmt"
	"io"
)

// A Scanner reads significant characters from a CharReader. It discards
// whitespace and, when enabled, comments, and it keeps a single byte of
// pushback so that the underlying stream need not be seekable.
//
// A comment is any text between a pair of "#" characters. Comments may span
// lines and may contain structural characters.
type Scanner struct {
	r        CharReader
	comments bool

	cur, prev mark // position after the last byte read, and before it
	unr       bool // the last byte read has been pushed back
	last      byte
}

// mark records a position in the input.
type mark struct {
	off, line, col int
}

// NewScanner constructs a new Scanner that consumes input from r.
// Comments are enabled by default.
func NewScanner(r CharReader) *Scanner {
	return &Scanner{r: r, comments: true, cur: mark{line: 1}, prev: mark{line: 1}}
}

// AllowComments configures the scanner to discard (true) or retain (false)
// comment regions between pairs of "#" characters.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next returns the next character of the input that is neither whitespace
// nor inside a comment. At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() (byte, error) { return s.next(s.comments) }

func (s *Scanner) next(skipComments bool) (byte, error) {
	var inComment bool
	for {
		ch, err := s.readByte()
		if err != nil {
			return 0, err
		}
		if isSpace(ch) {
			continue
		}
		if skipComments && ch == '#' {
			inComment = !inComment
			continue
		}
		if inComment {
			continue
		}
		return ch, nil
	}
}

// Probe reads the next significant character and reports the kind of value
// it begins. The character is consumed. Probe reports UnexpectedEOF at the
// end of input, and UnexpectedToken for a character that does not begin a
// value.
func (s *Scanner) Probe() (Kind, error) {
	ch, err := s.Next()
	if err != nil {
		return Invalid, s.readFail(err, "want value")
	}
	if k := probeKind(ch); k != Invalid {
		return k, nil
	}
	return Invalid, s.failf(UnexpectedToken, "got %q, want value", ch)
}

func probeKind(ch byte) Kind {
	switch {
	case ch == '{':
		return ObjectKind
	case ch == '[':
		return ListKind
	case ch == '"':
		return StringKind
	case isDigit(ch):
		return NumberKind
	}
	return Invalid
}

// Location returns the location of the most recently read byte.
func (s *Scanner) Location() Location {
	return Location{
		Span:  Span{Pos: s.prev.off, End: s.cur.off},
		First: LineCol{Line: s.prev.line, Column: s.prev.col},
		Last:  LineCol{Line: s.cur.line, Column: s.cur.col},
	}
}

// readByte reads a single byte from the input, honoring pushback.
func (s *Scanner) readByte() (byte, error) {
	if s.unr {
		s.unr = false
	} else {
		ch, err := s.r.ReadChar()
		if err != nil {
			return 0, err
		}
		s.last = ch
	}
	s.prev = s.cur
	s.cur.off++
	if s.last == '\n' {
		s.cur.line++
		s.cur.col = 0
	} else {
		s.cur.col++
	}
	return s.last, nil
}

// unread pushes back the most recently read byte. Only one byte of pushback
// is available; unread must not be called twice without an intervening read.
func (s *Scanner) unread() {
	if s.unr {
		panic("cfgtree: double unread")
	}
	s.unr = true
	s.cur = s.prev
}

// readFail converts an error from the underlying reader. End of input is
// reported as UnexpectedEOF, anything else as an IOFailure.
func (s *Scanner) readFail(err error, label string) error {
	if errors.Is(err, io.EOF) {
		return s.failf(UnexpectedEOF, "%s", label)
	}
	e := s.failf(IOFailure, "%s: %v", label, err)
	e.err = err
	return e
}

func (s *Scanner) failf(kind ErrorKind, msg string, args ...any) *Error {
	loc := s.Location()
	return &Error{
		Kind:     kind,
		Location: loc.First,
		Offset:   loc.Pos,
		Message:  fmt.Sprintf(msg, args...),
	}
}

func isSpace(ch byte) bool { return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t' }
func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }
func isNumber(ch byte) bool { return isDigit(ch) || ch == '.' }
