// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"bufio"
	"errors"
	"io"
)

// A CharReader is a source of single bytes. ReadChar returns io.EOF when the
// input is exhausted; any other error is reported as an IOFailure.
type CharReader interface {
	ReadChar() (byte, error)
}

// A CharWriter is a sink for single bytes.
type CharWriter interface {
	WriteChar(c byte) error
}

// A CharSeeker moves the read/write position of a stream relative to its
// current position.
type CharSeeker interface {
	SeekRelative(offset int64) error
}

// A Stream combines reading, writing, and relative seeking. Load requires
// only a CharReader and Save requires only a CharWriter.
type Stream interface {
	CharReader
	CharWriter
	CharSeeker
}

// NewReader returns a CharReader that consumes input from r.
// If r is already a *bufio.Reader it is used directly.
func NewReader(r io.Reader) CharReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return byteReader{br}
}

type byteReader struct{ *bufio.Reader }

func (b byteReader) ReadChar() (byte, error) { return b.ReadByte() }

// A Writer is a buffered CharWriter that delivers output to an io.Writer.
// Save flushes a Writer before returning; callers that write to a Writer by
// other means must call Flush themselves.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer that delivers output to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: bufio.NewWriter(w)} }

// WriteChar satisfies the CharWriter interface.
func (w *Writer) WriteChar(c byte) error { return w.w.WriteByte(c) }

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// A Buffer is an in-memory Stream. Reads consume the contents from a cursor
// starting at the beginning; writes append to the end. The zero value is an
// empty buffer ready for use.
type Buffer struct {
	buf []byte
	pos int

	// If positive, Limit is the maximum number of bytes the buffer may hold.
	// A write that would exceed it fails with AllocationFailure.
	Limit int
}

// NewBuffer returns a Buffer whose initial contents are s.
func NewBuffer(s string) *Buffer { return &Buffer{buf: []byte(s)} }

// ReadChar satisfies the CharReader interface.
func (b *Buffer) ReadChar() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// WriteChar satisfies the CharWriter interface.
func (b *Buffer) WriteChar(c byte) error {
	if b.Limit > 0 && len(b.buf) >= b.Limit {
		return errorf(AllocationFailure, "buffer limit of %d bytes reached", b.Limit)
	}
	b.buf = append(b.buf, c)
	return nil
}

// SeekRelative satisfies the CharSeeker interface. Seeking past the end of
// the contents leaves the cursor at the end; seeking before the start fails.
func (b *Buffer) SeekRelative(offset int64) error {
	p := int64(b.pos) + offset
	if p < 0 {
		return errors.New("seek before start of buffer")
	}
	b.pos = int(min(p, int64(len(b.buf))))
	return nil
}

// Len reports the number of unread bytes in b.
func (b *Buffer) Len() int { return len(b.buf) - b.pos }

// Bytes returns the complete contents of b, including bytes already read.
// The slice is only valid until the next write.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns a copy of the complete contents of b.
func (b *Buffer) String() string { return string(b.buf) }

// Reset discards the contents of b and rewinds its cursor.
func (b *Buffer) Reset() { b.buf = b.buf[:0]; b.pos = 0 }
