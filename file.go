// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree

import (
	"errors"
	"os"
)

// A File is a Stream backed by an *os.File. Reads and writes happen at an
// internal cursor that starts at offset 0, independently of the file's own
// offset.
type File struct {
	f   *os.File
	off int64
	one [1]byte
}

// NewFile returns a File that reads and writes f.
func NewFile(f *os.File) *File { return &File{f: f} }

// ReadChar satisfies the CharReader interface.
func (f *File) ReadChar() (byte, error) {
	if _, err := f.f.ReadAt(f.one[:], f.off); err != nil {
		return 0, err // includes io.EOF
	}
	f.off++
	return f.one[0], nil
}

// WriteChar satisfies the CharWriter interface.
func (f *File) WriteChar(c byte) error {
	f.one[0] = c
	if _, err := f.f.WriteAt(f.one[:], f.off); err != nil {
		return err
	}
	f.off++
	return nil
}

// SeekRelative satisfies the CharSeeker interface.
func (f *File) SeekRelative(offset int64) error {
	p := f.off + offset
	if p < 0 {
		return errors.New("seek before start of file")
	}
	f.off = p
	return nil
}

// LoadFile parses the configuration stored in the named file.
func LoadFile(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(NewReader(f))
}

// SaveFile writes the canonical text of o to the named file, replacing any
// previous contents.
func SaveFile(path string, o *Object) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Save(NewWriter(f), o)
}

var _ Stream = (*File)(nil)
var _ Stream = (*Buffer)(nil)
