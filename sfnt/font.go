// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sfnt

import "errors"

// These constants are not part of the specification, but are limitations
// used by this implementation, mirroring the bounds the teacher imposes on
// SFNT table directories.
const (
	maxNumTables = 256

	// (maxTableOffset + maxTableLength) will not overflow an int32.
	maxTableLength = 1 << 29
	maxTableOffset = 1 << 29
)

var (
	errInvalidVersion         = errors.New("sfnt: invalid version")
	errInvalidTableTagOrder   = errors.New("sfnt: invalid table tag order")
	errInvalidTableOffset     = errors.New("sfnt: invalid table offset")
	errUnsupportedNumTables   = errors.New("sfnt: unsupported number of tables")
	errUnsupportedTableOffLen = errors.New("sfnt: unsupported table offset or length")
	errTableNotFound          = errors.New("sfnt: table not found")
)

type tableRecord struct {
	offset, length uint32
}

// Font is a parsed SFNT/OpenType font: a table directory over a borrowed
// []byte. Font never copies the bytes it was given; every accessor returns
// a FontData view into the same backing array.
//
// Font is safe to use concurrently, since it is immutable once parsed; the
// VariationResolver it feeds is not (see SPEC_FULL.md's variation resolver
// section).
type Font struct {
	data   FontData
	tables map[Tag]tableRecord
}

// Parse parses an SFNT font from a []byte. Unlike the teacher's
// sfnt.ParseReaderAt, there is no io.ReaderAt variant: spec.md requires
// zero-copy, allocation-free steady-state reads, which an io.ReaderAt
// source cannot provide without copying into a caller buffer.
func Parse(src []byte) (*Font, error) {
	d := NewFontData(src)

	// https://learn.microsoft.com/en-us/typography/opentype/spec/otff
	// "Organization of an OpenType Font": the Offset Table is 12 bytes.
	header, ok := d.Slice(0, 12)
	if !ok {
		return nil, ErrOutOfBounds
	}
	hb := header.Bytes()
	switch u32(hb) {
	case 0x00010000, 0x4f54544f: // TrueType, or "OTTO" (CFF-flavored).
		// ok
	default:
		return nil, errInvalidVersion
	}
	numTables := int(u16(hb[4:]))
	if numTables > maxNumTables {
		return nil, errUnsupportedNumTables
	}

	records, ok := d.Slice(12, 12+16*numTables)
	if !ok {
		return nil, ErrOutOfBounds
	}

	f := &Font{data: d, tables: make(map[Tag]tableRecord, numTables)}
	rb := records.Bytes()
	var prevTag Tag
	for i := 0; i < numTables; i++ {
		b := rb[i*16 : i*16+16]
		tag := Tag(u32(b))
		if i > 0 && tag <= prevTag {
			return nil, errInvalidTableTagOrder
		}
		prevTag = tag

		off, n := u32(b[8:12]), u32(b[12:16])
		if off > maxTableOffset || n > maxTableLength {
			return nil, errUnsupportedTableOffLen
		}
		if off&3 != 0 {
			return nil, errInvalidTableOffset
		}
		f.tables[tag] = tableRecord{offset: off, length: n}
	}
	return f, nil
}

var (
	tagGvar = MakeTag('g', 'v', 'a', 'r')
	tagFvar = MakeTag('f', 'v', 'a', 'r')
	tagAvar = MakeTag('a', 'v', 'a', 'r')
	tagName = MakeTag('n', 'a', 'm', 'e')
)

// Table returns the raw bytes of the table with the given tag, or false if
// the font has no such table.
func (f *Font) Table(tag Tag) (FontData, bool) {
	rec, ok := f.tables[tag]
	if !ok {
		return FontData{}, false
	}
	return f.data.Slice(int(rec.offset), int(rec.offset+rec.length))
}

// Gvar returns the font's "gvar" table.
func (f *Font) Gvar() (Gvar, error) {
	d, ok := f.Table(tagGvar)
	if !ok {
		return Gvar{}, errTableNotFound
	}
	return ReadGvar(d)
}

// Fvar returns the font's "fvar" table.
func (f *Font) Fvar() (Fvar, error) {
	d, ok := f.Table(tagFvar)
	if !ok {
		return Fvar{}, errTableNotFound
	}
	return ReadFvar(d)
}

// Avar returns the font's "avar" table.
func (f *Font) Avar() (Avar, error) {
	d, ok := f.Table(tagAvar)
	if !ok {
		return Avar{}, errTableNotFound
	}
	return ReadAvar(d)
}

// Name returns the font's "name" table.
func (f *Font) Name() (NameTable, error) {
	d, ok := f.Table(tagName)
	if !ok {
		return NameTable{}, errTableNotFound
	}
	return ReadNameTable(d)
}

// HasTable reports whether the font contains a table with the given tag.
func (f *Font) HasTable(tag Tag) bool {
	_, ok := f.tables[tag]
	return ok
}

// ErrTableNotFound is returned by Font's per-table accessors when the
// requested table is absent.
var ErrTableNotFound = errTableNotFound
