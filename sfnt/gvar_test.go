package sfnt

import (
	"testing"
)

// buildSimpleGvar constructs a one-axis, one-glyph "gvar" table whose
// single glyph has one tuple variation: an embedded peak of 1.0, private
// "all points" point numbers, and four deltas: two x values followed by two
// y values.
func buildSimpleGvar(t *testing.T) []byte {
	t.Helper()

	serialized := []byte{
		0x00,                   // point numbers: count=0, "all points"
		0x03, 0x01, 0x02, 0x03, 0x04, // packed deltas: run of 4, non-wide, values 1,2,3,4
	}
	header := []byte{}
	header = append(header, u16Bytes(uint16(len(serialized)))...) // variationDataSize
	header = append(header, u16Bytes(0xA000)...)                   // EMBEDDED_PEAK | PRIVATE_POINT_NUMBERS
	header = append(header, u16Bytes(0x4000)...)                   // peak tuple axis[0] = 1.0

	glyphData := []byte{}
	glyphData = append(glyphData, u16Bytes(1)...)                                 // tupleVariationCount = 1
	glyphData = append(glyphData, u16Bytes(uint16(4+len(header)))...)             // serializedDataOffset
	glyphData = append(glyphData, header...)
	glyphData = append(glyphData, serialized...)

	const headerSize = gvarHeaderSize
	const offsetsSize = 2 * 2 // glyphCount+1 short offsets
	dataArrayOffset := headerSize + offsetsSize

	b := make([]byte, headerSize)
	putU16(b[0:], 1)  // majorVersion
	putU16(b[2:], 0)  // minorVersion
	putU16(b[4:], 1)  // axisCount
	putU16(b[6:], 0)  // sharedTupleCount
	putU32(b[8:], uint32(dataArrayOffset))
	putU16(b[12:], 1) // glyphCount
	putU16(b[14:], 0) // flags: short offsets
	putU32(b[16:], uint32(dataArrayOffset))

	offsets := make([]byte, offsetsSize)
	putU16(offsets[0:], 0)                             // start, raw (halved)
	putU16(offsets[2:], uint16(len(glyphData)/2))       // end, raw (halved)

	out := append(b, offsets...)
	out = append(out, glyphData...)
	return out
}

func u16Bytes(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func TestReadGvarSingleGlyphAllPoints(t *testing.T) {
	data := buildSimpleGvar(t)
	gvar, err := ReadGvar(NewFontData(data))
	if err != nil {
		t.Fatalf("ReadGvar: %v", err)
	}
	if gvar.AxisCount() != 1 {
		t.Fatalf("AxisCount = %d, want 1", gvar.AxisCount())
	}

	gv, err := gvar.GlyphVariationData(0)
	if err != nil {
		t.Fatalf("GlyphVariationData: %v", err)
	}
	if gv.TupleCount() != 1 {
		t.Fatalf("TupleCount = %d, want 1", gv.TupleCount())
	}

	it := gv.Tuples()
	tv, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, true, nil)", ok, err)
	}
	if !tv.AllPoints() {
		t.Fatalf("expected AllPoints() tuple")
	}

	d := tv.Deltas()
	want := []GlyphDelta{
		{Position: 0, XDelta: 1, YDelta: 3},
		{Position: 1, XDelta: 2, YDelta: 4},
	}
	for i, w := range want {
		got, ok := d.Next()
		if !ok {
			t.Fatalf("deltas exhausted early at %d", i)
		}
		if got != w {
			t.Fatalf("delta[%d] = %+v, want %+v", i, got, w)
		}
	}
	if _, ok := d.Next(); ok {
		t.Fatalf("expected exactly 2 deltas")
	}

	if _, ok, err := it.Next(); ok || err != nil {
		t.Fatalf("expected iterator exhaustion, got ok=%v err=%v", ok, err)
	}
}

func TestTupleVariationIterSurfacesMalformedDataWhenNoSharedOrPrivatePoints(t *testing.T) {
	// A tuple with neither PRIVATE_POINT_NUMBERS set nor a glyph-level shared
	// point numbers stream must report ErrMalformedData instead of silently
	// disappearing.
	serialized := []byte{
		0x03, 0x01, 0x02, 0x03, 0x04, // deltas only, no point-number prefix
	}
	header := []byte{}
	header = append(header, u16Bytes(uint16(len(serialized)))...)
	header = append(header, u16Bytes(0x8000)...) // EMBEDDED_PEAK only
	header = append(header, u16Bytes(0x4000)...) // peak tuple axis[0] = 1.0

	glyphData := []byte{}
	glyphData = append(glyphData, u16Bytes(1)...) // tupleVariationCount=1, no shared points flag
	glyphData = append(glyphData, u16Bytes(uint16(4+len(header)))...)
	glyphData = append(glyphData, header...)
	glyphData = append(glyphData, serialized...)

	gv, err := NewGlyphVariationData(NewFontData(glyphData), 1, SharedTuples{})
	if err != nil {
		t.Fatalf("NewGlyphVariationData: %v", err)
	}
	it := gv.Tuples()
	_, ok, err := it.Next()
	if ok {
		t.Fatalf("expected Next() to fail, got a tuple")
	}
	if err == nil {
		t.Fatalf("expected ErrMalformedData, got nil")
	}
	if re, isReadErr := err.(*ReadError); !isReadErr || re.Kind != ErrKindData {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}
}
