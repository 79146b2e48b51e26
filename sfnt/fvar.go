package sfnt

import "github.com/rsheeter/otvariations/fixed"

const fvarHeaderSize = 16
const variationAxisRecordSize = 20

// VariationAxisRecord describes one axis of variation: its tag, its
// min/default/max user-space values, and display metadata.
type VariationAxisRecord struct {
	AxisTag       Tag
	MinValue      fixed.Fixed
	DefaultValue  fixed.Fixed
	MaxValue      fixed.Fixed
	Flags         uint16
	AxisNameID    uint16
}

// Normalize maps a user-space value on this axis to a normalized [-1,1]
// coordinate, per spec.md §4.6, without any avar remapping.
func (a VariationAxisRecord) Normalize(v fixed.Fixed) fixed.F2Dot14 {
	if v == a.DefaultValue {
		return fixed.F2Dot14Zero
	}
	if v < a.DefaultValue {
		if v < a.MinValue {
			v = a.MinValue
		}
		if a.MinValue == a.DefaultValue {
			return fixed.F2Dot14Zero
		}
		frac := a.DefaultValue - v
		span := a.DefaultValue - a.MinValue
		normalized := -frac.MulDiv(fixed.ONE, span)
		return f2dot14FromFixed(normalized)
	}
	if v > a.MaxValue {
		v = a.MaxValue
	}
	if a.MaxValue == a.DefaultValue {
		return fixed.F2Dot14Zero
	}
	frac := v - a.DefaultValue
	span := a.MaxValue - a.DefaultValue
	normalized := frac.MulDiv(fixed.ONE, span)
	return f2dot14FromFixed(normalized)
}

// f2dot14FromFixed truncates a 16.16 fixed value down to a 2.14 fixed
// value, matching the precision drop the "avar"/"fvar" normalization
// pipeline performs before axis-segment remapping.
func f2dot14FromFixed(f fixed.Fixed) fixed.F2Dot14 {
	return fixed.F2Dot14(int16(int32(f) >> 2))
}

// Fvar is a parsed "fvar" (Font Variations) table.
type Fvar struct {
	axes []VariationAxisRecord
}

// ReadFvar decodes an "fvar" table.
func ReadFvar(d FontData) (Fvar, error) {
	hdr, ok := d.Slice(0, fvarHeaderSize)
	if !ok {
		return Fvar{}, ErrOutOfBounds
	}
	b := hdr.Bytes()
	majorVersion, minorVersion := u16(b[0:]), u16(b[2:])
	if majorVersion != 1 || minorVersion != 0 {
		return Fvar{}, ErrInvalidFormat("unsupported fvar version")
	}
	axesArrayOffset := u16(b[4:])
	axisCount := u16(b[8:])
	axisSize := u16(b[10:])
	if axisSize < variationAxisRecordSize {
		return Fvar{}, ErrInvalidFormat("fvar axis record too small")
	}

	axes := make([]VariationAxisRecord, axisCount)
	for i := range axes {
		start := int(axesArrayOffset) + i*int(axisSize)
		rec, ok := d.Slice(start, start+variationAxisRecordSize)
		if !ok {
			return Fvar{}, ErrOutOfBounds
		}
		rb := rec.Bytes()
		axes[i] = VariationAxisRecord{
			AxisTag:      Tag(u32(rb[0:])),
			MinValue:     fixed.Fixed(int32(u32(rb[4:]))),
			DefaultValue: fixed.Fixed(int32(u32(rb[8:]))),
			MaxValue:     fixed.Fixed(int32(u32(rb[12:]))),
			Flags:        u16(rb[16:]),
			AxisNameID:   u16(rb[18:]),
		}
	}
	return Fvar{axes: axes}, nil
}

// AxisCount returns the number of variation axes.
func (f Fvar) AxisCount() int { return len(f.axes) }

// Axes returns the table's axis records, in on-disk order.
func (f Fvar) Axes() []VariationAxisRecord { return f.axes }

// Axis returns the axis record with the given tag, if present.
func (f Fvar) Axis(tag Tag) (VariationAxisRecord, bool) {
	for _, a := range f.axes {
		if a.AxisTag == tag {
			return a, true
		}
	}
	return VariationAxisRecord{}, false
}
