package sfnt

import "github.com/rsheeter/otvariations/fixed"

const avarHeaderSize = 8

// AxisValueMap is one (fromCoord, toCoord) pivot point in a SegmentMap.
type AxisValueMap struct {
	FromCoordinate fixed.F2Dot14
	ToCoordinate   fixed.F2Dot14
}

// SegmentMap is one axis's piecewise-linear remapping of normalized
// coordinates, as found in the "avar" table.
type SegmentMap struct {
	maps []AxisValueMap
}

// Maps returns the segment map's pivot points, in on-disk order.
func (s SegmentMap) Maps() []AxisValueMap { return s.maps }

// Apply remaps a normalized coordinate through this axis's piecewise-linear
// function, per spec.md §4.6. Coordinates outside every segment pass
// through unchanged (by convention avar tables always include -1, 0 and 1
// pivots, but this does not assume that).
func (s SegmentMap) Apply(coord fixed.F2Dot14) fixed.F2Dot14 {
	if len(s.maps) == 0 {
		return coord
	}
	for i := 1; i < len(s.maps); i++ {
		prev, cur := s.maps[i-1], s.maps[i]
		if coord >= prev.FromCoordinate && coord <= cur.FromCoordinate {
			if cur.FromCoordinate == prev.FromCoordinate {
				return prev.ToCoordinate
			}
			num := (coord - prev.FromCoordinate).ToFixed()
			den := (cur.FromCoordinate - prev.FromCoordinate).ToFixed()
			frac := num.MulDiv(fixed.ONE, den)
			span := (cur.ToCoordinate - prev.ToCoordinate).ToFixed()
			delta := frac.MulDiv(span, fixed.ONE)
			return prev.ToCoordinate + f2dot14FromFixed(delta)
		}
	}
	return coord
}

// Avar is a parsed "avar" (Axis Variations) table: one optional SegmentMap
// per fvar axis, in axis order.
type Avar struct {
	segmentMaps []SegmentMap
}

// ReadAvar decodes an "avar" table.
func ReadAvar(d FontData) (Avar, error) {
	hdr, ok := d.Slice(0, avarHeaderSize)
	if !ok {
		return Avar{}, ErrOutOfBounds
	}
	b := hdr.Bytes()
	majorVersion, minorVersion := u16(b[0:]), u16(b[2:])
	if majorVersion != 1 || minorVersion != 0 {
		return Avar{}, ErrInvalidFormat("unsupported avar version")
	}
	axisCount := int(u16(b[6:]))

	rest, ok := d.SplitOff(avarHeaderSize)
	if !ok {
		return Avar{}, ErrOutOfBounds
	}
	maps := make([]SegmentMap, axisCount)
	for i := range maps {
		m, n, err := readSegmentMap(rest)
		if err != nil {
			return Avar{}, err
		}
		maps[i] = m
		next, ok := rest.SplitOff(n)
		if !ok {
			return Avar{}, ErrOutOfBounds
		}
		rest = next
	}
	return Avar{segmentMaps: maps}, nil
}

// readSegmentMap decodes one SegmentMap from the front of d: a
// positionMapCount followed by that many AxisValueMap records.
func readSegmentMap(d FontData) (SegmentMap, int, error) {
	count, err := ReadAt[uint16](d, 0)
	if err != nil {
		return SegmentMap{}, 0, err
	}
	offset := 2
	maps := make([]AxisValueMap, count)
	for i := range maps {
		rec, ok := d.Slice(offset, offset+4)
		if !ok {
			return SegmentMap{}, 0, ErrOutOfBounds
		}
		rb := rec.Bytes()
		maps[i] = AxisValueMap{
			FromCoordinate: fixed.FromBits(u16(rb[0:])),
			ToCoordinate:   fixed.FromBits(u16(rb[2:])),
		}
		offset += 4
	}
	return SegmentMap{maps: maps}, offset, nil
}

// AxisCount returns the number of segment maps, one per fvar axis.
func (a Avar) AxisCount() int { return len(a.segmentMaps) }

// SegmentMaps returns the table's segment maps, in fvar axis order.
func (a Avar) SegmentMaps() []SegmentMap { return a.segmentMaps }

// SegmentMap returns the i'th segment map, or false if i is out of range.
func (a Avar) SegmentMap(i int) (SegmentMap, bool) {
	if i < 0 || i >= len(a.segmentMaps) {
		return SegmentMap{}, false
	}
	return a.segmentMaps[i], true
}
