package sfnt

import "github.com/rsheeter/otvariations/fixed"

// GvarFlags holds the "gvar" table's flags word.
type GvarFlags uint16

// GvarFlagLongOffsets indicates that glyphVariationDataOffsets entries are
// 4 bytes wide rather than 2.
const GvarFlagLongOffsets GvarFlags = 1

const gvarHeaderSize = 20

// Gvar is a parsed "gvar" (Glyph Variations) table. It is a borrowed view:
// GlyphVariationData and everything reachable from it stays valid only as
// long as the []byte backing the table is alive.
type Gvar struct {
	data FontData

	axisCount          uint16
	sharedTupleCount   uint16
	sharedTuplesOffset uint32
	glyphCount         uint16
	flags              GvarFlags
	dataArrayOffset    uint32
}

// ReadGvar decodes the "gvar" table preamble and validates its version.
func ReadGvar(d FontData) (Gvar, error) {
	hdr, ok := d.Slice(0, gvarHeaderSize)
	if !ok {
		return Gvar{}, ErrOutOfBounds
	}
	b := hdr.Bytes()
	major, minor := u16(b[0:]), u16(b[2:])
	if major != 1 || minor != 0 {
		return Gvar{}, ErrInvalidFormat("unsupported gvar version")
	}
	return Gvar{
		data:               d,
		axisCount:          u16(b[4:]),
		sharedTupleCount:   u16(b[6:]),
		sharedTuplesOffset: u32(b[8:]),
		glyphCount:         u16(b[12:]),
		flags:              GvarFlags(u16(b[14:])),
		dataArrayOffset:    u32(b[16:]),
	}, nil
}

// AxisCount returns the number of variation axes, matching "fvar".
func (g Gvar) AxisCount() uint16 { return g.axisCount }

// SharedTupleCount returns the number of tuples in the shared tuples array.
func (g Gvar) SharedTupleCount() uint16 { return g.sharedTupleCount }

// GlyphCount returns the number of glyphs covered by the offsets array.
func (g Gvar) GlyphCount() uint16 { return g.glyphCount }

// Flags returns the table's flags word.
func (g Gvar) Flags() GvarFlags { return g.flags }

// offsetSize returns the on-disk width, in bytes, of one
// glyphVariationDataOffsets entry: the U16Or32 ComputeSize(args) contract
// from spec.md §4.2, parameterised by the LONG_OFFSETS flag.
func (g Gvar) offsetSize() int {
	if g.flags&GvarFlagLongOffsets != 0 {
		return 4
	}
	return 2
}

// readOffset decodes the glyphVariationDataOffsets entry at index idx. Short
// offsets encode half the byte offset and must be doubled when read
// (spec.md §3, §6, §9(c)); this doubling applies only here, never to any
// other table's offsets.
func (g Gvar) readOffset(idx int) (uint32, error) {
	size := g.offsetSize()
	at := gvarHeaderSize + idx*size
	switch size {
	case 2:
		v, err := ReadAt[uint16](g.data, at)
		if err != nil {
			return 0, err
		}
		return uint32(v) * 2, nil
	default:
		return ReadAt[uint32](g.data, at)
	}
}

// SharedTuples decodes the table's shared tuple array.
func (g Gvar) SharedTuples() (SharedTuples, error) {
	rest, ok := g.data.SplitOff(int(g.sharedTuplesOffset))
	if !ok {
		return SharedTuples{}, ErrOutOfBounds
	}
	return ReadSharedTuplesWithArgs(rest, g.sharedTupleCount, g.axisCount)
}

// dataForGid returns the raw per-glyph variation data slice, per spec.md
// §4.4's data_for_gid: always a sub-range of the font, with end >= start.
func (g Gvar) dataForGid(gid GlyphID) (FontData, error) {
	startIdx, endIdx := int(gid), int(gid)+1
	if endIdx > int(g.glyphCount) {
		return FontData{}, ErrOutOfBounds
	}
	start, err := g.readOffset(startIdx)
	if err != nil {
		return FontData{}, err
	}
	end, err := g.readOffset(endIdx)
	if err != nil {
		return FontData{}, err
	}
	if end < start {
		return FontData{}, ErrMalformedData("glyph variation data offsets out of order")
	}
	s, e := g.dataArrayOffset+start, g.dataArrayOffset+end
	sub, ok := g.data.Slice(int(s), int(e))
	if !ok {
		return FontData{}, ErrOutOfBounds
	}
	return sub, nil
}

// GlyphVariationData returns the variation data for a specific glyph. An
// empty range (start == end) means the glyph has no variation data, and is
// reported as a GlyphVariationData with zero tuples rather than an error.
func (g Gvar) GlyphVariationData(gid GlyphID) (GlyphVariationData, error) {
	shared, err := g.SharedTuples()
	if err != nil {
		return GlyphVariationData{}, err
	}
	data, err := g.dataForGid(gid)
	if err != nil {
		return GlyphVariationData{}, err
	}
	if data.Len() == 0 {
		return GlyphVariationData{axisCount: g.axisCount, sharedTuples: shared}, nil
	}
	return NewGlyphVariationData(data, g.axisCount, shared)
}

// TupleVariationCount is the packed flags-and-count word that precedes a
// glyph's tuple variation headers.
type TupleVariationCount uint16

// Count returns the number of tuple variations (low 12 bits).
func (c TupleVariationCount) Count() uint16 { return uint16(c) & 0x0fff }

// SharedPointNumbers reports whether the glyph's serialized data begins
// with a PackedPointNumbers shared by every private-point-numbers-free
// tuple.
func (c TupleVariationCount) SharedPointNumbers() bool { return uint16(c)&0x8000 != 0 }

// TupleIndex is the packed flags-and-index word in a TupleVariationHeader.
type TupleIndex uint16

const (
	tupleIndexEmbeddedPeak    = 0x8000
	tupleIndexIntermediate    = 0x4000
	tupleIndexPrivatePoints   = 0x2000
	tupleIndexSharedTupleMask = 0x0fff
)

// EmbeddedPeakTuple reports whether the header carries its own peak tuple.
func (t TupleIndex) EmbeddedPeakTuple() bool { return uint16(t)&tupleIndexEmbeddedPeak != 0 }

// IntermediateRegion reports whether the header carries start/end tuples.
func (t TupleIndex) IntermediateRegion() bool { return uint16(t)&tupleIndexIntermediate != 0 }

// PrivatePointNumbers reports whether this tuple's body begins with its own
// PackedPointNumbers rather than reusing the parent's shared stream.
func (t TupleIndex) PrivatePointNumbers() bool { return uint16(t)&tupleIndexPrivatePoints != 0 }

// SharedTupleIndex returns the index into the shared tuples array this
// header refers to, valid only when EmbeddedPeakTuple is false.
func (t TupleIndex) SharedTupleIndex() (uint16, bool) {
	if t.EmbeddedPeakTuple() {
		return 0, false
	}
	return uint16(t) & tupleIndexSharedTupleMask, true
}

// TupleVariationHeader is a single tuple variation's descriptor: how many
// body bytes follow, and where to find its peak and (optional)
// intermediate region.
type TupleVariationHeader struct {
	variationDataSize uint16
	tupleIndex        TupleIndex
	peak              *Tuple
	interStart        *Tuple
	interEnd          *Tuple
}

// VariationDataSize returns the number of body bytes that follow this
// header in the serialized data region.
func (h TupleVariationHeader) VariationDataSize() uint16 { return h.variationDataSize }

// TupleIndex returns the header's packed flags-and-index word.
func (h TupleVariationHeader) TupleIndex() TupleIndex { return h.tupleIndex }

// PeakTuple returns the header's embedded peak tuple, if any.
func (h TupleVariationHeader) PeakTuple() (Tuple, bool) {
	if h.peak == nil {
		return Tuple{}, false
	}
	return *h.peak, true
}

// IntermediateStartTuple returns the header's intermediate-region start
// tuple, if any.
func (h TupleVariationHeader) IntermediateStartTuple() (Tuple, bool) {
	if h.interStart == nil {
		return Tuple{}, false
	}
	return *h.interStart, true
}

// IntermediateEndTuple returns the header's intermediate-region end tuple,
// if any.
func (h TupleVariationHeader) IntermediateEndTuple() (Tuple, bool) {
	if h.interEnd == nil {
		return Tuple{}, false
	}
	return *h.interEnd, true
}

// readTupleVariationHeader decodes one TupleVariationHeader from the front
// of d, reporting the number of bytes it consumed. This is variable-size
// per spec.md §4.2: its length depends on its own tupleIndex flags.
func readTupleVariationHeader(d FontData, axisCount uint16) (TupleVariationHeader, int, error) {
	b, ok := d.Slice(0, 4)
	if !ok {
		return TupleVariationHeader{}, 0, ErrOutOfBounds
	}
	bb := b.Bytes()
	h := TupleVariationHeader{
		variationDataSize: u16(bb[0:]),
		tupleIndex:        TupleIndex(u16(bb[2:])),
	}
	offset := 4

	if h.tupleIndex.EmbeddedPeakTuple() {
		peak, n, err := ReadWithArgs(d, offset, axisCount, readTuple)
		if err != nil {
			return TupleVariationHeader{}, 0, err
		}
		h.peak = &peak
		offset += n
	}

	if h.tupleIndex.IntermediateRegion() {
		start, n, err := ReadWithArgs(d, offset, axisCount, readTuple)
		if err != nil {
			return TupleVariationHeader{}, 0, err
		}
		h.interStart = &start
		offset += n

		end, n, err := ReadWithArgs(d, offset, axisCount, readTuple)
		if err != nil {
			return TupleVariationHeader{}, 0, err
		}
		h.interEnd = &end
		offset += n
	}

	return h, offset, nil
}

// GlyphVariationData is the borrowed view of one glyph's tuple variation
// records: shared tuples, an optional shared point-number stream, and the
// header/body regions needed to decode each TupleVariation lazily.
type GlyphVariationData struct {
	axisCount           uint16
	sharedTuples        SharedTuples
	sharedPointNumbers  *PackedPointNumbers
	tupleCount          TupleVariationCount
	headerData          FontData
	serializedData      FontData
}

// NewGlyphVariationData decodes a GlyphVariationDataHeader from the front
// of data and slices out the header and serialized-body regions, per
// spec.md §4.4's GlyphVariationData::new.
func NewGlyphVariationData(data FontData, axisCount uint16, shared SharedTuples) (GlyphVariationData, error) {
	preamble, ok := data.Slice(0, 4)
	if !ok {
		return GlyphVariationData{}, ErrOutOfBounds
	}
	pb := preamble.Bytes()
	count := TupleVariationCount(u16(pb[0:]))
	serializedDataOffset := int(u16(pb[2:]))

	headerData, ok := data.Slice(4, serializedDataOffset)
	if !ok {
		return GlyphVariationData{}, ErrOutOfBounds
	}
	serializedData, ok := data.SplitOff(serializedDataOffset)
	if !ok {
		return GlyphVariationData{}, ErrOutOfBounds
	}

	var sharedPoints *PackedPointNumbers
	if count.SharedPointNumbers() {
		pn, rest, err := SplitOffPointNumbers(serializedData)
		if err != nil {
			return GlyphVariationData{}, err
		}
		sharedPoints = &pn
		serializedData = rest
	}

	return GlyphVariationData{
		axisCount:          axisCount,
		sharedTuples:       shared,
		sharedPointNumbers: sharedPoints,
		tupleCount:         count,
		headerData:         headerData,
		serializedData:     serializedData,
	}, nil
}

// TupleCount returns the number of tuple variations for this glyph.
func (g GlyphVariationData) TupleCount() int { return int(g.tupleCount.Count()) }

// Tuples returns an iterator over this glyph's tuple variations, in
// on-disk order.
func (g GlyphVariationData) Tuples() *TupleVariationIter {
	return &TupleVariationIter{
		parent:         g,
		headerData:     g.headerData,
		serializedData: g.serializedData,
		total:          g.TupleCount(),
	}
}

// TupleVariationIter iterates the TupleVariations of a GlyphVariationData,
// in on-disk order.
type TupleVariationIter struct {
	parent         GlyphVariationData
	headerData     FontData
	serializedData FontData
	current        int
	total          int
}

// Next decodes the next TupleVariation. It returns (_, false, nil) once
// exhausted, and (_, false, err) if a header fails to decode — unlike the
// original implementation's FIXME-flagged behavior, this surfaces the
// error instead of silently discarding it (spec.md §9, Open Question a).
func (it *TupleVariationIter) Next() (TupleVariation, bool, error) {
	if it.current == it.total {
		return TupleVariation{}, false, nil
	}
	it.current++

	header, n, err := readTupleVariationHeader(it.headerData, it.parent.axisCount)
	if err != nil {
		return TupleVariation{}, false, err
	}
	rest, ok := it.headerData.SplitOff(n)
	if !ok {
		return TupleVariation{}, false, ErrOutOfBounds
	}
	it.headerData = rest

	varData, remaining, ok := it.serializedData.TakeUpTo(int(header.variationDataSize))
	if !ok {
		return TupleVariation{}, false, ErrOutOfBounds
	}
	it.serializedData = remaining

	var pointNumbers PackedPointNumbers
	var deltasData FontData
	if header.tupleIndex.PrivatePointNumbers() {
		pn, rest, err := SplitOffPointNumbers(varData)
		if err != nil {
			return TupleVariation{}, false, err
		}
		pointNumbers = pn
		deltasData = rest
	} else if it.parent.sharedPointNumbers != nil {
		pointNumbers = *it.parent.sharedPointNumbers
		deltasData = varData
	} else {
		// spec.md §9, Open Question b: the original implementation
		// silently drops this tuple. Surface it as malformed instead.
		return TupleVariation{}, false, ErrMalformedData(
			"tuple has no private point numbers and glyph has no shared point numbers")
	}

	return TupleVariation{
		axisCount:    it.parent.axisCount,
		header:       header,
		sharedTuples: it.parent.sharedTuples,
		pointNumbers: pointNumbers,
		packedDeltas: NewPackedDeltas(deltasData),
	}, true, nil
}

// TupleVariation is a single tuple variation record: a region of the
// variation space (peak, optional intermediate start/end) and the deltas
// it contributes within that region.
type TupleVariation struct {
	axisCount    uint16
	header       TupleVariationHeader
	sharedTuples SharedTuples
	pointNumbers PackedPointNumbers
	packedDeltas PackedDeltas
}

// AllPoints reports whether this tuple's deltas apply to every point of the
// glyph, in order, rather than to an explicit point-number list.
func (t TupleVariation) AllPoints() bool { return t.pointNumbers.Count() == 0 }

// Peak returns this tuple's peak region. Per spec.md §4.4's tie-break, a
// shared-tuple reference wins over an embedded peak when both are present;
// when neither is available the peak defaults to all zeros.
func (t TupleVariation) Peak() Tuple {
	if idx, ok := t.header.tupleIndex.SharedTupleIndex(); ok {
		if tup, ok := t.sharedTuples.Tuple(int(idx)); ok {
			return tup
		}
	}
	if peak, ok := t.header.PeakTuple(); ok {
		return peak
	}
	return Tuple{values: make([]fixed.F2Dot14, t.axisCount)}
}

// ComputeScalar computes this tuple's scalar at the given normalized
// coordinates, per spec.md §4.5. coords may be shorter than the axis
// count; missing trailing axes are treated as zero. It returns false if
// the tuple does not apply at these coordinates.
func (t TupleVariation) ComputeScalar(coords []fixed.F2Dot14) (fixed.Fixed, bool) {
	peak := t.Peak()
	if peak.Len() != int(t.axisCount) {
		return 0, false
	}

	hasInter := t.header.tupleIndex.IntermediateRegion()
	interStart, _ := t.header.IntermediateStartTuple()
	interEnd, _ := t.header.IntermediateEndTuple()

	scalar := fixed.ONE
	for i := 0; i < int(t.axisCount); i++ {
		var coord fixed.Fixed
		if i < len(coords) {
			coord = coords[i].ToFixed()
		}
		p := peak.Get(i).ToFixed()

		if p == fixed.ZERO || p == coord {
			continue
		}
		if coord == fixed.ZERO {
			return 0, false
		}

		if hasInter {
			s := interStart.Get(i).ToFixed()
			e := interEnd.Get(i).ToFixed()
			if coord <= s || coord >= e {
				return 0, false
			}
			if coord < p {
				scalar = scalar.MulDiv(coord-s, p-s)
			} else {
				scalar = scalar.MulDiv(e-coord, e-p)
			}
		} else {
			lo, hi := p, fixed.ZERO
			if lo > hi {
				lo, hi = hi, lo
			}
			if coord < lo || coord > hi {
				return 0, false
			}
			scalar = scalar.MulDiv(coord, p)
		}
	}
	return scalar, true
}

// Deltas returns an iterator over this tuple's per-point deltas, unscaled.
func (t TupleVariation) Deltas() *DeltaIter {
	total := t.packedDeltas.Count() / 2
	xIter := t.packedDeltas.Iter()
	yIter := t.packedDeltas.Iter()
	for i := 0; i < total; i++ {
		yIter.Next()
	}
	return &DeltaIter{
		total:     total,
		allPoints: t.AllPoints(),
		points:    t.pointNumbers.Iter(),
		xIter:     xIter,
		yIter:     yIter,
	}
}

// GlyphDelta is the delta for a single point or component in a glyph.
type GlyphDelta struct {
	Position       uint16
	XDelta, YDelta int16
}

// DeltaIter iterates the GlyphDeltas for a single TupleVariation.
type DeltaIter struct {
	cur       int
	total     int
	allPoints bool
	points    PackedPointNumbersIter
	xIter     DeltaRunIter
	yIter     DeltaRunIter
}

// Next returns the next GlyphDelta, or false when exhausted.
func (it *DeltaIter) Next() (GlyphDelta, bool) {
	if it.cur == it.total {
		return GlyphDelta{}, false
	}

	var position uint16
	if it.allPoints {
		position = uint16(it.cur)
	} else {
		p, ok := it.points.Next()
		if !ok {
			return GlyphDelta{}, false
		}
		position = p
	}
	x, ok := it.xIter.Next()
	if !ok {
		return GlyphDelta{}, false
	}
	y, ok := it.yIter.Next()
	if !ok {
		return GlyphDelta{}, false
	}
	it.cur++
	return GlyphDelta{Position: position, XDelta: x, YDelta: y}, true
}
