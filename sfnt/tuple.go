package sfnt

import "github.com/rsheeter/otvariations/fixed"

// Tuple is a run of axisCount normalized coordinates, one per variation
// axis, shared across many tuple variation records for compactness.
type Tuple struct {
	values []fixed.F2Dot14
}

// Len returns the number of axis values in the tuple.
func (t Tuple) Len() int { return len(t.values) }

// Values returns the tuple's per-axis coordinates.
func (t Tuple) Values() []fixed.F2Dot14 { return t.values }

// Get returns the value at axis index i, or ZERO if i is out of range
// (trailing axes are implicitly zero, per spec.md §4.5).
func (t Tuple) Get(i int) fixed.F2Dot14 {
	if i < 0 || i >= len(t.values) {
		return fixed.F2Dot14Zero
	}
	return t.values[i]
}

// readTuple decodes axisCount consecutive F2Dot14 values starting at the
// front of d. It is the ComputeSize(args)-parameterised record named in
// spec.md §4.2: its size on disk, axisCount*2 bytes, depends on a value
// (the enclosing table's axis count) supplied by the caller rather than
// being fixed.
func readTuple(d FontData, axisCount uint16) (Tuple, int, error) {
	n := int(axisCount) * 2
	b, ok := d.Slice(0, n)
	if !ok {
		return Tuple{}, 0, ErrOutOfBounds
	}
	values := make([]fixed.F2Dot14, axisCount)
	bb := b.Bytes()
	for i := range values {
		values[i] = fixed.FromBits(u16(bb[i*2:]))
	}
	return Tuple{values: values}, n, nil
}

// SharedTuples is the array of peak Tuples stored once in a gvar table's
// header and referenced by index from many TupleVariationHeaders.
type SharedTuples struct {
	tuples []Tuple
}

// ReadSharedTuplesWithArgs decodes count tuples of axisCount coordinates
// each, starting at the front of d.
func ReadSharedTuplesWithArgs(d FontData, count, axisCount uint16) (SharedTuples, error) {
	tuples := make([]Tuple, count)
	offset := 0
	for i := range tuples {
		tup, n, err := ReadWithArgs(d, offset, axisCount, readTuple)
		if err != nil {
			return SharedTuples{}, err
		}
		tuples[i] = tup
		offset += n
	}
	return SharedTuples{tuples: tuples}, nil
}

// Tuples returns the decoded shared tuples in on-disk order.
func (s SharedTuples) Tuples() []Tuple { return s.tuples }

// Tuple returns the i'th shared tuple, or false if i is out of range.
func (s SharedTuples) Tuple(i int) (Tuple, bool) {
	if i < 0 || i >= len(s.tuples) {
		return Tuple{}, false
	}
	return s.tuples[i], true
}
