package sfnt

import "github.com/rsheeter/otvariations/fixed"

// AxisSetting is a single user-requested (tag, value) pair, e.g. wght=700.
type AxisSetting struct {
	Tag   Tag
	Value fixed.Fixed
}

// VariationResolver maps user-space axis settings to the normalized
// coordinates gvar's scalar engine consumes, per spec.md §4.6. It holds
// mutable state (the last-resolved coordinates) and is not safe for
// concurrent use; callers needing concurrent resolution should use one
// resolver per goroutine, each built from the same *Font.
type VariationResolver struct {
	font   *Font
	fvar   Fvar
	avar   Avar
	hasAvar bool
	coords []fixed.F2Dot14
}

// NewVariationResolver builds a resolver for the font's "fvar" axes. It
// fails if the font has no "fvar" table or that table cannot be decoded; a
// missing or undecodable "avar" table is not an error, and the resolver
// then applies no avar remapping.
func NewVariationResolver(f *Font) (*VariationResolver, error) {
	fvar, err := f.Fvar()
	if err != nil {
		return nil, err
	}
	r := &VariationResolver{font: f, fvar: fvar, coords: make([]fixed.F2Dot14, fvar.AxisCount())}
	if avar, err := f.Avar(); err == nil {
		r.avar = avar
		r.hasAvar = true
	}
	return r, nil
}

// Reset clears all axes back to their default (normalized zero) position.
func (r *VariationResolver) Reset() {
	for i := range r.coords {
		r.coords[i] = fixed.F2Dot14Zero
	}
}

// ResolveUserSettings applies each setting's user-space value to its axis,
// normalizing through fvar and then, if present, avar. Settings naming an
// axis the font does not have are ignored. This mirrors
// Scaler::resolve_variations in spec.md §4.6: later settings for the same
// axis in the slice win, matching a for-each-axis, for-each-setting scan.
func (r *VariationResolver) ResolveUserSettings(settings []AxisSetting) {
	if len(r.coords) != r.fvar.AxisCount() {
		r.coords = make([]fixed.F2Dot14, r.fvar.AxisCount())
	}
	r.Reset()
	axes := r.fvar.Axes()
	for i, axis := range axes {
		for _, setting := range settings {
			if setting.Tag != axis.AxisTag {
				continue
			}
			coord := axis.Normalize(setting.Value)
			if r.hasAvar {
				if m, ok := r.avar.SegmentMap(i); ok {
					coord = m.Apply(coord)
				}
			}
			r.coords[i] = coord
		}
	}
}

// ResolveCoords installs already-normalized coordinates directly, skipping
// fvar/avar entirely. Every call starts from a cleared slate: coords
// shorter than the axis count leave the remaining trailing axes at zero,
// not at whatever a previous resolve left there.
func (r *VariationResolver) ResolveCoords(coords []fixed.F2Dot14) {
	if len(r.coords) != r.fvar.AxisCount() {
		r.coords = make([]fixed.F2Dot14, r.fvar.AxisCount())
	}
	r.Reset()
	copy(r.coords, coords)
}

// Coords returns the resolver's current normalized coordinates, one per
// fvar axis, in axis order.
func (r *VariationResolver) Coords() []fixed.F2Dot14 { return r.coords }

// AxisCount returns the number of axes the resolver tracks.
func (r *VariationResolver) AxisCount() int { return r.fvar.AxisCount() }
