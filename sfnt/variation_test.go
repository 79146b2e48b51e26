package sfnt

import (
	"testing"

	"github.com/rsheeter/otvariations/fixed"
)

func TestVariationResolverUserSettings(t *testing.T) {
	axis := wghtAxis()
	fvarData := buildFvar([]VariationAxisRecord{axis})
	fvar, err := ReadFvar(NewFontData(fvarData))
	if err != nil {
		t.Fatalf("ReadFvar: %v", err)
	}

	r := &VariationResolver{fvar: fvar, coords: make([]fixed.F2Dot14, fvar.AxisCount())}
	r.ResolveUserSettings([]AxisSetting{
		{Tag: MakeTag('w', 'g', 'h', 't'), Value: fixed.FromF64(900)},
	})

	coords := r.Coords()
	if len(coords) != 1 {
		t.Fatalf("len(Coords()) = %d, want 1", len(coords))
	}
	if coords[0] != fixed.F2Dot14One {
		t.Fatalf("coords[0] = %v, want 1.0", coords[0])
	}

	r.Reset()
	if r.Coords()[0] != fixed.F2Dot14Zero {
		t.Fatalf("after Reset coords[0] = %v, want 0", r.Coords()[0])
	}
}

func TestVariationResolverClearsStaleCoordsAcrossCalls(t *testing.T) {
	wght := wghtAxis()
	wdth := VariationAxisRecord{
		AxisTag:      MakeTag('w', 'd', 't', 'h'),
		MinValue:     fixed.FromF64(50),
		DefaultValue: fixed.FromF64(100),
		MaxValue:     fixed.FromF64(200),
	}
	fvarData := buildFvar([]VariationAxisRecord{wght, wdth})
	fvar, err := ReadFvar(NewFontData(fvarData))
	if err != nil {
		t.Fatalf("ReadFvar: %v", err)
	}

	r := &VariationResolver{fvar: fvar, coords: make([]fixed.F2Dot14, fvar.AxisCount())}
	r.ResolveUserSettings([]AxisSetting{{Tag: wght.AxisTag, Value: wght.MaxValue}})
	if r.Coords()[0] != fixed.F2Dot14One {
		t.Fatalf("coords[0] after first resolve = %v, want 1.0", r.Coords()[0])
	}

	r.ResolveUserSettings([]AxisSetting{{Tag: wdth.AxisTag, Value: fixed.FromF64(150)}})
	if r.Coords()[0] != fixed.F2Dot14Zero {
		t.Fatalf("coords[0] after second resolve = %v, want 0 (stale value must not survive)", r.Coords()[0])
	}

	r.ResolveUserSettings([]AxisSetting{{Tag: wght.AxisTag, Value: wght.MaxValue}})
	r.ResolveCoords([]fixed.F2Dot14{fixed.FromF32(0.25)})
	if r.Coords()[1] != fixed.F2Dot14Zero {
		t.Fatalf("coords[1] after ResolveCoords shorter than axis count = %v, want 0", r.Coords()[1])
	}
}

func TestVariationResolverUnknownAxisIgnored(t *testing.T) {
	axis := wghtAxis()
	fvarData := buildFvar([]VariationAxisRecord{axis})
	fvar, err := ReadFvar(NewFontData(fvarData))
	if err != nil {
		t.Fatalf("ReadFvar: %v", err)
	}

	r := &VariationResolver{fvar: fvar, coords: make([]fixed.F2Dot14, fvar.AxisCount())}
	r.ResolveUserSettings([]AxisSetting{
		{Tag: MakeTag('x', 'x', 'x', 'x'), Value: fixed.FromF64(1)},
	})
	if r.Coords()[0] != fixed.F2Dot14Zero {
		t.Fatalf("unrelated axis setting changed coords[0] to %v", r.Coords()[0])
	}
}

func TestVariationResolverAvarRemap(t *testing.T) {
	axis := wghtAxis()
	fvarData := buildFvar([]VariationAxisRecord{axis})
	fvar, err := ReadFvar(NewFontData(fvarData))
	if err != nil {
		t.Fatalf("ReadFvar: %v", err)
	}

	sm := SegmentMap{maps: []AxisValueMap{
		{FromCoordinate: fixed.F2Dot14Zero, ToCoordinate: fixed.F2Dot14Zero},
		{FromCoordinate: fixed.FromF32(1), ToCoordinate: fixed.FromF32(0.5)},
	}}
	avar := Avar{segmentMaps: []SegmentMap{sm}}

	r := &VariationResolver{fvar: fvar, avar: avar, hasAvar: true, coords: make([]fixed.F2Dot14, fvar.AxisCount())}
	r.ResolveUserSettings([]AxisSetting{
		{Tag: MakeTag('w', 'g', 'h', 't'), Value: axis.MaxValue},
	})
	got := r.Coords()[0]
	want := fixed.FromF32(0.5)
	if diffF2Dot14(got, want) > 1 {
		t.Fatalf("coords[0] = %v, want close to %v", got, want)
	}
}
