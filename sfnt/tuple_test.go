package sfnt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestReadSharedTuplesSkiaSample reproduces scenario S1 from the
// specification: the Apple spec's Skia sample shared-tuples array, 2 axes
// and 8 tuples.
func TestReadSharedTuplesSkiaSample(t *testing.T) {
	raw := []uint16{
		0x4000, 0x0000, // (1, 0)
		0xC000, 0x0000, // (-1, 0)
		0x0000, 0x4000, // (0, 1)
		0x0000, 0xC000, // (0, -1)
		0xC000, 0xC000, // (-1, -1)
		0x4000, 0xC000, // (1, -1)
		0x4000, 0x4000, // (1, 1)
		0xC000, 0x4000, // (-1, 1)
	}
	data := make([]byte, 0, len(raw)*2)
	for _, v := range raw {
		data = append(data, u16Bytes(v)...)
	}

	shared, err := ReadSharedTuplesWithArgs(NewFontData(data), 8, 2)
	if err != nil {
		t.Fatalf("ReadSharedTuplesWithArgs: %v", err)
	}

	type pair struct{ x, y float32 }
	want := []pair{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
	}
	got := make([]pair, len(shared.Tuples()))
	for i, tup := range shared.Tuples() {
		got[i] = pair{x: tup.Get(0).Float32(), y: tup.Get(1).Float32()}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("shared tuples mismatch (-want +got):\n%s", diff)
	}
}
