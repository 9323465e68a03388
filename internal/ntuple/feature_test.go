package ntuple

import "testing"

// cellsView adapts a plain array to the BoardView surface.
type cellsView [16]int

func (v cellsView) Cell(pos int) int {
	return v[pos]
}

func TestIndexPacksNibblesMostSignificantFirst(t *testing.T) {
	f := NewFeature([]int{0, 1, 2, 3, 4, 5})
	v := cellsView{1, 2, 3, 4, 5, 6}
	if got := f.Index(v); got != 0x123456 {
		t.Fatalf("index = %#x, want 0x123456", got)
	}
}

func TestIndexSentinelPacksEmptyCount(t *testing.T) {
	f := NewFeature([]int{0, Sentinel})
	v := cellsView{2} // 15 cells empty
	if got := f.Index(v); got != (2<<4)|15 {
		t.Fatalf("index = %#x, want %#x", got, (2<<4)|15)
	}
}

func TestHash(t *testing.T) {
	cases := []struct {
		cells []int
		want  int
	}{
		{[]int{0, 1, 2}, 0b111},
		{[]int{4, 5}, 0b110000},
		{[]int{0, Sentinel}, -1},
		{[]int{Sentinel, 2}, -4},
	}
	for _, tc := range cases {
		f := NewFeature(tc.cells)
		if got := f.Hash(); got != tc.want {
			t.Fatalf("hash(%v) = %d, want %d", tc.cells, got, tc.want)
		}
	}
}

func TestOrbitSizeDividesEight(t *testing.T) {
	cases := []struct {
		cells []int
		size  int
	}{
		{[]int{0, 1, 2, 3, 4, 5}, 8},
		{[]int{0, 1}, 8},
		// the four corners are invariant under every board symmetry
		{[]int{0, 3, 12, 15}, 1},
	}
	for _, tc := range cases {
		orbit := NewOrbit(NewFeature(tc.cells))
		if got := orbit.Size(); got != tc.size {
			t.Fatalf("orbit size of %v = %d, want %d", tc.cells, got, tc.size)
		}
		if 8%orbit.Size() != 0 {
			t.Fatalf("orbit size %d does not divide 8", orbit.Size())
		}
	}
}

func TestRotationClosure(t *testing.T) {
	orbit := NewOrbit(NewFeature([]int{0, 1, 2, 3, 4, 5}))
	for _, member := range orbit.Members() {
		f := member
		for i := 0; i < 4; i++ {
			f = permute(f, rotate)
		}
		if f.Hash() != member.Hash() {
			t.Fatalf("four rotations changed hash: %d != %d", f.Hash(), member.Hash())
		}
	}
}

func TestOrbitPreservesSentinelSlot(t *testing.T) {
	orbit := NewOrbit(NewFeature([]int{6, 7, 9, 10, 11, Sentinel}))
	for _, member := range orbit.Members() {
		cells := member.Cells()
		if cells[len(cells)-1] != Sentinel {
			t.Fatalf("sentinel slot moved: %v", cells)
		}
		if member.Hash() >= 0 {
			t.Fatalf("sentinel member hash not negated: %d", member.Hash())
		}
	}
}

func TestOrbitIndexMultisetIsSymmetryInvariant(t *testing.T) {
	orbit := NewOrbit(NewFeature([]int{0, 1, 5}))

	var v cellsView
	for i := range v {
		v[i] = (i*7 + 3) % 15
	}
	var rotated cellsView
	for i := range v {
		rotated[rotate[i]] = v[i]
	}

	count := func(view cellsView) map[int64]int {
		m := map[int64]int{}
		for _, f := range orbit.Members() {
			m[f.Index(view)]++
		}
		return m
	}
	direct := count(v)
	viaRotation := count(rotated)
	if len(direct) != len(viaRotation) {
		t.Fatalf("index multisets differ: %v vs %v", direct, viaRotation)
	}
	for idx, n := range direct {
		if viaRotation[idx] != n {
			t.Fatalf("index %#x count %d != %d", idx, n, viaRotation[idx])
		}
	}
}

func TestTableSize(t *testing.T) {
	f := NewFeature([]int{0, 1, 2, 3})
	if got := f.TableSize(); got != 1<<16 {
		t.Fatalf("table size = %d, want %d", got, 1<<16)
	}
}
