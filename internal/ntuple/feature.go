// Package ntuple implements an n-tuple network value function for a 4x4
// tile puzzle: small lookup tables addressed by tuples of cell ranks,
// shared across all eight board symmetries.
package ntuple

import "sort"

// BoardView is the read-only board surface a feature indexes. Cell returns
// the tile rank at a row-major position 0..15, 0 meaning empty.
type BoardView interface {
	Cell(pos int) int
}

// Sentinel marks a tuple slot that contributes the board's empty-cell count
// instead of a literal cell read.
const Sentinel = -1

// Feature is one ordered tuple of cell positions. It is immutable once
// constructed.
type Feature struct {
	cells []int
}

func NewFeature(cells []int) Feature {
	return Feature{cells: append([]int(nil), cells...)}
}

func (f Feature) Size() int {
	return len(f.cells)
}

func (f Feature) Cells() []int {
	return append([]int(nil), f.cells...)
}

// TableSize is the number of weight entries the feature addresses: one
// 4-bit nibble per tuple slot.
func (f Feature) TableSize() int {
	return 1 << (4 * len(f.cells))
}

// Index packs one nibble per tuple slot, most significant first, in
// definition order. A sentinel slot packs the board's empty-cell count,
// which fits a nibble on a 4x4 board.
func (f Feature) Index(b BoardView) int64 {
	empty := 0
	for pos := 0; pos < 16; pos++ {
		if b.Cell(pos) == 0 {
			empty++
		}
	}

	var idx int64
	for _, pos := range f.cells {
		idx <<= 4
		if pos == Sentinel {
			idx |= int64(empty)
		} else {
			idx |= int64(b.Cell(pos))
		}
	}
	return idx
}

// Hash identifies the feature's symmetry class: the OR of 1<<pos over real
// positions, negated when a sentinel slot is present. Two features index
// equivalent weight patterns iff their hashes are equal. Used only for
// dedup, never for table addressing.
func (f Feature) Hash() int {
	h := 0
	sentinel := false
	for _, pos := range f.cells {
		if pos == Sentinel {
			sentinel = true
			continue
		}
		h |= 1 << pos
	}
	if sentinel {
		return -h
	}
	return h
}

// Cell permutations generating the board's dihedral symmetry group:
// rotate[p] and reflect[p] are the positions cell p maps to under a 90
// degree rotation and a reflection.
var (
	rotate  = [16]int{12, 8, 4, 0, 13, 9, 5, 1, 14, 10, 6, 2, 15, 11, 7, 3}
	reflect = [16]int{15, 11, 7, 3, 14, 10, 6, 2, 13, 9, 5, 1, 12, 8, 4, 0}
)

// permute maps every real position through the permutation table; sentinel
// slots keep their place in the tuple.
func permute(f Feature, table [16]int) Feature {
	cells := make([]int, len(f.cells))
	for i, pos := range f.cells {
		if pos == Sentinel {
			cells[i] = Sentinel
		} else {
			cells[i] = table[pos]
		}
	}
	return Feature{cells: cells}
}

// Orbit is the closed symmetry class of one base feature: every distinct
// index mapping reachable by rotations and reflections. All members share
// the base feature's weight table.
type Orbit struct {
	members []Feature
}

// NewOrbit generates the dihedral orbit of the base feature: four
// rotations, then four rotations of the reflected branch, deduplicated by
// symmetry hash. Tuples with internal symmetry yield fewer than 8 members.
func NewOrbit(base Feature) Orbit {
	variants := make([]Feature, 0, 8)

	f := base
	for i := 0; i < 4; i++ {
		variants = append(variants, f)
		f = permute(f, rotate)
	}
	f = permute(base, reflect)
	for i := 0; i < 4; i++ {
		variants = append(variants, f)
		f = permute(f, rotate)
	}

	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Hash() > variants[j].Hash()
	})
	members := variants[:1]
	for _, v := range variants[1:] {
		if v.Hash() != members[len(members)-1].Hash() {
			members = append(members, v)
		}
	}
	return Orbit{members: members}
}

func (o Orbit) Size() int {
	return len(o.members)
}

func (o Orbit) Members() []Feature {
	return o.members
}
