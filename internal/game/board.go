package game

// Cell layout, row-major:
//
//	| 0 | 1 | 2 | 3 |
//	| 4 | 5 | 6 | 7 |
//	| 8 | 9 | 10| 11|
//	| 12| 13| 14| 15|
//
// A cell holds a tile rank: 0 is empty, ranks 1 and 2 are the tiles 1 and 2,
// and rank n >= 3 is the tile 3*2^(n-3).

import (
	"fmt"
	"strings"
)

const (
	OpUp    = 0
	OpRight = 1
	OpDown  = 2
	OpLeft  = 3
)

// IllegalReward is returned by Slide and Place when the move cannot be made.
const IllegalReward = -1

// NoSlideYet is the value of Last before the first successful slide.
const NoSlideYet = 4

// maxRank keeps every rank representable in one 4-bit nibble.
const maxRank = 15

// bagCopies is how many copies of each of the ranks 1..3 one bag holds.
const bagCopies = 4

type Board struct {
	cells [16]int
	hint  int
	last  int
	bag   [4]int
}

func NewBoard() Board {
	return Board{
		last: NoSlideYet,
		bag:  [4]int{0, bagCopies, bagCopies, bagCopies},
	}
}

// FromCells builds a board with the given ranks and a full bag. Intended for
// tests and analysis tools; the bag and hint are in their initial state.
func FromCells(cells [16]int) Board {
	b := NewBoard()
	b.cells = cells
	return b
}

func (b Board) Cell(pos int) int {
	return b.cells[pos]
}

func (b Board) Cells() [16]int {
	return b.cells
}

// Hint is the rank of the next tile the environment has committed to.
func (b Board) Hint() int {
	return b.hint
}

// Last is the direction of the most recent successful slide, or NoSlideYet.
// The placer uses it to pick the legal placement edge.
func (b Board) Last() int {
	return b.last
}

// BagCount reports how many tiles of the given rank remain in the bag,
// excluding the outstanding hint tile.
func (b Board) BagCount(rank int) int {
	if rank < 1 || rank > 3 {
		return 0
	}
	return b.bag[rank]
}

func (b Board) EmptyCount() int {
	n := 0
	for _, c := range b.cells {
		if c == 0 {
			n++
		}
	}
	return n
}

func (b Board) MaxRank() int {
	max := 0
	for _, c := range b.cells {
		if c > max {
			max = c
		}
	}
	return max
}

// TileValue converts a rank to its face value: 0, 1, 2, 3, 6, 12, 24, ...
func TileValue(rank int) int {
	switch {
	case rank <= 0:
		return 0
	case rank < 3:
		return rank
	default:
		return 3 << (rank - 3)
	}
}

// rankScore is the scoring rule: a tile of rank n >= 3 is worth 3^(n-2).
func rankScore(rank int) int {
	if rank < 3 {
		return 0
	}
	score := 1
	for i := 2; i < rank; i++ {
		score *= 3
	}
	return score
}

// Score is the sum of rankScore over all tiles on the board.
func (b Board) Score() int {
	sum := 0
	for _, c := range b.cells {
		sum += rankScore(c)
	}
	return sum
}

// slideLines[op] lists the four lines of cell positions for that direction,
// ordered from the edge tiles move toward.
var slideLines = [4][4][4]int{
	OpUp: {
		{0, 4, 8, 12}, {1, 5, 9, 13}, {2, 6, 10, 14}, {3, 7, 11, 15},
	},
	OpRight: {
		{3, 2, 1, 0}, {7, 6, 5, 4}, {11, 10, 9, 8}, {15, 14, 13, 12},
	},
	OpDown: {
		{12, 8, 4, 0}, {13, 9, 5, 1}, {14, 10, 6, 2}, {15, 11, 7, 3},
	},
	OpLeft: {
		{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9, 10, 11}, {12, 13, 14, 15},
	},
}

// canCombine reports whether a moving tile of rank b may merge into a tile
// of rank a, and the resulting rank. 1 and 2 combine into 3; equal ranks
// >= 3 combine into the next rank, capped so the result stays in one nibble.
func canCombine(a, c int) (int, bool) {
	if (a == 1 && c == 2) || (a == 2 && c == 1) {
		return 3, true
	}
	if a == c && a >= 3 && a < maxRank {
		return a + 1, true
	}
	return 0, false
}

// Slide moves every tile at most one step toward the given direction,
// merging where the rules allow, and returns the score gained. It returns
// IllegalReward and leaves the board unchanged if nothing can move.
func (b *Board) Slide(op int) int {
	op &= 3
	before := b.Score()
	next := *b
	moved := false
	for _, line := range slideLines[op] {
		for i := 0; i < 3; i++ {
			cur, adj := line[i], line[i+1]
			t := next.cells[cur]
			h := next.cells[adj]
			if h == 0 {
				continue
			}
			if t == 0 {
				next.cells[cur], next.cells[adj] = h, 0
				moved = true
			} else if merged, ok := canCombine(t, h); ok {
				next.cells[cur], next.cells[adj] = merged, 0
				moved = true
			}
		}
	}
	if !moved {
		return IllegalReward
	}
	next.last = op
	*b = next
	return next.Score() - before
}

// Place puts a tile on an empty cell and commits the next hint. The placed
// tile is taken from the bag unless it was the outstanding hint; the new
// hint is always taken from the bag. The bag refills when it empties.
func (b *Board) Place(pos, tile, hint int) int {
	if pos < 0 || pos > 15 || b.cells[pos] != 0 {
		return IllegalReward
	}
	if tile < 1 || tile > 3 || hint < 1 || hint > 3 {
		return IllegalReward
	}
	if tile != b.hint && b.bag[tile] == 0 {
		return IllegalReward
	}
	if tile != b.hint {
		b.bag[tile]--
	}
	if b.bag[hint] == 0 {
		return IllegalReward
	}
	b.bag[hint]--
	b.cells[pos] = tile
	b.hint = hint
	if b.bag[1]+b.bag[2]+b.bag[3] == 0 {
		b.bag = [4]int{0, bagCopies, bagCopies, bagCopies}
	}
	return 0
}

func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("+------------------------+\n")
	for r := 0; r < 4; r++ {
		sb.WriteString("|")
		for c := 0; c < 4; c++ {
			fmt.Fprintf(&sb, "%6d", TileValue(b.cells[r*4+c]))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+------------------------+")
	return sb.String()
}
