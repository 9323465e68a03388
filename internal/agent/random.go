package agent

import (
	"math/rand"
	"time"

	"tilewise/internal/game"
)

// newRNG builds the per-agent generator. A seed= option makes episodes
// reproducible; without one the generator is time-seeded.
func newRNG(o *options) (*rand.Rand, error) {
	seed, ok, err := o.int64Value("seed")
	if err != nil {
		return nil, err
	}
	if !ok {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), nil
}

// RandomSlider plays a legal slide chosen uniformly at random.
type RandomSlider struct {
	options
	rng *rand.Rand
}

func NewRandomSlider(args string) (*RandomSlider, error) {
	s := &RandomSlider{options: parseOptions("name=slide role=slider " + args)}
	rng, err := newRNG(&s.options)
	if err != nil {
		return nil, err
	}
	s.rng = rng
	return s, nil
}

func (s *RandomSlider) TakeAction(b *game.Board) game.Action {
	ops := []int{game.OpUp, game.OpRight, game.OpDown, game.OpLeft}
	s.rng.Shuffle(len(ops), func(i, j int) { ops[i], ops[j] = ops[j], ops[i] })
	for _, op := range ops {
		trial := *b
		if trial.Slide(op) != game.IllegalReward {
			return game.SlideAction(op)
		}
	}
	return game.Action{}
}

// placerSpaces[last] lists the cells a new tile may occupy after a slide in
// direction last; before any slide every cell is open.
var placerSpaces = [5][]int{
	game.OpUp:    {12, 13, 14, 15},
	game.OpRight: {0, 4, 8, 12},
	game.OpDown:  {0, 1, 2, 3},
	game.OpLeft:  {3, 7, 11, 15},
	game.NoSlideYet: {
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	},
}

// RandomPlacer is the environment: it drops the committed hint tile (or a
// bag draw before the first hint exists) on a random open cell of the legal
// edge and commits the next hint from the bag.
type RandomPlacer struct {
	options
	rng *rand.Rand
}

func NewRandomPlacer(args string) (*RandomPlacer, error) {
	p := &RandomPlacer{options: parseOptions("name=place role=placer " + args)}
	rng, err := newRNG(&p.options)
	if err != nil {
		return nil, err
	}
	p.rng = rng
	return p, nil
}

func (p *RandomPlacer) TakeAction(b *game.Board) game.Action {
	space := append([]int(nil), placerSpaces[b.Last()]...)
	p.rng.Shuffle(len(space), func(i, j int) { space[i], space[j] = space[j], space[i] })
	for _, pos := range space {
		if b.Cell(pos) != 0 {
			continue
		}

		bag := make([]int, 0, 12)
		for rank := 1; rank <= 3; rank++ {
			for i := 0; i < b.BagCount(rank); i++ {
				bag = append(bag, rank)
			}
		}
		p.rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })

		// The board refills its bag before it can run dry, so the pool
		// always covers the draws below.
		tile := b.Hint()
		if tile == 0 {
			tile, bag = bag[len(bag)-1], bag[:len(bag)-1]
		}
		if len(bag) == 0 {
			return game.Action{}
		}
		hint := bag[len(bag)-1]

		return game.PlaceAction(pos, tile, hint)
	}
	return game.Action{}
}
