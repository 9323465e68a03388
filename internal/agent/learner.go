package agent

import (
	"fmt"

	"tilewise/internal/game"
	"tilewise/internal/ntuple"
)

// DefaultTuples are the base features: four overlapping 6-tuples of rows
// and 2x3 blocks; symmetry expansion covers the rest of the board.
var DefaultTuples = [][]int{
	{0, 1, 2, 3, 4, 5},
	{4, 5, 6, 7, 8, 9},
	{5, 6, 7, 9, 10, 11},
	{9, 10, 11, 13, 14, 15},
}

// step is one trajectory entry: the board before the chosen move and the
// move's reward.
type step struct {
	board  game.Board
	reward int
}

// Learner is the n-tuple network slider. It evaluates afterstates with one
// weight table per base feature shared across that feature's symmetry
// orbit, and trains the tables with a backward TD pass at episode end.
type Learner struct {
	options

	alpha  float64
	orbits []ntuple.Orbit
	tables []ntuple.Table

	// activeFeatures is the number of table slots touched per evaluation,
	// fixed at construction; the learning rate is spread across them.
	activeFeatures int

	trajectory []step
	savePath   string
}

// NewLearner builds the agent from key=value options: alpha= learning
// rate, init= comma-separated table sizes, load=/save= weight file paths.
// Tuple definitions override DefaultTuples via tuples (nil keeps the
// defaults). A load path replaces init entirely; failing to read it is
// unrecoverable, since the learned policy lives in that file.
func NewLearner(args string, tuples [][]int) (*Learner, error) {
	l := &Learner{options: parseOptions("name=ntuple role=slider " + args)}

	if tuples == nil {
		tuples = DefaultTuples
	}
	l.orbits = make([]ntuple.Orbit, 0, len(tuples))
	for _, cells := range tuples {
		orbit := ntuple.NewOrbit(ntuple.NewFeature(cells))
		l.orbits = append(l.orbits, orbit)
		l.activeFeatures += orbit.Size()
	}

	alpha, ok, err := l.float("alpha")
	if err != nil {
		return nil, err
	}
	if ok {
		l.alpha = alpha
	}

	if spec, ok := l.meta["init"]; ok {
		sizes, err := ParseInitSpec(spec)
		if err != nil {
			return nil, err
		}
		l.tables = make([]ntuple.Table, 0, len(sizes))
		for _, size := range sizes {
			l.tables = append(l.tables, ntuple.NewTable(size))
		}
	}
	if path, ok := l.meta["load"]; ok {
		tables, err := ntuple.LoadTables(path)
		if err != nil {
			return nil, err
		}
		l.tables = tables
	}
	if l.tables == nil {
		l.tables = make([]ntuple.Table, 0, len(l.orbits))
		for _, cells := range tuples {
			l.tables = append(l.tables, ntuple.NewTable(ntuple.NewFeature(cells).TableSize()))
		}
	}
	if len(l.tables) != len(l.orbits) {
		return nil, fmt.Errorf("have %d weight tables for %d base features", len(l.tables), len(l.orbits))
	}

	if path, ok := l.meta["save"]; ok {
		l.savePath = path
	}
	return l, nil
}

// Close persists the weight tables if a save path is configured. Call it
// once when the agent is retired.
func (l *Learner) Close() error {
	if l.savePath == "" {
		return nil
	}
	return ntuple.SaveTables(l.savePath, l.tables)
}

// Value is the network's estimate for a board: the sum over every base
// feature's table of the entries addressed by each orbit member.
func (l *Learner) Value(b ntuple.BoardView) float64 {
	sum := 0.0
	for i, orbit := range l.orbits {
		for _, f := range orbit.Members() {
			sum += float64(l.tables[i][f.Index(b)])
		}
	}
	return sum
}

// TakeAction picks the slide maximizing value(afterstate) + reward over the
// legal moves, first-enumerated direction winning exact ties. Exactly one
// trajectory entry is recorded per call; a board with no legal slide
// records a zero-reward terminal entry and returns the no-op action.
func (l *Learner) TakeAction(b *game.Board) game.Action {
	best := 0.0
	bestOp := -1
	bestReward := 0
	for op := game.OpUp; op <= game.OpLeft; op++ {
		after := *b
		reward := after.Slide(op)
		if reward == game.IllegalReward {
			continue
		}
		estimate := l.Value(after) + float64(reward)
		if bestOp < 0 || estimate > best {
			best = estimate
			bestOp = op
			bestReward = reward
		}
	}

	if bestOp < 0 {
		l.trajectory = append(l.trajectory, step{board: *b})
		return game.Action{}
	}
	l.trajectory = append(l.trajectory, step{board: *b, reward: bestReward})
	return game.SlideAction(bestOp)
}

// updateWeight nudges the state's value toward target, spreading the step
// across every touched slot. Entries are adjusted in place as the orbit is
// walked; orbit members collapsing to the same raw index apply the step
// once each.
func (l *Learner) updateWeight(target float64, b game.Board) {
	delta := l.alpha / float64(l.activeFeatures) * (target - l.Value(b))
	for i, orbit := range l.orbits {
		for _, f := range orbit.Members() {
			l.tables[i][f.Index(b)] += float32(delta)
		}
	}
}

// OpenEpisode discards any leftover trajectory.
func (l *Learner) OpenEpisode(string) {
	l.trajectory = l.trajectory[:0]
}

// CloseEpisode runs the backward TD pass: the terminal state is pulled
// toward zero, then each earlier state toward its reward plus the
// just-updated value of its successor. The trajectory is empty on return.
func (l *Learner) CloseEpisode(string) {
	if len(l.trajectory) == 0 {
		return
	}

	last := len(l.trajectory) - 1
	prev := l.trajectory[last].board
	l.trajectory = l.trajectory[:last]
	l.updateWeight(0, prev)

	for len(l.trajectory) > 0 {
		last = len(l.trajectory) - 1
		cur := l.trajectory[last]
		l.trajectory = l.trajectory[:last]

		target := float64(cur.reward) + l.Value(prev)
		l.updateWeight(target, cur.board)
		prev = cur.board
	}
}

// Tables exposes the weight tables for persistence bookkeeping.
func (l *Learner) Tables() []ntuple.Table {
	return l.tables
}

// ActiveFeatures is the total orbit size across base features.
func (l *Learner) ActiveFeatures() int {
	return l.activeFeatures
}
