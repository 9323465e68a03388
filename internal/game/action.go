package game

import "fmt"

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSlide
	ActionPlace
)

// Action is one turn's move: a slider's slide or a placer's tile placement.
// The zero value is the no-op action returned when an agent has no move.
type Action struct {
	Kind ActionKind
	Op   int
	Pos  int
	Tile int
	Hint int
}

func SlideAction(op int) Action {
	return Action{Kind: ActionSlide, Op: op & 3}
}

func PlaceAction(pos, tile, hint int) Action {
	return Action{Kind: ActionPlace, Pos: pos, Tile: tile, Hint: hint}
}

func (a Action) Valid() bool {
	return a.Kind != ActionNone
}

// Apply mutates the board and returns the reward, or IllegalReward if the
// action cannot be applied.
func (a Action) Apply(b *Board) int {
	switch a.Kind {
	case ActionSlide:
		return b.Slide(a.Op)
	case ActionPlace:
		return b.Place(a.Pos, a.Tile, a.Hint)
	default:
		return IllegalReward
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSlide:
		return fmt.Sprintf("slide(%s)", []string{"up", "right", "down", "left"}[a.Op&3])
	case ActionPlace:
		return fmt.Sprintf("place(%d, %d, %d)", a.Pos, a.Tile, a.Hint)
	default:
		return "none"
	}
}
