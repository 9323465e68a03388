package agent

import "tilewise/internal/game"

// GreedySlider plays the move with the highest immediate reward, no
// lookahead. Ties go to the first direction in up/right/down/left order.
type GreedySlider struct {
	options
}

func NewGreedySlider(args string) *GreedySlider {
	return &GreedySlider{options: parseOptions("name=greedy role=slider " + args)}
}

func (s *GreedySlider) TakeAction(b *game.Board) game.Action {
	best := game.IllegalReward
	bestOp := -1
	for op := game.OpUp; op <= game.OpLeft; op++ {
		trial := *b
		if reward := trial.Slide(op); reward > best {
			best = reward
			bestOp = op
		}
	}
	if bestOp < 0 {
		return game.Action{}
	}
	return game.SlideAction(bestOp)
}

// RestrictedGreedySlider is greedy over down and right only, keeping large
// tiles packed toward one corner; it falls back to the better of up and
// left when neither preferred move is legal.
type RestrictedGreedySlider struct {
	options
}

func NewRestrictedGreedySlider(args string) *RestrictedGreedySlider {
	return &RestrictedGreedySlider{options: parseOptions("name=mrgreedy role=slider " + args)}
}

func (s *RestrictedGreedySlider) TakeAction(b *game.Board) game.Action {
	best := game.IllegalReward
	bestOp := -1
	for _, op := range []int{game.OpRight, game.OpDown} {
		trial := *b
		if reward := trial.Slide(op); reward >= best && reward != game.IllegalReward {
			best = reward
			bestOp = op
		}
	}
	if bestOp >= 0 {
		return game.SlideAction(bestOp)
	}

	up := *b
	upReward := up.Slide(game.OpUp)
	left := *b
	leftReward := left.Slide(game.OpLeft)
	switch {
	case upReward == game.IllegalReward && leftReward == game.IllegalReward:
		return game.Action{}
	case upReward == game.IllegalReward:
		return game.SlideAction(game.OpLeft)
	case leftReward == game.IllegalReward:
		return game.SlideAction(game.OpUp)
	case upReward < leftReward:
		return game.SlideAction(game.OpLeft)
	default:
		return game.SlideAction(game.OpUp)
	}
}
