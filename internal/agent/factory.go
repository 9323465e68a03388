package agent

import "fmt"

// NewSlider builds a slider agent by kind. The learner is constructed with
// its default tuples.
func NewSlider(kind, args string) (Agent, error) {
	switch kind {
	case "", "ntuple":
		return NewLearner(args, nil)
	case "random":
		return NewRandomSlider(args)
	case "greedy":
		return NewGreedySlider(args), nil
	case "mrgreedy":
		return NewRestrictedGreedySlider(args), nil
	default:
		return nil, fmt.Errorf("unsupported slider kind: %s", kind)
	}
}
