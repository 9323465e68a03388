// Package agent defines the playing agents: baseline sliders, the random
// placer environment, and the n-tuple TD learner.
package agent

import (
	"fmt"
	"strconv"
	"strings"

	"tilewise/internal/game"
)

// Agent is one decision-making role in an episode, either a slider (player)
// or a placer (environment).
type Agent interface {
	Name() string
	Role() string
	// OpenEpisode resets per-episode state; it must run before the first
	// TakeAction of a new episode.
	OpenEpisode(flag string)
	// CloseEpisode finishes the episode; learning agents consume their
	// recorded trajectory here.
	CloseEpisode(flag string)
	// TakeAction picks the agent's move for the current board. An invalid
	// action means the agent has no move.
	TakeAction(b *game.Board) game.Action
	// Notify overrides one key=value option after construction.
	Notify(msg string)
	// Property reads one stored option.
	Property(key string) (string, bool)
}

// options holds the key=value configuration surface shared by every agent.
// Recognized keys are lifted into typed fields by the concrete agents;
// unrecognized keys are stored and readable but have no built-in effect.
type options struct {
	meta map[string]string
}

// parseOptions splits a whitespace-separated "key=value key=value" string.
// Missing name/role default to "unknown".
func parseOptions(args string) options {
	o := options{meta: map[string]string{"name": "unknown", "role": "unknown"}}
	for _, pair := range strings.Fields(args) {
		key, value, _ := strings.Cut(pair, "=")
		o.meta[key] = value
	}
	return o
}

func (o *options) Name() string {
	return o.meta["name"]
}

func (o *options) Role() string {
	return o.meta["role"]
}

func (o *options) Notify(msg string) {
	key, value, _ := strings.Cut(msg, "=")
	o.meta[key] = value
}

func (o *options) Property(key string) (string, bool) {
	value, ok := o.meta[key]
	return value, ok
}

func (o *options) OpenEpisode(string) {}

func (o *options) CloseEpisode(string) {}

func (o *options) float(key string) (float64, bool, error) {
	raw, ok := o.meta[key]
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("option %s=%q: %w", key, raw, err)
	}
	return v, true, nil
}

func (o *options) int64Value(key string) (int64, bool, error) {
	raw, ok := o.meta[key]
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("option %s=%q: %w", key, raw, err)
	}
	return v, true, nil
}

// ParseInitSpec parses a comma-separated list of table sizes, e.g.
// "16777216,16777216".
func ParseInitSpec(spec string) ([]int, error) {
	parts := strings.Split(spec, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("init size %q: %w", p, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("init size %d must be positive", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("init spec %q holds no sizes", spec)
	}
	return sizes, nil
}
