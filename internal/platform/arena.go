// Package platform runs episodes between a slider and a placer.
package platform

import (
	"context"
	"fmt"

	"tilewise/internal/agent"
	"tilewise/internal/game"
)

// initialPlacements is how many tiles the environment drops before the
// slider's first turn.
const initialPlacements = 9

// Result summarizes one finished episode.
type Result struct {
	Score   int
	Moves   int
	MaxRank int
}

// Arena pairs one slider with one placer. Agents are owned by the caller
// and reused across episodes; the arena itself holds no episode state.
type Arena struct {
	Slider agent.Agent
	Placer agent.Agent
}

// RunEpisode plays one full episode: initial placements, then alternating
// slide and place turns until the slider has no legal move or the placer
// cannot drop the next tile. Both agents get their open/close callbacks.
func (a *Arena) RunEpisode(ctx context.Context) (Result, error) {
	b := game.NewBoard()
	openFlag := a.Placer.Name() + ":" + a.Slider.Name()
	a.Slider.OpenEpisode(openFlag)
	a.Placer.OpenEpisode(openFlag)

	for i := 0; i < initialPlacements; i++ {
		act := a.Placer.TakeAction(&b)
		if !act.Valid() || act.Apply(&b) == game.IllegalReward {
			return Result{}, fmt.Errorf("placer failed on initial tile %d", i)
		}
	}

	res := Result{}
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		act := a.Slider.TakeAction(&b)
		if !act.Valid() {
			break
		}
		reward := act.Apply(&b)
		if reward == game.IllegalReward {
			break
		}
		res.Score += reward
		res.Moves++

		place := a.Placer.TakeAction(&b)
		if !place.Valid() || place.Apply(&b) == game.IllegalReward {
			break
		}
	}
	res.MaxRank = b.MaxRank()

	closeFlag := fmt.Sprintf("score=%d", res.Score)
	a.Slider.CloseEpisode(closeFlag)
	a.Placer.CloseEpisode(closeFlag)
	return res, nil
}

// RunEpisodes plays n episodes, invoking after (if set) with each result.
func (a *Arena) RunEpisodes(ctx context.Context, n int, after func(episode int, res Result)) error {
	for i := 0; i < n; i++ {
		res, err := a.RunEpisode(ctx)
		if err != nil {
			return fmt.Errorf("episode %d: %w", i+1, err)
		}
		if after != nil {
			after(i+1, res)
		}
	}
	return nil
}
