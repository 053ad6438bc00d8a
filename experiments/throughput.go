package experiments

import (
	"fmt"
	"pacman/config"
	"pacman/maze"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type ThroughputResult struct {
	Layout     string
	Decisions  int
	Iterations int
	Nodes      int
	Searching  time.Duration
	Fallbacks  int
	Overruns   int
	MaxOverrun time.Duration
}

// IterationsPerSecond is the search rate over all decisions.
func (r ThroughputResult) IterationsPerSecond() float64 {
	if r.Searching <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Searching.Seconds()
}

// RunThroughput searches on every tick of a game on each configured layout,
// for up to decisions ticks, and reports how fast the search ran.
func RunThroughput(c config.Config, decisions int) ([]ThroughputResult, error) {
	seed := c.Game.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	results := make([]ThroughputResult, 0, len(c.Game.Layouts))

	for _, layout := range c.Game.Layouts {
		lc := c
		lc.Game.Layouts = []string{layout}
		state, err := NewGame(lc)
		if err != nil {
			return nil, err
		}
		mcts, err := NewMCTS(lc, seed)
		if err != nil {
			return nil, err
		}
		ghosts, err := maze.GhostPolicy(lc.Game.Ghosts)
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(seed))

		result := ThroughputResult{Layout: layout}
		for result.Decisions < decisions && !state.Terminal() {
			move, metric, err := mcts.Search(state)
			if err != nil {
				return nil, fmt.Errorf("%s decision %d: %w", layout, result.Decisions+1, err)
			}
			result.Decisions++
			result.Iterations += metric.Iterations
			result.Nodes += metric.Nodes
			result.Searching += metric.Duration
			if metric.Fallback {
				result.Fallbacks++
			}
			if metric.Overrun > 0 {
				result.Overruns++
				result.MaxOverrun = max(result.MaxOverrun, metric.Overrun)
			}
			if err := state.Advance(move, ghosts(state, rng)); err != nil {
				return nil, err
			}
		}

		log.Info().
			Str("layout", layout).
			Int("decisions", result.Decisions).
			Float64("iterations_per_second", result.IterationsPerSecond()).
			Int("overruns", result.Overruns).
			Msg("throughput measured")
		results = append(results, result)
	}
	return results, nil
}
