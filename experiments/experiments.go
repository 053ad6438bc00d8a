package experiments

import (
	"fmt"
	"pacman/config"
	"pacman/engine"
	"pacman/experiments/metrics"
	"pacman/maze"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Experiments lists the agent variants compared by each experiment. Zero
// fields keep the base configuration.
var Experiments = map[string][]metrics.AgentConfig{
	"baseline": {
		{ID: 1, Kind: "random"},
		{ID: 2, Kind: "exploration"},
		{ID: 3, Kind: "mcts"},
		{ID: 4, Kind: "mcts", AlwaysSearch: true},
	},
	"budget": {
		{ID: 1, Kind: "mcts", Duration: 10 * time.Millisecond},
		{ID: 2, Kind: "mcts", Duration: 20 * time.Millisecond},
		{ID: 3, Kind: "mcts", Duration: 40 * time.Millisecond},
		{ID: 4, Kind: "mcts", Duration: 80 * time.Millisecond},
	},
	"exploration": {
		{ID: 1, Kind: "mcts", CSquared: 0.1},
		{ID: 2, Kind: "mcts", CSquared: 0.5},
		{ID: 3, Kind: "mcts", CSquared: 2},
	},
	"rollout": {
		{ID: 1, Kind: "mcts", RolloutSteps: 10},
		{ID: 2, Kind: "mcts", RolloutSteps: 40},
		{ID: 3, Kind: "mcts", RolloutSteps: 120},
	},
	"ghosts": {
		{ID: 1, Kind: "mcts", Ghosts: "random"},
		{ID: 2, Kind: "mcts", Ghosts: "chase"},
		{ID: 3, Kind: "mcts", Ghosts: "legacy"},
	},
}

func Names() []string {
	names := make([]string, 0, len(Experiments))
	for name := range Experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply overrides base with the non-zero fields of ac.
func Apply(base config.Config, ac metrics.AgentConfig) config.Config {
	c := base
	if ac.Kind != "" {
		c.Agent.Kind = ac.Kind
	}
	if ac.Duration > 0 {
		c.Search.Duration = ac.Duration
	}
	if ac.Iterations > 0 {
		c.Search.Iterations = ac.Iterations
	}
	if ac.CSquared > 0 {
		c.Search.CSquared = ac.CSquared
	}
	if ac.RolloutSteps > 0 {
		c.Rollout.Steps = ac.RolloutSteps
	}
	if ac.ShapingWeight > 0 {
		c.Reward.ShapingWeight = ac.ShapingWeight
	}
	if ac.Ghosts != "" {
		c.Rollout.Ghosts = ac.Ghosts
	}
	if ac.AlwaysSearch {
		c.Agent.AlwaysSearch = true
	}
	return c
}

// describe fills the zero fields of ac from the configuration it runs with.
func describe(c config.Config, ac metrics.AgentConfig) metrics.AgentConfig {
	ac.Kind = c.Agent.Kind
	ac.Duration = c.Search.Duration
	ac.Iterations = c.Search.Iterations
	ac.CSquared = c.Search.CSquared
	ac.RolloutSteps = c.Rollout.Steps
	ac.ShapingWeight = c.Reward.ShapingWeight
	ac.Ghosts = c.Rollout.Ghosts
	ac.AlwaysSearch = c.Agent.AlwaysSearch
	return ac
}

// Run plays c.Experiment.Games games per variant of the named experiment and
// writes the records under c.Experiment.Output. It returns the directory
// written to.
func Run(c config.Config, name string, recorder *metrics.Recorder) (string, error) {
	variants, ok := Experiments[name]
	if !ok {
		return "", fmt.Errorf("unknown experiment %q", name)
	}
	return runExperiment(c, name, variants, recorder)
}

func runExperiment(base config.Config, name string, variants []metrics.AgentConfig, recorder *metrics.Recorder) (string, error) {
	count := 0
	configs := make([]metrics.AgentConfig, 0, len(variants))
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	seed := base.Game.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	log.Info().Str("experiment", name).Int("variants", len(variants)).Int("games", base.Experiment.Games).Msg("starting experiment")

	for vi, variant := range variants {
		c := Apply(base, variant)
		if err := c.Validate(); err != nil {
			return "", fmt.Errorf("variant %d: %w", variant.ID, err)
		}
		configs = append(configs, describe(c, variant))

		log.Info().Msgf("starting variant %d of %d: %+v", vi+1, len(variants), configs[vi])

		for i := 0; i < base.Experiment.Games; i++ {
			gameSeed := seed + uint64(i)
			gameMetric, moveMetrics, err := runGame(c, gameSeed, recorder)
			if err != nil {
				return "", fmt.Errorf("variant %d game %d: %w", variant.ID, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      variant.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed variant %d game %d of %d with score %d", vi+1, i+1, base.Experiment.Games, gameMetric.Score)
		}
	}

	log.Info().Str("experiment", name).Msg("completed experiment")

	writer, err := metrics.NewWriter(base.Experiment.Output, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return writer.Dir(), nil
}

// runGame plays one game with the given seed for both the engine's ghosts and
// the agent.
func runGame(c config.Config, seed uint64, recorder *metrics.Recorder) (metrics.GameMetric, []metrics.MoveMetric, error) {
	state, err := NewGame(c)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	a, err := NewAgent(c, seed)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	ghosts, err := maze.GhostPolicy(c.Game.Ghosts)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}

	options := []engine.Option{
		engine.WithSeed(seed),
		engine.WithMaxTicks(c.Game.MaxTicks),
		engine.WithMaxLevels(c.Game.MaxLevels),
	}
	if recorder != nil {
		options = append(options, engine.WithObserver(func(_ *maze.GameState, mm metrics.MoveMetric) {
			recorder.ObserveMove(mm)
		}))
	}

	gameMetric, moveMetrics, err := engine.NewLocalEngine(state, a, ghosts, options...).Run()
	if err != nil {
		return gameMetric, moveMetrics, err
	}
	if recorder != nil {
		recorder.ObserveGame(gameMetric)
	}
	return gameMetric, moveMetrics, nil
}
