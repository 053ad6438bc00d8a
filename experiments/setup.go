package experiments

import (
	"fmt"
	"pacman/agent"
	"pacman/config"
	"pacman/maze"
	"pacman/searcher"
)

// NewMCTS builds a searcher from c. Search metrics are always collected.
func NewMCTS(c config.Config, seed uint64) (*searcher.MCTS, error) {
	policy, err := searcher.NamedAgentPolicy(c.Rollout.Policy, c.Rollout.HuntRange)
	if err != nil {
		return nil, err
	}
	ghosts, err := maze.GhostPolicy(c.Rollout.Ghosts)
	if err != nil {
		return nil, err
	}
	if c.Search.Seed != 0 {
		seed = c.Search.Seed
	}
	return searcher.NewMCTS(
		searcher.WithParams(c.Params()),
		searcher.WithDuration(c.Search.Duration),
		searcher.WithSeed(seed),
		searcher.WithAgentPolicy(policy),
		searcher.WithAdversaryPolicy(ghosts),
		searcher.WithMetrics(),
	), nil
}

// NewAgent builds the agent c asks for: the search agent, or a rollout
// policy played directly.
func NewAgent(c config.Config, seed uint64) (agent.Agent, error) {
	if c.Agent.Kind != "mcts" {
		policy, err := searcher.NamedAgentPolicy(c.Agent.Kind, c.Agent.HuntRange)
		if err != nil {
			return nil, err
		}
		return agent.NewPolicyAgent(policy, seed), nil
	}

	mcts, err := NewMCTS(c, seed)
	if err != nil {
		return nil, err
	}
	options := []agent.Option{
		agent.WithHuntRange(c.Agent.HuntRange),
		agent.WithSafeRange(c.Agent.SafeRange),
	}
	if c.Agent.AlwaysSearch {
		options = append(options, agent.WithAlwaysSearch())
	}
	return agent.NewMCTSAgent(mcts, options...), nil
}

func NewGame(c config.Config) (*maze.GameState, error) {
	mazes, err := maze.Load(c.Game.Layouts...)
	if err != nil {
		return nil, fmt.Errorf("load layouts: %w", err)
	}
	return maze.NewGame(c.Rules(), mazes...), nil
}
