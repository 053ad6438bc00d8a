package agent

import (
	"pacman/experiments/metrics"
	"pacman/searcher"

	"golang.org/x/exp/rand"
)

type policyAgent struct {
	policy searcher.AgentPolicy
	rng    *rand.Rand
}

// NewPolicyAgent plays a rollout policy directly, without searching. It is
// the baseline the search agent is measured against.
func NewPolicyAgent(policy searcher.AgentPolicy, seed uint64) Agent {
	return &policyAgent{
		policy: policy,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (a *policyAgent) FindMove(state searcher.State) (searcher.Move, metrics.MoveMetric, error) {
	move := a.policy(state, a.rng)
	if !searcher.IsLegal(state, move) {
		move = searcher.RandomPolicy(state, a.rng)
	}
	return move, metrics.MoveMetric{Move: move.String()}, nil
}
