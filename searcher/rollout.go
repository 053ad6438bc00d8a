package searcher

// rollout estimates the value of id with a bounded playout from a clone of its
// snapshot.
func (m *MCTS) rollout(id NodeID) (float64, error) {
	n := m.tree.get(id)
	if !n.alive {
		return LifeLost, nil
	}
	return m.playout(n.state.Clone())
}

// playout runs the agent policy until the step budget is spent at a junction,
// the overshoot bound is hit, a life is lost, or the board is cleared.
func (m *MCTS) playout(state State) (float64, error) {
	start := state.Clone()
	lives := state.Lives()
	missed := false

	for steps := 0; !state.Terminal(); steps++ {
		if steps >= m.params.RolloutSteps {
			if steps >= m.params.RolloutSteps+m.params.RolloutOvershoot || state.IsJunction(state.Position()) {
				break
			}
		}

		powerPills := state.PowerPills()
		move := m.steer(state, m.agent(state.Clone(), m.rng))
		if err := m.advance(state, move); err != nil {
			return 0, err
		}

		if state.Lives() < lives {
			m.metrics.AddFullPlayout()
			return LifeLost, nil
		}
		if state.PowerPills() < powerPills && meanAdversaryDistance(state) > m.params.GhostFar {
			missed = true
		}
	}

	switch {
	case state.Lives() < lives:
		m.metrics.AddFullPlayout()
		return LifeLost, nil
	case remaining(state) == 0:
		m.metrics.AddFullPlayout()
		return RewardMax, nil
	case missed:
		return RewardMin, nil
	}
	return progress(start, state, m.params), nil
}

// steer replaces a move the agent cannot make by the corridor continuation,
// the same way the game keeps the agent moving.
func (m *MCTS) steer(state State, move Move) Move {
	if IsLegal(state, move) {
		return move
	}
	pos := state.Position()
	if next, ok := corridor(state, pos, state.LastMove()); ok {
		return next
	}
	if moves := state.LegalMoves(); len(moves) > 0 {
		return moves[m.rng.Intn(len(moves))]
	}
	return Neutral
}
