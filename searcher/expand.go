package searcher

import "fmt"

// expand turns the next untried direction at id into a child sitting at the
// following junction. The direction is marked tried even when the
// macro-action goes nowhere.
func (m *MCTS) expand(id NodeID) (NodeID, error) {
	parent := m.tree.get(id)
	move, ok := parent.untried()
	if !ok {
		return NoNode, ErrNoExpandableChild
	}
	parent.tried[move] = true

	before := parent.state
	after, arrival, ticks, alive, err := m.macro(before, move)
	if err != nil {
		return NoNode, err
	}
	if ticks == 0 || (alive && ticks == 1 && after.Position() == before.Position()) {
		return NoNode, fmt.Errorf("%s at node %d: %w", move, before.Position(), ErrNoExpandableChild)
	}

	shaping := shape(before, after, alive, m.params)
	return m.tree.addChild(id, move, arrival, after, alive, shaping, ticks), nil
}

// macro follows the corridor starting with first until it reaches a junction
// other than its start, the agent dies, no progress is made, or the step
// bound is hit.
func (m *MCTS) macro(start State, first Move) (state State, arrival Move, ticks int, alive bool, err error) {
	state = start.Clone()
	lives := state.Lives()
	move := first
	arrival = start.LastMove()
	alive = true

	for ticks < m.params.MaxMacroSteps {
		from := state.Position()
		if err := m.advance(state, move); err != nil {
			return nil, arrival, ticks, false, err
		}
		ticks++
		arrival = move

		if state.Lives() < lives {
			return state, arrival, ticks, false, nil
		}
		pos := state.Position()
		if state.Terminal() || pos == from || state.IsJunction(pos) {
			break
		}
		next, ok := corridor(state, pos, move)
		if !ok { // Dead end
			break
		}
		move = next
	}
	return state, arrival, ticks, alive, nil
}

// advance plays one tick with the adversary surrogate. A rejected agent move
// was reported legal by the adapter, so it is an inconsistency.
func (m *MCTS) advance(state State, move Move) error {
	from := state.Position()
	adversaries := m.adversary(state.Clone(), m.rng)
	if err := state.Advance(move, adversaries); err != nil {
		return fmt.Errorf("%w: %s at node %d: %w", ErrAdapterInconsistency, move, from, err)
	}
	return nil
}

// corridor keeps heading when possible, otherwise takes the first turn that
// does not reverse.
func corridor(state State, pos int, heading Move) (Move, bool) {
	if _, ok := state.Neighbour(pos, heading); ok {
		return heading, true
	}
	for _, move := range Directions {
		if move == heading.Opposite() {
			continue
		}
		if _, ok := state.Neighbour(pos, move); ok {
			return move, true
		}
	}
	return Neutral, false
}
