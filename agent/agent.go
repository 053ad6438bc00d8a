package agent

import (
	"pacman/experiments/metrics"
	"pacman/searcher"
)

const (
	DefaultHuntRange = searcher.DefaultHuntRange // Path distance
	DefaultSafeRange = 15.0                      // Manhattan distance
)

type Agent interface {
	// FindMove returns the move to play in state and how it was decided
	FindMove(state searcher.State) (searcher.Move, metrics.MoveMetric, error)
}

type Option func(a *mctsAgent)

// WithHuntRange sets how close an edible ghost must be, by path, to be chased
// outside junctions.
func WithHuntRange(huntRange float64) Option {
	return func(a *mctsAgent) {
		a.huntRange = huntRange
	}
}

// WithSafeRange sets how close a dangerous ghost must be, by Manhattan
// distance, to be fled outside junctions.
func WithSafeRange(safeRange float64) Option {
	return func(a *mctsAgent) {
		a.safeRange = safeRange
	}
}

// WithAlwaysSearch runs the search on every tick instead of at junctions only.
func WithAlwaysSearch() Option {
	return func(a *mctsAgent) {
		a.always = true
	}
}

type mctsAgent struct {
	mcts      *searcher.MCTS
	huntRange float64
	safeRange float64
	always    bool
}

// NewMCTSAgent searches at junctions and whenever the agent has no heading to
// keep. In corridors it hunts, flees or keeps going without searching.
func NewMCTSAgent(mcts *searcher.MCTS, options ...Option) Agent {
	a := &mctsAgent{
		mcts:      mcts,
		huntRange: DefaultHuntRange,
		safeRange: DefaultSafeRange,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *mctsAgent) FindMove(state searcher.State) (searcher.Move, metrics.MoveMetric, error) {
	pos := state.Position()
	last := state.LastMove()

	if a.always || state.IsJunction(pos) || !searcher.IsLegal(state, last) {
		move, metric, err := a.mcts.Search(state)
		return move, metrics.MoveMetric{Move: move.String(), Searched: true, SearchMetric: metric}, err
	}

	move := a.corridor(state)
	return move, metrics.MoveMetric{Move: move.String()}, nil
}

func (a *mctsAgent) corridor(state searcher.State) searcher.Move {
	pos := state.Position()

	hunt, huntDistance := -1, a.huntRange
	flee, fleeDistance := -1, a.safeRange
	for _, g := range state.Adversaries() {
		if g.InLair {
			continue
		}
		if g.Edible {
			if d := state.Distance(pos, g.Position, searcher.Path); d < huntDistance {
				hunt, huntDistance = g.Position, d
			}
			continue
		}
		if d := state.Distance(pos, g.Position, searcher.Manhattan); d < fleeDistance {
			flee, fleeDistance = g.Position, d
		}
	}

	if hunt >= 0 {
		if move := state.MoveTowards(pos, hunt, searcher.Path); searcher.IsLegal(state, move) {
			return move
		}
	}
	if flee >= 0 {
		if move := state.MoveAway(pos, flee, searcher.Path); searcher.IsLegal(state, move) {
			return move
		}
	}
	return state.LastMove()
}
