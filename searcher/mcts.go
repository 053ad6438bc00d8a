package searcher

import (
	"errors"
	"fmt"
	"time"

	"pacman/experiments/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS searches a fresh tree for every decision. It is not safe for
// concurrent use.
type MCTS struct {
	params    Params
	duration  time.Duration
	seed      uint64
	agent     AgentPolicy
	adversary AdversaryPolicy
	rng       *rand.Rand
	tree      *tree
	metrics   metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.params.Iterations = iterations
		}
	}
}

func WithParams(params Params) Option {
	return func(m *MCTS) {
		m.params = params
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithAgentPolicy(policy AgentPolicy) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.agent = policy
		}
	}
}

func WithAdversaryPolicy(policy AdversaryPolicy) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.adversary = policy
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		params:    DefaultParams(),
		duration:  DefaultDuration,
		seed:      uint64(time.Now().UnixNano()),
		agent:     ExplorationPolicy(DefaultHuntRange),
		adversary: ChaseAdversaries,
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.params.Iterations <= 0 && m.duration <= 0 {
		panic("Must specify search iterations or duration")
	}
	if m.params.CSquared < 0 {
		panic("Exploration constant cannot be negative")
	}
	m.rng = rand.New(rand.NewSource(m.seed))
	return m
}

func (m *MCTS) Params() Params { return m.params }

func (m *MCTS) Duration() time.Duration { return m.duration }

// Search decides with the configured time budget.
func (m *MCTS) Search(state State) (Move, metrics.SearchMetric, error) {
	return m.Decide(state, time.Now().Add(m.duration))
}

// Decide returns the move to play in state, searching until deadline or the
// iteration cap. It always returns a move legal in state, or Neutral when
// there is none. A non-nil error means the environment broke its contract.
func (m *MCTS) Decide(state State, deadline time.Time) (Move, metrics.SearchMetric, error) {
	m.metrics.Start(time.Until(deadline))
	fallback := m.fallback(state)

	if !time.Now().Before(deadline) {
		log.Debug().Str("move", fallback.String()).Msg("deadline already expired, playing fallback")
		m.metrics.SetFallback(true)
		return fallback, m.metrics.Complete(), nil
	}
	if state.Terminal() {
		m.metrics.SetFallback(true)
		return fallback, m.metrics.Complete(), nil
	}

	root := state.Clone()
	if shares(state, root) {
		err := fmt.Errorf("clone shares its source: %w", ErrAdapterInconsistency)
		log.Error().Err(err).Msg("aborting search")
		m.metrics.SetFallback(true)
		return fallback, m.metrics.Complete(), err
	}
	m.reset(root)
	for i := 0; (m.params.Iterations <= 0 || i < m.params.Iterations) && time.Now().Before(deadline); i++ {
		err := m.simulate()
		m.metrics.AddIteration()
		if errors.Is(err, ErrAdapterInconsistency) {
			log.Error().Err(err).Msg("aborting search")
			m.metrics.SetFallback(true)
			m.metrics.SetTree(m.tree.size(), m.tree.depth())
			return fallback, m.metrics.Complete(), err
		}
	}
	m.metrics.SetTree(m.tree.size(), m.tree.depth())

	if overrun := time.Since(deadline); overrun > 0 {
		m.metrics.SetOverrun(overrun)
		if overrun > m.params.OverrunTolerance {
			log.Warn().Err(ErrDeadlineOverrun).Dur("overrun", overrun).Msg("search finished late")
		}
	}

	move, err := m.best(state)
	if errors.Is(err, ErrAdapterInconsistency) {
		log.Error().Err(err).Msg("aborting search")
		m.metrics.SetFallback(true)
		return fallback, m.metrics.Complete(), err
	}
	if err != nil {
		log.Debug().Err(err).Str("move", fallback.String()).Msg("playing fallback")
		m.metrics.SetFallback(true)
		return fallback, m.metrics.Complete(), nil
	}
	return move, m.metrics.Complete(), nil
}

func (m *MCTS) reset(state State) {
	if m.tree == nil {
		m.tree = newTree(state)
		return
	}
	m.tree.reset(state)
}

// simulate runs one iteration. Failures other than adapter inconsistencies
// leave the tree untouched.
func (m *MCTS) simulate() error {
	leaf, expanded, err := m.selectThenExpand()
	if err != nil {
		return err
	}
	reward, err := m.rollout(leaf)
	if err != nil {
		return err
	}
	if expanded {
		reward = blend(reward, m.tree.get(leaf).shaping, m.params)
	}
	m.tree.backup(leaf, reward)
	return nil
}

// selectThenExpand descends from the root and returns the node to roll out
// from, and whether it was just created.
func (m *MCTS) selectThenExpand() (NodeID, bool, error) {
	id := m.tree.root()
	for depth := 0; depth < m.params.MaxDepth; depth++ {
		if m.tree.terminal(id) {
			return id, false, nil
		}
		if m.canExpand(id) {
			child, err := m.expand(id)
			if err == nil {
				return child, true, nil
			}
			if !errors.Is(err, ErrNoExpandableChild) {
				return NoNode, false, err
			}
		}
		next, ok := m.tree.bestChild(id, m.params.CSquared)
		if !ok {
			return id, false, nil
		}
		id = next
	}
	return id, false, nil
}

func (m *MCTS) canExpand(id NodeID) bool {
	if m.tree.size() >= m.params.MaxNodes {
		return false
	}
	if id != m.tree.root() && m.tree.get(id).ticks >= m.params.MaxTreeTicks {
		return false
	}
	return m.tree.expandable(id)
}

// best exploits the root's children, passing over moves that lose a life on
// their very first tick whenever a safer one exists.
func (m *MCTS) best(state State) (Move, error) {
	root := m.tree.get(m.tree.root())
	if len(root.children) == 0 {
		return Neutral, ErrEmptyRootChildren
	}

	deadly := map[NodeID]bool{}
	for _, c := range root.children {
		move := m.tree.get(c).move
		probe := state.Clone()
		if err := m.advance(probe, move); err != nil {
			return Neutral, err
		}
		if probe.Lives() < state.Lives() {
			deadly[c] = true
		}
	}

	child, ok := m.tree.exploit(m.tree.root(), deadly)
	if !ok {
		return Neutral, fmt.Errorf("no visited child: %w", ErrEmptyRootChildren)
	}
	n := m.tree.get(child)
	log.Debug().
		Str("move", n.move.String()).
		Int("visits", n.visits).
		Float64("mean", n.mean()).
		Int("nodes", m.tree.size()).
		Msg("search decided")
	return n.move, nil
}

// fallback is the configured default if legal, then the last move if legal,
// then the first legal move.
func (m *MCTS) fallback(state State) Move {
	if IsLegal(state, m.params.DefaultMove) {
		return m.params.DefaultMove
	}
	if IsLegal(state, state.LastMove()) {
		return state.LastMove()
	}
	if moves := state.LegalMoves(); len(moves) > 0 {
		return moves[0]
	}
	return Neutral
}
