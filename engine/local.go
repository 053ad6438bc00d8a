package engine

import (
	"errors"
	"fmt"
	"pacman/agent"
	"pacman/experiments/metrics"
	"pacman/maze"
	"pacman/searcher"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *LocalEngine)

// WithMaxTicks caps the game length. Zero or less keeps MaxTicks.
func WithMaxTicks(ticks int) Option {
	return func(e *LocalEngine) {
		if ticks > 0 {
			e.maxTicks = ticks
		}
	}
}

// WithMaxLevels ends the game once this many levels have been cleared.
func WithMaxLevels(levels int) Option {
	return func(e *LocalEngine) {
		e.maxLevels = levels
	}
}

func WithSeed(seed uint64) Option {
	return func(e *LocalEngine) {
		e.seed = seed
	}
}

// WithObserver is called after every tick with the state and the decision
// that led to it.
func WithObserver(observe func(state *maze.GameState, mm metrics.MoveMetric)) Option {
	return func(e *LocalEngine) {
		e.observe = observe
	}
}

var _ Engine = (*LocalEngine)(nil)

type LocalEngine struct {
	State     *maze.GameState
	Agent     agent.Agent
	Ghosts    searcher.AdversaryPolicy
	maxTicks  int
	maxLevels int
	seed      uint64
	observe   func(*maze.GameState, metrics.MoveMetric)
}

func NewLocalEngine(state *maze.GameState, a agent.Agent, ghosts searcher.AdversaryPolicy, options ...Option) *LocalEngine {
	if state == nil || a == nil || ghosts == nil {
		panic("need a state, an agent and a ghost policy")
	}
	e := &LocalEngine{
		State:    state,
		Agent:    a,
		Ghosts:   ghosts,
		maxTicks: MaxTicks,
		seed:     uint64(time.Now().UnixNano()),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop. Agent errors are logged and the move it
// returned alongside is still played. A rules violation or an environment
// inconsistency reported by the agent stops the game.
func (e *LocalEngine) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	rng := rand.New(rand.NewSource(e.seed))
	gameMetric := metrics.GameMetric{
		Seed:      e.seed,
		Layout:    e.State.Maze().Name,
		StartTime: time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Str("layout", gameMetric.Layout).Uint64("seed", e.seed).Msg("game starting")

	for step := 1; e.State.Lives() > 0 && e.State.Tick() < e.maxTicks; step++ {
		move, mm, err := e.Agent.FindMove(e.State)
		if errors.Is(err, searcher.ErrAdapterInconsistency) {
			return gameMetric, moveMetrics, fmt.Errorf("tick %d: %w", e.State.Tick(), err)
		}
		if err != nil {
			log.Error().Err(err).Int("tick", e.State.Tick()).Str("move", move.String()).Msg("agent failed to decide")
		}
		if !searcher.IsLegal(e.State, move) && move != searcher.Neutral {
			moves := e.State.LegalMoves()
			if len(moves) == 0 {
				return gameMetric, moveMetrics, fmt.Errorf("no legal moves at node %d", e.State.Position())
			}
			log.Warn().Str("move", move.String()).Str("fallback", moves[0].String()).Msg("agent returned an illegal move")
			move = moves[0]
			mm.Move = move.String()
		}

		mm.Step = step
		mm.Tick = e.State.Tick()
		if err := e.State.Advance(move, e.Ghosts(e.State, rng)); err != nil {
			if errors.Is(err, maze.ErrGameOver) {
				break
			}
			return gameMetric, moveMetrics, err
		}
		moveMetrics = append(moveMetrics, mm)
		if e.observe != nil {
			e.observe(e.State, mm)
		}

		if e.State.Cleared() {
			gameMetric.Cleared++
			log.Info().Int("level", e.State.Level()).Int("score", e.State.Score()).Msg("level cleared")
			if e.maxLevels > 0 && gameMetric.Cleared >= e.maxLevels {
				break
			}
			e.State.NextLevel()
		}
	}

	gameMetric.Score = e.State.Score()
	gameMetric.Level = e.State.Level()
	gameMetric.Lives = e.State.Lives()
	gameMetric.Ticks = e.State.Tick()
	gameMetric.Decisions = len(moveMetrics)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)

	log.Info().
		Int("score", gameMetric.Score).
		Int("level", gameMetric.Level).
		Int("lives", gameMetric.Lives).
		Int("ticks", gameMetric.Ticks).
		Msg("game over")
	return gameMetric, moveMetrics, nil
}
