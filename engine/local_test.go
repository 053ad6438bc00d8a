package engine

import (
	"errors"
	"fmt"
	"testing"

	"pacman/agent"
	"pacman/experiments/metrics"
	"pacman/maze"
	"pacman/searcher"

	"github.com/stretchr/testify/require"
)

type scripted struct {
	move searcher.Move
	err  error
}

func (a scripted) FindMove(searcher.State) (searcher.Move, metrics.MoveMetric, error) {
	return a.move, metrics.MoveMetric{Move: a.move.String()}, a.err
}

func single(t *testing.T) *maze.GameState {
	t.Helper()
	m, err := maze.Parse("single", []string{
		"####",
		"#P.#",
		"####",
	})
	require.NoError(t, err)
	return maze.NewGame(maze.DefaultRules(), m)
}

func TestLocalEngine(t *testing.T) {
	t.Run("clearing a level", func(t *testing.T) {
		e := NewLocalEngine(single(t), scripted{move: searcher.Right}, searcher.ChaseAdversaries, WithMaxLevels(1), WithSeed(1))

		game, moves, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 1, game.Cleared)
		require.Equal(t, 10, game.Score)
		require.Equal(t, 1, game.Ticks)
		require.Equal(t, 1, game.Decisions)
		require.Equal(t, "single", game.Layout)
		require.Equal(t, uint64(1), game.Seed)
		require.Len(t, moves, 1)
		require.Equal(t, 1, moves[0].Step)
		require.Equal(t, 0, moves[0].Tick)
		require.Equal(t, "RIGHT", moves[0].Move)
	})

	t.Run("moving on to the next level", func(t *testing.T) {
		e := NewLocalEngine(single(t), scripted{move: searcher.Right}, searcher.ChaseAdversaries, WithMaxLevels(3))

		game, _, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 3, game.Cleared)
		require.Equal(t, 30, game.Score)
		require.Equal(t, 2, game.Level)
		require.Equal(t, 3, game.Lives)
	})

	t.Run("replacing illegal moves", func(t *testing.T) {
		e := NewLocalEngine(single(t), scripted{move: searcher.Up}, searcher.ChaseAdversaries, WithMaxLevels(1))

		game, moves, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 1, game.Cleared)
		require.Equal(t, "RIGHT", moves[0].Move)
	})

	t.Run("playing on after agent errors", func(t *testing.T) {
		a := scripted{move: searcher.Right, err: errors.New("broken")}
		e := NewLocalEngine(single(t), a, searcher.ChaseAdversaries, WithMaxLevels(1))

		game, _, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 1, game.Cleared)
	})

	t.Run("stopping on environment inconsistencies", func(t *testing.T) {
		broken := fmt.Errorf("advance rejected Right: %w", searcher.ErrAdapterInconsistency)
		a := scripted{move: searcher.Right, err: broken}
		e := NewLocalEngine(single(t), a, searcher.ChaseAdversaries, WithMaxLevels(1))

		game, moves, err := e.Run()

		require.ErrorIs(t, err, searcher.ErrAdapterInconsistency)
		require.Empty(t, moves, "Should not play the move")
		require.Zero(t, game.Cleared)
	})

	t.Run("stopping at the tick cap", func(t *testing.T) {
		mazes, err := maze.Load("open")
		require.NoError(t, err)
		state := maze.NewGame(maze.DefaultRules(), mazes...)
		observed := 0
		e := NewLocalEngine(state, agent.NewPolicyAgent(searcher.RandomPolicy, 1), maze.LegacyGhosts,
			WithMaxTicks(50),
			WithSeed(2),
			WithObserver(func(s *maze.GameState, mm metrics.MoveMetric) {
				observed++
				require.Equal(t, mm.Tick+1, s.Tick())
			}),
		)

		game, moves, err := e.Run()

		require.NoError(t, err)
		require.LessOrEqual(t, game.Ticks, 50)
		require.Equal(t, game.Ticks, game.Decisions)
		require.Len(t, moves, game.Decisions)
		require.Equal(t, game.Decisions, observed)
		require.False(t, game.EndTime.Before(game.StartTime))
	})

	t.Run("searching agent", func(t *testing.T) {
		mazes, err := maze.Load("classic")
		require.NoError(t, err)
		state := maze.NewGame(maze.DefaultRules(), mazes...)
		mcts := searcher.NewMCTS(
			searcher.WithIterations(30),
			searcher.WithSeed(3),
			searcher.WithAdversaryPolicy(maze.LegacyGhosts),
			searcher.WithMetrics(),
		)
		e := NewLocalEngine(state, agent.NewMCTSAgent(mcts), maze.LegacyGhosts, WithMaxTicks(40), WithSeed(3))

		game, moves, err := e.Run()

		require.NoError(t, err)
		require.Positive(t, game.Score)
		require.True(t, moves[0].Searched, "No heading at the start")
		require.Positive(t, moves[0].Iterations)
	})

	t.Run("rejecting a missing agent", func(t *testing.T) {
		require.Panics(t, func() { NewLocalEngine(single(t), nil, searcher.ChaseAdversaries) })
	})
}
