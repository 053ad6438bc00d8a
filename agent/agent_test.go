package agent

import (
	"testing"

	"pacman/maze"
	"pacman/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newGame(t *testing.T, rows ...string) *maze.GameState {
	t.Helper()
	m, err := maze.Parse("test", rows)
	require.NoError(t, err)
	return maze.NewGame(maze.DefaultRules(), m)
}

func newAgent(options ...Option) Agent {
	mcts := searcher.NewMCTS(
		searcher.WithIterations(50),
		searcher.WithSeed(1),
		searcher.WithAdversaryPolicy(maze.LegacyGhosts),
	)
	return NewMCTSAgent(mcts, options...)
}

func TestMCTSAgent(t *testing.T) {
	t.Run("searching at junctions", func(t *testing.T) {
		s := newGame(t,
			"#######",
			"###.###",
			"#..P..#",
			"###.###",
			"#######",
		)

		move, metric, err := newAgent().FindMove(s)

		require.NoError(t, err)
		require.True(t, metric.Searched)
		require.True(t, searcher.IsLegal(s, move))
		require.Equal(t, move.String(), metric.Move)
	})

	t.Run("searching without a heading", func(t *testing.T) {
		s := newGame(t,
			"#########",
			"#P......#",
			"#.#####.#",
			"#.......#",
			"#########",
		)

		_, metric, err := newAgent().FindMove(s)

		require.NoError(t, err)
		require.True(t, metric.Searched)
	})

	t.Run("keeping the heading in corridors", func(t *testing.T) {
		s := newGame(t,
			"#########",
			"#P......#",
			"#.#####.#",
			"#.......#",
			"#########",
		)
		require.NoError(t, s.Advance(searcher.Right, nil))

		move, metric, err := newAgent().FindMove(s)

		require.NoError(t, err)
		require.False(t, metric.Searched)
		require.Equal(t, searcher.Right, move)
	})

	t.Run("searching everywhere when asked", func(t *testing.T) {
		s := newGame(t,
			"#########",
			"#P......#",
			"#.#####.#",
			"#.......#",
			"#########",
		)
		require.NoError(t, s.Advance(searcher.Right, nil))

		_, metric, err := newAgent(WithAlwaysSearch()).FindMove(s)

		require.NoError(t, err)
		require.True(t, metric.Searched)
	})

	t.Run("fleeing a ghost", func(t *testing.T) {
		s := newGame(t,
			"#########",
			"#P.....G#",
			"#.#####.#",
			"#.......#",
			"#########",
		)
		require.NoError(t, s.Advance(searcher.Right, []searcher.Move{searcher.Down}))

		move, metric, err := newAgent().FindMove(s)

		require.NoError(t, err)
		require.False(t, metric.Searched)
		require.Equal(t, searcher.Left, move)
	})

	t.Run("ignoring ghosts out of range", func(t *testing.T) {
		s := newGame(t,
			"#########",
			"#P.....G#",
			"#.#####.#",
			"#.......#",
			"#########",
		)
		require.NoError(t, s.Advance(searcher.Right, []searcher.Move{searcher.Down}))

		move, _, err := newAgent(WithSafeRange(3)).FindMove(s)

		require.NoError(t, err)
		require.Equal(t, searcher.Right, move)
	})

	t.Run("hunting an edible ghost", func(t *testing.T) {
		s := newGame(t,
			"#########",
			"#P..o..G#",
			"#.#####.#",
			"#.......#",
			"#########",
		)
		for _, ghost := range []searcher.Move{searcher.Down, searcher.Down, searcher.Left} {
			require.NoError(t, s.Advance(searcher.Right, []searcher.Move{ghost}))
		}
		for i := 0; i < 6; i++ {
			require.NoError(t, s.Advance(searcher.Neutral, []searcher.Move{searcher.Left}))
		}
		require.True(t, s.Adversaries()[0].Edible)
		require.Equal(t, s.Maze().Node(3, 3), s.Adversaries()[0].Position)

		move, metric, err := newAgent().FindMove(s)

		require.NoError(t, err)
		require.False(t, metric.Searched)
		require.Equal(t, searcher.Left, move, "The ghost is closer going back")
	})
}

func TestPolicyAgent(t *testing.T) {
	s := newGame(t,
		"#########",
		"#P......#",
		"#.#####.#",
		"#.......#",
		"#########",
	)

	t.Run("playing the policy", func(t *testing.T) {
		a := NewPolicyAgent(searcher.RandomPolicy, 1)

		for i := 0; i < 10; i++ {
			move, metric, err := a.FindMove(s)
			require.NoError(t, err)
			require.False(t, metric.Searched)
			require.Contains(t, []searcher.Move{searcher.Right, searcher.Down}, move)
		}
	})

	t.Run("replacing illegal moves", func(t *testing.T) {
		up := func(searcher.State, *rand.Rand) searcher.Move { return searcher.Up }
		a := NewPolicyAgent(up, 1)

		move, _, err := a.FindMove(s)

		require.NoError(t, err)
		require.True(t, searcher.IsLegal(s, move))
	})
}
