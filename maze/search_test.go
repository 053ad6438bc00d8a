package maze

import (
	"testing"
	"time"

	"pacman/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestDecide(t *testing.T) {
	mazes, err := Load(Layouts()...)
	require.NoError(t, err)

	for _, m := range mazes {
		t.Run(m.Name, func(t *testing.T) {
			s := NewGame(DefaultRules(), m)
			mcts := searcher.NewMCTS(
				searcher.WithIterations(300),
				searcher.WithSeed(7),
				searcher.WithAdversaryPolicy(LegacyGhosts),
				searcher.WithMetrics(),
			)

			move, metric, err := mcts.Decide(s, time.Now().Add(5*time.Second))

			require.NoError(t, err)
			require.True(t, searcher.IsLegal(s, move), "%s is not legal", move)
			require.Positive(t, metric.Iterations)
			require.LessOrEqual(t, metric.Iterations, 300)
			require.LessOrEqual(t, metric.Nodes, mcts.Params().MaxNodes)
			require.Equal(t, 0, s.Tick(), "Search should not touch the real state")
		})
	}
}

func TestPlayout(t *testing.T) {
	mazes, err := Load("open")
	require.NoError(t, err)
	s := NewGame(DefaultRules(), mazes...)
	mcts := searcher.NewMCTS(searcher.WithIterations(50), searcher.WithSeed(3), searcher.WithAdversaryPolicy(LegacyGhosts))
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 30 && !s.Terminal(); i++ {
		move, _, err := mcts.Decide(s, time.Now().Add(time.Second))
		require.NoError(t, err)
		require.NoError(t, s.Advance(move, LegacyGhosts(s, rng)))
	}
}
