package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(CSquared, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(CSquared, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + math.Sqrt(CSquared*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q/n + sqrt(c^2*ln(N)/n)")
	})

	t.Run("zero exploration constant gives the mean", func(t *testing.T) {
		policy := newUCT(0, 100)

		require.InDelta(t, 0.5, policy.evaluate(5.0, 10), 1e-12,
			"Should reduce to the mean reward")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		score1 := policy.evaluate(5, 10)
		score2 := policy.evaluate(10, 20)

		require.Greater(t, score1, score2,
			"Same mean with more child visits should score lower")
	})
}

func TestBestChild(t *testing.T) {
	build := func() (*tree, []NodeID) {
		state := crossroads()
		tr := newTree(state)
		ids := []NodeID{}
		for _, move := range Directions {
			ids = append(ids, tr.addChild(tr.root(), move, move, state.Clone(), true, ShapeStagnant, 2))
		}
		return tr, ids
	}

	t.Run("selecting the child with max UCT value", func(t *testing.T) {
		tr, ids := build()
		tr.backup(ids[0], 0.1)
		tr.backup(ids[1], 0.9)
		tr.backup(ids[2], 0.2)
		tr.backup(ids[3], 0.3)

		got, ok := tr.bestChild(tr.root(), CSquared)

		require.True(t, ok, "Should find a selectable child")
		require.Equal(t, ids[1], got, "Should select the child with the highest mean at equal visits")
	})

	t.Run("selecting unvisited child first", func(t *testing.T) {
		tr, ids := build()
		tr.backup(ids[0], 1)
		tr.backup(ids[1], 1)
		tr.backup(ids[3], 1)

		got, _ := tr.bestChild(tr.root(), CSquared)

		require.Equal(t, ids[2], got, "Should select the unvisited child")
	})

	t.Run("skipping dead children", func(t *testing.T) {
		tr, ids := build()
		for _, id := range ids {
			tr.backup(id, 0.5)
		}
		tr.get(ids[0]).alive = false
		tr.get(ids[0]).rewards = 100

		got, _ := tr.bestChild(tr.root(), CSquared)

		require.NotEqual(t, ids[0], got, "Should never select a dead child")
	})

	t.Run("no selectable child", func(t *testing.T) {
		tr, ids := build()
		for _, id := range ids {
			tr.get(id).alive = false
		}

		_, ok := tr.bestChild(tr.root(), CSquared)
		require.False(t, ok, "Should report no selectable child when all are dead")

		leaf := newTree(crossroads())
		_, ok = leaf.bestChild(leaf.root(), CSquared)
		require.False(t, ok, "Should report no selectable child without children")
	})
}

func TestExploit(t *testing.T) {
	t.Run("ignoring exploration bonus", func(t *testing.T) {
		state := crossroads()
		tr := newTree(state)
		rare := tr.addChild(tr.root(), Up, Up, state.Clone(), true, 0, 2)
		common := tr.addChild(tr.root(), Down, Down, state.Clone(), true, 0, 2)
		tr.backup(rare, 0.4)
		for i := 0; i < 20; i++ {
			tr.backup(common, 0.5)
		}

		got, ok := tr.exploit(tr.root(), nil)

		require.True(t, ok)
		require.Equal(t, common, got, "Should pick the highest mean reward")
	})

	t.Run("falling back to excluded children", func(t *testing.T) {
		state := crossroads()
		tr := newTree(state)
		only := tr.addChild(tr.root(), Up, Up, state.Clone(), true, 0, 2)
		tr.backup(only, 0.4)

		got, ok := tr.exploit(tr.root(), map[NodeID]bool{only: true})

		require.True(t, ok)
		require.Equal(t, only, got, "Should still pick an excluded child when nothing else is left")
	})
}
