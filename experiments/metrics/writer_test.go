package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "shaping")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "shaping"), filepath.Dir(w.Dir()))

	t.Run("agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{
			{ID: 1, Kind: "mcts", Duration: 40 * time.Millisecond, CSquared: 0.5, RolloutSteps: 40, ShapingWeight: 0.2, Ghosts: "legacy"},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"1", "mcts", "40ms", "0", "0.5", "40", "0.2", "legacy", "false"}, rows[1])
	})

	t.Run("game records", func(t *testing.T) {
		err := w.WriteGameRecords([]GameRecord{
			{ID: 1, Agent: 2, GameMetric: GameMetric{Seed: 9, Layout: "classic", Score: 1200, Lives: 1, Ticks: 300, Decisions: 300}},
			{ID: 2, Agent: 2},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{"1", "2", "9", "classic", "1200", "0", "1", "300", "300", "0"}, rows[1][:10])
	})

	t.Run("move records", func(t *testing.T) {
		err := w.WriteMoveRecords([]MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Tick: 0, Move: "LEFT", Searched: true, SearchMetric: SearchMetric{Iterations: 80, Nodes: 20, Depth: 4}}},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Len(t, rows[1], len(rows[0]))
		require.Equal(t, []string{"1", "1", "0", "LEFT", "true"}, rows[1][:5])
		require.Equal(t, "80", rows[1][7])
	})
}
