package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig identifies one agent setup within an experiment.
type AgentConfig struct {
	ID            int
	Kind          string // "mcts", or the name of a rollout policy played directly
	Duration      time.Duration
	Iterations    int
	CSquared      float64
	RolloutSteps  int
	ShapingWeight float64
	Ghosts        string
	AlwaysSearch  bool
}

type GameRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> to hold the experiment's files.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "duration", "iterations", "c_squared", "rollout_steps", "shaping_weight", "ghosts", "always_search"}
	rows := make([][]string, len(configs))
	for i, config := range configs {
		rows[i] = []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Duration.String(),
			strconv.Itoa(config.Iterations),
			strconv.FormatFloat(config.CSquared, 'g', -1, 64),
			strconv.Itoa(config.RolloutSteps),
			strconv.FormatFloat(config.ShapingWeight, 'g', -1, 64),
			config.Ghosts,
			strconv.FormatBool(config.AlwaysSearch),
		}
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent", "seed", "layout", "score", "level", "lives", "ticks", "decisions", "cleared", "start_time", "end_time", "duration"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			strconv.FormatUint(record.Seed, 10),
			record.Layout,
			strconv.Itoa(record.Score),
			strconv.Itoa(record.Level),
			strconv.Itoa(record.Lives),
			strconv.Itoa(record.Ticks),
			strconv.Itoa(record.Decisions),
			strconv.Itoa(record.Cleared),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "tick", "move", "searched", "budget", "duration", "iterations", "full_playouts", "nodes", "depth", "overrun", "fallback"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Tick),
			record.Move,
			strconv.FormatBool(record.Searched),
			record.Budget.String(),
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Depth),
			record.Overrun.String(),
			strconv.FormatBool(record.Fallback),
		}
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}
