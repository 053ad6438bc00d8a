package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"pacman/maze"
	"pacman/searcher"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const EnvPrefix = "PACMAN_"

type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Rollout    RolloutConfig    `yaml:"rollout"`
	Reward     RewardConfig     `yaml:"reward"`
	Agent      AgentConfig      `yaml:"agent"`
	Game       GameConfig       `yaml:"game"`
	Experiment ExperimentConfig `yaml:"experiment"`
	Log        LogConfig        `yaml:"log"`
}

type SearchConfig struct {
	CSquared         float64       `yaml:"c_squared"`
	Duration         time.Duration `yaml:"duration"`
	Iterations       int           `yaml:"iterations"` // 0 searches until the deadline
	MaxNodes         int           `yaml:"max_nodes"`
	MaxTreeTicks     int           `yaml:"max_tree_ticks"`
	MaxDepth         int           `yaml:"max_depth"`
	MaxMacroSteps    int           `yaml:"max_macro_steps"`
	DefaultMove      string        `yaml:"default_move"`
	OverrunTolerance time.Duration `yaml:"overrun_tolerance"`
	Seed             uint64        `yaml:"seed"` // 0 seeds from the clock
}

type RolloutConfig struct {
	Steps     int     `yaml:"steps"`
	Overshoot int     `yaml:"overshoot"`
	Policy    string  `yaml:"policy"`
	HuntRange float64 `yaml:"hunt_range"`
	Ghosts    string  `yaml:"ghosts"` // Ghost surrogate used inside the search
}

type RewardConfig struct {
	GhostFar      float64 `yaml:"ghost_far"`
	GhostNear     float64 `yaml:"ghost_near"`
	ScoreMin      float64 `yaml:"score_min"`
	ScoreMax      float64 `yaml:"score_max"`
	ScoreWeight   float64 `yaml:"score_weight"`
	ShapingWeight float64 `yaml:"shaping_weight"`
}

type AgentConfig struct {
	Kind         string  `yaml:"kind"` // "mcts", or a rollout policy name to play it directly
	HuntRange    float64 `yaml:"hunt_range"`
	SafeRange    float64 `yaml:"safe_range"`
	AlwaysSearch bool    `yaml:"always_search"`
}

type GameConfig struct {
	Layouts   []string `yaml:"layouts"`
	Ghosts    string   `yaml:"ghosts"`
	Lives     int      `yaml:"lives"`
	MaxTicks  int      `yaml:"max_ticks"`
	MaxLevels int      `yaml:"max_levels"` // 0 plays until out of lives
	Seed      uint64   `yaml:"seed"`
}

type ExperimentConfig struct {
	Games  int    `yaml:"games"`
	Output string `yaml:"output"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Default() Config {
	params := searcher.DefaultParams()
	return Config{
		Search: SearchConfig{
			CSquared:         params.CSquared,
			Duration:         searcher.DefaultDuration,
			Iterations:       params.Iterations,
			MaxNodes:         params.MaxNodes,
			MaxTreeTicks:     params.MaxTreeTicks,
			MaxDepth:         params.MaxDepth,
			MaxMacroSteps:    params.MaxMacroSteps,
			DefaultMove:      params.DefaultMove.String(),
			OverrunTolerance: params.OverrunTolerance,
		},
		Rollout: RolloutConfig{
			Steps:     params.RolloutSteps,
			Overshoot: params.RolloutOvershoot,
			Policy:    "exploration",
			HuntRange: searcher.DefaultHuntRange,
			Ghosts:    "chase",
		},
		Reward: RewardConfig{
			GhostFar:      params.GhostFar,
			GhostNear:     params.GhostNear,
			ScoreMin:      params.ScoreMin,
			ScoreMax:      params.ScoreMax,
			ScoreWeight:   params.ScoreWeight,
			ShapingWeight: params.ShapingWeight,
		},
		Agent: AgentConfig{
			Kind:      "mcts",
			HuntRange: 30,
			SafeRange: 15,
		},
		Game: GameConfig{
			Layouts:  []string{"classic", "open"},
			Ghosts:   "legacy",
			Lives:    maze.DefaultRules().Lives,
			MaxTicks: 3000,
		},
		Experiment: ExperimentConfig{
			Games:  10,
			Output: "results",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load merges defaults, the YAML file at path and PACMAN_* environment
// variables, in increasing priority. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if err := loadFile(path, &c); err != nil {
			return c, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func loadFile(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(c *Config) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = i
		}
	}
	unsigned := func(name string, dst *uint64) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			u, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = u
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	float("C_SQUARED", &c.Search.CSquared)
	duration("DURATION", &c.Search.Duration)
	integer("ITERATIONS", &c.Search.Iterations)
	integer("MAX_NODES", &c.Search.MaxNodes)
	integer("MAX_TREE_TICKS", &c.Search.MaxTreeTicks)
	str("DEFAULT_MOVE", &c.Search.DefaultMove)
	unsigned("SEED", &c.Search.Seed)

	integer("ROLLOUT_STEPS", &c.Rollout.Steps)
	str("ROLLOUT_POLICY", &c.Rollout.Policy)
	str("ROLLOUT_GHOSTS", &c.Rollout.Ghosts)

	float("SHAPING_WEIGHT", &c.Reward.ShapingWeight)
	float("SCORE_WEIGHT", &c.Reward.ScoreWeight)

	str("AGENT", &c.Agent.Kind)

	if v, ok := os.LookupEnv(EnvPrefix + "LAYOUTS"); ok {
		c.Game.Layouts = strings.Split(v, ",")
	}
	str("GHOSTS", &c.Game.Ghosts)
	integer("MAX_TICKS", &c.Game.MaxTicks)
	unsigned("GAME_SEED", &c.Game.Seed)

	integer("GAMES", &c.Experiment.Games)
	str("OUTPUT", &c.Experiment.Output)

	str("LOG_LEVEL", &c.Log.Level)
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_PRETTY"); ok {
		c.Log.Pretty = v == "true" || v == "1"
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.Search.CSquared < 0:
		return invalid("c_squared must be >= 0")
	case c.Search.Duration <= 0 && c.Search.Iterations <= 0:
		return invalid("need a search duration or an iteration cap")
	case c.Search.MaxNodes < 1:
		return invalid("max_nodes must be >= 1")
	case c.Search.MaxDepth < 1:
		return invalid("max_depth must be >= 1")
	case c.Search.MaxMacroSteps < 1:
		return invalid("max_macro_steps must be >= 1")
	case c.Rollout.Steps < 0 || c.Rollout.Overshoot < 0:
		return invalid("rollout steps and overshoot must be >= 0")
	case c.Reward.ScoreMax <= c.Reward.ScoreMin:
		return invalid("score_max must exceed score_min")
	case c.Reward.ScoreWeight < 0 || c.Reward.ScoreWeight > 1:
		return invalid("score_weight must be between 0 and 1")
	case c.Reward.ShapingWeight < 0 || c.Reward.ShapingWeight > 1:
		return invalid("shaping_weight must be between 0 and 1")
	case c.Reward.GhostNear > c.Reward.GhostFar:
		return invalid("ghost_near must not exceed ghost_far")
	case len(c.Game.Layouts) == 0:
		return invalid("need at least one layout")
	case c.Game.Lives < 1:
		return invalid("lives must be >= 1")
	case c.Experiment.Games < 1:
		return invalid("games must be >= 1")
	}
	if _, ok := searcher.ParseMove(c.Search.DefaultMove); !ok {
		return invalid("unknown default_move %q", c.Search.DefaultMove)
	}
	if _, err := searcher.NamedAgentPolicy(c.Rollout.Policy, c.Rollout.HuntRange); err != nil {
		return invalid("rollout: %v", err)
	}
	if c.Agent.Kind != "mcts" {
		if _, err := searcher.NamedAgentPolicy(c.Agent.Kind, c.Agent.HuntRange); err != nil {
			return invalid("agent: %v", err)
		}
	}
	for _, ghosts := range []string{c.Rollout.Ghosts, c.Game.Ghosts} {
		if _, err := maze.GhostPolicy(ghosts); err != nil {
			return invalid("%v", err)
		}
	}
	if _, err := maze.Load(c.Game.Layouts...); err != nil {
		return invalid("%v", err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return invalid("log level: %v", err)
	}
	return nil
}

// Params assembles the search parameters. The config must be valid.
func (c Config) Params() searcher.Params {
	move, _ := searcher.ParseMove(c.Search.DefaultMove)
	return searcher.Params{
		CSquared:         c.Search.CSquared,
		Iterations:       c.Search.Iterations,
		MaxNodes:         c.Search.MaxNodes,
		MaxTreeTicks:     c.Search.MaxTreeTicks,
		MaxDepth:         c.Search.MaxDepth,
		MaxMacroSteps:    c.Search.MaxMacroSteps,
		RolloutSteps:     c.Rollout.Steps,
		RolloutOvershoot: c.Rollout.Overshoot,
		GhostFar:         c.Reward.GhostFar,
		GhostNear:        c.Reward.GhostNear,
		ScoreMin:         c.Reward.ScoreMin,
		ScoreMax:         c.Reward.ScoreMax,
		ScoreWeight:      c.Reward.ScoreWeight,
		ShapingWeight:    c.Reward.ShapingWeight,
		DefaultMove:      move,
		OverrunTolerance: c.Search.OverrunTolerance,
	}
}

// Rules are the default game rules with the configured number of lives.
func (c Config) Rules() maze.Rules {
	rules := maze.DefaultRules()
	rules.Lives = c.Game.Lives
	return rules
}
