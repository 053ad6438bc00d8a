package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"pacman/config"
	"pacman/engine"
	"pacman/experiments"
	"pacman/experiments/metrics"
	"pacman/maze"
	"pacman/searcher"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var (
	cfg        config.Config
	configPath string
	logLevel   string

	render      bool
	delay       time.Duration
	metricsAddr string

	experiment string
	decisions  int

	layout string
	warmup int
)

var (
	rootCmd = &cobra.Command{
		Use:           "pacman",
		Short:         "A real-time Monte Carlo tree search agent for maze chase games",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			return setupLogging(cfg.Log)
		},
	}
	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Plays one game with the configured agent",
		RunE:  runPlay,
	}
	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Runs an experiment and stores its records as CSV",
		Long: `Runs every agent variant of an experiment for the configured number of
games, or measures raw search throughput with --experiment throughput.`,
		RunE: runBench,
	}
	decideCmd = &cobra.Command{
		Use:   "decide",
		Short: "Searches a single position and prints the decision",
		RunE:  runDecide,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pacman.yaml", "YAML configuration file, ignored when missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Overrides the configured log level")

	playCmd.Flags().BoolVar(&render, "render", true, "Draw the board after every tick")
	playCmd.Flags().DurationVar(&delay, "delay", 50*time.Millisecond, "Pause between rendered ticks")
	playCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	benchCmd.Flags().StringVarP(&experiment, "experiment", "e", "baseline",
		fmt.Sprintf("One of %s or throughput", strings.Join(experiments.Names(), ", ")))
	benchCmd.Flags().IntVar(&decisions, "decisions", 200, "Decisions per layout for the throughput benchmark")

	decideCmd.Flags().StringVarP(&layout, "layout", "l", "classic", "Layout to search on")
	decideCmd.Flags().IntVar(&warmup, "warmup", 0, "Random ticks played before searching")

	rootCmd.AddCommand(playCmd, benchCmd, decideCmd)
}

func setupLogging(c config.LogConfig) error {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	state, err := experiments.NewGame(cfg)
	if err != nil {
		return err
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a, err := experiments.NewAgent(cfg, seed)
	if err != nil {
		return err
	}
	ghosts, err := maze.GhostPolicy(cfg.Game.Ghosts)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	if metricsAddr != "" {
		recorder = metrics.NewRecorder(prometheus.DefaultRegisterer)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server stopped")
			}
		}()
		log.Info().Str("addr", metricsAddr).Msg("serving metrics")
	}

	output := termenv.NewOutput(os.Stdout)
	observe := func(s *maze.GameState, mm metrics.MoveMetric) {
		if recorder != nil {
			recorder.ObserveMove(mm)
		}
		if render {
			output.ClearScreen()
			fmt.Fprint(output, maze.Render(s, output))
			time.Sleep(delay)
		}
	}

	e := engine.NewLocalEngine(state, a, ghosts,
		engine.WithSeed(seed),
		engine.WithMaxTicks(cfg.Game.MaxTicks),
		engine.WithMaxLevels(cfg.Game.MaxLevels),
		engine.WithObserver(observe),
	)
	game, moves, err := e.Run()
	if err != nil {
		return err
	}
	if recorder != nil {
		recorder.ObserveGame(game)
	}

	searched, iterations := 0, 0
	for _, mm := range moves {
		if mm.Searched {
			searched++
			iterations += mm.Iterations
		}
	}
	fmt.Fprintf(output, "score %d  level %d  ticks %d  searches %d  iterations %d\n",
		game.Score, game.Level, game.Ticks, searched, iterations)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if experiment != "throughput" {
		dir, err := experiments.Run(cfg, experiment, nil)
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	}

	results, err := experiments.RunThroughput(cfg, decisions)
	if err != nil {
		return err
	}
	fmt.Printf("%-10s %10s %12s %14s %10s %10s %12s\n", "layout", "decisions", "iterations", "iterations/s", "fallbacks", "overruns", "max overrun")
	for _, r := range results {
		fmt.Printf("%-10s %10d %12d %14.0f %10d %10d %12s\n",
			r.Layout, r.Decisions, r.Iterations, r.IterationsPerSecond(), r.Fallbacks, r.Overruns, r.MaxOverrun)
	}
	return nil
}

func runDecide(cmd *cobra.Command, args []string) error {
	c := cfg
	c.Game.Layouts = []string{layout}
	if err := c.Validate(); err != nil {
		return err
	}
	state, err := experiments.NewGame(c)
	if err != nil {
		return err
	}
	ghosts, err := maze.GhostPolicy(c.Game.Ghosts)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(c.Game.Seed))
	for i := 0; i < warmup && !state.Terminal(); i++ {
		if err := state.Advance(searcher.RandomPolicy(state, rng), ghosts(state, rng)); err != nil {
			return err
		}
	}

	mcts, err := experiments.NewMCTS(c, uint64(time.Now().UnixNano()))
	if err != nil {
		return err
	}
	move, metric, err := mcts.Search(state)

	output := termenv.NewOutput(os.Stdout)
	fmt.Fprint(output, maze.Render(state, output))
	fmt.Fprintf(output, "move %s  iterations %d  nodes %d  depth %d  duration %s  fallback %t\n",
		move, metric.Iterations, metric.Nodes, metric.Depth, metric.Duration.Round(time.Microsecond), metric.Fallback)
	return err
}
