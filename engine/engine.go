package engine

import "pacman/experiments/metrics"

const MaxTicks = 10000

type Engine interface {
	// Run plays a game until the agent runs out of lives, the level cap is
	// reached or MaxTicks ticks have been played
	Run() (metrics.GameMetric, []metrics.MoveMetric, error)
}
