package searcher

import "time"

// Hyperparameters for MCTS

const CSquared = 0.5 // Exploration constant, C = 1/sqrt(2)

// Rollout rewards
const (
	RewardMax = 1.0  // All collectibles eaten
	RewardMin = 0.0  // Power pill wasted while ghosts were far away
	LifeLost  = -1.0 // Life lost during the rollout or on the path to the node
)

// Expansion shaping rewards
const (
	ShapeDeath       = 0.0
	ShapeMissedPower = 0.0
	ShapeNearPower   = 0.5
	ShapePill        = 1.5 // Largest entry, used to normalize shaping into [0, 1]
	ShapeStagnant    = 0.2
)

const (
	DefaultDuration   = 36 * time.Millisecond
	DefaultIterations = 100_000
)

type Params struct {
	CSquared float64

	Iterations   int // Iteration cap per decision
	MaxNodes     int // Expansion stops once the tree holds this many nodes
	MaxTreeTicks int // Nodes further than this many ticks from the root are not expanded
	MaxDepth     int // Tree policy descent guard

	MaxMacroSteps    int // Tick bound of a single expansion
	RolloutSteps     int
	RolloutOvershoot int // Extra ticks allowed while looking for a junction to stop at

	GhostFar  float64 // Mean ghost path distance above which a power pill is wasted
	GhostNear float64 // Mean ghost path distance below which a power pill is well spent

	ScoreMin    float64 // Score gain normalization bounds
	ScoreMax    float64
	ScoreWeight float64 // Share of score gain in the rollout reward

	ShapingWeight float64 // Share of the expansion reward in the first backup of a node

	DefaultMove      Move // Fallback when search yields nothing, Neutral for none
	OverrunTolerance time.Duration
}

func DefaultParams() Params {
	return Params{
		CSquared:         CSquared,
		Iterations:       DefaultIterations,
		MaxNodes:         4096,
		MaxTreeTicks:     40,
		MaxDepth:         64,
		MaxMacroSteps:    200,
		RolloutSteps:     40,
		RolloutOvershoot: 40,
		GhostFar:         25,
		GhostNear:        8,
		ScoreMin:         -500,
		ScoreMax:         2000,
		ScoreWeight:      0.3,
		ShapingWeight:    0.2,
		DefaultMove:      Neutral,
		OverrunTolerance: 5 * time.Millisecond,
	}
}
