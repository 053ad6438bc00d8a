package searcher

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

const (
	DefaultHuntRange = 30.0 // Path distance within which edible ghosts are chased
	exploreRate      = 0.9  // Chance of turning randomly at a junction
	seekRate         = 0.05 // Chance of heading for the nearest collectible in a corridor
)

// RandomPolicy plays a uniformly random legal move.
func RandomPolicy(state State, rng *rand.Rand) Move {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return Neutral
	}
	return moves[rng.Intn(len(moves))]
}

// ExplorationPolicy hunts edible ghosts in range, turns randomly at most
// junctions, now and then heads for the nearest collectible, and otherwise
// keeps its heading.
func ExplorationPolicy(huntRange float64) AgentPolicy {
	return func(state State, rng *rand.Rand) Move {
		pos := state.Position()
		last := state.LastMove()

		if target, ok := nearestEdible(state, huntRange); ok {
			return state.MoveTowards(pos, target, Path)
		}

		if state.IsJunction(pos) {
			if rng.Float64() < exploreRate {
				return turn(state, last, rng)
			}
			return last
		}

		if rng.Float64() < seekRate {
			if target, ok := nearest(state, pos, state.Collectibles()); ok {
				return state.MoveTowards(pos, target, Path)
			}
		}
		return last
	}
}

func nearestEdible(state State, huntRange float64) (int, bool) {
	pos := state.Position()
	best, bestDistance := -1, huntRange
	for _, a := range state.Adversaries() {
		if !a.Edible || a.InLair {
			continue
		}
		if d := state.Distance(pos, a.Position, Path); d < bestDistance {
			best, bestDistance = a.Position, d
		}
	}
	return best, best >= 0
}

func nearest(state State, from int, targets []int) (int, bool) {
	best, bestDistance := -1, math.Inf(1)
	for _, target := range targets {
		if d := state.Distance(from, target, Path); d < bestDistance {
			best, bestDistance = target, d
		}
	}
	return best, best >= 0
}

// turn picks a random legal move other than going back.
func turn(state State, heading Move, rng *rand.Rand) Move {
	pos := state.Position()
	moves := make([]Move, 0, len(Directions))
	for _, move := range Directions {
		if move == heading.Opposite() {
			continue
		}
		if _, ok := state.Neighbour(pos, move); ok {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 {
		return heading.Opposite()
	}
	return moves[rng.Intn(len(moves))]
}

// AdversaryOptions lists the moves open to a ghost. Ghosts never reverse
// unless they are stuck in a dead end.
func AdversaryOptions(state State, a Adversary) []Move {
	moves := make([]Move, 0, len(Directions))
	for _, move := range Directions {
		if move == a.Heading.Opposite() {
			continue
		}
		if _, ok := state.Neighbour(a.Position, move); ok {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 {
		if _, ok := state.Neighbour(a.Position, a.Heading.Opposite()); ok {
			moves = append(moves, a.Heading.Opposite())
		}
	}
	return moves
}

// Pursue picks the ghost move that gets closest to target, or furthest from
// it when away is set.
func Pursue(state State, a Adversary, target int, metric Metric, away bool) Move {
	best := Neutral
	bestDistance := math.Inf(1)
	if away {
		bestDistance = math.Inf(-1)
	}
	for _, move := range AdversaryOptions(state, a) {
		next, _ := state.Neighbour(a.Position, move)
		d := state.Distance(next, target, metric)
		if (!away && d < bestDistance) || (away && d > bestDistance) {
			best, bestDistance = move, d
		}
	}
	return best
}

// RandomAdversaries moves every ghost randomly without reversing.
func RandomAdversaries(state State, rng *rand.Rand) []Move {
	adversaries := state.Adversaries()
	moves := make([]Move, len(adversaries))
	for i, a := range adversaries {
		moves[i] = Neutral
		if a.InLair {
			continue
		}
		if options := AdversaryOptions(state, a); len(options) > 0 {
			moves[i] = options[rng.Intn(len(options))]
		}
	}
	return moves
}

// ChaseAdversaries sends dangerous ghosts straight at the agent and makes
// edible ones run.
func ChaseAdversaries(state State, rng *rand.Rand) []Move {
	adversaries := state.Adversaries()
	moves := make([]Move, len(adversaries))
	for i, a := range adversaries {
		moves[i] = Neutral
		if a.InLair {
			continue
		}
		moves[i] = Pursue(state, a, state.Position(), Path, a.Edible)
	}
	return moves
}

// NamedAgentPolicy looks up a rollout policy by name.
func NamedAgentPolicy(name string, huntRange float64) (AgentPolicy, error) {
	switch name {
	case "random":
		return RandomPolicy, nil
	case "exploration":
		return ExplorationPolicy(huntRange), nil
	}
	return nil, fmt.Errorf("unknown agent policy %q", name)
}
