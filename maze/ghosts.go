package maze

import (
	"fmt"

	"pacman/searcher"

	"golang.org/x/exp/rand"
)

// LegacyGhosts gives each ghost its own temperament: the first chases along
// paths, the second by Manhattan distance, the third by straight line, and
// the fourth wanders. Edible ghosts run away by path distance.
func LegacyGhosts(state searcher.State, rng *rand.Rand) []searcher.Move {
	adversaries := state.Adversaries()
	moves := make([]searcher.Move, len(adversaries))
	target := state.Position()
	for i, a := range adversaries {
		moves[i] = searcher.Neutral
		if a.InLair {
			continue
		}
		if a.Edible {
			moves[i] = searcher.Pursue(state, a, target, searcher.Path, true)
			continue
		}
		switch i % 4 {
		case 0:
			moves[i] = searcher.Pursue(state, a, target, searcher.Path, false)
		case 1:
			moves[i] = searcher.Pursue(state, a, target, searcher.Manhattan, false)
		case 2:
			moves[i] = searcher.Pursue(state, a, target, searcher.Euclid, false)
		default:
			if options := searcher.AdversaryOptions(state, a); len(options) > 0 {
				moves[i] = options[rng.Intn(len(options))]
			}
		}
	}
	return moves
}

// GhostPolicy looks up a ghost controller by name.
func GhostPolicy(name string) (searcher.AdversaryPolicy, error) {
	switch name {
	case "random":
		return searcher.RandomAdversaries, nil
	case "chase":
		return searcher.ChaseAdversaries, nil
	case "legacy":
		return LegacyGhosts, nil
	}
	return nil, fmt.Errorf("unknown ghost policy %q", name)
}
