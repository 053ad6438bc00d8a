package searcher

import (
	"reflect"

	"golang.org/x/exp/rand"
)

type Move int8

const (
	Up Move = iota
	Right
	Down
	Left
	Neutral
)

// Directions lists the cardinal moves in expansion priority order
var Directions = [4]Move{Up, Right, Down, Left}

func (m Move) Opposite() Move {
	switch m {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return Neutral
}

func (m Move) String() string {
	switch m {
	case Up:
		return "UP"
	case Right:
		return "RIGHT"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	}
	return "NEUTRAL"
}

// ParseMove is the inverse of Move.String, case-sensitive.
func ParseMove(s string) (Move, bool) {
	for _, m := range []Move{Up, Right, Down, Left, Neutral} {
		if m.String() == s {
			return m, true
		}
	}
	return Neutral, false
}

type Metric int

const (
	Path Metric = iota
	Euclid
	Manhattan
)

type Adversary struct {
	Position int
	Heading  Move
	Edible   bool
	InLair   bool
}

// State is a cloneable snapshot of the world seen from the agent.
// Advance mutates the receiver, so callers clone before simulating.
type State interface {
	Clone() State

	Position() int
	LastMove() Move
	LegalMoves() []Move
	Neighbour(pos int, move Move) (int, bool)
	IsJunction(pos int) bool

	// Advance plays one tick. It fails when the agent move is not legal.
	Advance(agent Move, adversaries []Move) error
	Terminal() bool

	Score() int
	Lives() int
	Pills() int
	PowerPills() int
	Level() int

	Distance(a, b int, metric Metric) float64
	Adversaries() []Adversary
	Collectibles() []int
	MoveTowards(from, to int, metric Metric) Move
	MoveAway(from, to int, metric Metric) Move
}

// Policies always receive a fresh clone, never a snapshot owned by the tree.
type AgentPolicy func(state State, rng *rand.Rand) Move
type AdversaryPolicy func(state State, rng *rand.Rand) []Move

// IsLegal reports whether move leads somewhere from the agent's position.
func IsLegal(state State, move Move) bool {
	if move == Neutral {
		return false
	}
	_, ok := state.Neighbour(state.Position(), move)
	return ok
}

// shares reports whether clone is the very value it was cloned from.
func shares(state, clone State) bool {
	a, b := reflect.ValueOf(state), reflect.ValueOf(clone)
	return a.Kind() == reflect.Pointer && b.Kind() == reflect.Pointer && a.Pointer() == b.Pointer()
}

// Collectibles left on the board, pills and power pills alike.
func remaining(state State) int {
	return state.Pills() + state.PowerPills()
}
