package searcher

import (
	"errors"
	"math"
	"strings"
	"time"

	"golang.org/x/exp/rand"
)

var errMockIllegal = errors.New("illegal move")

// mockGrid is a tiny maze parsed from ASCII: '#' wall, '.' pill, 'o' power
// pill, 'P' agent, 'G' ghost, anything else is an empty cell.
type mockGrid struct {
	width, height int
	walls         []bool
}

type mockState struct {
	grid    *mockGrid
	start   int
	pos     int
	last    Move
	ghosts  []Adversary
	pills   []bool
	power   []bool
	score   int
	lives   int
	broken  bool // Reject every agent move
	shallow bool // Clone returns the receiver
}

func newMockState(rows ...string) *mockState {
	grid := &mockGrid{width: len(rows[0]), height: len(rows)}
	grid.walls = make([]bool, grid.width*grid.height)
	s := &mockState{
		grid:  grid,
		last:  Neutral,
		pills: make([]bool, len(grid.walls)),
		power: make([]bool, len(grid.walls)),
		lives: 3,
	}
	for y, row := range rows {
		for x, c := range strings.Split(row, "") {
			i := y*grid.width + x
			switch c {
			case "#":
				grid.walls[i] = true
			case ".":
				s.pills[i] = true
			case "o":
				s.power[i] = true
			case "P":
				s.start, s.pos = i, i
			case "G":
				s.ghosts = append(s.ghosts, Adversary{Position: i, Heading: Neutral})
			}
		}
	}
	return s
}

func (s *mockState) at(x, y int) int { return y*s.grid.width + x }

func (s *mockState) Clone() State {
	if s.shallow {
		return s
	}
	c := *s
	c.ghosts = append([]Adversary(nil), s.ghosts...)
	c.pills = append([]bool(nil), s.pills...)
	c.power = append([]bool(nil), s.power...)
	return &c
}

func (s *mockState) Position() int  { return s.pos }
func (s *mockState) LastMove() Move { return s.last }

func (s *mockState) LegalMoves() []Move {
	moves := []Move{}
	for _, move := range Directions {
		if _, ok := s.Neighbour(s.pos, move); ok {
			moves = append(moves, move)
		}
	}
	return moves
}

func (s *mockState) Neighbour(pos int, move Move) (int, bool) {
	x, y := pos%s.grid.width, pos/s.grid.width
	switch move {
	case Up:
		y--
	case Down:
		y++
	case Left:
		x--
	case Right:
		x++
	default:
		return pos, false
	}
	if x < 0 || y < 0 || x >= s.grid.width || y >= s.grid.height {
		return pos, false
	}
	next := y*s.grid.width + x
	return next, !s.grid.walls[next]
}

func (s *mockState) IsJunction(pos int) bool {
	count := 0
	for _, move := range Directions {
		if _, ok := s.Neighbour(pos, move); ok {
			count++
		}
	}
	return count > 2
}

func (s *mockState) Advance(agent Move, adversaries []Move) error {
	if s.broken {
		return errMockIllegal
	}
	if agent != Neutral {
		next, ok := s.Neighbour(s.pos, agent)
		if !ok {
			return errMockIllegal
		}
		s.pos, s.last = next, agent
	}
	if s.pills[s.pos] {
		s.pills[s.pos] = false
		s.score += 10
	}
	if s.power[s.pos] {
		s.power[s.pos] = false
		s.score += 50
		for i := range s.ghosts {
			s.ghosts[i].Edible = true
		}
	}
	if s.collide() {
		return nil
	}
	for i, move := range adversaries {
		if i >= len(s.ghosts) {
			break
		}
		if next, ok := s.Neighbour(s.ghosts[i].Position, move); ok {
			s.ghosts[i].Position, s.ghosts[i].Heading = next, move
		}
	}
	s.collide()
	return nil
}

func (s *mockState) collide() bool {
	for i, g := range s.ghosts {
		if g.Position != s.pos {
			continue
		}
		if g.Edible {
			s.score += 200
			s.ghosts[i].InLair = true
			s.ghosts[i].Position = -1
			continue
		}
		s.lives--
		s.pos, s.last = s.start, Neutral
		return true
	}
	return false
}

func (s *mockState) Terminal() bool { return s.lives <= 0 || remaining(s) == 0 }

func (s *mockState) Score() int { return s.score }
func (s *mockState) Lives() int { return s.lives }
func (s *mockState) Level() int { return 0 }

func (s *mockState) Pills() int      { return count(s.pills) }
func (s *mockState) PowerPills() int { return count(s.power) }

func count(cells []bool) int {
	n := 0
	for _, c := range cells {
		if c {
			n++
		}
	}
	return n
}

func (s *mockState) Distance(a, b int, metric Metric) float64 {
	if a < 0 || b < 0 {
		return math.Inf(1)
	}
	ax, ay := a%s.grid.width, a/s.grid.width
	bx, by := b%s.grid.width, b/s.grid.width
	switch metric {
	case Manhattan:
		return math.Abs(float64(ax-bx)) + math.Abs(float64(ay-by))
	case Euclid:
		return math.Hypot(float64(ax-bx), float64(ay-by))
	}
	dist := map[int]int{a: 0}
	queue := []int{a}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		if pos == b {
			return float64(dist[pos])
		}
		for _, move := range Directions {
			if next, ok := s.Neighbour(pos, move); ok {
				if _, seen := dist[next]; !seen {
					dist[next] = dist[pos] + 1
					queue = append(queue, next)
				}
			}
		}
	}
	return math.Inf(1)
}

func (s *mockState) Adversaries() []Adversary {
	return append([]Adversary(nil), s.ghosts...)
}

func (s *mockState) Collectibles() []int {
	targets := []int{}
	for i := range s.pills {
		if s.pills[i] || s.power[i] {
			targets = append(targets, i)
		}
	}
	return targets
}

func (s *mockState) MoveTowards(from, to int, metric Metric) Move {
	return s.step(from, to, metric, false)
}

func (s *mockState) MoveAway(from, to int, metric Metric) Move {
	return s.step(from, to, metric, true)
}

func (s *mockState) step(from, to int, metric Metric, away bool) Move {
	best := Neutral
	bestDistance := math.Inf(1)
	if away {
		bestDistance = math.Inf(-1)
	}
	for _, move := range Directions {
		next, ok := s.Neighbour(from, move)
		if !ok {
			continue
		}
		d := s.Distance(next, to, metric)
		if (!away && d < bestDistance) || (away && d > bestDistance) {
			best, bestDistance = move, d
		}
	}
	return best
}

func stillAdversaries(state State, rng *rand.Rand) []Move {
	moves := make([]Move, len(state.Adversaries()))
	for i := range moves {
		moves[i] = Neutral
	}
	return moves
}

// slowAdversaries stand still after a pause.
func slowAdversaries(pause time.Duration) AdversaryPolicy {
	return func(state State, rng *rand.Rand) []Move {
		time.Sleep(pause)
		return stillAdversaries(state, rng)
	}
}

func always(move Move) AgentPolicy {
	return func(state State, rng *rand.Rand) Move { return move }
}

// crossroads has the agent on a four-way junction.
func crossroads() *mockState {
	return newMockState(
		"#########",
		"#.......#",
		"#.##.##.#",
		"#...P...#",
		"#.##.##.#",
		"#.......#",
		"#########",
	)
}
