package maze

import (
	"pacman/searcher"
)

type Rules struct {
	Lives          int
	PillScore      int
	PowerScore     int
	GhostScore     int // Doubles for every ghost eaten on the same power pill
	EdibleTicks    int
	LairTicks      int // Release delay between consecutive ghosts
	ExtraLifeScore int // One extra life when the score first reaches it, 0 disables
}

func DefaultRules() Rules {
	return Rules{
		Lives:          3,
		PillScore:      10,
		PowerScore:     50,
		GhostScore:     200,
		EdibleTicks:    40,
		LairTicks:      15,
		ExtraLifeScore: 10000,
	}
}

type Ghost struct {
	Position int
	Heading  searcher.Move
	Edible   int // Ticks left
	Lair     int // Ticks left before release
}

// GameState is the full world state of a game. Mazes are shared between
// clones, everything else is copied.
type GameState struct {
	rules  Rules
	levels []*Maze
	maze   *Maze
	level  int

	pos    int
	last   searcher.Move
	ghosts []Ghost
	pills  []bool
	power  []bool

	pillCount  int
	powerCount int
	score      int
	lives      int
	tick       int
	combo      int
	extraLife  bool
}

// NewGame starts on the first maze. Levels cycle through the mazes given.
func NewGame(rules Rules, levels ...*Maze) *GameState {
	if len(levels) == 0 {
		panic("need at least one maze")
	}
	s := &GameState{
		rules:  rules,
		levels: levels,
		lives:  rules.Lives,
	}
	s.load(0)
	return s
}

func (s *GameState) load(level int) {
	s.level = level
	s.maze = s.levels[level%len(s.levels)]
	s.pills = make([]bool, s.maze.Nodes())
	s.power = make([]bool, s.maze.Nodes())
	for _, node := range s.maze.pills {
		s.pills[node] = true
	}
	for _, node := range s.maze.powerPills {
		s.power[node] = true
	}
	s.pillCount = len(s.maze.pills)
	s.powerCount = len(s.maze.powerPills)
	s.ghosts = make([]Ghost, len(s.maze.ghostStarts))
	s.reset()
}

// reset puts the agent and ghosts back to their starts, leaving pills alone.
func (s *GameState) reset() {
	s.pos = s.maze.agentStart
	s.last = searcher.Neutral
	for i, start := range s.maze.ghostStarts {
		s.ghosts[i] = Ghost{
			Position: start,
			Heading:  searcher.Neutral,
			Lair:     i * s.rules.LairTicks,
		}
	}
}

// NextLevel loads the next maze once the current one is cleared.
func (s *GameState) NextLevel() {
	s.load(s.level + 1)
}

func (s *GameState) Cleared() bool { return s.pillCount+s.powerCount == 0 }

func (s *GameState) Maze() *Maze { return s.maze }

func (s *GameState) Tick() int { return s.tick }

func (s *GameState) Ghosts() []Ghost { return append([]Ghost(nil), s.ghosts...) }

func (s *GameState) Clone() searcher.State {
	c := *s
	c.ghosts = append([]Ghost(nil), s.ghosts...)
	c.pills = append([]bool(nil), s.pills...)
	c.power = append([]bool(nil), s.power...)
	return &c
}

func (s *GameState) Position() int           { return s.pos }
func (s *GameState) LastMove() searcher.Move { return s.last }

func (s *GameState) LegalMoves() []searcher.Move {
	moves := make([]searcher.Move, 0, len(searcher.Directions))
	for _, move := range searcher.Directions {
		if _, ok := s.maze.Neighbour(s.pos, move); ok {
			moves = append(moves, move)
		}
	}
	return moves
}

func (s *GameState) Neighbour(pos int, move searcher.Move) (int, bool) {
	return s.maze.Neighbour(pos, move)
}

// IsJunction answers from the junction set of the current level's maze.
func (s *GameState) IsJunction(pos int) bool { return s.maze.IsJunction(pos) }

func (s *GameState) Terminal() bool { return s.lives <= 0 || s.Cleared() }

func (s *GameState) Score() int      { return s.score }
func (s *GameState) Lives() int      { return s.lives }
func (s *GameState) Pills() int      { return s.pillCount }
func (s *GameState) PowerPills() int { return s.powerCount }
func (s *GameState) Level() int      { return s.level }

func (s *GameState) Distance(a, b int, metric searcher.Metric) float64 {
	return s.maze.Distance(a, b, metric)
}

func (s *GameState) Adversaries() []searcher.Adversary {
	adversaries := make([]searcher.Adversary, len(s.ghosts))
	for i, g := range s.ghosts {
		adversaries[i] = searcher.Adversary{
			Position: g.Position,
			Heading:  g.Heading,
			Edible:   g.Edible > 0,
			InLair:   g.Lair > 0,
		}
	}
	return adversaries
}

func (s *GameState) Collectibles() []int {
	nodes := make([]int, 0, s.pillCount+s.powerCount)
	for node := range s.pills {
		if s.pills[node] || s.power[node] {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (s *GameState) HasPill(node int) bool      { return s.pills[node] }
func (s *GameState) HasPowerPill(node int) bool { return s.power[node] }

func (s *GameState) MoveTowards(from, to int, metric searcher.Metric) searcher.Move {
	return s.maze.Towards(from, to, metric, false)
}

func (s *GameState) MoveAway(from, to int, metric searcher.Metric) searcher.Move {
	return s.maze.Towards(from, to, metric, true)
}
