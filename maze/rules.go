package maze

import (
	"fmt"
	"pacman/searcher"
)

// Advance plays one tick: the agent moves and eats, then the ghosts move.
// Collisions are checked after each so the two can never swap cells. Ghost
// moves that are missing or blocked fall back to the ghost's heading.
func (s *GameState) Advance(agent searcher.Move, adversaries []searcher.Move) error {
	if s.Terminal() {
		return ErrGameOver
	}
	if agent != searcher.Neutral {
		next, ok := s.maze.Neighbour(s.pos, agent)
		if !ok {
			return fmt.Errorf("%s from node %d: %w", agent, s.pos, ErrIllegalMove)
		}
		s.pos, s.last = next, agent
	}
	s.eat()

	if !s.collide() {
		s.moveGhosts(adversaries)
		s.collide()
	}

	s.tick++
	if s.rules.ExtraLifeScore > 0 && !s.extraLife && s.score >= s.rules.ExtraLifeScore {
		s.extraLife = true
		s.lives++
	}
	return nil
}

func (s *GameState) eat() {
	if s.pills[s.pos] {
		s.pills[s.pos] = false
		s.pillCount--
		s.score += s.rules.PillScore
	}
	if s.power[s.pos] {
		s.power[s.pos] = false
		s.powerCount--
		s.score += s.rules.PowerScore
		s.combo = 0
		for i := range s.ghosts {
			g := &s.ghosts[i]
			if g.Lair > 0 {
				continue
			}
			g.Edible = s.rules.EdibleTicks
			g.Heading = g.Heading.Opposite()
		}
	}
}

func (s *GameState) moveGhosts(moves []searcher.Move) {
	for i := range s.ghosts {
		g := &s.ghosts[i]
		if g.Lair > 0 {
			g.Lair--
			continue
		}
		if g.Edible > 0 {
			g.Edible--
			if s.tick%2 == 1 { // Frightened ghosts move at half speed
				continue
			}
		}

		move := searcher.Neutral
		if i < len(moves) {
			move = moves[i]
		}
		next, ok := s.maze.Neighbour(g.Position, move)
		if !ok {
			move = s.drift(*g)
			next, ok = s.maze.Neighbour(g.Position, move)
		}
		if ok {
			g.Position, g.Heading = next, move
		}
	}
}

// drift keeps a ghost on its heading, or takes the first way that is open.
func (s *GameState) drift(g Ghost) searcher.Move {
	if _, ok := s.maze.Neighbour(g.Position, g.Heading); ok {
		return g.Heading
	}
	options := searcher.AdversaryOptions(s, searcher.Adversary{Position: g.Position, Heading: g.Heading})
	if len(options) == 0 {
		return searcher.Neutral
	}
	return options[0]
}

// collide resolves ghosts sharing the agent's cell and reports a lost life.
func (s *GameState) collide() bool {
	for i := range s.ghosts {
		g := &s.ghosts[i]
		if g.Lair > 0 || g.Position != s.pos {
			continue
		}
		if g.Edible > 0 {
			s.score += s.rules.GhostScore << s.combo
			s.combo++
			*g = Ghost{
				Position: s.maze.ghostStarts[i],
				Heading:  searcher.Neutral,
				Lair:     s.rules.LairTicks,
			}
			continue
		}
		s.lives--
		s.reset()
		return true
	}
	return false
}
