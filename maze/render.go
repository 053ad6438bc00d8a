package maze

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Render draws the board with the colors output supports, followed by a
// status line.
func Render(s *GameState, output *termenv.Output) string {
	var (
		wall   = output.String("#").Foreground(output.Color("#2121DE"))
		pill   = output.String(".").Foreground(output.Color("#FFB897"))
		power  = output.String("o").Foreground(output.Color("#FFB897")).Bold()
		agent  = output.String("P").Foreground(output.Color("#FFFF00")).Bold()
		ghost  = output.String("G").Foreground(output.Color("#FF0000")).Bold()
		edible = output.String("G").Foreground(output.Color("#2121FF"))
	)

	ghosts := map[int]Ghost{}
	for _, g := range s.ghosts {
		if _, ok := ghosts[g.Position]; !ok || g.Edible == 0 {
			ghosts[g.Position] = g
		}
	}

	m := s.maze
	board := make([][]string, m.height)
	for y := range board {
		board[y] = make([]string, m.width)
		for x := range board[y] {
			board[y][x] = wall.String()
		}
	}
	for node := 0; node < m.Nodes(); node++ {
		x, y := m.Cell(node)
		switch g, ok := ghosts[node]; {
		case node == s.pos:
			board[y][x] = agent.String()
		case ok && g.Edible > 0:
			board[y][x] = edible.String()
		case ok:
			board[y][x] = ghost.String()
		case s.HasPowerPill(node):
			board[y][x] = power.String()
		case s.HasPill(node):
			board[y][x] = pill.String()
		default:
			board[y][x] = " "
		}
	}

	var b strings.Builder
	for _, row := range board {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "level %d  score %d  lives %d  pills %d  tick %d\n",
		s.level, s.score, s.lives, s.pillCount+s.powerCount, s.tick)
	return b.String()
}
