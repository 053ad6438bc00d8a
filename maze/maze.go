package maze

import (
	"errors"
	"fmt"
	"math"
	"pacman/searcher"
)

var (
	ErrBadLayout   = errors.New("bad layout")
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game over")
)

type point struct {
	x, y int
}

// Maze is the immutable topology of one level. Nodes are the open cells of
// the layout, numbered row by row.
type Maze struct {
	Name        string
	width       int
	height      int
	rows        []string
	cells       []point // Node -> cell
	index       []int   // Cell -> node, -1 for walls
	neighbours  [][4]int
	junctions   []bool
	distances   [][]int32
	pills       []int
	powerPills  []int
	agentStart  int
	ghostStarts []int
}

// Parse builds a maze from an ASCII layout: '#' wall, '.' pill, 'o' power
// pill, 'P' agent start, 'G' ghost start, anything else an empty cell. Rows
// whose both ends are open wrap around.
func Parse(name string, rows []string) (*Maze, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: empty layout: %w", name, ErrBadLayout)
	}
	m := &Maze{
		Name:       name,
		width:      len(rows[0]),
		height:     len(rows),
		rows:       rows,
		agentStart: -1,
	}
	m.index = make([]int, m.width*m.height)
	for y, row := range rows {
		if len(row) != m.width {
			return nil, fmt.Errorf("%s: row %d has width %d, expected %d: %w", name, y, len(row), m.width, ErrBadLayout)
		}
		for x := 0; x < m.width; x++ {
			cell := y*m.width + x
			if row[x] == '#' {
				m.index[cell] = -1
				continue
			}
			node := len(m.cells)
			m.index[cell] = node
			m.cells = append(m.cells, point{x, y})
			switch row[x] {
			case '.':
				m.pills = append(m.pills, node)
			case 'o':
				m.powerPills = append(m.powerPills, node)
			case 'P':
				m.agentStart = node
			case 'G':
				m.ghostStarts = append(m.ghostStarts, node)
			}
		}
	}
	if m.agentStart < 0 {
		return nil, fmt.Errorf("%s: no agent start: %w", name, ErrBadLayout)
	}
	if len(m.pills)+len(m.powerPills) == 0 {
		return nil, fmt.Errorf("%s: no pills: %w", name, ErrBadLayout)
	}

	m.link()
	m.measure()
	return m, nil
}

// MustParse is Parse for layouts known to be valid.
func MustParse(name string, rows []string) *Maze {
	m, err := Parse(name, rows)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Maze) link() {
	m.neighbours = make([][4]int, len(m.cells))
	m.junctions = make([]bool, len(m.cells))
	for node, p := range m.cells {
		exits := 0
		for _, move := range searcher.Directions {
			next := m.at(step(p, move))
			m.neighbours[node][move] = next
			if next >= 0 {
				exits++
			}
		}
		m.junctions[node] = exits > 2
	}
}

func step(p point, move searcher.Move) point {
	switch move {
	case searcher.Up:
		p.y--
	case searcher.Right:
		p.x++
	case searcher.Down:
		p.y++
	case searcher.Left:
		p.x--
	}
	return p
}

// at returns the node at p, wrapping horizontally, or -1.
func (m *Maze) at(p point) int {
	if p.y < 0 || p.y >= m.height {
		return -1
	}
	if p.x < 0 {
		p.x = m.width - 1
	} else if p.x >= m.width {
		p.x = 0
	}
	return m.index[p.y*m.width+p.x]
}

// measure fills the all-pairs path distance table with one BFS per node.
func (m *Maze) measure() {
	n := len(m.cells)
	m.distances = make([][]int32, n)
	queue := make([]int, 0, n)
	for source := range m.cells {
		dist := make([]int32, n)
		for i := range dist {
			dist[i] = -1
		}
		dist[source] = 0
		queue = append(queue[:0], source)
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			for _, next := range m.neighbours[node] {
				if next >= 0 && dist[next] < 0 {
					dist[next] = dist[node] + 1
					queue = append(queue, next)
				}
			}
		}
		m.distances[source] = dist
	}
}

func (m *Maze) Nodes() int { return len(m.cells) }

func (m *Maze) Neighbour(node int, move searcher.Move) (int, bool) {
	if node < 0 || node >= len(m.cells) || move < searcher.Up || move > searcher.Left {
		return -1, false
	}
	next := m.neighbours[node][move]
	return next, next >= 0
}

func (m *Maze) IsJunction(node int) bool {
	return node >= 0 && node < len(m.junctions) && m.junctions[node]
}

// Junctions lists every node with more than two exits.
func (m *Maze) Junctions() []int {
	nodes := []int{}
	for node, ok := range m.junctions {
		if ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (m *Maze) Distance(a, b int, metric searcher.Metric) float64 {
	if a < 0 || b < 0 || a >= len(m.cells) || b >= len(m.cells) {
		return math.Inf(1)
	}
	pa, pb := m.cells[a], m.cells[b]
	dx, dy := float64(pa.x-pb.x), float64(pa.y-pb.y)
	switch metric {
	case searcher.Manhattan:
		return math.Abs(dx) + math.Abs(dy)
	case searcher.Euclid:
		return math.Hypot(dx, dy)
	}
	if d := m.distances[a][b]; d >= 0 {
		return float64(d)
	}
	return math.Inf(1)
}

// Towards returns the move from node that brings it closest to target, or
// furthest when away is set. Ties keep the priority order.
func (m *Maze) Towards(node, target int, metric searcher.Metric, away bool) searcher.Move {
	best := searcher.Neutral
	bestDistance := math.Inf(1)
	if away {
		bestDistance = math.Inf(-1)
	}
	for _, move := range searcher.Directions {
		next, ok := m.Neighbour(node, move)
		if !ok {
			continue
		}
		d := m.Distance(next, target, metric)
		if (!away && d < bestDistance) || (away && d > bestDistance) {
			best, bestDistance = move, d
		}
	}
	return best
}

func (m *Maze) Cell(node int) (x, y int) {
	p := m.cells[node]
	return p.x, p.y
}

func (m *Maze) Node(x, y int) int {
	return m.at(point{x, y})
}
