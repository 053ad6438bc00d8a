package searcher

type NodeID int32

const NoNode NodeID = -1

type node struct {
	parent   NodeID
	children []NodeID
	move     Move // Move taken at the parent, Neutral for the root
	arrival  Move // Last tick's move into this node, may differ from move after corridor bends
	visits   int
	rewards  float64
	state    State
	tried    [4]bool // Indexed by Move
	alive    bool
	shaping  float64
	ticks    int // Ticks from the root
	depth    int // Edges from the root
}

func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

// untried returns the next direction to expand in priority order. The reverse
// of the arrival move is skipped everywhere but at the root.
func (n *node) untried() (Move, bool) {
	if !n.alive {
		return Neutral, false
	}
	pos := n.state.Position()
	for _, move := range Directions {
		if n.tried[move] {
			continue
		}
		if n.parent != NoNode && move == n.arrival.Opposite() {
			continue
		}
		if _, ok := n.state.Neighbour(pos, move); ok {
			return move, true
		}
	}
	return Neutral, false
}
