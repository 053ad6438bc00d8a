package searcher

// tree is an arena of nodes referenced by index. The root is always at index 0
// and parents always precede their children.
type tree struct {
	nodes []node
}

func newTree(state State) *tree {
	t := &tree{}
	t.reset(state)
	return t
}

// reset drops every node and seeds a new root, keeping the arena's capacity.
func (t *tree) reset(state State) {
	clear(t.nodes)
	t.nodes = append(t.nodes[:0], node{
		parent:  NoNode,
		move:    Neutral,
		arrival: state.LastMove(),
		state:   state,
		alive:   true,
	})
}

func (t *tree) root() NodeID { return 0 }

func (t *tree) size() int { return len(t.nodes) }

// get returns a pointer into the arena, valid until the next addChild.
func (t *tree) get(id NodeID) *node { return &t.nodes[id] }

func (t *tree) addChild(parent NodeID, move, arrival Move, state State, alive bool, shaping float64, ticks int) NodeID {
	id := NodeID(len(t.nodes))
	p := t.get(parent)
	depth := p.depth + 1
	ticks += p.ticks
	p.tried[move] = true
	p.children = append(p.children, id)
	t.nodes = append(t.nodes, node{
		parent:  parent,
		move:    move,
		arrival: arrival,
		state:   state,
		alive:   alive,
		shaping: shaping,
		ticks:   ticks,
		depth:   depth,
	})
	return id
}

func (t *tree) expandable(id NodeID) bool {
	_, ok := t.get(id).untried()
	return ok
}

func (t *tree) terminal(id NodeID) bool {
	n := t.get(id)
	return !n.alive || n.state.Terminal()
}

// backup adds one visit and reward to id and every ancestor up to the root.
func (t *tree) backup(id NodeID, reward float64) {
	for id != NoNode {
		n := t.get(id)
		n.visits++
		n.rewards += reward
		id = n.parent
	}
}

func (t *tree) depth() int {
	depth := 0
	for i := range t.nodes {
		depth = max(depth, t.nodes[i].depth)
	}
	return depth
}
