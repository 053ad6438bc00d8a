package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// bestChild picks the alive child of id with the highest UCT value. Unvisited
// children win outright. Ties keep the earliest discovered child.
func (t *tree) bestChild(id NodeID, cSquared float64) (NodeID, bool) {
	parent := t.get(id)
	best := NoNode
	bestScore := math.Inf(-1)
	var policy *uct
	for _, c := range parent.children {
		child := t.get(c)
		if !child.alive {
			continue
		}
		score := math.Inf(1)
		if child.visits > 0 {
			if policy == nil {
				policy = newUCT(cSquared, float64(parent.visits))
			}
			score = policy.evaluate(child.rewards, float64(child.visits))
		}
		if best == NoNode || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, best != NoNode
}

// exploit ranks visited children by mean reward alone. Children in the
// excluded set are only considered when nothing else is left.
func (t *tree) exploit(id NodeID, excluded map[NodeID]bool) (NodeID, bool) {
	pick := func(filter func(n *node, c NodeID) bool) NodeID {
		parent := t.get(id)
		best := NoNode
		bestScore := math.Inf(-1)
		if parent.visits == 0 {
			return NoNode
		}
		policy := newUCT(0, float64(parent.visits))
		for _, c := range parent.children {
			child := t.get(c)
			if child.visits == 0 || !filter(child, c) {
				continue
			}
			score := policy.evaluate(child.rewards, float64(child.visits))
			if best == NoNode || score > bestScore {
				best, bestScore = c, score
			}
		}
		return best
	}

	filters := []func(n *node, c NodeID) bool{
		func(n *node, c NodeID) bool { return n.alive && !excluded[c] },
		func(n *node, c NodeID) bool { return n.alive },
		func(n *node, c NodeID) bool { return true },
	}
	for _, filter := range filters {
		if best := pick(filter); best != NoNode {
			return best, true
		}
	}
	return NoNode, false
}
