package searcher

import "math"

// meanAdversaryDistance averages the path distance to every ghost outside the
// lair. It is +Inf when there is none.
func meanAdversaryDistance(state State) float64 {
	pos := state.Position()
	sum, count := 0.0, 0
	for _, a := range state.Adversaries() {
		if a.InLair {
			continue
		}
		sum += state.Distance(pos, a.Position, Path)
		count++
	}
	if count == 0 {
		return math.Inf(1)
	}
	return sum / float64(count)
}

// shape scores an expansion by comparing the snapshots before and after the
// macro-action.
func shape(before, after State, alive bool, params Params) float64 {
	if !alive || after.Lives() < before.Lives() {
		return ShapeDeath
	}
	if after.PowerPills() < before.PowerPills() {
		distance := meanAdversaryDistance(after)
		if distance > params.GhostFar {
			return ShapeMissedPower
		}
		if distance < params.GhostNear {
			return ShapeNearPower
		}
	}
	if after.Pills() < before.Pills() {
		return ShapePill
	}
	return ShapeStagnant
}

// progress blends the share of collectibles eaten with the normalized score
// gain. The result is within [RewardMin, RewardMax].
func progress(start, end State, params Params) float64 {
	total := remaining(start)
	if total == 0 {
		return RewardMax
	}
	eaten := 1 - float64(remaining(end))/float64(total)

	gain := float64(end.Score() - start.Score())
	normalized := 0.0
	if span := params.ScoreMax - params.ScoreMin; span > 0 {
		normalized = (gain - params.ScoreMin) / span
	}

	reward := (1-params.ScoreWeight)*clamp(eaten) + params.ScoreWeight*clamp(normalized)
	return min(RewardMax, max(RewardMin, reward))
}

// blend mixes the expansion reward of a new node into its first backup. A lost
// life is propagated as is.
func blend(reward, shaping float64, params Params) float64 {
	if reward == LifeLost {
		return reward
	}
	return (1-params.ShapingWeight)*reward + params.ShapingWeight*clamp(shaping/ShapePill)
}

func clamp(x float64) float64 {
	return min(1, max(0, x))
}
