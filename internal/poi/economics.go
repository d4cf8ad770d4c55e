package poi

import "math/bits"

// log2Ceil is the integer ceiling of log2(x): the number of bits needed to
// represent x, rounded up for non-powers-of-two. 0 for x <= 1.
func log2Ceil(x uint64) uint64 {
	if x <= 1 {
		return 0
	}
	return 64 - uint64(bits.LeadingZeros64(x-1))
}

// AdjustDifficulty computes the next epoch's difficulty from the number of
// solutions observed in the closing epoch. Counts within ±20% of the target
// leave difficulty unchanged; outside the band the step is the log2 ceiling of
// the overshoot ratio, clamped to [1, MaxDifficultyAdj]. An empty epoch drops
// by the maximum step. The result stays in [MinDifficulty, MaxDifficulty].
func AdjustDifficulty(current uint64, solutions uint64, p Params) uint64 {
	target := p.TargetSolutions

	switch {
	case solutions > target+target/5:
		step := log2Ceil(solutions / target)
		if step < 1 {
			step = 1
		}
		if step > p.MaxDifficultyAdj {
			step = p.MaxDifficultyAdj
		}
		next := current + step
		if next < current || next > p.MaxDifficulty { // overflow or cap
			next = p.MaxDifficulty
		}
		return next
	case solutions == 0:
		if current <= p.MinDifficulty+p.MaxDifficultyAdj {
			return p.MinDifficulty
		}
		return current - p.MaxDifficultyAdj
	case solutions < target-target/5:
		step := log2Ceil(target / solutions)
		if step < 1 {
			step = 1
		}
		if step > p.MaxDifficultyAdj {
			step = p.MaxDifficultyAdj
		}
		if current <= p.MinDifficulty+step {
			return p.MinDifficulty
		}
		return current - step
	default:
		return current
	}
}

// RewardFor returns the halving-schedule reward after totalMined accepted
// solutions: InitialReward >> (totalMined / HalvingInterval), saturating to
// zero once 64 halvings have occurred.
func RewardFor(totalMined uint64, p Params) uint64 {
	halvings := totalMined / p.HalvingInterval
	if halvings >= 64 {
		return 0
	}
	return p.InitialReward >> halvings
}

// CappedReward limits a reward so cumulative emission never exceeds MaxSupply.
func CappedReward(reward, totalSupply uint64, p Params) uint64 {
	if totalSupply >= p.MaxSupply {
		return 0
	}
	if remaining := p.MaxSupply - totalSupply; reward > remaining {
		return remaining
	}
	return reward
}
