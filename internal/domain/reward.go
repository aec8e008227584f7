package domain

import "time"

const (
	// RewardWindow is the trailing period over which orders count towards
	// the discount.
	RewardWindow = 7 * 24 * time.Hour

	// RewardThreshold is the order count that unlocks the discount.
	RewardThreshold = 10

	// RewardDiscount is the flat discount, in naira, applied at checkout
	// for eligible users.
	RewardDiscount = 2000
)

// Reward is the result of the eligibility calculation at one instant.
type Reward struct {
	Count    int  `json:"count"`
	Eligible bool `json:"eligible"`
}

// RewardStatus counts the orders created inside the trailing window ending
// at now and derives eligibility. Callers must recompute per request rather
// than cache: "now" advances and orders age out of the window.
func RewardStatus(history []*Order, now time.Time) Reward {
	cutoff := now.Add(-RewardWindow)
	count := 0
	for _, o := range history {
		if !o.CreatedAt.Before(cutoff) && !o.CreatedAt.After(now) {
			count++
		}
	}
	return Reward{Count: count, Eligible: count >= RewardThreshold}
}

// ApplyRewardDiscount subtracts the flat discount when eligible, floored at
// zero so a total is never negative.
func ApplyRewardDiscount(total int, eligible bool) int {
	if !eligible {
		return total
	}
	total -= RewardDiscount
	if total < 0 {
		return 0
	}
	return total
}
