package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func historyAt(now time.Time, ages ...time.Duration) []*Order {
	orders := make([]*Order, len(ages))
	for i, age := range ages {
		orders[i] = &Order{CreatedAt: now.Add(-age)}
	}
	return orders
}

func TestRewardStatusWindow(t *testing.T) {
	now := time.Now()

	r := RewardStatus(nil, now)
	assert.Equal(t, 0, r.Count)
	assert.False(t, r.Eligible)

	// One inside, one just inside the edge, one aged out.
	history := historyAt(now, time.Hour, RewardWindow, RewardWindow+time.Minute)
	r = RewardStatus(history, now)
	assert.Equal(t, 2, r.Count)
	assert.False(t, r.Eligible)
}

func TestRewardEligibilityFlipsAtThreshold(t *testing.T) {
	now := time.Now()

	ages := make([]time.Duration, 9)
	for i := range ages {
		ages[i] = time.Duration(i+1) * time.Hour
	}
	history := historyAt(now, ages...)

	r := RewardStatus(history, now)
	assert.Equal(t, 9, r.Count)
	assert.False(t, r.Eligible, "9 orders in the window is not enough")

	history = append(history, &Order{CreatedAt: now.Add(-10 * time.Minute)})
	r = RewardStatus(history, now)
	assert.Equal(t, 10, r.Count)
	assert.True(t, r.Eligible, "the 10th within-window order flips eligibility")

	// An eligible ₦5000 cart is charged ₦3000.
	assert.Equal(t, 3000, ApplyRewardDiscount(5000, r.Eligible))
}

func TestRewardAgesOut(t *testing.T) {
	now := time.Now()
	ages := make([]time.Duration, 10)
	for i := range ages {
		ages[i] = 6 * 24 * time.Hour
	}
	history := historyAt(now, ages...)

	assert.True(t, RewardStatus(history, now).Eligible)

	// Two days later every order has left the window.
	later := now.Add(48 * time.Hour)
	r := RewardStatus(history, later)
	assert.Equal(t, 0, r.Count)
	assert.False(t, r.Eligible)
}

func TestApplyRewardDiscount(t *testing.T) {
	assert.Equal(t, 5000, ApplyRewardDiscount(5000, false))
	assert.Equal(t, 3000, ApplyRewardDiscount(5000, true))
	assert.Equal(t, 0, ApplyRewardDiscount(1500, true), "discount floors at zero")
	assert.Equal(t, 0, ApplyRewardDiscount(0, true))
}
