package domain

import (
	"errors"
	"strings"
	"time"
)

// CartLine is one selected add-on inside an order build. Lines keep their
// own UID so the same add-on can be stacked more than once.
type CartLine struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Emoji string `json:"emoji"`
	Color string `json:"color,omitempty"`
}

// Order represents one placed transaction. Item and cart data are snapshots
// copied at creation time and never touched by later catalog edits.
type Order struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CustomerName string     `json:"customer_name"`
	ItemName     string     `json:"item_name"`
	Lines        []CartLine `json:"lines"`
	Location     Location   `json:"location"`
	Note         string     `json:"note,omitempty"`
	Total        int        `json:"total"`
	Status       Status     `json:"status"`
	RiderName    string     `json:"rider_name,omitempty"`
	RiderPhone   string     `json:"rider_phone,omitempty"`
	ETAMinutes   int        `json:"eta_minutes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CartTotal is the pre-discount running total for a base item plus add-ons.
func CartTotal(item *MenuItem, lines []CartLine) int {
	total := item.Price
	for _, l := range lines {
		total += l.Price
	}
	return total
}

// NewOrder builds an order from its snapshot parts. The total is computed
// here, once, and includes the reward discount when the placing user was
// eligible at this instant. It is never recomputed retroactively.
func NewOrder(userID, customerName string, item *MenuItem, lines []CartLine, loc Location, note string, rewardEligible bool) (*Order, error) {
	if userID == "" {
		return nil, errors.New("owning user is required")
	}
	if !item.InStock {
		return nil, ErrOutOfStock
	}

	snapshot := make([]CartLine, len(lines))
	copy(snapshot, lines)

	now := time.Now().UTC()
	return &Order{
		UserID:       userID,
		CustomerName: customerName,
		ItemName:     item.Name,
		Lines:        snapshot,
		Location:     loc,
		Note:         note,
		Total:        ApplyRewardDiscount(CartTotal(item, lines), rewardEligible),
		Status:       StatusReceived,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanTransitionTo checks the status state machine. Transitions are
// admin-initiated and monotonic; any active status may complete to
// delivered, but nothing moves backwards.
func (o *Order) CanTransitionTo(newStatus Status) bool {
	validTransitions := map[Status][]Status{
		StatusReceived:  {StatusPreparing, StatusDelivered},
		StatusPreparing: {StatusDispatch, StatusDelivered},
		StatusDispatch:  {StatusDelivered},
		StatusDelivered: {},
	}

	for _, s := range validTransitions[o.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo advances the order status. Entering dispatch goes through
// Dispatch instead, because it needs rider details attached atomically.
func (o *Order) TransitionTo(newStatus Status) error {
	if newStatus == StatusDispatch {
		return ErrDispatchDetailsRequired
	}
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Dispatch moves the order to dispatch and attaches rider name, ETA and
// optional phone in the same step. Missing rider name or ETA rejects the
// whole transition with no state change.
func (o *Order) Dispatch(riderName, riderPhone string, etaMinutes int) error {
	if strings.TrimSpace(riderName) == "" || etaMinutes <= 0 {
		return ErrDispatchDetailsRequired
	}
	if !o.CanTransitionTo(StatusDispatch) {
		return ErrInvalidStatusTransition
	}
	o.Status = StatusDispatch
	o.RiderName = strings.TrimSpace(riderName)
	o.RiderPhone = strings.TrimSpace(riderPhone)
	o.ETAMinutes = etaMinutes
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// ActiveOrder selects, among a user's orders, the most recently created one
// that is not yet delivered. Returns nil when the user has no active order.
func ActiveOrder(history []*Order) *Order {
	var active *Order
	for _, o := range history {
		if !o.Status.Active() {
			continue
		}
		if active == nil || o.CreatedAt.After(active.CreatedAt) {
			active = o
		}
	}
	return active
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrDispatchDetailsRequired = errors.New("rider name and ETA are required for dispatch")
	ErrLocationRequired        = errors.New("a resolved delivery location is required")
)
