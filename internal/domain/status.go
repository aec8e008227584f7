package domain

import "time"

type Status string

const (
	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusDispatch  Status = "dispatch"
	StatusDelivered Status = "delivered"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusDispatch, StatusDelivered:
		return true
	}
	return false
}

// Active reports whether an order in this status still needs tracking.
func (s Status) Active() bool {
	return ValidStatus(s) && s != StatusDelivered
}

// StatusLog records one status change on an order.
type StatusLog struct {
	OrderID   string
	Status    Status
	ChangedBy string
	ChangedAt time.Time
}
