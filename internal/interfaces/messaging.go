package interfaces

import (
	"context"
	"time"

	"github.com/mixit-delights/storefront/internal/domain"
)

// RabbitMQ messages.

type OrderPlacedMessage struct {
	OrderID      string          `json:"order_id"`
	UserID       string          `json:"user_id"`
	CustomerName string          `json:"customer_name"`
	ItemName     string          `json:"item_name"`
	Category     domain.Category `json:"category"`
	Total        int             `json:"total"`
	Location     domain.Location `json:"location"`
	PlacedAt     time.Time       `json:"placed_at"`
}

type StatusUpdateMessage struct {
	OrderID    string        `json:"order_id"`
	UserID     string        `json:"user_id"`
	OldStatus  domain.Status `json:"old_status"`
	NewStatus  domain.Status `json:"new_status"`
	RiderName  string        `json:"rider_name,omitempty"`
	RiderPhone string        `json:"rider_phone,omitempty"`
	ETAMinutes int           `json:"eta_minutes,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

type PasswordResetMessage struct {
	Email      string    `json:"email"`
	ResetToken string    `json:"reset_token"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notification envelope types on the fanout exchange.
const (
	NotificationStatusUpdate  = "status_update"
	NotificationPasswordReset = "password_reset"
)

type NotificationEnvelope struct {
	Type string `json:"type"`
	Body []byte `json:"body"`
}

// Messaging interfaces (adapter/rabbitmq).

type MessagePublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) error
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
	PublishPasswordReset(ctx context.Context, msg PasswordResetMessage) error
}

type NotificationHandler func(ctx context.Context, body []byte) error

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}
