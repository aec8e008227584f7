package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// NotificationHandler is the notifier-mode sink for fanout messages. It
// unwraps the envelope and prints a human line per notification.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var envelope interfaces.NotificationEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification envelope", "", nil, err)
		return err
	}

	switch envelope.Type {
	case interfaces.NotificationStatusUpdate:
		return h.handleStatusUpdate(envelope.Body)
	case interfaces.NotificationPasswordReset:
		return h.handlePasswordReset(envelope.Body)
	default:
		h.logger.Debug("notification_skipped", "Unknown notification type", "", map[string]interface{}{
			"type": envelope.Type,
		})
		return nil
	}
}

func (h *NotificationHandler) handleStatusUpdate(body []byte) error {
	var msg interfaces.StatusUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse status update", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received status update for order %s", msg.OrderID),
		msg.OrderID, map[string]interface{}{
			"order_id":   msg.OrderID,
			"new_status": msg.NewStatus,
		})

	if msg.RiderName != "" {
		fmt.Printf("Notification for order %s: status changed from '%s' to '%s' (rider %s, ETA %d min)\n",
			msg.OrderID, msg.OldStatus, msg.NewStatus, msg.RiderName, msg.ETAMinutes)
		return nil
	}

	fmt.Printf("Notification for order %s: status changed from '%s' to '%s'\n",
		msg.OrderID, msg.OldStatus, msg.NewStatus)
	return nil
}

func (h *NotificationHandler) handlePasswordReset(body []byte) error {
	var msg interfaces.PasswordResetMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse password reset", "", nil, err)
		return err
	}

	// Stand-in for a mail sender; the token printed here is what a real
	// delivery channel would embed in the reset link.
	fmt.Printf("Password reset requested for %s (token %s)\n", msg.Email, msg.ResetToken)
	return nil
}
