package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mixit-delights/storefront/internal/interfaces"
)

// EventChannel is the single LISTEN/NOTIFY channel carrying store change
// events to the live-subscription fan-out.
const EventChannel = "storefront_events"

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
}

// notify emits a change event on the store's push channel. When called
// with a Tx the notification only fires if the transaction commits.
func notify(ctx context.Context, db execer, ev interfaces.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if _, err := db.Exec(ctx, `SELECT pg_notify($1, $2)`, EventChannel, string(payload)); err != nil {
		return fmt.Errorf("failed to notify %s: %w", ev.Collection, err)
	}
	return nil
}
