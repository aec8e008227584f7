package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// ChangeFeed listens for store notifications on a dedicated connection
// (LISTEN is per-connection, so it cannot share the pool) and hands each
// event to the fan-out in arrival order.
type ChangeFeed struct {
	connString string
	log        logger.Logger
}

func NewChangeFeed(cfg config.DatabaseConfig, log logger.Logger) *ChangeFeed {
	return &ChangeFeed{connString: ConnString(cfg), log: log}
}

func (f *ChangeFeed) Run(ctx context.Context, handler func(interfaces.ChangeEvent)) error {
	for {
		err := f.listen(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.log.Error("changefeed_listen", "listen loop exited, reconnecting", "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (f *ChangeFeed) listen(ctx context.Context, handler func(interfaces.ChangeEvent)) error {
	conn, err := pgx.Connect(ctx, f.connString)
	if err != nil {
		return fmt.Errorf("failed to open changefeed connection: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+EventChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", EventChannel, err)
	}
	f.log.Info("changefeed_listen", "listening for store changes", "", map[string]interface{}{
		"channel": EventChannel,
	})

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed to wait for notification: %w", err)
		}

		var ev interfaces.ChangeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			f.log.Error("changefeed_decode", "dropping malformed notification", "", map[string]interface{}{
				"payload": notification.Payload,
			}, err)
			continue
		}
		handler(ev)
	}
}
