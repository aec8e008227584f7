package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// Orders keep user_id, status and created_at extracted into columns for
// querying; everything else lives in the document.

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, status, created_at, doc) VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.UserID, string(order.Status), order.CreatedAt, doc)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	ev := interfaces.ChangeEvent{Collection: "orders", DocID: order.ID, UserID: order.UserID}
	if err := notify(ctx, tx, ev); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM orders WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	var order domain.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT doc FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, doc = $2 WHERE id = $3`,
		string(order.Status), doc, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %s", order.ID)
	}

	ev := interfaces.ChangeEvent{Collection: "orders", DocID: order.ID, UserID: order.UserID}
	if err := notify(ctx, tx, ev); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanOrders(rows Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		var order domain.Order
		if err := json.Unmarshal(doc, &order); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, nil
}
