package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// Catalog documents are stored whole as JSONB; the id column exists only
// for addressing.

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) interfaces.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) List(ctx context.Context) ([]*domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM menu_items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*domain.MenuItem
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		var item domain.MenuItem
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, fmt.Errorf("failed to decode menu item: %w", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (r *menuRepository) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM menu_items WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		return nil, fmt.Errorf("menu item not found: %w", err)
	}
	var item domain.MenuItem
	if err := json.Unmarshal(doc, &item); err != nil {
		return nil, fmt.Errorf("failed to decode menu item: %w", err)
	}
	return &item, nil
}

func (r *menuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode menu item: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO menu_items (id, doc, created_at, updated_at) VALUES ($1, $2, now(), now())`,
		item.ID, doc)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}

	if err := notify(ctx, tx, interfaces.ChangeEvent{Collection: "menu", DocID: item.ID}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *menuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode menu item: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE menu_items SET doc = $1, updated_at = now() WHERE id = $2`, doc, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu item not found: %s", item.ID)
	}

	if err := notify(ctx, tx, interfaces.ChangeEvent{Collection: "menu", DocID: item.ID}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *menuRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if err := notify(ctx, tx, interfaces.ChangeEvent{Collection: "menu", DocID: id}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *menuRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}

// SeedBatch inserts the initial catalog atomically. A single notification
// covers the whole batch; subscribers refetch the collection anyway.
func (r *menuRepository) SeedBatch(ctx context.Context, items []*domain.MenuItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range items {
		doc, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode menu item: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO menu_items (id, doc, created_at, updated_at) VALUES ($1, $2, now(), now())`,
			item.ID, doc)
		if err != nil {
			return fmt.Errorf("failed to seed menu item %q: %w", item.Name, err)
		}
	}

	if err := notify(ctx, tx, interfaces.ChangeEvent{Collection: "menu"}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
