package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// seedGrace is how long an empty catalog is allowed to stay empty before
// the default menu is written. Covers the race where another instance is
// seeding at the same moment.
const seedGrace = 2 * time.Second

type Service struct {
	menu interfaces.MenuRepository
	log  logger.Logger
}

func NewService(menu interfaces.MenuRepository, log logger.Logger) *Service {
	return &Service{menu: menu, log: log}
}

// List returns the catalog, optionally filtered to one category. An empty
// category means everything.
func (s *Service) List(ctx context.Context, category domain.Category) ([]*domain.MenuItem, error) {
	items, err := s.menu.List(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return items, nil
	}

	var filtered []*domain.MenuItem
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Save creates or updates a catalog item depending on whether it carries
// an ID yet.
func (s *Service) Save(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
		if err := s.menu.Create(ctx, item); err != nil {
			return nil, err
		}
		s.log.Info("menu_item_created", fmt.Sprintf("Created menu item %q", item.Name), "", map[string]interface{}{
			"item_id":  item.ID,
			"category": string(item.Category),
		})
		return item, nil
	}

	if err := s.menu.Update(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("menu_item_updated", fmt.Sprintf("Updated menu item %q", item.Name), "", map[string]interface{}{
		"item_id": item.ID,
	})
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.menu.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("menu_item_deleted", "Deleted menu item", "", map[string]interface{}{
		"item_id": id,
	})
	return nil
}

// Seed unconditionally writes the default menu. Used by the seed mode of
// the binary.
func (s *Service) Seed(ctx context.Context) error {
	items := DefaultMenu()
	for _, item := range items {
		item.ID = uuid.NewString()
	}
	if err := s.menu.SeedBatch(ctx, items); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	s.log.Info("menu_seeded", fmt.Sprintf("Seeded %d default menu items", len(items)), "", nil)
	return nil
}

// EnsureSeeded seeds the default menu only if the catalog is still empty
// after the grace period. A store with real data is never touched.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	count, err := s.menu.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(seedGrace):
	}

	count, err = s.menu.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return s.Seed(ctx)
}
