package interfaces

import (
	"context"

	"github.com/mixit-delights/storefront/internal/domain"
)

// Store repositories (adapter/postgres). The store behaves as a document
// database: nested structures live inside the row document and writes are
// whole-document merges.

type MenuRepository interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// SeedBatch bulk-inserts the initial catalog in a single transaction.
	SeedBatch(ctx context.Context, items []*domain.MenuItem) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	// Save performs a merge-update of the per-user profile document.
	Save(ctx context.Context, userID string, profile *domain.UserProfile) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateDisplayName(ctx context.Context, id, name string) error
}

// ChangeEvent is one live-store notification. Collection names match the
// store tables; UserID is set for user-scoped documents so the fan-out can
// route to the owning subscriber.
type ChangeEvent struct {
	Collection string `json:"collection"`
	DocID      string `json:"doc_id"`
	UserID     string `json:"user_id,omitempty"`
}

// ChangeFeed is the push channel from the store. Run blocks, invoking the
// handler for every notification in arrival order, until ctx is cancelled.
type ChangeFeed interface {
	Run(ctx context.Context, handler func(ChangeEvent)) error
}
