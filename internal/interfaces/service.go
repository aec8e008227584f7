package interfaces

import (
	"context"
	"time"

	"github.com/mixit-delights/storefront/internal/domain"
)

// Caller identifies the authenticated principal behind a request.
type Caller struct {
	UserID    string
	Anonymous bool
	Admin     bool
}

// BuilderSession is an in-progress order build. It owns the cart lines
// exclusively; the session (and its lines) disappears on submission or
// abandonment. Item is a snapshot taken when the build started.
type BuilderSession struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Item      domain.MenuItem  `json:"item"`
	Lines     []domain.CartLine `json:"lines"`
	Location  *domain.Location `json:"location,omitempty"`
	Query     string           `json:"query,omitempty"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Total is the running pre-discount total of the build.
func (s *BuilderSession) Total() int {
	return domain.CartTotal(&s.Item, s.Lines)
}

// SessionStore keeps builder sessions for their short lifetime
// (adapter/redis).
type SessionStore interface {
	Save(ctx context.Context, session *BuilderSession) error
	Get(ctx context.Context, id string) (*BuilderSession, error)
	FindByUser(ctx context.Context, userID string) (*BuilderSession, error)
	Delete(ctx context.Context, id string) error
}

// Commands.

type DispatchCommand struct {
	RiderName  string
	RiderPhone string
	ETAMinutes int
}

type SaveProfileCommand struct {
	Name  string
	Email string
	Phone string
	Photo string
}

// Service interfaces (business logic).

type CatalogService interface {
	List(ctx context.Context, category domain.Category) ([]*domain.MenuItem, error)
	Save(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
	Seed(ctx context.Context) error
}

type OrderService interface {
	StartBuild(ctx context.Context, caller Caller, itemID string) (*BuilderSession, error)
	AddLine(ctx context.Context, caller Caller, sessionID, addOnName string) (*BuilderSession, error)
	SetLocation(ctx context.Context, caller Caller, sessionID string, loc domain.Location, note string) (*BuilderSession, error)
	SetQuery(ctx context.Context, caller Caller, sessionID, query string) (*BuilderSession, error)
	AbandonBuild(ctx context.Context, caller Caller, sessionID string) error
	PlaceOrder(ctx context.Context, caller Caller, sessionID string) (*domain.Order, error)
	History(ctx context.Context, userID string) ([]*domain.Order, error)
	Active(ctx context.Context, userID string) (*domain.Order, error)
	Reward(ctx context.Context, userID string) (domain.Reward, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	Advance(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error)
	Dispatch(ctx context.Context, orderID string, cmd DispatchCommand) (*domain.Order, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Save(ctx context.Context, userID string, cmd SaveProfileCommand) (*domain.UserProfile, error)
}

// TrackingSnapshot is the one-shot answer to "where is my order right now".
type TrackingSnapshot struct {
	OrderID    string             `json:"order_id"`
	Status     domain.Status      `json:"status"`
	Rider      domain.RiderState  `json:"rider"`
	RiderName  string             `json:"rider_name,omitempty"`
	RiderPhone string             `json:"rider_phone,omitempty"`
	ETAMinutes int                `json:"eta_minutes,omitempty"`
	Origin     domain.Coordinate  `json:"origin"`
	Dest       *domain.Coordinate `json:"destination,omitempty"`
}

type TrackingService interface {
	Snapshot(ctx context.Context, userID string) (*TrackingSnapshot, error)
}
