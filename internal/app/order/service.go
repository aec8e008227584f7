package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/adapter/metrics"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// ErrNotSessionOwner rejects builder operations against someone else's
// session.
var ErrNotSessionOwner = errors.New("builder session belongs to another user")

var ErrUnknownAddOn = errors.New("add-on is not offered for this item")

// GateError blocks order placement until the caller registers or finishes
// their profile. Resume tells the client where to drop the user after the
// missing step is done: back to the location picker when a build is already
// in progress, otherwise to the menu.
type GateError struct {
	Resume string
}

func (e *GateError) Error() string {
	return "profile setup required before placing an order"
}

type Service struct {
	orders    interfaces.OrderRepository
	profiles  interfaces.ProfileRepository
	menu      interfaces.MenuRepository
	sessions  interfaces.SessionStore
	publisher interfaces.MessagePublisher
	log       logger.Logger
	now       func() time.Time
}

func NewService(
	orders interfaces.OrderRepository,
	profiles interfaces.ProfileRepository,
	menu interfaces.MenuRepository,
	sessions interfaces.SessionStore,
	publisher interfaces.MessagePublisher,
	log logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		profiles:  profiles,
		menu:      menu,
		sessions:  sessions,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// StartBuild opens a builder session for one base item. The item is
// snapshotted into the session so later catalog edits cannot change a
// build in progress.
func (s *Service) StartBuild(ctx context.Context, caller interfaces.Caller, itemID string) (*interfaces.BuilderSession, error) {
	item, err := s.menu.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.InStock {
		return nil, domain.ErrOutOfStock
	}

	session := &interfaces.BuilderSession{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Item:      *item,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddLine stacks one add-on onto the build. The same add-on may be added
// repeatedly; each line gets its own UID so it can be shown and removed
// individually.
func (s *Service) AddLine(ctx context.Context, caller interfaces.Caller, sessionID, addOnName string) (*interfaces.BuilderSession, error) {
	session, err := s.ownedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	addOn, ok := session.Item.FindAddOn(addOnName)
	if !ok {
		return nil, ErrUnknownAddOn
	}

	session.Lines = append(session.Lines, domain.CartLine{
		UID:   uuid.NewString(),
		Name:  addOn.Name,
		Price: addOn.Price,
		Emoji: addOn.Emoji,
		Color: addOn.Color,
	})
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetLocation pins the delivery destination on the build. The location is
// already resolved by the caller (picker, search result, or GPS fallback).
func (s *Service) SetLocation(ctx context.Context, caller interfaces.Caller, sessionID string, loc domain.Location, note string) (*interfaces.BuilderSession, error) {
	session, err := s.ownedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	session.Location = &loc
	session.Note = note
	session.Query = ""
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetQuery records the current search text. Typing a new query drops any
// previously selected location so a stale pin cannot ride along under a
// fresh search.
func (s *Service) SetQuery(ctx context.Context, caller interfaces.Caller, sessionID, query string) (*interfaces.BuilderSession, error) {
	session, err := s.ownedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	session.Query = query
	session.Location = nil
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) AbandonBuild(ctx context.Context, caller interfaces.Caller, sessionID string) error {
	if _, err := s.ownedSession(ctx, caller, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

// PlaceOrder turns a builder session into a persisted order. All
// rejections happen before any write: no partial orders, no consumed
// sessions on failure.
func (s *Service) PlaceOrder(ctx context.Context, caller interfaces.Caller, sessionID string) (*domain.Order, error) {
	session, err := s.ownedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Location == nil {
		metrics.OrdersRejected.WithLabelValues("no_location").Inc()
		return nil, domain.ErrLocationRequired
	}

	profile, err := s.profiles.Get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if caller.Anonymous || !profile.Complete() {
		metrics.OrdersRejected.WithLabelValues("profile_gate").Inc()
		resume := "menu"
		if len(session.Lines) > 0 || session.Location != nil {
			resume = "location"
		}
		return nil, &GateError{Resume: resume}
	}

	history, err := s.orders.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	// Eligibility is evaluated at this instant; the discount baked into the
	// total never changes afterwards.
	reward := domain.RewardStatus(history, s.now())

	order, err := domain.NewOrder(caller.UserID, profile.Name, &session.Item, session.Lines, *session.Location, session.Note, reward.Eligible)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		return nil, err
	}
	order.ID = uuid.NewString()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersPlaced.Inc()
	metrics.OrderValue.Observe(float64(order.Total))

	// Side effect of a successful placement: the destination joins the
	// user's saved locations for one-tap reuse.
	if profile.RememberLocation(*session.Location) {
		if err := s.profiles.Save(ctx, caller.UserID, profile); err != nil {
			s.log.Error("order_save_location", "Failed to remember delivery location", order.ID, nil, err)
		}
	}

	if err := s.publisher.PublishOrderPlaced(ctx, interfaces.OrderPlacedMessage{
		OrderID:      order.ID,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		ItemName:     order.ItemName,
		Category:     session.Item.Category,
		Total:        order.Total,
		Location:     order.Location,
		PlacedAt:     order.CreatedAt,
	}); err != nil {
		s.log.Error("order_publish", "Failed to publish order placement", order.ID, nil, err)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Error("order_session_cleanup", "Failed to delete builder session", order.ID, nil, err)
	}

	s.log.Info("order_placed", fmt.Sprintf("Order %s placed for %d naira", order.ID, order.Total), order.ID, map[string]interface{}{
		"user_id":  order.UserID,
		"item":     order.ItemName,
		"total":    order.Total,
		"discount": reward.Eligible,
	})
	return order, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) Active(ctx context.Context, userID string) (*domain.Order, error) {
	history, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ActiveOrder(history), nil
}

// Reward recomputes eligibility from scratch on every call; the trailing
// window moves with the clock.
func (s *Service) Reward(ctx context.Context, userID string) (domain.Reward, error) {
	history, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return domain.Reward{}, err
	}
	return domain.RewardStatus(history, s.now()), nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// Advance moves an order along the status machine. Dispatch is refused
// here; it needs rider details and goes through Dispatch.
func (s *Service) Advance(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.publishStatusUpdate(ctx, order, oldStatus)
	return order, nil
}

// Dispatch hands the order to a rider: status change and rider details in
// one atomic step.
func (s *Service) Dispatch(ctx context.Context, orderID string, cmd interfaces.DispatchCommand) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.Dispatch(cmd.RiderName, cmd.RiderPhone, cmd.ETAMinutes); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersDispatched.Inc()

	s.publishStatusUpdate(ctx, order, oldStatus)
	return order, nil
}

func (s *Service) publishStatusUpdate(ctx context.Context, order *domain.Order, oldStatus domain.Status) {
	err := s.publisher.PublishStatusUpdate(ctx, interfaces.StatusUpdateMessage{
		OrderID:    order.ID,
		UserID:     order.UserID,
		OldStatus:  oldStatus,
		NewStatus:  order.Status,
		RiderName:  order.RiderName,
		RiderPhone: order.RiderPhone,
		ETAMinutes: order.ETAMinutes,
		Timestamp:  s.now(),
	})
	if err != nil {
		s.log.Error("status_publish", "Failed to publish status update", order.ID, nil, err)
	}
}

func (s *Service) ownedSession(ctx context.Context, caller interfaces.Caller, sessionID string) (*interfaces.BuilderSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != caller.UserID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}
