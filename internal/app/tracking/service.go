package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// framePeriod is how often a live feed pushes a rider frame. Fast enough
// for smooth map motion, far below the 30s route loop.
const framePeriod = 500 * time.Millisecond

var ErrNoActiveOrder = errors.New("no active order to track")

// Broadcaster pushes frames to live subscribers (the websocket hub).
type Broadcaster interface {
	Broadcast(topic string, payload interface{})
}

type feed struct {
	cancel  context.CancelFunc
	orderID string
	status  domain.Status
	dest    domain.Coordinate
}

// Service runs one simulated rider feed per user with an active order.
// Feeds restart when the order's status or destination changes and stop on
// delivery or when the order disappears.
type Service struct {
	orders    interfaces.OrderRepository
	broadcast Broadcaster
	origin    domain.Coordinate
	log       logger.Logger

	mu    sync.Mutex
	feeds map[string]*feed
}

func NewService(orders interfaces.OrderRepository, broadcast Broadcaster, kitchen config.KitchenConfig, log logger.Logger) *Service {
	return &Service{
		orders:    orders,
		broadcast: broadcast,
		origin:    domain.Coordinate{Lat: kitchen.Lat, Lng: kitchen.Lng},
		log:       log,
		feeds:     make(map[string]*feed),
	}
}

// Snapshot answers "where is my order right now" without a live feed.
func (s *Service) Snapshot(ctx context.Context, userID string) (*interfaces.TrackingSnapshot, error) {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.frame(order, time.Since(order.UpdatedAt)), nil
}

// Refresh reconciles the user's feed with the store: called when a
// tracking subscription starts and whenever one of the user's orders
// changes. Idempotent.
func (s *Service) Refresh(ctx context.Context, userID string) {
	order, err := s.activeOrder(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.feeds[userID]

	if err != nil {
		// Delivered or gone: push a final frame for a just-delivered order,
		// then stop the loop.
		if current != nil {
			s.stopLocked(userID)
			s.pushFinalFrame(ctx, userID, current.orderID)
		}
		return
	}

	if current != nil &&
		current.orderID == order.ID &&
		current.status == order.Status &&
		current.dest == order.Location.Coordinate() {
		return
	}

	if current != nil {
		s.stopLocked(userID)
	}

	feedCtx, cancel := context.WithCancel(context.Background())
	s.feeds[userID] = &feed{
		cancel:  cancel,
		orderID: order.ID,
		status:  order.Status,
		dest:    order.Location.Coordinate(),
	}
	s.log.Debug("tracking_feed_started", "Rider feed started", order.ID, map[string]interface{}{
		"user_id": userID,
		"status":  string(order.Status),
	})
	go s.run(feedCtx, userID, order)
}

// Stop tears down the user's feed, e.g. when the last tracking subscriber
// disconnects.
func (s *Service) Stop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(userID)
}

// Shutdown stops every feed.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID := range s.feeds {
		s.stopLocked(userID)
	}
}

func (s *Service) stopLocked(userID string) {
	if f, ok := s.feeds[userID]; ok {
		f.cancel()
		delete(s.feeds, userID)
	}
}

func (s *Service) run(ctx context.Context, userID string, order *domain.Order) {
	topic := "tracking:" + userID
	start := time.Now()

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	// Immediate first frame so subscribers see the rider without waiting a
	// tick.
	s.broadcast.Broadcast(topic, s.frame(order, 0))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast.Broadcast(topic, s.frame(order, time.Since(start)))
		}
	}
}

// pushFinalFrame broadcasts the delivered frame once so the map settles on
// the destination instead of freezing mid-route.
func (s *Service) pushFinalFrame(ctx context.Context, userID, orderID string) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil || order.Status != domain.StatusDelivered {
		return
	}
	s.broadcast.Broadcast("tracking:"+userID, s.frame(order, 0))
}

func (s *Service) frame(order *domain.Order, elapsed time.Duration) *interfaces.TrackingSnapshot {
	dest := order.Location.Coordinate()
	return &interfaces.TrackingSnapshot{
		OrderID:    order.ID,
		Status:     order.Status,
		Rider:      domain.Rider(order.Status, s.origin, dest, elapsed),
		RiderName:  order.RiderName,
		RiderPhone: order.RiderPhone,
		ETAMinutes: order.ETAMinutes,
		Origin:     s.origin,
		Dest:       &dest,
	}
}

func (s *Service) activeOrder(ctx context.Context, userID string) (*domain.Order, error) {
	history, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	order := domain.ActiveOrder(history)
	if order == nil {
		return nil, ErrNoActiveOrder
	}
	return order, nil
}
