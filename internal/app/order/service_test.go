package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

type fakeOrders struct {
	byID    map[string]*domain.Order
	created []string
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[string]*domain.Order{}}
}

func (f *fakeOrders) Create(ctx context.Context, o *domain.Order) error {
	cp := *o
	f.byID[o.ID] = &cp
	f.created = append(f.created, o.ID)
	return nil
}

func (f *fakeOrders) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.byID {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.byID {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeOrders) Update(ctx context.Context, o *domain.Order) error {
	if _, ok := f.byID[o.ID]; !ok {
		return errors.New("order not found")
	}
	cp := *o
	f.byID[o.ID] = &cp
	return nil
}

type fakeProfiles struct {
	byUser map[string]*domain.UserProfile
	saves  int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byUser: map[string]*domain.UserProfile{}}
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if p, ok := f.byUser[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return &domain.UserProfile{}, nil
}

func (f *fakeProfiles) Save(ctx context.Context, userID string, p *domain.UserProfile) error {
	cp := *p
	f.byUser[userID] = &cp
	f.saves++
	return nil
}

type fakeMenu struct {
	byID map[string]*domain.MenuItem
}

func newFakeMenu(items ...*domain.MenuItem) *fakeMenu {
	f := &fakeMenu{byID: map[string]*domain.MenuItem{}}
	for _, item := range items {
		f.byID[item.ID] = item
	}
	return f
}

func (f *fakeMenu) List(ctx context.Context) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, item := range f.byID {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeMenu) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, ok := f.byID[id]
	if !ok {
		return nil, errors.New("menu item not found")
	}
	cp := *item
	return &cp, nil
}

func (f *fakeMenu) Create(ctx context.Context, item *domain.MenuItem) error {
	f.byID[item.ID] = item
	return nil
}

func (f *fakeMenu) Update(ctx context.Context, item *domain.MenuItem) error {
	f.byID[item.ID] = item
	return nil
}

func (f *fakeMenu) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeMenu) Count(ctx context.Context) (int, error) {
	return len(f.byID), nil
}

func (f *fakeMenu) SeedBatch(ctx context.Context, items []*domain.MenuItem) error {
	for _, item := range items {
		f.byID[item.ID] = item
	}
	return nil
}

type fakeSessions struct {
	byID map[string]*interfaces.BuilderSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]*interfaces.BuilderSession{}}
}

func (f *fakeSessions) Save(ctx context.Context, s *interfaces.BuilderSession) error {
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*interfaces.BuilderSession, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, errors.New("builder session not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) FindByUser(ctx context.Context, userID string) (*interfaces.BuilderSession, error) {
	for _, s := range f.byID {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.New("builder session not found")
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type recordingPublisher struct {
	placed  []interfaces.OrderPlacedMessage
	updates []interfaces.StatusUpdateMessage
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	p.placed = append(p.placed, msg)
	return nil
}

func (p *recordingPublisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	p.updates = append(p.updates, msg)
	return nil
}

func (p *recordingPublisher) PublishPasswordReset(ctx context.Context, msg interfaces.PasswordResetMessage) error {
	return nil
}

func titanStack() *domain.MenuItem {
	return &domain.MenuItem{
		ID:       "item-titan",
		Name:     "Titan Stack",
		Category: domain.CategoryBurger,
		Price:    3500,
		InStock:  true,
		AddOns: []domain.AddOn{
			{Name: "Extra Beef", Price: 1000, Emoji: "🥩"},
			{Name: "Cheese", Price: 500, Emoji: "🧀"},
		},
	}
}

type fixture struct {
	svc       *Service
	orders    *fakeOrders
	profiles  *fakeProfiles
	sessions  *fakeSessions
	publisher *recordingPublisher
}

func newFixture(t *testing.T, items ...*domain.MenuItem) *fixture {
	t.Helper()
	if len(items) == 0 {
		items = []*domain.MenuItem{titanStack()}
	}
	orders := newFakeOrders()
	profiles := newFakeProfiles()
	sessions := newFakeSessions()
	publisher := &recordingPublisher{}
	svc := NewService(orders, profiles, newFakeMenu(items...), sessions, publisher, logger.New("test"))
	return &fixture{svc: svc, orders: orders, profiles: profiles, sessions: sessions, publisher: publisher}
}

func registeredCaller(f *fixture, userID string) interfaces.Caller {
	f.profiles.byUser[userID] = &domain.UserProfile{Name: "Ada", Email: userID + "@example.com"}
	return interfaces.Caller{UserID: userID}
}

func kaduna() domain.Location {
	return domain.Location{Lat: 10.52, Lng: 7.44, Name: "Central Market, Kaduna"}
}

func TestPlaceOrderWithoutLocationWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := registeredCaller(f, "user-1")

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, caller, session.ID, "Cheese")
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, caller, session.ID)
	assert.ErrorIs(t, err, domain.ErrLocationRequired)

	// Nothing was written and the build survives intact.
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.publisher.placed)
	kept, err := f.sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Lines, 1)
}

func TestPlaceOrderGatesAnonymousCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := interfaces.Caller{UserID: "anon-1", Anonymous: true}

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, caller, session.ID, kaduna(), "")
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, caller, session.ID)
	var gate *GateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, "location", gate.Resume)
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrderGatesIncompleteProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Registered but never filled in a name.
	caller := interfaces.Caller{UserID: "user-2"}
	f.profiles.byUser["user-2"] = &domain.UserProfile{Email: "u2@example.com"}

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, caller, session.ID, kaduna(), "")
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, caller, session.ID)
	var gate *GateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, "location", gate.Resume)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := registeredCaller(f, "user-1")

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, caller, session.ID, "Extra Beef")
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, caller, session.ID, "Cheese")
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, caller, session.ID, kaduna(), "ring the bell")
	require.NoError(t, err)

	order, err := f.svc.PlaceOrder(ctx, caller, session.ID)
	require.NoError(t, err)

	assert.Equal(t, 5000, order.Total)
	assert.Equal(t, domain.StatusReceived, order.Status)
	assert.Equal(t, "Ada", order.CustomerName)
	assert.Equal(t, "ring the bell", order.Note)

	// Session is consumed, placement is announced, location remembered.
	_, err = f.sessions.Get(ctx, session.ID)
	assert.Error(t, err)
	require.Len(t, f.publisher.placed, 1)
	assert.Equal(t, domain.CategoryBurger, f.publisher.placed[0].Category)
	saved := f.profiles.byUser["user-1"].SavedLocations
	require.Len(t, saved, 1)
	assert.Equal(t, "Central Market, Kaduna", saved[0].Name)
}

func TestPlaceOrderAppliesRewardDiscountAtSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := registeredCaller(f, "user-1")

	// Ten orders inside the trailing week makes the next one discounted.
	for i := 0; i < 10; i++ {
		f.orders.byID[string(rune('a'+i))] = &domain.Order{
			ID:        string(rune('a' + i)),
			UserID:    "user-1",
			Status:    domain.StatusDelivered,
			CreatedAt: time.Now().UTC().Add(-time.Duration(i) * time.Hour),
		}
	}

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, caller, session.ID, "Extra Beef")
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, caller, session.ID, "Cheese")
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, caller, session.ID, kaduna(), "")
	require.NoError(t, err)

	order, err := f.svc.PlaceOrder(ctx, caller, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000, order.Total, "5000 cart minus 2000 reward")
}

func TestRewardBelowThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registeredCaller(f, "user-1")

	for i := 0; i < 9; i++ {
		f.orders.byID[string(rune('a'+i))] = &domain.Order{
			ID:        string(rune('a' + i)),
			UserID:    "user-1",
			Status:    domain.StatusDelivered,
			CreatedAt: time.Now().UTC().Add(-time.Hour),
		}
	}

	reward, err := f.svc.Reward(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 9, reward.Count)
	assert.False(t, reward.Eligible)
}

func TestSetQueryClearsStaleSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := registeredCaller(f, "user-1")

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, caller, session.ID, kaduna(), "")
	require.NoError(t, err)

	updated, err := f.svc.SetQuery(ctx, caller, session.ID, "wuse market")
	require.NoError(t, err)
	assert.Nil(t, updated.Location)
	assert.Equal(t, "wuse market", updated.Query)

	// Placement now fails the location check again.
	_, err = f.svc.PlaceOrder(ctx, caller, session.ID)
	assert.ErrorIs(t, err, domain.ErrLocationRequired)
}

func TestStartBuildRejectsOutOfStockItem(t *testing.T) {
	item := titanStack()
	item.InStock = false
	f := newFixture(t, item)
	caller := registeredCaller(f, "user-1")

	_, err := f.svc.StartBuild(context.Background(), caller, "item-titan")
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestAddLineRejectsUnknownAddOn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := registeredCaller(f, "user-1")

	session, err := f.svc.StartBuild(ctx, caller, "item-titan")
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, caller, session.ID, "Meatballs")
	assert.ErrorIs(t, err, ErrUnknownAddOn)
}

func TestBuilderSessionOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := registeredCaller(f, "user-1")
	intruder := registeredCaller(f, "user-2")

	session, err := f.svc.StartBuild(ctx, owner, "item-titan")
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, intruder, session.ID, "Cheese")
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}

func TestDispatchRequiresRiderDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.orders.byID["order-1"] = &domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: domain.StatusPreparing,
	}

	// Missing ETA leaves the order untouched.
	_, err := f.svc.Dispatch(ctx, "order-1", interfaces.DispatchCommand{RiderName: "Musa"})
	assert.ErrorIs(t, err, domain.ErrDispatchDetailsRequired)
	stored, _ := f.orders.Get(ctx, "order-1")
	assert.Equal(t, domain.StatusPreparing, stored.Status)
	assert.Empty(t, f.publisher.updates)

	// Complete details dispatch and announce.
	order, err := f.svc.Dispatch(ctx, "order-1", interfaces.DispatchCommand{
		RiderName:  "Musa",
		RiderPhone: "08031234567",
		ETAMinutes: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDispatch, order.Status)
	require.Len(t, f.publisher.updates, 1)
	assert.Equal(t, "Musa", f.publisher.updates[0].RiderName)
	assert.Equal(t, 25, f.publisher.updates[0].ETAMinutes)
}

func TestAdvanceRefusesDispatchShortcut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.orders.byID["order-1"] = &domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: domain.StatusPreparing,
	}

	_, err := f.svc.Advance(ctx, "order-1", domain.StatusDispatch)
	assert.ErrorIs(t, err, domain.ErrDispatchDetailsRequired)

	order, err := f.svc.Advance(ctx, "order-1", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, order.Status)
	require.Len(t, f.publisher.updates, 1)
	assert.Equal(t, domain.StatusPreparing, f.publisher.updates[0].OldStatus)
}

func TestActiveSelectsNewestUndelivered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	f.orders.byID["old"] = &domain.Order{ID: "old", UserID: "user-1", Status: domain.StatusPreparing, CreatedAt: now.Add(-2 * time.Hour)}
	f.orders.byID["done"] = &domain.Order{ID: "done", UserID: "user-1", Status: domain.StatusDelivered, CreatedAt: now.Add(-time.Minute)}
	f.orders.byID["new"] = &domain.Order{ID: "new", UserID: "user-1", Status: domain.StatusReceived, CreatedAt: now.Add(-time.Hour)}

	active, err := f.svc.Active(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "new", active.ID)
}
