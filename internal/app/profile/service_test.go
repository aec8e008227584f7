package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

type memProfiles struct {
	byUser map[string]*domain.UserProfile
}

func (m *memProfiles) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if p, ok := m.byUser[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return &domain.UserProfile{}, nil
}

func (m *memProfiles) Save(ctx context.Context, userID string, p *domain.UserProfile) error {
	cp := *p
	m.byUser[userID] = &cp
	return nil
}

type memAccounts struct {
	displayNames map[string]string
}

func (m *memAccounts) Create(ctx context.Context, a *domain.Account) error { return nil }

func (m *memAccounts) Get(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (m *memAccounts) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return nil, nil
}

func (m *memAccounts) UpdateDisplayName(ctx context.Context, id, name string) error {
	m.displayNames[id] = name
	return nil
}

func newTestService() (*Service, *memProfiles, *memAccounts) {
	profiles := &memProfiles{byUser: map[string]*domain.UserProfile{}}
	accounts := &memAccounts{displayNames: map[string]string{}}
	return NewService(profiles, accounts, logger.New("test")), profiles, accounts
}

func TestSaveRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Save(context.Background(), "user-1", interfaces.SaveProfileCommand{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestSaveNormalizesPhone(t *testing.T) {
	svc, _, _ := newTestService()

	profile, err := svc.Save(context.Background(), "user-1", interfaces.SaveProfileCommand{
		Name:  "Ada",
		Phone: "0803 123 4567",
	})
	require.NoError(t, err)
	assert.Equal(t, "+2348031234567", profile.Phone)
}

func TestSaveMergesWithoutClobbering(t *testing.T) {
	svc, profiles, accounts := newTestService()
	ctx := context.Background()

	profiles.byUser["user-1"] = &domain.UserProfile{
		Name:  "Ada",
		Email: "ada@example.com",
		Phone: "+2348031234567",
		SavedLocations: []domain.Location{
			{Lat: 10.52, Lng: 7.44, Name: "Central Market, Kaduna"},
		},
	}

	// A rename with blank email and phone keeps the stored values.
	profile, err := svc.Save(ctx, "user-1", interfaces.SaveProfileCommand{Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "+2348031234567", profile.Phone)
	assert.Len(t, profile.SavedLocations, 1)
	assert.False(t, profile.JoinedAt.IsZero())

	assert.Equal(t, "Ada L.", accounts.displayNames["user-1"])
}
