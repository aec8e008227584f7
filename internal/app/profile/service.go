package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

var ErrNameRequired = errors.New("profile name is required")

type Service struct {
	profiles interfaces.ProfileRepository
	accounts interfaces.AccountRepository
	log      logger.Logger
}

func NewService(profiles interfaces.ProfileRepository, accounts interfaces.AccountRepository, log logger.Logger) *Service {
	return &Service{profiles: profiles, accounts: accounts, log: log}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

// Save merges the submitted fields into the stored profile. Fields the
// form leaves empty keep their stored values; saved locations and the join
// date are never clobbered by a form submit.
func (s *Service) Save(ctx context.Context, userID string, cmd interfaces.SaveProfileCommand) (*domain.UserProfile, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Name = name
	if email := strings.TrimSpace(cmd.Email); email != "" {
		profile.Email = strings.ToLower(email)
	}
	if phone := strings.TrimSpace(cmd.Phone); phone != "" {
		profile.Phone = domain.NormalizePhone(phone)
	}
	if photo := strings.TrimSpace(cmd.Photo); photo != "" {
		profile.Photo = photo
	}
	if profile.JoinedAt.IsZero() {
		profile.JoinedAt = time.Now().UTC()
	}

	if err := s.profiles.Save(ctx, userID, profile); err != nil {
		return nil, err
	}

	// Keep the account display name in step with the profile name.
	if err := s.accounts.UpdateDisplayName(ctx, userID, name); err != nil {
		s.log.Error("profile_display_name", "Failed to sync display name", userID, nil, err)
	}

	return profile, nil
}
