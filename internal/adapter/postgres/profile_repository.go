package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

type profileRepository struct {
	db DB
}

func NewProfileRepository(db DB) interfaces.ProfileRepository {
	return &profileRepository{db: db}
}

// Get returns an empty profile when the user has never saved one, so
// callers always get a document to merge into.
func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM profiles WHERE user_id = $1`, userID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.UserProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, userID string, profile *domain.UserProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, doc, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET doc = $2, updated_at = now()`,
		userID, doc)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	ev := interfaces.ChangeEvent{Collection: "profiles", DocID: userID, UserID: userID}
	if err := notify(ctx, tx, ev); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
