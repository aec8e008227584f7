package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// ErrAccountNotFound lets the auth layer distinguish a missing account
// from a store failure.
var ErrAccountNotFound = errors.New("account not found")

type accountRepository struct {
	db DB
}

func NewAccountRepository(db DB) interfaces.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	var email any
	if account.Email != "" {
		email = account.Email
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, display_name, anonymous, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, email, account.PasswordHash, account.DisplayName,
		account.Anonymous, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	return r.findBy(ctx, `SELECT id, COALESCE(email, ''), password_hash, display_name, anonymous, created_at
		FROM accounts WHERE id = $1`, id)
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findBy(ctx, `SELECT id, COALESCE(email, ''), password_hash, display_name, anonymous, created_at
		FROM accounts WHERE email = $1`, email)
}

func (r *accountRepository) UpdateDisplayName(ctx context.Context, id, name string) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET display_name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) findBy(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.DisplayName, &account.Anonymous, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &account, nil
}
