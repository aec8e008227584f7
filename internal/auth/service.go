package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mixit-delights/storefront/internal/adapter/postgres"
	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// ErrInvalidPIN rejects an admin unlock attempt. The handler maps it to a
// plain "Wrong PIN" without leaking whether a PIN exists at all.
var ErrInvalidPIN = errors.New("invalid admin PIN")

var ErrInvalidToken = errors.New("invalid token")

// Claims is the session token payload. Admin is granted only through
// ExchangePIN; sign-in flows never set it.
type Claims struct {
	UserID    string `json:"user_id"`
	Anonymous bool   `json:"anonymous"`
	Admin     bool   `json:"admin,omitempty"`
	jwt.StandardClaims
}

// customClaims is the shape minted by the trusted external issuer.
type customClaims struct {
	UID string `json:"uid"`
	jwt.StandardClaims
}

// Service owns identity: account records, password hashing, and session
// token minting/verification.
type Service struct {
	accounts  interfaces.AccountRepository
	publisher interfaces.MessagePublisher
	cfg       config.AuthConfig
}

func NewService(accounts interfaces.AccountRepository, publisher interfaces.MessagePublisher, cfg config.AuthConfig) *Service {
	return &Service{accounts: accounts, publisher: publisher, cfg: cfg}
}

// SignUpEmail registers a new email/password account. Validation failures
// come back as provider-coded errors so the handler can translate them.
func (s *Service) SignUpEmail(ctx context.Context, email, password, displayName string) (*domain.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return nil, "", newError(CodeInvalidEmail)
	}
	if len(password) < 6 {
		return nil, "", newError(CodeWeakPassword)
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, "", newError(CodeEmailAlreadyInUse)
	} else if !errors.Is(err, postgres.ErrAccountNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.mintToken(account.ID, false, false)
	return account, token, err
}

func (s *Service) SignInEmail(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrAccountNotFound) {
			return nil, "", newError(CodeUserNotFound)
		}
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", newError(CodeWrongPassword)
	}

	token, err := s.mintToken(account.ID, false, false)
	return account, token, err
}

// SignInAnonymous creates a throwaway account so browsing works without
// registration. Anonymous callers are gated out of order placement later.
func (s *Service) SignInAnonymous(ctx context.Context) (*domain.Account, string, error) {
	account := &domain.Account{
		ID:        uuid.NewString(),
		Anonymous: true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", fmt.Errorf("failed to create anonymous account: %w", err)
	}

	token, err := s.mintToken(account.ID, true, false)
	return account, token, err
}

// SignInCustomToken exchanges a token minted by the trusted external
// issuer for a regular session. The account is created on first sight.
func (s *Service) SignInCustomToken(ctx context.Context, raw string) (*domain.Account, string, error) {
	claims := &customClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.CustomTokenSecret), nil
	})
	if err != nil || !token.Valid || claims.UID == "" {
		return nil, "", ErrInvalidToken
	}

	account, err := s.accounts.Get(ctx, claims.UID)
	if errors.Is(err, postgres.ErrAccountNotFound) {
		account = &domain.Account{
			ID:        claims.UID,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, "", fmt.Errorf("failed to create account: %w", err)
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	session, err := s.mintToken(account.ID, false, false)
	return account, session, err
}

// SignInFederated finds or creates an account for an identity asserted by
// an external provider (e.g. a Google sign-in completed at the edge).
func (s *Service) SignInFederated(ctx context.Context, email, displayName string) (*domain.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, "", newError(CodeInvalidEmail)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, postgres.ErrAccountNotFound) {
		account = &domain.Account{
			ID:          uuid.NewString(),
			Email:       email,
			DisplayName: strings.TrimSpace(displayName),
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, "", fmt.Errorf("failed to create account: %w", err)
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	token, err := s.mintToken(account.ID, false, false)
	return account, token, err
}

// SendPasswordReset queues a reset notification on the fanout exchange.
// The token is single-use material for whatever delivery channel consumes
// the notification.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, postgres.ErrAccountNotFound) {
			return newError(CodeUserNotFound)
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	return s.publisher.PublishPasswordReset(ctx, interfaces.PasswordResetMessage{
		Email:      email,
		ResetToken: uuid.NewString(),
		Timestamp:  time.Now().UTC(),
	})
}

// ExchangePIN upgrades an authenticated session to an admin session. The
// admin claim lives server-side in the token; clients never decide it.
func (s *Service) ExchangePIN(ctx context.Context, caller interfaces.Caller, pin string) (string, error) {
	if pin != s.cfg.AdminPIN {
		return "", ErrInvalidPIN
	}
	return s.mintToken(caller.UserID, caller.Anonymous, true)
}

func (s *Service) UpdateDisplayName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("display name cannot be empty")
	}
	return s.accounts.UpdateDisplayName(ctx, userID, name)
}

func (s *Service) Account(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accounts.Get(ctx, userID)
}

// ParseToken verifies a session token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) mintToken(userID string, anonymous, admin bool) (string, error) {
	claims := Claims{
		UserID:    userID,
		Anonymous: anonymous,
		Admin:     admin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.cfg.TokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
