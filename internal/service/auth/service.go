// Package auth implements login and identity lookup.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/altis0725/insurance-ai-backend/internal/config"
	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// devOpenID identifies the development account. There is exactly one; dev
// login always resolves to it.
const devOpenID = "dev-user"

type userRepo interface {
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, name string) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, string, error)
}

// Service implements auth operations.
type Service struct {
	users userRepo
	jwt   jwtManager
	cfg   config.AuthConfig
	log   *slog.Logger
}

// NewService creates the auth service.
func NewService(log *slog.Logger, users userRepo, jwt jwtManager, cfg config.AuthConfig) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
		cfg:   cfg,
		log:   log.With("service", "auth"),
	}
}

// LoginResult carries a signed access token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// DevLogin signs in the development account. It is rejected outright unless
// enabled in configuration; when a password hash is configured the supplied
// password must match it.
func (s *Service) DevLogin(ctx context.Context, password string) (*LoginResult, error) {
	if !s.cfg.DevLoginEnabled {
		return nil, fmt.Errorf("dev login is disabled: %w", domain.ErrUnauthorized)
	}
	if s.cfg.DevLoginPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.DevLoginPassword), []byte(password)); err != nil {
			return nil, fmt.Errorf("dev login password mismatch: %w", domain.ErrUnauthorized)
		}
	}

	email := "dev@example.com"
	method := "local"
	user, err := s.users.Upsert(ctx, &domain.User{
		OpenID:      devOpenID,
		Name:        "Dev User",
		Email:       &email,
		LoginMethod: &method,
		Role:        domain.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert dev user: %w", err)
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "dev login", slog.String("user_id", user.ID.String()))
	return result, nil
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ValidateToken checks an access token and returns the user ID and display
// name embedded in it. Used by the HTTP auth middleware.
func (s *Service) ValidateToken(token string) (uuid.UUID, string, error) {
	userID, name, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("validate token: %w", domain.ErrUnauthorized)
	}
	return userID, name, nil
}

func (s *Service) issueToken(user *domain.User) (*LoginResult, error) {
	token, err := s.jwt.GenerateAccessToken(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.AccessTokenTTL),
		User:      user,
	}, nil
}
