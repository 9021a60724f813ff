// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/adapter/postgres"
	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

const table = "users"

type row struct {
	ID           uuid.UUID `db:"id"`
	OpenID       string    `db:"open_id"`
	Name         string    `db:"name"`
	Email        *string   `db:"email"`
	LoginMethod  *string   `db:"login_method"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastSignedIn time.Time `db:"last_signed_in"`
}

func (r row) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		OpenID:       r.OpenID,
		Name:         r.Name,
		Email:        r.Email,
		LoginMethod:  r.LoginMethod,
		Role:         domain.UserRole(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastSignedIn: r.LastSignedIn,
	}
}

func columns() []string {
	return []string{"id", "open_id", "name", "email", "login_method", "role",
		"created_at", "updated_at", "last_signed_in"}
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new user repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Upsert inserts a user by open id or refreshes an existing one,
// bumping last_signed_in either way.
func (r *Repo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("open_id", "name", "email", "login_method", "role").
		Values(u.OpenID, u.Name, u.Email, u.LoginMethod, string(u.Role)).
		Suffix(`ON CONFLICT (open_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(EXCLUDED.email, users.email),
			login_method = COALESCE(EXCLUDED.login_method, users.login_method),
			last_signed_in = now(),
			updated_at = now()
		RETURNING id, open_id, name, email, login_method, role, created_at, updated_at, last_signed_in`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert user: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user")
	}
	return out.toDomain(), nil
}

// GetByID returns the user with the given id, or ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByOpenID returns the user with the given external identity, or ErrNotFound.
func (r *Repo) GetByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"open_id": openID})
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns()...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user")
	}
	return out.toDomain(), nil
}
