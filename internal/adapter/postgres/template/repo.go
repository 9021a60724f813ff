// Package template implements the IntentTemplate repository.
// The single-default invariant is enforced twice: a partial unique index
// in the schema, and a clear-then-set swap executed inside one transaction.
package template

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

const table = "intent_templates"

const allColumns = "id, name, description, content, is_default, created_by, created_at, updated_at"

type row struct {
	ID          uuid.UUID  `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Content     string     `db:"content"`
	IsDefault   bool       `db:"is_default"`
	CreatedBy   *uuid.UUID `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r row) toDomain() *domain.IntentTemplate {
	return &domain.IntentTemplate{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Content:     r.Content,
		IsDefault:   r.IsDefault,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Repo provides intent template persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new intent template repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new template and returns the persisted entity.
func (r *Repo) Create(ctx context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("name", "description", "content", "is_default", "created_by").
		Values(tpl.Name, tpl.Description, tpl.Content, tpl.IsDefault, tpl.CreatedBy).
		Suffix("RETURNING " + allColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert intent_template: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "intent_template")
	}
	return out.toDomain(), nil
}

// GetByID returns the template with the given id, or ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetDefault returns the template flagged as default, or ErrNotFound.
func (r *Repo) GetDefault(ctx context.Context) (*domain.IntentTemplate, error) {
	return r.getOne(ctx, squirrel.Eq{"is_default": true})
}

func (r *Repo) getOne(ctx context.Context, pred any) (*domain.IntentTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "name", "description", "content", "is_default", "created_by", "created_at", "updated_at").
		From(table).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select intent_template: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "intent_template")
	}
	return out.toDomain(), nil
}

// List returns all templates, default first, then by creation time.
func (r *Repo) List(ctx context.Context) ([]*domain.IntentTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "name", "description", "content", "is_default", "created_by", "created_at", "updated_at").
		From(table).
		OrderBy("is_default DESC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list intent_templates: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "intent_template")
	}

	out := make([]*domain.IntentTemplate, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// Count returns the number of templates.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count intent_templates: %w", err)
	}

	var total int
	if err := pgxscan.Get(ctx, q, &total, sql, args...); err != nil {
		return 0, postgres.MapError(err, "intent_template")
	}
	return total, nil
}

// Update applies the non-nil fields of params to a template.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.TemplateUpdateParams) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := postgres.Builder().
		Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})

	if params.Name != nil {
		update = update.Set("name", *params.Name)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.Content != nil {
		update = update.Set("content", *params.Content)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update intent_template: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "intent_template")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("intent_template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a template.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete intent_template: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "intent_template")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("intent_template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ClearDefault unsets the is_default flag wherever it is set.
// Must run inside the same transaction as the following SetDefault so the
// partial unique index never sees two defaults.
func (r *Repo) ClearDefault(ctx context.Context) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("is_default", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"is_default": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear default intent_template: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "intent_template")
	}
	return nil
}

// SetDefault flags one template as the default.
func (r *Repo) SetDefault(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("is_default", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set default intent_template: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "intent_template")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("intent_template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
