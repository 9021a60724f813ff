// Package reminder implements the Reminder repository using PostgreSQL.
package reminder

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

const table = "reminders"

const allColumns = "id, user_id, recording_id, title, description, due_date, priority, status, created_at, updated_at"

type row struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	RecordingID *uuid.UUID `db:"recording_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	DueDate     *time.Time `db:"due_date"`
	Priority    string     `db:"priority"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r row) toDomain() *domain.Reminder {
	return &domain.Reminder{
		ID:          r.ID,
		UserID:      r.UserID,
		RecordingID: r.RecordingID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    domain.ReminderPriority(r.Priority),
		Status:      domain.ReminderStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Repo provides reminder persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new reminder repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new reminder and returns the persisted entity.
func (r *Repo) Create(ctx context.Context, rem *domain.Reminder) (*domain.Reminder, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "recording_id", "title", "description", "due_date", "priority", "status").
		Values(rem.UserID, rem.RecordingID, rem.Title, rem.Description, rem.DueDate,
			string(rem.Priority), string(rem.Status)).
		Suffix("RETURNING " + allColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert reminder: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "reminder")
	}
	return out.toDomain(), nil
}

// GetByID returns the reminder owned by userID, or ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Reminder, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "user_id", "recording_id", "title", "description", "due_date",
			"priority", "status", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select reminder: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "reminder")
	}
	return out.toDomain(), nil
}

// List returns reminders for userID, optionally narrowed by status and
// due-date range, ordered by due date (nulls last), then creation time.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, status *domain.ReminderStatus, from, to *time.Time) ([]*domain.Reminder, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	where := squirrel.And{squirrel.Eq{"user_id": userID}}
	if status != nil {
		where = append(where, squirrel.Eq{"status": string(*status)})
	}
	if from != nil {
		where = append(where, squirrel.GtOrEq{"due_date": *from})
	}
	if to != nil {
		where = append(where, squirrel.LtOrEq{"due_date": *to})
	}

	sql, args, err := postgres.Builder().
		Select("id", "user_id", "recording_id", "title", "description", "due_date",
			"priority", "status", "created_at", "updated_at").
		From(table).
		Where(where).
		OrderBy("due_date ASC NULLS LAST", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reminders: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "reminder")
	}

	out := make([]*domain.Reminder, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// Update applies the non-nil fields of params to a reminder owned by userID.
func (r *Repo) Update(ctx context.Context, userID, id uuid.UUID, params domain.ReminderUpdateParams) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := postgres.Builder().
		Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.DueDate != nil {
		update = update.Set("due_date", *params.DueDate)
	}
	if params.Priority != nil {
		update = update.Set("priority", string(*params.Priority))
	}
	if params.Status != nil {
		update = update.Set("status", string(*params.Status))
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update reminder: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "reminder")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a reminder owned by userID.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reminder: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "reminder")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
