// Package history implements the ChangeHistory repository.
// It provides append-only operations: entries are inserted, listed
// most-recent-first, and never updated or deleted.
package history

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

const table = "change_history"

type row struct {
	ID          uuid.UUID `db:"id"`
	RecordingID uuid.UUID `db:"recording_id"`
	EditorID    uuid.UUID `db:"editor_id"`
	EditorName  string    `db:"editor_name"`
	ChangeType  string    `db:"change_type"`
	OldValue    string    `db:"old_value"`
	NewValue    string    `db:"new_value"`
	Memo        *string   `db:"memo"`
	ChangedAt   time.Time `db:"changed_at"`
}

func (r row) toDomain() *domain.ChangeHistory {
	return &domain.ChangeHistory{
		ID:          r.ID,
		RecordingID: r.RecordingID,
		EditorID:    r.EditorID,
		EditorName:  r.EditorName,
		ChangeType:  domain.ChangeType(r.ChangeType),
		OldValue:    r.OldValue,
		NewValue:    r.NewValue,
		Memo:        r.Memo,
		ChangedAt:   r.ChangedAt,
	}
}

// Repo provides change history persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new change history repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Append inserts one immutable history entry. Called inside the same
// transaction as the edit it records, so history and data never diverge.
func (r *Repo) Append(ctx context.Context, entry *domain.ChangeHistory) (*domain.ChangeHistory, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("recording_id", "editor_id", "editor_name", "change_type",
			"old_value", "new_value", "memo").
		Values(entry.RecordingID, entry.EditorID, entry.EditorName, string(entry.ChangeType),
			entry.OldValue, entry.NewValue, entry.Memo).
		Suffix("RETURNING id, recording_id, editor_id, editor_name, change_type, old_value, new_value, memo, changed_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert change_history: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "change_history")
	}
	return out.toDomain(), nil
}

// ListByRecordingID returns all history entries for a recording,
// most recent first.
func (r *Repo) ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.ChangeHistory, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "recording_id", "editor_id", "editor_name", "change_type",
			"old_value", "new_value", "memo", "changed_at").
		From(table).
		Where(squirrel.Eq{"recording_id": recordingID}).
		OrderBy("changed_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list change_history: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "change_history")
	}

	entries := make([]*domain.ChangeHistory, len(rows))
	for i, rw := range rows {
		entries[i] = rw.toDomain()
	}
	return entries, nil
}
