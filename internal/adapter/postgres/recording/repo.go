// Package recording implements the Recording repository using PostgreSQL.
// Every read is scoped by the owning user id: a recording another user owns
// behaves exactly like a missing row (domain.ErrNotFound).
package recording

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

const table = "recordings"

var columns = []string{
	"id", "user_id", "recorded_at", "staff_name", "customer_name",
	"meeting_type", "status", "product_category", "duration_seconds",
	"audio_path", "transcription", "created_at", "updated_at",
}

// row mirrors the recordings table for scany.
type row struct {
	ID              uuid.UUID  `db:"id"`
	UserID          uuid.UUID  `db:"user_id"`
	RecordedAt      time.Time  `db:"recorded_at"`
	StaffName       string     `db:"staff_name"`
	CustomerName    string     `db:"customer_name"`
	MeetingType     string     `db:"meeting_type"`
	Status          string     `db:"status"`
	ProductCategory *string    `db:"product_category"`
	DurationSeconds int        `db:"duration_seconds"`
	AudioPath       *string    `db:"audio_path"`
	Transcription   *string    `db:"transcription"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (r row) toDomain() *domain.Recording {
	rec := &domain.Recording{
		ID:              r.ID,
		UserID:          r.UserID,
		RecordedAt:      r.RecordedAt,
		StaffName:       r.StaffName,
		CustomerName:    r.CustomerName,
		MeetingType:     domain.MeetingType(r.MeetingType),
		Status:          domain.RecordingStatus(r.Status),
		DurationSeconds: r.DurationSeconds,
		AudioPath:       r.AudioPath,
		Transcription:   r.Transcription,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ProductCategory != nil {
		pc := domain.ProductCategory(*r.ProductCategory)
		rec.ProductCategory = &pc
	}
	return rec
}

// Repo provides recording persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new recording repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new recording and returns the persisted entity.
func (r *Repo) Create(ctx context.Context, rec *domain.Recording) (*domain.Recording, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var category *string
	if rec.ProductCategory != nil {
		s := string(*rec.ProductCategory)
		category = &s
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "recorded_at", "staff_name", "customer_name",
			"meeting_type", "status", "product_category", "duration_seconds",
			"audio_path", "transcription").
		Values(rec.UserID, rec.RecordedAt, rec.StaffName, rec.CustomerName,
			string(rec.MeetingType), string(rec.Status), category, rec.DurationSeconds,
			rec.AudioPath, rec.Transcription).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert recording: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "recording")
	}
	return out.toDomain(), nil
}

// GetByID returns the recording with the given id owned by userID.
// Rows owned by other users are reported as domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select recording: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "recording")
	}
	return out.toDomain(), nil
}

// Update applies the non-nil fields of params to the recording.
// The write is unconditional on ownership: callers must have loaded the
// recording through GetByID (ownership-checked) first.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.RecordingUpdateParams) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := postgres.Builder().
		Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})

	if params.Status != nil {
		update = update.Set("status", string(*params.Status))
	}
	if params.Transcription != nil {
		update = update.Set("transcription", *params.Transcription)
	}
	if params.CustomerName != nil {
		update = update.Set("customer_name", *params.CustomerName)
	}
	if params.MeetingType != nil {
		update = update.Set("meeting_type", string(*params.MeetingType))
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update recording: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "recording")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recording %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns one page of recordings for userID, filtered and sorted.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.RecordingFilter, sortBy, sortOrder string, page, pageSize int) (*domain.RecordingPage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	where := buildWhere(userID, filter)

	countSQL, countArgs, err := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count recordings: %w", err)
	}

	var total int
	if err := pgxscan.Get(ctx, q, &total, countSQL, countArgs...); err != nil {
		return nil, postgres.MapError(err, "recording")
	}

	listSQL, listArgs, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(where).
		OrderBy(orderClause(sortBy, sortOrder)).
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list recordings: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, listSQL, listArgs...); err != nil {
		return nil, postgres.MapError(err, "recording")
	}

	data := make([]*domain.Recording, len(rows))
	for i, rw := range rows {
		data[i] = rw.toDomain()
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &domain.RecordingPage{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ListCompleted returns up to limit completed recordings for userID,
// newest first. Used by the insight features to build LLM context.
func (r *Repo) ListCompleted(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Recording, error) {
	status := domain.StatusCompleted
	page, err := r.List(ctx, userID, domain.RecordingFilter{Status: &status}, "recordedAt", "desc", 1, limit)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func joinColumns() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}
