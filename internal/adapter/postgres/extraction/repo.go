// Package extraction implements the ExtractionResult repository.
// The table carries a unique index on recording_id; writes go through a
// single ON CONFLICT upsert so concurrent pipeline runs can never create
// a second row for the same recording.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/adapter/postgres"
	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

const table = "extraction_results"

const allColumns = "id, recording_id, extraction_data, overall_confidence, created_at, updated_at"

type row struct {
	ID                uuid.UUID `db:"id"`
	RecordingID       uuid.UUID `db:"recording_id"`
	ExtractionData    []byte    `db:"extraction_data"`
	OverallConfidence int       `db:"overall_confidence"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r row) toDomain() (*domain.ExtractionResult, error) {
	var data domain.ExtractionData
	if err := json.Unmarshal(r.ExtractionData, &data); err != nil {
		return nil, fmt.Errorf("extraction_result unmarshal data: %w", err)
	}
	return &domain.ExtractionResult{
		ID:                r.ID,
		RecordingID:       r.RecordingID,
		Data:              data,
		OverallConfidence: r.OverallConfidence,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

// Repo provides extraction result persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new extraction result repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Upsert writes the extraction for a recording: insert on first run,
// update in place on reprocessing. Exactly one row per recording.
func (r *Repo) Upsert(ctx context.Context, recordingID uuid.UUID, data domain.ExtractionData, overallConfidence int) (*domain.ExtractionResult, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("extraction_result marshal data: %w", err)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("recording_id", "extraction_data", "overall_confidence").
		Values(recordingID, payload, overallConfidence).
		Suffix(`ON CONFLICT (recording_id) DO UPDATE
			SET extraction_data = EXCLUDED.extraction_data,
			    overall_confidence = EXCLUDED.overall_confidence,
			    updated_at = now()
			RETURNING ` + allColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert extraction_result: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "extraction_result")
	}
	return out.toDomain()
}

// GetByRecordingID returns the extraction for a recording, or ErrNotFound.
func (r *Repo) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "recording_id", "extraction_data", "overall_confidence", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"recording_id": recordingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select extraction_result: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "extraction_result")
	}
	return out.toDomain()
}

// Update replaces data and overall confidence of an existing result by id.
// Used by the audited manual edit path.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, data domain.ExtractionData, overallConfidence int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("extraction_result marshal data: %w", err)
	}

	sql, args, err := postgres.Builder().
		Update(table).
		Set("extraction_data", payload).
		Set("overall_confidence", overallConfidence).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update extraction_result: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "extraction_result")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("extraction_result %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
