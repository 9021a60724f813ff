// Package compliance implements the ComplianceResult repository.
// Like extraction results, writes are single ON CONFLICT upserts keyed by
// recording_id; only the pipeline ever writes here.
package compliance

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

const table = "compliance_results"

type row struct {
	ID             uuid.UUID `db:"id"`
	RecordingID    uuid.UUID `db:"recording_id"`
	ComplianceData []byte    `db:"compliance_data"`
	IsCompliant    bool      `db:"is_compliant"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r row) toDomain() (*domain.ComplianceResult, error) {
	var data domain.ComplianceData
	if err := json.Unmarshal(r.ComplianceData, &data); err != nil {
		return nil, fmt.Errorf("compliance_result unmarshal data: %w", err)
	}
	return &domain.ComplianceResult{
		ID:          r.ID,
		RecordingID: r.RecordingID,
		Data:        data,
		IsCompliant: r.IsCompliant,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// Repo provides compliance result persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new compliance result repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Upsert writes the compliance result for a recording, one row per recording.
func (r *Repo) Upsert(ctx context.Context, recordingID uuid.UUID, data domain.ComplianceData, isCompliant bool) (*domain.ComplianceResult, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("compliance_result marshal data: %w", err)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("recording_id", "compliance_data", "is_compliant").
		Values(recordingID, payload, isCompliant).
		Suffix(`ON CONFLICT (recording_id) DO UPDATE
			SET compliance_data = EXCLUDED.compliance_data,
			    is_compliant = EXCLUDED.is_compliant,
			    updated_at = now()
			RETURNING id, recording_id, compliance_data, is_compliant, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert compliance_result: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "compliance_result")
	}
	return out.toDomain()
}

// GetByRecordingID returns the compliance result for a recording, or ErrNotFound.
func (r *Repo) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ComplianceResult, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "recording_id", "compliance_data", "is_compliant", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"recording_id": recordingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select compliance_result: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "compliance_result")
	}
	return out.toDomain()
}
