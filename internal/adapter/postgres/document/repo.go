// Package document implements the IntentDocument repository.
// Documents are generation records: inserted once, listed newest first,
// never updated or deleted.
package document

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

const table = "intent_documents"

type row struct {
	ID              uuid.UUID `db:"id"`
	RecordingID     uuid.UUID `db:"recording_id"`
	TemplateID      uuid.UUID `db:"template_id"`
	OutputPath      *string   `db:"output_path"`
	DataSnapshot    []byte    `db:"data_snapshot"`
	GeneratedBy     uuid.UUID `db:"generated_by"`
	GeneratedByName string    `db:"generated_by_name"`
	GeneratedAt     time.Time `db:"generated_at"`
}

func (r row) toDomain() (*domain.IntentDocument, error) {
	doc := &domain.IntentDocument{
		ID:              r.ID,
		RecordingID:     r.RecordingID,
		TemplateID:      r.TemplateID,
		OutputPath:      r.OutputPath,
		GeneratedBy:     r.GeneratedBy,
		GeneratedByName: r.GeneratedByName,
		GeneratedAt:     r.GeneratedAt,
	}
	if len(r.DataSnapshot) > 0 {
		var snap domain.Snapshot
		if err := json.Unmarshal(r.DataSnapshot, &snap); err != nil {
			return nil, fmt.Errorf("intent_document unmarshal snapshot: %w", err)
		}
		doc.Snapshot = &snap
	}
	return doc, nil
}

// Repo provides intent document persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new intent document repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// Create inserts one document generation record.
func (r *Repo) Create(ctx context.Context, doc *domain.IntentDocument) (*domain.IntentDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var snapshot []byte
	if doc.Snapshot != nil {
		var err error
		snapshot, err = json.Marshal(doc.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("intent_document marshal snapshot: %w", err)
		}
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("recording_id", "template_id", "output_path", "data_snapshot",
			"generated_by", "generated_by_name").
		Values(doc.RecordingID, doc.TemplateID, doc.OutputPath, snapshot,
			doc.GeneratedBy, doc.GeneratedByName).
		Suffix("RETURNING id, recording_id, template_id, output_path, data_snapshot, generated_by, generated_by_name, generated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert intent_document: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "intent_document")
	}
	return out.toDomain()
}

// ListByRecordingID returns all documents generated for a recording,
// newest first.
func (r *Repo) ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "recording_id", "template_id", "output_path", "data_snapshot",
			"generated_by", "generated_by_name", "generated_at").
		From(table).
		Where(squirrel.Eq{"recording_id": recordingID}).
		OrderBy("generated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list intent_documents: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "intent_document")
	}

	out := make([]*domain.IntentDocument, len(rows))
	for i, rw := range rows {
		doc, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = doc
	}
	return out, nil
}
