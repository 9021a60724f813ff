// Package document generates intent confirmation documents from templates
// and the live recording data, and keeps an append-only history of saved
// generations per recording.
package document

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type recordingRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
}

type extractionRepo interface {
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error)
}

type templateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error)
	GetDefault(ctx context.Context) (*domain.IntentTemplate, error)
}

type documentRepo interface {
	Create(ctx context.Context, doc *domain.IntentDocument) (*domain.IntentDocument, error)
	ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error)
}

// Service renders, saves and lists intent confirmation documents.
type Service struct {
	recordings recordingRepo
	extraction extractionRepo
	templates  templateRepo
	documents  documentRepo
	log        *slog.Logger
}

// NewService creates the document service.
func NewService(
	log *slog.Logger,
	recordings recordingRepo,
	extraction extractionRepo,
	templates templateRepo,
	documents documentRepo,
) *Service {
	return &Service{
		recordings: recordings,
		extraction: extraction,
		templates:  templates,
		documents:  documents,
		log:        log.With("service", "document"),
	}
}
