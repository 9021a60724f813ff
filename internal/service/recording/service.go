// Package recording owns the recording lifecycle outside the pipeline:
// upload, ownership-scoped reads, and the audited transcription edit.
package recording

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type recordingRepo interface {
	Create(ctx context.Context, rec *domain.Recording) (*domain.Recording, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
	Update(ctx context.Context, id uuid.UUID, params domain.RecordingUpdateParams) error
	List(ctx context.Context, userID uuid.UUID, filter domain.RecordingFilter, sortBy, sortOrder string, page, pageSize int) (*domain.RecordingPage, error)
}

type extractionRepo interface {
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error)
}

type complianceRepo interface {
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ComplianceResult, error)
}

type historyRepo interface {
	Append(ctx context.Context, entry *domain.ChangeHistory) (*domain.ChangeHistory, error)
}

type audioStore interface {
	Save(fileName string, data []byte) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides recording operations.
type Service struct {
	recordings recordingRepo
	extraction extractionRepo
	compliance complianceRepo
	history    historyRepo
	audio      audioStore
	tx         txManager
	log        *slog.Logger
}

// NewService creates the recording service.
func NewService(
	log *slog.Logger,
	recordings recordingRepo,
	extraction extractionRepo,
	compliance complianceRepo,
	history historyRepo,
	audio audioStore,
	tx txManager,
) *Service {
	return &Service{
		recordings: recordings,
		extraction: extraction,
		compliance: compliance,
		history:    history,
		audio:      audio,
		tx:         tx,
		log:        log.With("service", "recording"),
	}
}
