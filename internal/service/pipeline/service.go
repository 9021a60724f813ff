// Package pipeline orchestrates recording processing: transcription,
// extraction, compliance check, and the status state machine around them.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type recordingRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
	Update(ctx context.Context, id uuid.UUID, params domain.RecordingUpdateParams) error
}

type extractionRepo interface {
	Upsert(ctx context.Context, recordingID uuid.UUID, data domain.ExtractionData, overallConfidence int) (*domain.ExtractionResult, error)
}

type complianceRepo interface {
	Upsert(ctx context.Context, recordingID uuid.UUID, data domain.ComplianceData, isCompliant bool) (*domain.ComplianceResult, error)
}

type audioStore interface {
	Read(storedName string) ([]byte, error)
}

type transcriber interface {
	Transcribe(ctx context.Context, audio []byte, fileName string) (string, error)
}

type extractor interface {
	Extract(ctx context.Context, transcript string) (domain.ExtractionData, int, error)
}

type complianceChecker interface {
	Check(ctx context.Context, transcript string) (domain.ComplianceData, error)
}

// Service runs the processing pipeline. Concurrent Process calls for the
// same recording are collapsed by a singleflight group so interleaved stage
// writes cannot produce an inconsistent extraction/compliance pair.
type Service struct {
	recordings recordingRepo
	extraction extractionRepo
	compliance complianceRepo
	audio      audioStore
	transcribe transcriber
	extract    extractor
	check      complianceChecker
	group      singleflight.Group
	log        *slog.Logger
}

// NewService creates the pipeline service.
func NewService(
	log *slog.Logger,
	recordings recordingRepo,
	extraction extractionRepo,
	compliance complianceRepo,
	audio audioStore,
	transcribe transcriber,
	extract extractor,
	check complianceChecker,
) *Service {
	return &Service{
		recordings: recordings,
		extraction: extraction,
		compliance: compliance,
		audio:      audio,
		transcribe: transcribe,
		extract:    extract,
		check:      check,
		log:        log.With("service", "pipeline"),
	}
}
