package compliance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// Service serves compliance result reads. Writes happen only through the
// pipeline, so there is no edit path here.
type Service struct {
	recordings recordingRepo
	compliance complianceRepo
	log        *slog.Logger
}

// NewService creates the compliance read service.
func NewService(log *slog.Logger, recordings recordingRepo, compliance complianceRepo) *Service {
	return &Service{
		recordings: recordings,
		compliance: compliance,
		log:        log.With("service", "compliance"),
	}
}

// GetByRecordingID returns the compliance result for a recording owned by
// the caller.
func (s *Service) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ComplianceResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.recordings.GetByID(ctx, userID, recordingID); err != nil {
		return nil, fmt.Errorf("load recording: %w", err)
	}

	result, err := s.compliance.GetByRecordingID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("load compliance result: %w", err)
	}
	return result, nil
}
