// Package history serves the change history audit trail.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

type recordingRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
}

type historyRepo interface {
	ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.ChangeHistory, error)
}

// Service reads change history. Entries are only ever written as part of an
// edit transaction, so there is no write path here.
type Service struct {
	recordings recordingRepo
	history    historyRepo
	log        *slog.Logger
}

// NewService creates the history service.
func NewService(log *slog.Logger, recordings recordingRepo, history historyRepo) *Service {
	return &Service{
		recordings: recordings,
		history:    history,
		log:        log.With("service", "history"),
	}
}

// ListByRecordingID returns the audit trail of a recording the caller owns,
// most recent first.
func (s *Service) ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.ChangeHistory, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.recordings.GetByID(ctx, userID, recordingID); err != nil {
		return nil, fmt.Errorf("load recording: %w", err)
	}

	entries, err := s.history.ListByRecordingID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
