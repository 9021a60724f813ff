package extraction

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
	Update(ctx context.Context, id uuid.UUID, data domain.ExtractionData, overallConfidence int) error
}

type historyRepo interface {
	Append(ctx context.Context, entry *domain.ChangeHistory) (*domain.ChangeHistory, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service owns manual edits of extraction data. Edits are audited: the
// history entry and the data update commit in one transaction.
type Service struct {
	recordings recordingRepo
	extraction extractionRepo
	history    historyRepo
	tx         txManager
	log        *slog.Logger
}

// NewService creates the extraction edit service.
func NewService(
	log *slog.Logger,
	recordings recordingRepo,
	extraction extractionRepo,
	history historyRepo,
	tx txManager,
) *Service {
	return &Service{
		recordings: recordings,
		extraction: extraction,
		history:    history,
		tx:         tx,
		log:        log.With("service", "extraction"),
	}
}
