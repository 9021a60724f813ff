package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// UpdateDataInput carries a manual edit of extraction data.
type UpdateDataInput struct {
	RecordingID  uuid.UUID
	ExtractionID uuid.UUID
	Data         domain.ExtractionData
	Memo         *string
}

// UpdateData replaces the extraction data of a recording with hand-edited
// values. The overall confidence is recomputed as the mean of the fields the
// editor kept; removed fields are excluded from the mean, not counted as
// zero. The history entry and the update commit atomically.
func (s *Service) UpdateData(ctx context.Context, input UpdateDataInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	userName := ctxutil.UserNameFromCtx(ctx)

	if err := input.Data.Validate(); err != nil {
		return err
	}

	// ownership check happens via the recording lookup
	if _, err := s.recordings.GetByID(ctx, userID, input.RecordingID); err != nil {
		return fmt.Errorf("load recording: %w", err)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.extraction.GetByRecordingID(ctx, input.RecordingID)
		if err != nil {
			return fmt.Errorf("load extraction: %w", err)
		}
		if current.ID != input.ExtractionID {
			return domain.NewValidationError("extractionId",
				"extraction does not belong to the recording")
		}

		oldJSON, err := json.Marshal(current.Data)
		if err != nil {
			return fmt.Errorf("marshal old extraction data: %w", err)
		}
		newJSON, err := json.Marshal(input.Data)
		if err != nil {
			return fmt.Errorf("marshal new extraction data: %w", err)
		}

		if _, err := s.history.Append(ctx, &domain.ChangeHistory{
			RecordingID: input.RecordingID,
			EditorID:    userID,
			EditorName:  userName,
			ChangeType:  domain.ChangeExtraction,
			OldValue:    string(oldJSON),
			NewValue:    string(newJSON),
			Memo:        input.Memo,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		overall := input.Data.OverallConfidence()
		if err := s.extraction.Update(ctx, current.ID, input.Data, overall); err != nil {
			return fmt.Errorf("update extraction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "extraction data edited",
		slog.String("recording_id", input.RecordingID.String()),
		slog.String("extraction_id", input.ExtractionID.String()),
		slog.Int("fields", len(input.Data)),
	)
	return nil
}
