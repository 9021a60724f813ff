package recording

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// UpdateTranscriptionInput carries a manual transcript edit.
type UpdateTranscriptionInput struct {
	RecordingID   uuid.UUID
	Transcription string
	Memo          *string
}

// UpdateTranscription replaces the transcript of a recording the caller
// owns. The edit is audited: the history entry and the new transcript
// commit in one transaction, so history and data never diverge.
func (s *Service) UpdateTranscription(ctx context.Context, input UpdateTranscriptionInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	userName := ctxutil.UserNameFromCtx(ctx)

	if strings.TrimSpace(input.Transcription) == "" {
		return domain.NewValidationError("transcription", "transcription must not be empty")
	}

	rec, err := s.recordings.GetByID(ctx, userID, input.RecordingID)
	if err != nil {
		return fmt.Errorf("load recording: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.history.Append(ctx, &domain.ChangeHistory{
			RecordingID: input.RecordingID,
			EditorID:    userID,
			EditorName:  userName,
			ChangeType:  domain.ChangeTranscription,
			OldValue:    rec.TranscriptText(),
			NewValue:    input.Transcription,
			Memo:        input.Memo,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if err := s.recordings.Update(ctx, input.RecordingID, domain.RecordingUpdateParams{
			Transcription: &input.Transcription,
		}); err != nil {
			return fmt.Errorf("update transcription: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "transcription edited",
		slog.String("recording_id", input.RecordingID.String()),
		slog.String("editor_id", userID.String()),
	)
	return nil
}
