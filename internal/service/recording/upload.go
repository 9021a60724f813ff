package recording

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// UploadInput carries one uploaded recording.
type UploadInput struct {
	FileName        string
	Audio           []byte
	RecordedAt      time.Time
	StaffName       string
	CustomerName    string
	MeetingType     domain.MeetingType
	ProductCategory *domain.ProductCategory
	DurationSeconds int
}

func (in UploadInput) validate() error {
	var errs []domain.FieldError
	if len(in.Audio) == 0 {
		errs = append(errs, domain.FieldError{Field: "audio", Message: "audio data is required"})
	}
	if strings.TrimSpace(in.StaffName) == "" {
		errs = append(errs, domain.FieldError{Field: "staffName", Message: "staff name is required"})
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		errs = append(errs, domain.FieldError{Field: "customerName", Message: "customer name is required"})
	}
	if !in.MeetingType.Valid() {
		errs = append(errs, domain.FieldError{Field: "meetingType", Message: "unknown meeting type"})
	}
	if in.ProductCategory != nil && !in.ProductCategory.Valid() {
		errs = append(errs, domain.FieldError{Field: "productCategory", Message: "unknown product category"})
	}
	if in.DurationSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "durationSeconds", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Upload stores the audio file and creates a pending recording row.
// Processing is a separate, explicit step.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*domain.Recording, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	storedPath, err := s.audio.Save(input.FileName, input.Audio)
	if err != nil {
		return nil, fmt.Errorf("store audio: %w", err)
	}

	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	rec, err := s.recordings.Create(ctx, &domain.Recording{
		UserID:          userID,
		RecordedAt:      recordedAt,
		StaffName:       strings.TrimSpace(input.StaffName),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		MeetingType:     input.MeetingType,
		Status:          domain.StatusPending,
		ProductCategory: input.ProductCategory,
		DurationSeconds: input.DurationSeconds,
		AudioPath:       &storedPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	s.log.InfoContext(ctx, "recording uploaded",
		slog.String("recording_id", rec.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("audio_bytes", len(input.Audio)),
	)
	return rec, nil
}
