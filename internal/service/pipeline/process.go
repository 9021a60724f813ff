package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// ProcessOptions tunes one pipeline run.
type ProcessOptions struct {
	// SkipTranscription reuses the transcript already stored on the
	// recording instead of re-transcribing the audio. Used for retries
	// after a failure past the transcription stage, and for recordings
	// whose transcript was pasted in by hand.
	SkipTranscription bool
}

// Process runs the full stage sequence for one recording:
// transcription, extraction, compliance check, then status completed.
// Calling it on a completed recording re-runs every stage and overwrites
// the previous results in place. Any stage failure sets status error and
// is returned to the caller; retrying means calling Process again.
func (s *Service) Process(ctx context.Context, recordingID uuid.UUID, opts ProcessOptions) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	// collapse concurrent runs for the same recording into one
	_, err, _ := s.group.Do(recordingID.String(), func() (any, error) {
		return nil, s.run(ctx, userID, recordingID, opts)
	})
	return err
}

func (s *Service) run(ctx context.Context, userID, recordingID uuid.UUID, opts ProcessOptions) error {
	rec, err := s.recordings.GetByID(ctx, userID, recordingID)
	if err != nil {
		return fmt.Errorf("load recording: %w", err)
	}

	// validate before any state mutation
	if !opts.SkipTranscription && !rec.HasAudio() {
		return domain.NewValidationError("audioPath", "recording has no audio to transcribe")
	}
	if opts.SkipTranscription && rec.TranscriptText() == "" {
		return domain.NewValidationError("transcription", "no transcript to reuse")
	}

	if err := s.setStatus(ctx, recordingID, domain.StatusProcessing); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "pipeline started",
		slog.String("recording_id", recordingID.String()),
		slog.Bool("skip_transcription", opts.SkipTranscription),
	)

	transcript, err := s.runStages(ctx, rec, opts)
	if err != nil {
		// best effort: the original error is what the caller needs to see
		if stErr := s.setStatus(ctx, recordingID, domain.StatusError); stErr != nil {
			s.log.ErrorContext(ctx, "failed to set error status",
				slog.String("recording_id", recordingID.String()),
				slog.String("error", stErr.Error()))
		}
		s.log.ErrorContext(ctx, "pipeline failed",
			slog.String("recording_id", recordingID.String()),
			slog.String("error", err.Error()))
		return err
	}

	if err := s.setStatus(ctx, recordingID, domain.StatusCompleted); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "pipeline completed",
		slog.String("recording_id", recordingID.String()),
		slog.Int("transcript_len", len(transcript)),
	)
	return nil
}

// runStages performs transcription, extraction, and compliance in order.
// The transcript is persisted immediately after the transcription stage so
// a later failure does not lose it; a retry with SkipTranscription then
// resumes from the stored transcript.
func (s *Service) runStages(ctx context.Context, rec *domain.Recording, opts ProcessOptions) (string, error) {
	transcript := rec.TranscriptText()

	if !opts.SkipTranscription {
		audio, err := s.audio.Read(*rec.AudioPath)
		if err != nil {
			return "", fmt.Errorf("read audio: %w", err)
		}

		transcript, err = s.transcribe.Transcribe(ctx, audio, filepath.Base(*rec.AudioPath))
		if err != nil {
			return "", fmt.Errorf("transcription stage: %w", err)
		}

		if err := s.recordings.Update(ctx, rec.ID, domain.RecordingUpdateParams{
			Transcription: &transcript,
		}); err != nil {
			return "", fmt.Errorf("persist transcript: %w", err)
		}
	}

	data, overall, err := s.extract.Extract(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("extraction stage: %w", err)
	}
	if _, err := s.extraction.Upsert(ctx, rec.ID, data, overall); err != nil {
		return "", fmt.Errorf("persist extraction: %w", err)
	}

	compliance, err := s.check.Check(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("compliance stage: %w", err)
	}
	if _, err := s.compliance.Upsert(ctx, rec.ID, compliance, compliance.IsCompliant()); err != nil {
		return "", fmt.Errorf("persist compliance: %w", err)
	}

	return transcript, nil
}

func (s *Service) setStatus(ctx context.Context, recordingID uuid.UUID, status domain.RecordingStatus) error {
	if err := s.recordings.Update(ctx, recordingID, domain.RecordingUpdateParams{
		Status: &status,
	}); err != nil {
		return fmt.Errorf("set status %s: %w", status, err)
	}
	return nil
}
