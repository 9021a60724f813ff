package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

const askFallbackAnswer = "Sorry, an answer could not be generated right now."

// RelatedRecording points a Q&A answer back at the conversations it drew on.
type RelatedRecording struct {
	ID           uuid.UUID
	CustomerName string
	RecordedAt   time.Time
}

// Answer is the result of one ad-hoc question.
type Answer struct {
	Answer  string
	Related []RelatedRecording
}

// Ask answers a free-form question grounded in the caller's most recent
// completed recordings. An LLM failure yields a fallback answer, not an
// error; only the recording lookup itself can fail hard.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(question) == "" {
		return nil, domain.NewValidationError("question", "question is required")
	}

	recordings, err := s.recordings.ListCompleted(ctx, userID, askContextSize)
	if err != nil {
		return nil, fmt.Errorf("load completed recordings: %w", err)
	}

	systemPrompt := askSystemPrompt(recordings)
	content, err := s.chat.ChatCompletion(ctx, systemPrompt, question)
	if err != nil || strings.TrimSpace(content) == "" {
		if err != nil {
			s.log.WarnContext(ctx, "question answering failed, returning fallback", "error", err)
		}
		return &Answer{Answer: askFallbackAnswer, Related: []RelatedRecording{}}, nil
	}

	related := make([]RelatedRecording, 0, 3)
	for _, rec := range recordings {
		if len(related) == 3 {
			break
		}
		related = append(related, RelatedRecording{
			ID:           rec.ID,
			CustomerName: rec.CustomerName,
			RecordedAt:   rec.RecordedAt,
		})
	}

	return &Answer{Answer: content, Related: related}, nil
}

func askSystemPrompt(recordings []*domain.Recording) string {
	var b strings.Builder
	b.WriteString("You are an insurance sales assistant. Answer the user's question based on the recording data below.\n\nRecording data:\n")
	b.WriteString(recordingContext(recordings, true))
	return b.String()
}

// recordingContext flattens recordings into the plain-text block fed to the
// model. withIDs additionally tags each entry with its recording id so the
// model can reference specific conversations.
func recordingContext(recordings []*domain.Recording, withIDs bool) string {
	entries := make([]string, 0, len(recordings))
	for _, rec := range recordings {
		transcript := rec.TranscriptText()
		if transcript == "" {
			transcript = "none"
		}
		var b strings.Builder
		if withIDs {
			fmt.Fprintf(&b, "[recording %s] ", rec.ID)
		}
		fmt.Fprintf(&b, "Customer: %s, Staff: %s, Recorded: %s, Meeting type: %s\nTranscript: %s",
			rec.CustomerName, rec.StaffName,
			rec.RecordedAt.Format(time.RFC3339), rec.MeetingType, transcript)
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n\n")
}
