package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/llm"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

const reminderSystemPromptHeader = `You are an insurance sales assistant. Extract the follow-up items from the conversation below.

Respond in this JSON format (at most 3 items):
{
  "reminders": [
    {
      "title": "task title",
      "description": "details",
      "priority": "low" | "medium" | "high"
    }
  ]
}

Conversation:
`

type generatedReminder struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
}

type reminderPayload struct {
	Reminders []generatedReminder `json:"reminders"`
}

// GenerateReminders mines a recording's transcript for follow-up items and
// persists them as pending reminders tied to the recording. A recording
// without a transcript, an LLM failure, or an unparseable response all
// yield an empty result rather than an error.
func (s *Service) GenerateReminders(ctx context.Context, recordingID uuid.UUID) ([]*domain.Reminder, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	rec, err := s.recordings.GetByID(ctx, userID, recordingID)
	if err != nil {
		return nil, fmt.Errorf("load recording: %w", err)
	}

	transcript := rec.TranscriptText()
	if transcript == "" {
		return []*domain.Reminder{}, nil
	}

	content, err := s.chat.ChatCompletion(ctx, reminderSystemPromptHeader+transcript,
		"Extract the items from this conversation that need a follow-up.")
	if err != nil {
		s.log.WarnContext(ctx, "reminder generation failed, returning empty set",
			"recording_id", recordingID.String(), "error", err)
		return []*domain.Reminder{}, nil
	}

	var payload reminderPayload
	raw, found := llm.FirstJSONObject(content)
	if !found || json.Unmarshal([]byte(raw), &payload) != nil {
		s.log.WarnContext(ctx, "reminder generation returned unparseable content",
			"recording_id", recordingID.String())
		return []*domain.Reminder{}, nil
	}

	created := make([]*domain.Reminder, 0, len(payload.Reminders))
	for _, item := range payload.Reminders {
		if len(created) == maxGeneratedReminders {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		priority := domain.ReminderPriority(item.Priority)
		if !priority.Valid() {
			priority = domain.PriorityMedium
		}

		rem, err := s.reminders.Create(ctx, &domain.Reminder{
			UserID:      userID,
			RecordingID: &recordingID,
			Title:       title,
			Description: item.Description,
			Priority:    priority,
			Status:      domain.ReminderPending,
		})
		if err != nil {
			return nil, fmt.Errorf("save generated reminder: %w", err)
		}
		created = append(created, rem)
	}

	s.log.InfoContext(ctx, "reminders generated from recording",
		"recording_id", recordingID.String(), "count", len(created))
	return created, nil
}
