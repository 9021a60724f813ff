// Package insight provides LLM-backed analysis on top of completed
// recordings: ad-hoc Q&A, a daily activity summary, and follow-up reminder
// generation from a transcript. Every operation degrades gracefully when
// the LLM misbehaves; a broken model response never surfaces as an error.
package insight

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

// askContextSize caps how many recordings feed the Q&A context.
const askContextSize = 10

// summaryContextSize caps how many recordings feed the daily summary.
const summaryContextSize = 20

// maxGeneratedReminders caps reminders produced from one transcript.
const maxGeneratedReminders = 3

type chatClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type recordingRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
	ListCompleted(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Recording, error)
}

type reminderRepo interface {
	Create(ctx context.Context, rem *domain.Reminder) (*domain.Reminder, error)
}

// Service answers questions and produces summaries over the caller's
// completed recordings.
type Service struct {
	recordings recordingRepo
	reminders  reminderRepo
	chat       chatClient
	log        *slog.Logger
	now        func() time.Time
}

// NewService creates the insight service.
func NewService(log *slog.Logger, recordings recordingRepo, reminders reminderRepo, chat chatClient) *Service {
	return &Service{
		recordings: recordings,
		reminders:  reminders,
		chat:       chat,
		log:        log.With("service", "insight"),
		now:        time.Now,
	}
}
