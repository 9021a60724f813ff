package insight

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

type chatClientMock struct {
	ChatCompletionFunc func(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

func (m *chatClientMock) ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return m.ChatCompletionFunc(ctx, systemPrompt, userMessage)
}

type recordingRepoMock struct {
	GetByIDFunc       func(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
	ListCompletedFunc func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Recording, error)
}

func (m *recordingRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *recordingRepoMock) ListCompleted(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Recording, error) {
	return m.ListCompletedFunc(ctx, userID, limit)
}

type reminderRepoMock struct {
	CreateFunc func(ctx context.Context, rem *domain.Reminder) (*domain.Reminder, error)
}

func (m *reminderRepoMock) Create(ctx context.Context, rem *domain.Reminder) (*domain.Reminder, error) {
	return m.CreateFunc(ctx, rem)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completedRecording(userID uuid.UUID, customer, transcript string) *domain.Recording {
	t := transcript
	return &domain.Recording{
		ID:              uuid.New(),
		UserID:          userID,
		RecordedAt:      time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		StaffName:       "Dana Cole",
		CustomerName:    customer,
		MeetingType:     domain.MeetingInitial,
		Status:          domain.StatusCompleted,
		Transcription:   &t,
		DurationSeconds: 600,
	}
}

func TestService_Ask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	t.Run("grounds the answer in completed recordings", func(t *testing.T) {
		t.Parallel()

		recs := []*domain.Recording{
			completedRecording(userID, "Morgan Reyes", "We discussed income protection."),
			completedRecording(userID, "Jesse Park", "Renewal options were reviewed."),
		}
		recordings := &recordingRepoMock{
			ListCompletedFunc: func(_ context.Context, gotUser uuid.UUID, limit int) ([]*domain.Recording, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, askContextSize, limit)
				return recs, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(_ context.Context, systemPrompt, userMessage string) (string, error) {
				assert.Contains(t, systemPrompt, "Morgan Reyes")
				assert.Contains(t, systemPrompt, "We discussed income protection.")
				assert.Equal(t, "Which customers asked about income protection?", userMessage)
				return "Morgan Reyes asked about income protection.", nil
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		answer, err := svc.Ask(ctx, "Which customers asked about income protection?")
		require.NoError(t, err)
		assert.Equal(t, "Morgan Reyes asked about income protection.", answer.Answer)
		require.Len(t, answer.Related, 2)
		assert.Equal(t, recs[0].ID, answer.Related[0].ID)
	})

	t.Run("falls back when the model call fails", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			ListCompletedFunc: func(context.Context, uuid.UUID, int) ([]*domain.Recording, error) {
				return []*domain.Recording{completedRecording(userID, "Morgan Reyes", "x")}, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				return "", errors.New("model unavailable")
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		answer, err := svc.Ask(ctx, "anything?")
		require.NoError(t, err)
		assert.Equal(t, askFallbackAnswer, answer.Answer)
		assert.Empty(t, answer.Related)
	})

	t.Run("rejects an empty question", func(t *testing.T) {
		t.Parallel()

		svc := NewService(testLogger(), &recordingRepoMock{}, &reminderRepoMock{}, &chatClientMock{})

		_, err := svc.Ask(ctx, "  ")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		t.Parallel()

		svc := NewService(testLogger(), &recordingRepoMock{}, &reminderRepoMock{}, &chatClientMock{})

		_, err := svc.Ask(context.Background(), "question")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestService_Daily(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	t.Run("aggregates duration and parses the model JSON", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			ListCompletedFunc: func(context.Context, uuid.UUID, int) ([]*domain.Recording, error) {
				return []*domain.Recording{
					completedRecording(userID, "Morgan Reyes", "a"),
					completedRecording(userID, "Jesse Park", "b"),
				}, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				return `{"summary":"Two productive meetings.","keyPoints":["follow up with Morgan"]}`, nil
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		sum, err := svc.Daily(ctx, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "Two productive meetings.", sum.Summary)
		assert.Equal(t, []string{"follow up with Morgan"}, sum.KeyPoints)
		assert.Equal(t, 2, sum.TotalRecordings)
		assert.Equal(t, 1200, sum.TotalDuration)
	})

	t.Run("reports an empty day without calling the model", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			ListCompletedFunc: func(context.Context, uuid.UUID, int) ([]*domain.Recording, error) {
				return nil, nil
			},
		}
		called := false
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				called = true
				return "", nil
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		sum, err := svc.Daily(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, summaryEmptyText, sum.Summary)
		assert.Zero(t, sum.TotalRecordings)
		assert.False(t, called)
		assert.False(t, sum.Date.IsZero())
	})

	t.Run("keeps a prose response as the summary text", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			ListCompletedFunc: func(context.Context, uuid.UUID, int) ([]*domain.Recording, error) {
				return []*domain.Recording{completedRecording(userID, "Morgan Reyes", "a")}, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				return "A busy day with one initial meeting.", nil
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		sum, err := svc.Daily(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "A busy day with one initial meeting.", sum.Summary)
		assert.Empty(t, sum.KeyPoints)
	})

	t.Run("falls back when the model call fails", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			ListCompletedFunc: func(context.Context, uuid.UUID, int) ([]*domain.Recording, error) {
				return []*domain.Recording{completedRecording(userID, "Morgan Reyes", "a")}, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				return "", errors.New("model unavailable")
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		sum, err := svc.Daily(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, summaryFallbackText, sum.Summary)
		assert.Equal(t, 1, sum.TotalRecordings)
		assert.Equal(t, 600, sum.TotalDuration)
	})
}

func TestService_GenerateReminders(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	t.Run("persists the extracted follow-ups tied to the recording", func(t *testing.T) {
		t.Parallel()

		rec := completedRecording(userID, "Morgan Reyes", "Please send the pamphlet next week.")
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(_ context.Context, systemPrompt, _ string) (string, error) {
				assert.Contains(t, systemPrompt, "Please send the pamphlet next week.")
				return `{"reminders":[{"title":"Send the pamphlet","description":"Mail the product pamphlet","priority":"high"}]}`, nil
			},
		}
		reminders := &reminderRepoMock{
			CreateFunc: func(_ context.Context, rem *domain.Reminder) (*domain.Reminder, error) {
				assert.Equal(t, userID, rem.UserID)
				require.NotNil(t, rem.RecordingID)
				assert.Equal(t, rec.ID, *rem.RecordingID)
				assert.Equal(t, "Send the pamphlet", rem.Title)
				assert.Equal(t, domain.PriorityHigh, rem.Priority)
				assert.Equal(t, domain.ReminderPending, rem.Status)
				out := *rem
				out.ID = uuid.New()
				return &out, nil
			},
		}
		svc := NewService(testLogger(), recordings, reminders, chat)

		created, err := svc.GenerateReminders(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, created, 1)
	})

	t.Run("caps the generated set and defaults bad priorities", func(t *testing.T) {
		t.Parallel()

		rec := completedRecording(userID, "Morgan Reyes", "long conversation")
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				return `{"reminders":[
					{"title":"One","priority":"urgent"},
					{"title":"Two"},
					{"title":"  "},
					{"title":"Three","priority":"low"},
					{"title":"Four"}
				]}`, nil
			},
		}
		var priorities []domain.ReminderPriority
		reminders := &reminderRepoMock{
			CreateFunc: func(_ context.Context, rem *domain.Reminder) (*domain.Reminder, error) {
				priorities = append(priorities, rem.Priority)
				return rem, nil
			},
		}
		svc := NewService(testLogger(), recordings, reminders, chat)

		created, err := svc.GenerateReminders(ctx, rec.ID)
		require.NoError(t, err)
		assert.Len(t, created, maxGeneratedReminders)
		assert.Equal(t, []domain.ReminderPriority{
			domain.PriorityMedium, domain.PriorityMedium, domain.PriorityLow,
		}, priorities)
	})

	t.Run("returns an empty set for a recording without a transcript", func(t *testing.T) {
		t.Parallel()

		rec := completedRecording(userID, "Morgan Reyes", "")
		rec.Transcription = nil
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, &chatClientMock{})

		created, err := svc.GenerateReminders(ctx, rec.ID)
		require.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("swallows model failures as an empty set", func(t *testing.T) {
		t.Parallel()

		rec := completedRecording(userID, "Morgan Reyes", "talk")
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		chat := &chatClientMock{
			ChatCompletionFunc: func(context.Context, string, string) (string, error) {
				return "", errors.New("model unavailable")
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, chat)

		created, err := svc.GenerateReminders(ctx, rec.ID)
		require.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("hides other users' recordings", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := NewService(testLogger(), recordings, &reminderRepoMock{}, &chatClientMock{})

		_, err := svc.GenerateReminders(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
