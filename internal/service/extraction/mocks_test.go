package extraction

import (
	"context"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type chatClientMock struct {
	ChatCompletionFunc func(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

func (m *chatClientMock) ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return m.ChatCompletionFunc(ctx, systemPrompt, userMessage)
}

type recordingRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
}

func (m *recordingRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

type extractionRepoMock struct {
	GetByRecordingIDFunc func(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error)
	UpdateFunc           func(ctx context.Context, id uuid.UUID, data domain.ExtractionData, overallConfidence int) error
}

func (m *extractionRepoMock) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error) {
	return m.GetByRecordingIDFunc(ctx, recordingID)
}

func (m *extractionRepoMock) Update(ctx context.Context, id uuid.UUID, data domain.ExtractionData, overallConfidence int) error {
	return m.UpdateFunc(ctx, id, data, overallConfidence)
}

type historyRepoMock struct {
	AppendFunc func(ctx context.Context, entry *domain.ChangeHistory) (*domain.ChangeHistory, error)
}

func (m *historyRepoMock) Append(ctx context.Context, entry *domain.ChangeHistory) (*domain.ChangeHistory, error) {
	return m.AppendFunc(ctx, entry)
}

// txManagerMock runs the callback directly, no transaction.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
