package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type recordingRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
	UpdateFunc  func(ctx context.Context, id uuid.UUID, params domain.RecordingUpdateParams) error
}

func (m *recordingRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *recordingRepoMock) Update(ctx context.Context, id uuid.UUID, params domain.RecordingUpdateParams) error {
	return m.UpdateFunc(ctx, id, params)
}

type extractionRepoMock struct {
	UpsertFunc func(ctx context.Context, recordingID uuid.UUID, data domain.ExtractionData, overallConfidence int) (*domain.ExtractionResult, error)
}

func (m *extractionRepoMock) Upsert(ctx context.Context, recordingID uuid.UUID, data domain.ExtractionData, overallConfidence int) (*domain.ExtractionResult, error) {
	return m.UpsertFunc(ctx, recordingID, data, overallConfidence)
}

type complianceRepoMock struct {
	UpsertFunc func(ctx context.Context, recordingID uuid.UUID, data domain.ComplianceData, isCompliant bool) (*domain.ComplianceResult, error)
}

func (m *complianceRepoMock) Upsert(ctx context.Context, recordingID uuid.UUID, data domain.ComplianceData, isCompliant bool) (*domain.ComplianceResult, error) {
	return m.UpsertFunc(ctx, recordingID, data, isCompliant)
}

type audioStoreMock struct {
	ReadFunc func(storedName string) ([]byte, error)
}

func (m *audioStoreMock) Read(storedName string) ([]byte, error) {
	return m.ReadFunc(storedName)
}

type transcriberMock struct {
	TranscribeFunc func(ctx context.Context, audio []byte, fileName string) (string, error)
}

func (m *transcriberMock) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	return m.TranscribeFunc(ctx, audio, fileName)
}

type extractorMock struct {
	ExtractFunc func(ctx context.Context, transcript string) (domain.ExtractionData, int, error)
}

func (m *extractorMock) Extract(ctx context.Context, transcript string) (domain.ExtractionData, int, error) {
	return m.ExtractFunc(ctx, transcript)
}

type checkerMock struct {
	CheckFunc func(ctx context.Context, transcript string) (domain.ComplianceData, error)
}

func (m *checkerMock) Check(ctx context.Context, transcript string) (domain.ComplianceData, error) {
	return m.CheckFunc(ctx, transcript)
}
