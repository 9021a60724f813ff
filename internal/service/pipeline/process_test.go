package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// harness collects the observable side effects of one pipeline run.
type harness struct {
	mu            sync.Mutex
	statuses      []domain.RecordingStatus
	transcripts   []string
	extractionUps int
	complianceUps int
	isCompliant   []bool

	recording *domain.Recording
	svc       *Service
}

func (h *harness) record(params domain.RecordingUpdateParams) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if params.Status != nil {
		h.statuses = append(h.statuses, *params.Status)
	}
	if params.Transcription != nil {
		h.transcripts = append(h.transcripts, *params.Transcription)
	}
}

func newHarness(t *testing.T, rec *domain.Recording, opts ...func(*harnessConfig)) *harness {
	t.Helper()

	cfg := &harnessConfig{
		transcript: "customer wants low premium, budget 10,000/month",
		extraction: domain.ExtractionData{
			domain.FieldDesiredConditions: {Value: "budget 10,000/month", Confidence: 75},
		},
		compliance: domain.ComplianceData{
			MandatoryItems: []domain.MandatoryItem{{Item: "intent confirmation", Detected: true}},
		},
	}
	for _, o := range opts {
		o(cfg)
	}

	h := &harness{recording: rec}

	h.svc = NewService(newTestLogger(),
		&recordingRepoMock{
			GetByIDFunc: func(_ context.Context, userID, id uuid.UUID) (*domain.Recording, error) {
				if rec == nil || rec.UserID != userID {
					return nil, domain.ErrNotFound
				}
				cp := *rec
				return &cp, nil
			},
			UpdateFunc: func(_ context.Context, _ uuid.UUID, params domain.RecordingUpdateParams) error {
				h.record(params)
				return nil
			},
		},
		&extractionRepoMock{
			UpsertFunc: func(_ context.Context, rid uuid.UUID, data domain.ExtractionData, overall int) (*domain.ExtractionResult, error) {
				h.mu.Lock()
				h.extractionUps++
				h.mu.Unlock()
				if cfg.extractionErr != nil {
					return nil, cfg.extractionErr
				}
				return &domain.ExtractionResult{RecordingID: rid, Data: data, OverallConfidence: overall}, nil
			},
		},
		&complianceRepoMock{
			UpsertFunc: func(_ context.Context, rid uuid.UUID, data domain.ComplianceData, isCompliant bool) (*domain.ComplianceResult, error) {
				h.mu.Lock()
				h.complianceUps++
				h.isCompliant = append(h.isCompliant, isCompliant)
				h.mu.Unlock()
				return &domain.ComplianceResult{RecordingID: rid, Data: data, IsCompliant: isCompliant}, nil
			},
		},
		&audioStoreMock{
			ReadFunc: func(string) ([]byte, error) {
				if cfg.audioErr != nil {
					return nil, cfg.audioErr
				}
				return []byte("audio"), nil
			},
		},
		&transcriberMock{
			TranscribeFunc: func(context.Context, []byte, string) (string, error) {
				if cfg.transcribeHook != nil {
					cfg.transcribeHook()
				}
				if cfg.transcribeErr != nil {
					return "", cfg.transcribeErr
				}
				return cfg.transcript, nil
			},
		},
		&extractorMock{
			ExtractFunc: func(_ context.Context, transcript string) (domain.ExtractionData, int, error) {
				if cfg.extractErr != nil {
					return nil, 0, cfg.extractErr
				}
				return cfg.extraction, cfg.extraction.OverallConfidence(), nil
			},
		},
		&checkerMock{
			CheckFunc: func(context.Context, string) (domain.ComplianceData, error) {
				if cfg.checkErr != nil {
					return domain.ComplianceData{}, cfg.checkErr
				}
				return cfg.compliance, nil
			},
		},
	)
	return h
}

type harnessConfig struct {
	transcript     string
	extraction     domain.ExtractionData
	compliance     domain.ComplianceData
	audioErr       error
	transcribeErr  error
	extractErr     error
	extractionErr  error
	checkErr       error
	transcribeHook func()
}

func pendingRecording(userID uuid.UUID) *domain.Recording {
	return &domain.Recording{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      domain.StatusPending,
		MeetingType: domain.MeetingInitial,
		AudioPath:   strPtr("abc_meeting.webm"),
	}
}

func TestProcess_FullRun(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	h := newHarness(t, rec)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.NoError(t, err)

	assert.Equal(t, []domain.RecordingStatus{domain.StatusProcessing, domain.StatusCompleted}, h.statuses)
	require.Len(t, h.transcripts, 1)
	assert.Contains(t, h.transcripts[0], "low premium")
	assert.Equal(t, 1, h.extractionUps)
	assert.Equal(t, 1, h.complianceUps)
	assert.Equal(t, []bool{true}, h.isCompliant)
}

func TestProcess_IdempotentReentry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	h := newHarness(t, rec)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	require.NoError(t, h.svc.Process(ctx, rec.ID, ProcessOptions{}))
	rec.Status = domain.StatusCompleted
	rec.Transcription = strPtr("existing transcript")
	require.NoError(t, h.svc.Process(ctx, rec.ID, ProcessOptions{}))

	// both runs upsert in place, no duplicate rows implied
	assert.Equal(t, 2, h.extractionUps)
	assert.Equal(t, 2, h.complianceUps)
}

func TestProcess_ConcurrentCallsCollapse(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)

	var transcribeCalls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	h := newHarness(t, rec, func(cfg *harnessConfig) {
		cfg.transcribeHook = func() {
			atomic.AddInt32(&transcribeCalls, 1)
			started <- struct{}{}
			<-release
		}
	})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = h.svc.Process(ctx, rec.ID, ProcessOptions{})
	}()

	// the first call is now blocked inside the transcription stage
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = h.svc.Process(ctx, rec.ID, ProcessOptions{})
	}()

	// give the second call time to join the in-flight run
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), atomic.LoadInt32(&transcribeCalls), "interleaved runs must collapse into one")
	assert.Equal(t, 1, h.extractionUps)
	assert.Equal(t, 1, h.complianceUps)
	assert.Equal(t, []domain.RecordingStatus{domain.StatusProcessing, domain.StatusCompleted}, h.statuses)
}

func TestProcess_SkipTranscription(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	rec.AudioPath = nil
	rec.Transcription = strPtr("typed transcript")
	h := newHarness(t, rec)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{SkipTranscription: true})
	require.NoError(t, err)

	assert.Empty(t, h.transcripts, "transcript must not be rewritten when skipped")
	assert.Equal(t, 1, h.extractionUps)
}

func TestProcess_NoAudioValidation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	rec.AudioPath = nil
	h := newHarness(t, rec)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, h.statuses, "validation must reject before any state mutation")
}

func TestProcess_SkipWithoutTranscriptValidation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	h := newHarness(t, rec)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{SkipTranscription: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, h.statuses)
}

func TestProcess_NotOwned(t *testing.T) {
	t.Parallel()

	rec := pendingRecording(uuid.New())
	h := newHarness(t, rec)
	// a different user invokes the pipeline
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProcess_Unauthenticated(t *testing.T) {
	t.Parallel()

	rec := pendingRecording(uuid.New())
	h := newHarness(t, rec)

	err := h.svc.Process(context.Background(), rec.ID, ProcessOptions{})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestProcess_TranscriptionFailureSetsError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	hardErr := errors.New("transcription service unavailable")
	h := newHarness(t, rec, func(c *harnessConfig) { c.transcribeErr = hardErr })
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hardErr), "original error must surface to the caller")

	assert.Equal(t, []domain.RecordingStatus{domain.StatusProcessing, domain.StatusError}, h.statuses)
	assert.Zero(t, h.extractionUps)
	assert.Zero(t, h.complianceUps)
}

func TestProcess_ExtractionHardFailureSetsError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	hardErr := errors.New("llm unreachable")
	h := newHarness(t, rec, func(c *harnessConfig) { c.extractErr = hardErr })
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hardErr))

	assert.Equal(t, []domain.RecordingStatus{domain.StatusProcessing, domain.StatusError}, h.statuses)
	// transcript from the earlier stage is preserved
	require.Len(t, h.transcripts, 1)
}

func TestProcess_SoftExtractionFailureStillCompletes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)

	// an adapter-level soft failure surfaces as a fallback result, not
	// an error; the pipeline must still complete
	fallback := domain.ExtractionData{}
	for _, name := range domain.ExtractionFieldNames {
		fallback[name] = domain.ExtractionField{Value: "extraction error", Confidence: 0}
	}
	h := newHarness(t, rec, func(c *harnessConfig) { c.extraction = fallback })
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.RecordingStatus{domain.StatusProcessing, domain.StatusCompleted}, h.statuses)
	assert.Equal(t, 1, h.extractionUps)
}

func TestProcess_NonCompliantStillCompletes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rec := pendingRecording(userID)
	h := newHarness(t, rec, func(c *harnessConfig) {
		c.compliance = domain.ComplianceData{
			MandatoryItems: []domain.MandatoryItem{{Item: "intent confirmation", Detected: false, Reason: "parse error"}},
		}
	})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := h.svc.Process(ctx, rec.ID, ProcessOptions{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, h.isCompliant)
	assert.Equal(t, []domain.RecordingStatus{domain.StatusProcessing, domain.StatusCompleted}, h.statuses)
}
