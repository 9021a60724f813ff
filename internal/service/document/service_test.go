package document

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/render"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

type recordingRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
}

func (m *recordingRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

type extractionRepoMock struct {
	GetByRecordingIDFunc func(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error)
}

func (m *extractionRepoMock) GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error) {
	return m.GetByRecordingIDFunc(ctx, recordingID)
}

type templateRepoMock struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error)
	GetDefaultFunc func(ctx context.Context) (*domain.IntentTemplate, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *templateRepoMock) GetDefault(ctx context.Context) (*domain.IntentTemplate, error) {
	return m.GetDefaultFunc(ctx)
}

type documentRepoMock struct {
	CreateFunc            func(ctx context.Context, doc *domain.IntentDocument) (*domain.IntentDocument, error)
	ListByRecordingIDFunc func(ctx context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error)
}

func (m *documentRepoMock) Create(ctx context.Context, doc *domain.IntentDocument) (*domain.IntentDocument, error) {
	return m.CreateFunc(ctx, doc)
}

func (m *documentRepoMock) ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error) {
	return m.ListByRecordingIDFunc(ctx, recordingID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecording(userID uuid.UUID) *domain.Recording {
	return &domain.Recording{
		ID:           uuid.New(),
		UserID:       userID,
		RecordedAt:   time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		StaffName:    "Dana Cole",
		CustomerName: "Morgan Reyes",
		MeetingType:  domain.MeetingInitial,
		Status:       domain.StatusCompleted,
	}
}

func testExtraction(recordingID uuid.UUID) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		ID:          uuid.New(),
		RecordingID: recordingID,
		Data: domain.ExtractionData{
			"insurancePurpose": {Value: "income protection for the family", Confidence: 90},
		},
		OverallConfidence: 90,
	}
}

func TestService_Preview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	t.Run("renders the default template with live data", func(t *testing.T) {
		t.Parallel()

		rec := testRecording(userID)
		recordings := &recordingRepoMock{
			GetByIDFunc: func(_ context.Context, gotUser, gotID uuid.UUID) (*domain.Recording, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, rec.ID, gotID)
				return rec, nil
			},
		}
		templates := &templateRepoMock{
			GetDefaultFunc: func(context.Context) (*domain.IntentTemplate, error) {
				return &domain.IntentTemplate{
					ID:        uuid.New(),
					Name:      "default",
					Content:   "# Document for {{customerName}}\n\n{{insurancePurpose}}",
					IsDefault: true,
				}, nil
			},
		}
		extraction := &extractionRepoMock{
			GetByRecordingIDFunc: func(_ context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error) {
				return testExtraction(recordingID), nil
			},
		}
		svc := NewService(testLogger(), recordings, extraction, templates, &documentRepoMock{})

		preview, err := svc.Preview(ctx, rec.ID, nil)
		require.NoError(t, err)
		assert.Contains(t, preview.Markdown, "Document for Morgan Reyes")
		assert.Contains(t, preview.Markdown, "income protection for the family")
		assert.Contains(t, preview.HTML, "<h1>")
		assert.True(t, preview.Template.IsDefault)
	})

	t.Run("renders the sentinel when no extraction exists", func(t *testing.T) {
		t.Parallel()

		rec := testRecording(userID)
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		templates := &templateRepoMock{
			GetDefaultFunc: func(context.Context) (*domain.IntentTemplate, error) {
				return &domain.IntentTemplate{ID: uuid.New(), Content: "{{familyStructure}}"}, nil
			},
		}
		extraction := &extractionRepoMock{
			GetByRecordingIDFunc: func(context.Context, uuid.UUID) (*domain.ExtractionResult, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := NewService(testLogger(), recordings, extraction, templates, &documentRepoMock{})

		preview, err := svc.Preview(ctx, rec.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, render.NotFilledIn, strings.TrimSpace(preview.Markdown))
	})

	t.Run("uses the requested template when one is named", func(t *testing.T) {
		t.Parallel()

		rec := testRecording(userID)
		tplID := uuid.New()
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		templates := &templateRepoMock{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.IntentTemplate, error) {
				assert.Equal(t, tplID, id)
				return &domain.IntentTemplate{ID: id, Name: "custom", Content: "{{staffName}}"}, nil
			},
		}
		extraction := &extractionRepoMock{
			GetByRecordingIDFunc: func(context.Context, uuid.UUID) (*domain.ExtractionResult, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := NewService(testLogger(), recordings, extraction, templates, &documentRepoMock{})

		preview, err := svc.Preview(ctx, rec.ID, &tplID)
		require.NoError(t, err)
		assert.Equal(t, "Dana Cole", preview.Markdown)
		assert.Equal(t, "custom", preview.Template.Name)
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		t.Parallel()

		svc := NewService(testLogger(), &recordingRepoMock{}, &extractionRepoMock{}, &templateRepoMock{}, &documentRepoMock{})

		_, err := svc.Preview(context.Background(), uuid.New(), nil)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("hides other users' recordings", func(t *testing.T) {
		t.Parallel()

		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := NewService(testLogger(), recordings, &extractionRepoMock{}, &templateRepoMock{}, &documentRepoMock{})

		_, err := svc.Preview(ctx, uuid.New(), nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_PrintableHTML(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	rec := testRecording(userID)
	recordings := &recordingRepoMock{
		GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
			return rec, nil
		},
	}
	templates := &templateRepoMock{
		GetDefaultFunc: func(context.Context) (*domain.IntentTemplate, error) {
			return &domain.IntentTemplate{ID: uuid.New(), Content: "# Heading"}, nil
		},
	}
	extraction := &extractionRepoMock{
		GetByRecordingIDFunc: func(context.Context, uuid.UUID) (*domain.ExtractionResult, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewService(testLogger(), recordings, extraction, templates, &documentRepoMock{})

	page, err := svc.PrintableHTML(ctx, rec.ID, nil)
	require.NoError(t, err)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "Morgan Reyes")
	assert.Contains(t, page, "<h1>Heading</h1>")
}

func TestService_Save(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserName(ctxutil.WithUserID(context.Background(), userID), "Dana Cole")

	t.Run("persists an append-only generation record with a snapshot", func(t *testing.T) {
		t.Parallel()

		rec := testRecording(userID)
		tpl := &domain.IntentTemplate{ID: uuid.New(), Name: "default", Content: "{{customerName}}", IsDefault: true}
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		templates := &templateRepoMock{
			GetDefaultFunc: func(context.Context) (*domain.IntentTemplate, error) { return tpl, nil },
		}
		extraction := &extractionRepoMock{
			GetByRecordingIDFunc: func(_ context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error) {
				return testExtraction(recordingID), nil
			},
		}
		documents := &documentRepoMock{
			CreateFunc: func(_ context.Context, doc *domain.IntentDocument) (*domain.IntentDocument, error) {
				assert.Equal(t, rec.ID, doc.RecordingID)
				assert.Equal(t, tpl.ID, doc.TemplateID)
				assert.Equal(t, userID, doc.GeneratedBy)
				assert.Equal(t, "Dana Cole", doc.GeneratedByName)
				require.NotNil(t, doc.Snapshot)
				assert.Equal(t, "Morgan Reyes", doc.Snapshot.Recording.CustomerName)
				require.NotNil(t, doc.Snapshot.Extraction)
				assert.Equal(t, 90, doc.Snapshot.Extraction.OverallConfidence)
				out := *doc
				out.ID = uuid.New()
				return &out, nil
			},
		}
		svc := NewService(testLogger(), recordings, extraction, templates, documents)

		doc, err := svc.Save(ctx, rec.ID, nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, doc.ID)
	})

	t.Run("captures a nil extraction section when none exists", func(t *testing.T) {
		t.Parallel()

		rec := testRecording(userID)
		recordings := &recordingRepoMock{
			GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
				return rec, nil
			},
		}
		templates := &templateRepoMock{
			GetDefaultFunc: func(context.Context) (*domain.IntentTemplate, error) {
				return &domain.IntentTemplate{ID: uuid.New(), Content: "x"}, nil
			},
		}
		extraction := &extractionRepoMock{
			GetByRecordingIDFunc: func(context.Context, uuid.UUID) (*domain.ExtractionResult, error) {
				return nil, domain.ErrNotFound
			},
		}
		documents := &documentRepoMock{
			CreateFunc: func(_ context.Context, doc *domain.IntentDocument) (*domain.IntentDocument, error) {
				require.NotNil(t, doc.Snapshot)
				assert.Nil(t, doc.Snapshot.Extraction)
				return doc, nil
			},
		}
		svc := NewService(testLogger(), recordings, extraction, templates, documents)

		_, err := svc.Save(ctx, rec.ID, nil)
		require.NoError(t, err)
	})
}

func TestService_List(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	rec := testRecording(userID)
	recordings := &recordingRepoMock{
		GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Recording, error) {
			return rec, nil
		},
	}
	documents := &documentRepoMock{
		ListByRecordingIDFunc: func(_ context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error) {
			assert.Equal(t, rec.ID, recordingID)
			return []*domain.IntentDocument{{ID: uuid.New(), RecordingID: recordingID}}, nil
		},
	}
	svc := NewService(testLogger(), recordings, &extractionRepoMock{}, &templateRepoMock{}, documents)

	docs, err := svc.List(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
