package template

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

type templateRepoMock struct {
	CreateFunc       func(ctx context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error)
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error)
	GetDefaultFunc   func(ctx context.Context) (*domain.IntentTemplate, error)
	ListFunc         func(ctx context.Context) ([]*domain.IntentTemplate, error)
	CountFunc        func(ctx context.Context) (int, error)
	UpdateFunc       func(ctx context.Context, id uuid.UUID, params domain.TemplateUpdateParams) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
	ClearDefaultFunc func(ctx context.Context) error
	SetDefaultFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *templateRepoMock) Create(ctx context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error) {
	return m.CreateFunc(ctx, tpl)
}

func (m *templateRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *templateRepoMock) GetDefault(ctx context.Context) (*domain.IntentTemplate, error) {
	return m.GetDefaultFunc(ctx)
}

func (m *templateRepoMock) List(ctx context.Context) ([]*domain.IntentTemplate, error) {
	return m.ListFunc(ctx)
}

func (m *templateRepoMock) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

func (m *templateRepoMock) Update(ctx context.Context, id uuid.UUID, params domain.TemplateUpdateParams) error {
	return m.UpdateFunc(ctx, id, params)
}

func (m *templateRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *templateRepoMock) ClearDefault(ctx context.Context) error {
	return m.ClearDefaultFunc(ctx)
}

func (m *templateRepoMock) SetDefault(ctx context.Context, id uuid.UUID) error {
	return m.SetDefaultFunc(ctx, id)
}

// txManagerMock runs the callback directly, no transaction.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates a non-default template for the caller", func(t *testing.T) {
		t.Parallel()

		repo := &templateRepoMock{
			CreateFunc: func(_ context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error) {
				assert.Equal(t, "Renewal meeting", tpl.Name)
				assert.False(t, tpl.IsDefault)
				require.NotNil(t, tpl.CreatedBy)
				assert.Equal(t, userID, *tpl.CreatedBy)
				out := *tpl
				out.ID = uuid.New()
				return &out, nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		tpl, err := svc.Create(authedCtx(userID), CreateInput{
			Name:    "  Renewal meeting  ",
			Content: "# Document\n{{customerName}}",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, tpl.ID)
	})

	t.Run("rejects empty name and content", func(t *testing.T) {
		t.Parallel()

		svc := NewService(testLogger(), &templateRepoMock{}, txManagerMock{})

		_, err := svc.Create(authedCtx(userID), CreateInput{Name: "  ", Content: ""})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		t.Parallel()

		svc := NewService(testLogger(), &templateRepoMock{}, txManagerMock{})

		_, err := svc.Create(context.Background(), CreateInput{Name: "x", Content: "y"})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("rejects blanking out the content", func(t *testing.T) {
		t.Parallel()

		empty := "   "
		svc := NewService(testLogger(), &templateRepoMock{}, txManagerMock{})

		_, err := svc.Update(context.Background(), id, domain.TemplateUpdateParams{Content: &empty})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("returns the updated template", func(t *testing.T) {
		t.Parallel()

		newName := "Updated name"
		repo := &templateRepoMock{
			UpdateFunc: func(_ context.Context, gotID uuid.UUID, params domain.TemplateUpdateParams) error {
				assert.Equal(t, id, gotID)
				require.NotNil(t, params.Name)
				return nil
			},
			GetByIDFunc: func(_ context.Context, gotID uuid.UUID) (*domain.IntentTemplate, error) {
				return &domain.IntentTemplate{ID: gotID, Name: newName, Content: "c"}, nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		tpl, err := svc.Update(context.Background(), id, domain.TemplateUpdateParams{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, tpl.Name)
	})
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("refuses to delete the default template", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		deleted := false
		repo := &templateRepoMock{
			GetByIDFunc: func(_ context.Context, gotID uuid.UUID) (*domain.IntentTemplate, error) {
				return &domain.IntentTemplate{ID: gotID, Name: "default", IsDefault: true}, nil
			},
			DeleteFunc: func(context.Context, uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		err := svc.Delete(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.False(t, deleted)
	})

	t.Run("deletes a non-default template", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		repo := &templateRepoMock{
			GetByIDFunc: func(_ context.Context, gotID uuid.UUID) (*domain.IntentTemplate, error) {
				return &domain.IntentTemplate{ID: gotID, Name: "extra"}, nil
			},
			DeleteFunc: func(_ context.Context, gotID uuid.UUID) error {
				assert.Equal(t, id, gotID)
				return nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		require.NoError(t, svc.Delete(context.Background(), id))
	})
}

func TestService_SetDefault(t *testing.T) {
	t.Parallel()

	t.Run("clears the old flag before setting the new one", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		var mu sync.Mutex
		var calls []string
		repo := &templateRepoMock{
			ClearDefaultFunc: func(context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				calls = append(calls, "clear")
				return nil
			},
			SetDefaultFunc: func(_ context.Context, gotID uuid.UUID) error {
				assert.Equal(t, id, gotID)
				mu.Lock()
				defer mu.Unlock()
				calls = append(calls, "set")
				return nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		require.NoError(t, svc.SetDefault(context.Background(), id))
		assert.Equal(t, []string{"clear", "set"}, calls)
	})

	t.Run("propagates not found for an unknown template", func(t *testing.T) {
		t.Parallel()

		repo := &templateRepoMock{
			ClearDefaultFunc: func(context.Context) error { return nil },
			SetDefaultFunc: func(context.Context, uuid.UUID) error {
				return domain.ErrNotFound
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		err := svc.SetDefault(context.Background(), uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_Import(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates a template from exported JSON", func(t *testing.T) {
		t.Parallel()

		repo := &templateRepoMock{
			CreateFunc: func(_ context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error) {
				assert.Equal(t, "Imported", tpl.Name)
				assert.Equal(t, "# Body", tpl.Content)
				out := *tpl
				out.ID = uuid.New()
				return &out, nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		tpl, err := svc.Import(authedCtx(userID), []byte(`{"name":"Imported","content":"# Body"}`))
		require.NoError(t, err)
		assert.Equal(t, "Imported", tpl.Name)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		svc := NewService(testLogger(), &templateRepoMock{}, txManagerMock{})

		_, err := svc.Import(authedCtx(userID), []byte("not json"))
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestService_EnsureDefault(t *testing.T) {
	t.Parallel()

	t.Run("seeds when the table is empty", func(t *testing.T) {
		t.Parallel()

		repo := &templateRepoMock{
			CountFunc: func(context.Context) (int, error) { return 0, nil },
			CreateFunc: func(_ context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error) {
				assert.True(t, tpl.IsDefault)
				assert.Contains(t, tpl.Content, "{{customerName}}")
				assert.Contains(t, tpl.Content, "{{desiredConditions}}")
				out := *tpl
				out.ID = uuid.New()
				return &out, nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		require.NoError(t, svc.EnsureDefault(context.Background()))
	})

	t.Run("does nothing when templates already exist", func(t *testing.T) {
		t.Parallel()

		created := false
		repo := &templateRepoMock{
			CountFunc: func(context.Context) (int, error) { return 3, nil },
			CreateFunc: func(_ context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error) {
				created = true
				return tpl, nil
			},
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		require.NoError(t, svc.EnsureDefault(context.Background()))
		assert.False(t, created)
	})

	t.Run("propagates count errors", func(t *testing.T) {
		t.Parallel()

		repo := &templateRepoMock{
			CountFunc: func(context.Context) (int, error) { return 0, errors.New("db down") },
		}
		svc := NewService(testLogger(), repo, txManagerMock{})

		require.Error(t, svc.EnsureDefault(context.Background()))
	})
}
