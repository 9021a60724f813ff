// Package template manages intent document templates and the single-default
// invariant around them.
package template

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type templateRepo interface {
	Create(ctx context.Context, tpl *domain.IntentTemplate) (*domain.IntentTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error)
	GetDefault(ctx context.Context) (*domain.IntentTemplate, error)
	List(ctx context.Context) ([]*domain.IntentTemplate, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, params domain.TemplateUpdateParams) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDefault(ctx context.Context) error
	SetDefault(ctx context.Context, id uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides intent template operations.
type Service struct {
	templates templateRepo
	tx        txManager
	log       *slog.Logger
}

// NewService creates the template service.
func NewService(log *slog.Logger, templates templateRepo, tx txManager) *Service {
	return &Service{
		templates: templates,
		tx:        tx,
		log:       log.With("service", "template"),
	}
}
