package template

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// CreateInput carries a new template.
type CreateInput struct {
	Name        string
	Description *string
	Content     string
}

func (in CreateInput) validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(in.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "content is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Create adds a new, non-default template.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.IntentTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	tpl, err := s.templates.Create(ctx, &domain.IntentTemplate{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Content:     input.Content,
		IsDefault:   false,
		CreatedBy:   &userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	s.log.InfoContext(ctx, "template created",
		slog.String("template_id", tpl.ID.String()),
		slog.String("name", tpl.Name))
	return tpl, nil
}

// Get returns one template.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return tpl, nil
}

// GetDefault returns the default template.
func (s *Service) GetDefault(ctx context.Context) (*domain.IntentTemplate, error) {
	tpl, err := s.templates.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("load default template: %w", err)
	}
	return tpl, nil
}

// List returns all templates, default first.
func (s *Service) List(ctx context.Context) ([]*domain.IntentTemplate, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params domain.TemplateUpdateParams) (*domain.IntentTemplate, error) {
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, domain.NewValidationError("name", "name must not be empty")
	}
	if params.Content != nil && strings.TrimSpace(*params.Content) == "" {
		return nil, domain.NewValidationError("content", "content must not be empty")
	}

	if err := s.templates.Update(ctx, id, params); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a template. The default template cannot be deleted; a new
// default must be chosen first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}
	if tpl.IsDefault {
		return domain.NewValidationError("id", "the default template cannot be deleted")
	}

	if err := s.templates.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	s.log.InfoContext(ctx, "template deleted", slog.String("template_id", id.String()))
	return nil
}

// SetDefault makes one template the default. The previous flag is cleared
// and the new one set inside a single transaction, so the partial unique
// index never observes two defaults and no window with zero or two defaults
// is visible to readers.
func (s *Service) SetDefault(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.templates.ClearDefault(ctx); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}
		if err := s.templates.SetDefault(ctx, id); err != nil {
			return fmt.Errorf("set default: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "default template changed", slog.String("template_id", id.String()))
	return nil
}

// importPayload is the accepted JSON shape for template import.
type importPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Content     string  `json:"content"`
}

// Import creates a template from an exported JSON document.
func (s *Service) Import(ctx context.Context, raw []byte) (*domain.IntentTemplate, error) {
	var payload importPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, domain.NewValidationError("file", "not a valid template JSON document")
	}

	return s.Create(ctx, CreateInput{
		Name:        payload.Name,
		Description: payload.Description,
		Content:     payload.Content,
	})
}
