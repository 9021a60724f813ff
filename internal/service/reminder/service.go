// Package reminder manages follow-up reminders, scoped per user.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

type reminderRepo interface {
	Create(ctx context.Context, rem *domain.Reminder) (*domain.Reminder, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Reminder, error)
	List(ctx context.Context, userID uuid.UUID, status *domain.ReminderStatus, from, to *time.Time) ([]*domain.Reminder, error)
	Update(ctx context.Context, userID, id uuid.UUID, params domain.ReminderUpdateParams) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Service provides reminder CRUD for the authenticated user.
type Service struct {
	reminders reminderRepo
	log       *slog.Logger
}

// NewService creates the reminder service.
func NewService(log *slog.Logger, reminders reminderRepo) *Service {
	return &Service{
		reminders: reminders,
		log:       log.With("service", "reminder"),
	}
}

// CreateInput carries a new reminder. A zero Priority defaults to medium.
type CreateInput struct {
	RecordingID *uuid.UUID
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    domain.ReminderPriority
}

// Create adds a reminder for the calling user.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Reminder, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.NewValidationError("priority", "unknown priority")
	}

	rem, err := s.reminders.Create(ctx, &domain.Reminder{
		UserID:      userID,
		RecordingID: input.RecordingID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    priority,
		Status:      domain.ReminderPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}

	s.log.InfoContext(ctx, "reminder created",
		slog.String("reminder_id", rem.ID.String()),
		slog.String("priority", string(rem.Priority)))
	return rem, nil
}

// Get returns one of the caller's reminders.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	rem, err := s.reminders.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load reminder: %w", err)
	}
	return rem, nil
}

// ListInput narrows a reminder listing. Zero values mean "no filter".
type ListInput struct {
	Status   *domain.ReminderStatus
	DueFrom  *time.Time
	DueUntil *time.Time
}

// List returns the caller's reminders, due-date ascending with undated
// reminders last.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Reminder, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}

	reminders, err := s.reminders.List(ctx, userID, input.Status, input.DueFrom, input.DueUntil)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// Update applies a partial update to one of the caller's reminders.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params domain.ReminderUpdateParams) (*domain.Reminder, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, domain.NewValidationError("title", "title must not be empty")
	}
	if params.Priority != nil && !params.Priority.Valid() {
		return nil, domain.NewValidationError("priority", "unknown priority")
	}
	if params.Status != nil && !params.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}

	if err := s.reminders.Update(ctx, userID, id, params); err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}

	rem, err := s.reminders.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load reminder: %w", err)
	}
	return rem, nil
}

// Complete marks a reminder done.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	status := domain.ReminderCompleted
	return s.Update(ctx, id, domain.ReminderUpdateParams{Status: &status})
}

// Delete removes one of the caller's reminders.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.reminders.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}

	s.log.InfoContext(ctx, "reminder deleted", slog.String("reminder_id", id.String()))
	return nil
}
