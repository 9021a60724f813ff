package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/service/reminder"
)

type reminderService interface {
	Create(ctx context.Context, input reminder.CreateInput) (*domain.Reminder, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)
	List(ctx context.Context, input reminder.ListInput) ([]*domain.Reminder, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ReminderUpdateParams) (*domain.Reminder, error)
	Complete(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reminderGenerator interface {
	GenerateReminders(ctx context.Context, recordingID uuid.UUID) ([]*domain.Reminder, error)
}

// ReminderHandler serves reminder REST endpoints.
type ReminderHandler struct {
	svc       reminderService
	generator reminderGenerator
	log       *slog.Logger
}

// NewReminderHandler creates a ReminderHandler.
func NewReminderHandler(svc reminderService, generator reminderGenerator, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{
		svc:       svc,
		generator: generator,
		log:       logger.With("handler", "reminder"),
	}
}

type createReminderRequest struct {
	RecordingID *string    `json:"recordingId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
}

// Create handles POST /api/reminders.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := reminder.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    domain.ReminderPriority(req.Priority),
	}
	if req.RecordingID != nil {
		id, err := parseUUIDField(*req.RecordingID, "recordingId")
		if err != nil {
			respondError(w, r, h.log, err)
			return
		}
		input.RecordingID = &id
	}

	rem, err := h.svc.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReminderResponse(rem))
}

// List handles GET /api/reminders.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var input reminder.ListInput
	if v := q.Get("status"); v != "" {
		st := domain.ReminderStatus(v)
		input.Status = &st
	}
	if v := q.Get("dueFrom"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("dueFrom", "must be RFC 3339"))
			return
		}
		input.DueFrom = &from
	}
	if v := q.Get("dueUntil"); v != "" {
		until, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("dueUntil", "must be RFC 3339"))
			return
		}
		input.DueUntil = &until
	}

	reminders, err := h.svc.List(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]reminderResponse, len(reminders))
	for i, rem := range reminders {
		out[i] = toReminderResponse(rem)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/reminders/{id}.
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	rem, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(rem))
}

type updateReminderRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
}

// Update handles PUT /api/reminders/{id}.
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := domain.ReminderUpdateParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		priority := domain.ReminderPriority(*req.Priority)
		params.Priority = &priority
	}
	if req.Status != nil {
		status := domain.ReminderStatus(*req.Status)
		params.Status = &status
	}

	rem, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(rem))
}

// Complete handles POST /api/reminders/{id}/complete.
func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	rem, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(rem))
}

// Delete handles DELETE /api/reminders/{id}.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /api/recordings/{id}/reminders/generate.
func (h *ReminderHandler) Generate(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	reminders, err := h.generator.GenerateReminders(r.Context(), recordingID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]reminderResponse, len(reminders))
	for i, rem := range reminders {
		out[i] = toReminderResponse(rem)
	}
	writeJSON(w, http.StatusOK, out)
}
