package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/service/template"
)

// maxImportBytes caps the accepted size of an imported template document.
const maxImportBytes = 1 << 20

type templateService interface {
	Create(ctx context.Context, input template.CreateInput) (*domain.IntentTemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.IntentTemplate, error)
	GetDefault(ctx context.Context) (*domain.IntentTemplate, error)
	List(ctx context.Context) ([]*domain.IntentTemplate, error)
	Update(ctx context.Context, id uuid.UUID, params domain.TemplateUpdateParams) (*domain.IntentTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, raw []byte) (*domain.IntentTemplate, error)
}

// TemplateHandler serves intent template REST endpoints.
type TemplateHandler struct {
	svc templateService
	log *slog.Logger
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(svc templateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, log: logger.With("handler", "template")}
}

type createTemplateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Content     string  `json:"content"`
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.svc.Create(r.Context(), template.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTemplateResponse(tpl))
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]templateResponse, len(templates))
	for i, tpl := range templates {
		out[i] = toTemplateResponse(tpl)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDefault handles GET /api/templates/default.
func (h *TemplateHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.svc.GetDefault(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

// Get handles GET /api/templates/{id}.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	tpl, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

type updateTemplateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// Update handles PUT /api/templates/{id}.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.svc.Update(r.Context(), id, domain.TemplateUpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

// Delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// SetDefault handles POST /api/templates/{id}/default.
func (h *TemplateHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.svc.SetDefault(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/templates/import with a raw JSON body.
func (h *TemplateHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	tpl, err := h.svc.Import(r.Context(), raw)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateResponse(tpl))
}
