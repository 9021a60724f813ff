package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/service/document"
)

type documentService interface {
	Preview(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (*document.Preview, error)
	PrintableHTML(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (string, error)
	Save(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (*domain.IntentDocument, error)
	List(ctx context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error)
}

// DocumentHandler serves intent document REST endpoints.
type DocumentHandler struct {
	svc documentService
	log *slog.Logger
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc documentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: logger.With("handler", "document")}
}

// templateIDFromQuery reads the optional templateId query parameter.
func templateIDFromQuery(r *http.Request) (*uuid.UUID, error) {
	v := r.URL.Query().Get("templateId")
	if v == "" {
		return nil, nil
	}
	id, err := parseUUIDField(v, "templateId")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

type previewResponse struct {
	Template templateResponse `json:"template"`
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html"`
}

// Preview handles GET /api/recordings/{id}/document/preview.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	templateID, err := templateIDFromQuery(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	preview, err := h.svc.Preview(r.Context(), recordingID, templateID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Template: toTemplateResponse(preview.Template),
		Markdown: preview.Markdown,
		HTML:     preview.HTML,
	})
}

// Printable handles GET /api/recordings/{id}/document/printable. It returns
// a standalone HTML page the client prints to PDF.
func (h *DocumentHandler) Printable(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	templateID, err := templateIDFromQuery(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	page, err := h.svc.PrintableHTML(r.Context(), recordingID, templateID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page)) //nolint:errcheck
}

type saveDocumentRequest struct {
	TemplateID *string `json:"templateId"`
}

// Save handles POST /api/recordings/{id}/document.
func (h *DocumentHandler) Save(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req saveDocumentRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var templateID *uuid.UUID
	if req.TemplateID != nil {
		id, err := parseUUIDField(*req.TemplateID, "templateId")
		if err != nil {
			respondError(w, r, h.log, err)
			return
		}
		templateID = &id
	}

	doc, err := h.svc.Save(r.Context(), recordingID, templateID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

// List handles GET /api/recordings/{id}/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	docs, err := h.svc.List(r.Context(), recordingID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]documentResponse, len(docs))
	for i, doc := range docs {
		out[i] = toDocumentResponse(doc)
	}
	writeJSON(w, http.StatusOK, out)
}
