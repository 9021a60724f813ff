package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/service/extraction"
)

type extractionService interface {
	UpdateData(ctx context.Context, input extraction.UpdateDataInput) error
}

// ExtractionHandler serves manual extraction edits.
type ExtractionHandler struct {
	svc extractionService
	log *slog.Logger
}

// NewExtractionHandler creates an ExtractionHandler.
func NewExtractionHandler(svc extractionService, logger *slog.Logger) *ExtractionHandler {
	return &ExtractionHandler{svc: svc, log: logger.With("handler", "extraction")}
}

type updateExtractionRequest struct {
	ExtractionID string                `json:"extractionId"`
	Data         domain.ExtractionData `json:"extractionData"`
	Memo         *string               `json:"memo"`
}

// Update handles PUT /api/recordings/{id}/extraction.
func (h *ExtractionHandler) Update(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateExtractionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	extractionID, err := parseUUIDField(req.ExtractionID, "extractionId")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	err = h.svc.UpdateData(r.Context(), extraction.UpdateDataInput{
		RecordingID:  recordingID,
		ExtractionID: extractionID,
		Data:         req.Data,
		Memo:         req.Memo,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
