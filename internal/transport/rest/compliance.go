package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type complianceService interface {
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ComplianceResult, error)
}

// ComplianceHandler serves compliance check results.
type ComplianceHandler struct {
	svc complianceService
	log *slog.Logger
}

// NewComplianceHandler creates a ComplianceHandler.
func NewComplianceHandler(svc complianceService, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{svc: svc, log: logger.With("handler", "compliance")}
}

// Get handles GET /api/recordings/{id}/compliance.
func (h *ComplianceHandler) Get(w http.ResponseWriter, r *http.Request) {
	recordingID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	comp, err := h.svc.GetByRecordingID(r.Context(), recordingID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toComplianceResponse(comp))
}
