package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/altis0725/insurance-ai-backend/internal/service/insight"
)

type insightService interface {
	Ask(ctx context.Context, question string) (*insight.Answer, error)
	Daily(ctx context.Context, date time.Time) (*insight.DailySummary, error)
}

// InsightHandler serves Q&A and summary REST endpoints.
type InsightHandler struct {
	svc insightService
	log *slog.Logger
}

// NewInsightHandler creates an InsightHandler.
func NewInsightHandler(svc insightService, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{svc: svc, log: logger.With("handler", "insight")}
}

type askRequest struct {
	Question string `json:"question"`
}

type relatedRecordingResponse struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	RecordedAt   time.Time `json:"recordedAt"`
}

type askResponse struct {
	Answer  string                     `json:"answer"`
	Related []relatedRecordingResponse `json:"relatedRecordings"`
}

// Ask handles POST /api/ask.
func (h *InsightHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	related := make([]relatedRecordingResponse, len(answer.Related))
	for i, rec := range answer.Related {
		related[i] = relatedRecordingResponse{
			ID:           rec.ID.String(),
			CustomerName: rec.CustomerName,
			RecordedAt:   rec.RecordedAt,
		}
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: answer.Answer, Related: related})
}

type dailySummaryResponse struct {
	Date            time.Time `json:"date"`
	Summary         string    `json:"summary"`
	KeyPoints       []string  `json:"keyPoints"`
	TotalRecordings int       `json:"totalRecordings"`
	TotalDuration   int       `json:"totalDuration"`
}

// DailySummary handles GET /api/summary/daily.
func (h *InsightHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	sum, err := h.svc.Daily(r.Context(), date)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, dailySummaryResponse{
		Date:            sum.Date,
		Summary:         sum.Summary,
		KeyPoints:       sum.KeyPoints,
		TotalRecordings: sum.TotalRecordings,
		TotalDuration:   sum.TotalDuration,
	})
}
