package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/service/pipeline"
	"github.com/altis0725/insurance-ai-backend/internal/service/recording"
)

type recordingService interface {
	Upload(ctx context.Context, input recording.UploadInput) (*domain.Recording, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Recording, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*recording.Detail, error)
	List(ctx context.Context, input recording.ListInput) (*domain.RecordingPage, error)
	UpdateTranscription(ctx context.Context, input recording.UpdateTranscriptionInput) error
}

type pipelineService interface {
	Process(ctx context.Context, recordingID uuid.UUID, opts pipeline.ProcessOptions) error
}

type historyService interface {
	ListByRecordingID(ctx context.Context, recordingID uuid.UUID) ([]*domain.ChangeHistory, error)
}

type exportService interface {
	RecordingsXLSX(ctx context.Context, filter domain.RecordingFilter) ([]byte, error)
}

// RecordingHandler serves recording REST endpoints.
type RecordingHandler struct {
	svc            recordingService
	pipeline       pipelineService
	history        historyService
	export         exportService
	maxUploadBytes int64
	log            *slog.Logger
}

// NewRecordingHandler creates a RecordingHandler.
func NewRecordingHandler(
	svc recordingService,
	pipelineSvc pipelineService,
	historySvc historyService,
	exportSvc exportService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *RecordingHandler {
	return &RecordingHandler{
		svc:            svc,
		pipeline:       pipelineSvc,
		history:        historySvc,
		export:         exportSvc,
		maxUploadBytes: maxUploadBytes,
		log:            logger.With("handler", "recording"),
	}
}

// Upload handles POST /api/recordings. The request is multipart/form-data:
// an "audio" file part plus metadata fields.
func (h *RecordingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file part is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio part")
		return
	}

	input := recording.UploadInput{
		FileName:     header.Filename,
		Audio:        audio,
		StaffName:    r.FormValue("staffName"),
		CustomerName: r.FormValue("customerName"),
		MeetingType:  domain.MeetingType(r.FormValue("meetingType")),
	}
	if v := r.FormValue("recordedAt"); v != "" {
		recordedAt, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("recordedAt", "must be RFC 3339"))
			return
		}
		input.RecordedAt = recordedAt
	}
	if v := r.FormValue("productCategory"); v != "" {
		category := domain.ProductCategory(v)
		input.ProductCategory = &category
	}
	if v := r.FormValue("durationSeconds"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("durationSeconds", "must be an integer"))
			return
		}
		input.DurationSeconds = seconds
	}

	rec, err := h.svc.Upload(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordingResponse(rec))
}

// List handles GET /api/recordings.
func (h *RecordingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := recording.ListInput{
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if v := q.Get("page"); v != "" {
		input.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("pageSize"); v != "" {
		input.PageSize, _ = strconv.Atoi(v)
	}
	if v := q.Get("staffName"); v != "" {
		input.Filter.StaffName = &v
	}
	if v := q.Get("customerName"); v != "" {
		input.Filter.CustomerName = &v
	}
	if v := q.Get("meetingType"); v != "" {
		mt := domain.MeetingType(v)
		input.Filter.MeetingType = &mt
	}
	if v := q.Get("status"); v != "" {
		st := domain.RecordingStatus(v)
		input.Filter.Status = &st
	}
	if v := q.Get("productCategory"); v != "" {
		pc := domain.ProductCategory(v)
		input.Filter.ProductCategory = &pc
	}
	if v := q.Get("dateFrom"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("dateFrom", "must be RFC 3339"))
			return
		}
		input.Filter.DateFrom = &from
	}
	if v := q.Get("dateTo"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("dateTo", "must be RFC 3339"))
			return
		}
		input.Filter.DateTo = &to
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordingPageResponse(page))
}

// Get handles GET /api/recordings/{id}.
func (h *RecordingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordingResponse(rec))
}

type recordingDetailResponse struct {
	Recording  recordingResponse   `json:"recording"`
	Extraction *extractionResponse `json:"extraction,omitempty"`
	Compliance *complianceResponse `json:"compliance,omitempty"`
}

// GetDetail handles GET /api/recordings/{id}/detail.
func (h *RecordingHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	detail, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := recordingDetailResponse{Recording: toRecordingResponse(detail.Recording)}
	if detail.Extraction != nil {
		ext := toExtractionResponse(detail.Extraction)
		resp.Extraction = &ext
	}
	if detail.Compliance != nil {
		comp := toComplianceResponse(detail.Compliance)
		resp.Compliance = &comp
	}

	writeJSON(w, http.StatusOK, resp)
}

type processRequest struct {
	SkipTranscription bool `json:"skipTranscription"`
}

// Process handles POST /api/recordings/{id}/process.
func (h *RecordingHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req processRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	err = h.pipeline.Process(r.Context(), id, pipeline.ProcessOptions{
		SkipTranscription: req.SkipTranscription,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordingResponse(rec))
}

type updateTranscriptionRequest struct {
	Transcription string  `json:"transcription"`
	Memo          *string `json:"memo"`
}

// UpdateTranscription handles PUT /api/recordings/{id}/transcription.
func (h *RecordingHandler) UpdateTranscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateTranscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.svc.UpdateTranscription(r.Context(), recording.UpdateTranscriptionInput{
		RecordingID:   id,
		Transcription: req.Transcription,
		Memo:          req.Memo,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordingResponse(rec))
}

// History handles GET /api/recordings/{id}/history.
func (h *RecordingHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entries, err := h.history.ListByRecordingID(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]historyResponse, len(entries))
	for i, entry := range entries {
		out[i] = toHistoryResponse(entry)
	}
	writeJSON(w, http.StatusOK, out)
}

// Export handles GET /api/recordings/export. It accepts the same filter
// query parameters as List and streams an XLSX workbook.
func (h *RecordingHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter domain.RecordingFilter
	if v := q.Get("staffName"); v != "" {
		filter.StaffName = &v
	}
	if v := q.Get("customerName"); v != "" {
		filter.CustomerName = &v
	}
	if v := q.Get("status"); v != "" {
		st := domain.RecordingStatus(v)
		filter.Status = &st
	}
	if v := q.Get("dateFrom"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("dateFrom", "must be RFC 3339"))
			return
		}
		filter.DateFrom = &from
	}
	if v := q.Get("dateTo"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("dateTo", "must be RFC 3339"))
			return
		}
		filter.DateTo = &to
	}

	out, err := h.export.RecordingsXLSX(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	filename := fmt.Sprintf("recordings-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(out) //nolint:errcheck
}
