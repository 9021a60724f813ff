package rest

import (
	"time"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

type recordingResponse struct {
	ID              string    `json:"id"`
	RecordedAt      time.Time `json:"recordedAt"`
	StaffName       string    `json:"staffName"`
	CustomerName    string    `json:"customerName"`
	MeetingType     string    `json:"meetingType"`
	Status          string    `json:"status"`
	ProductCategory *string   `json:"productCategory,omitempty"`
	DurationSeconds int       `json:"durationSeconds"`
	Transcription   *string   `json:"transcription,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toRecordingResponse(rec *domain.Recording) recordingResponse {
	out := recordingResponse{
		ID:              rec.ID.String(),
		RecordedAt:      rec.RecordedAt,
		StaffName:       rec.StaffName,
		CustomerName:    rec.CustomerName,
		MeetingType:     string(rec.MeetingType),
		Status:          string(rec.Status),
		DurationSeconds: rec.DurationSeconds,
		Transcription:   rec.Transcription,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if rec.ProductCategory != nil {
		category := string(*rec.ProductCategory)
		out.ProductCategory = &category
	}
	return out
}

type recordingPageResponse struct {
	Data       []recordingResponse `json:"data"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

func toRecordingPageResponse(page *domain.RecordingPage) recordingPageResponse {
	data := make([]recordingResponse, len(page.Data))
	for i, rec := range page.Data {
		data[i] = toRecordingResponse(rec)
	}
	return recordingPageResponse{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

type extractionResponse struct {
	ID                string                `json:"id"`
	RecordingID       string                `json:"recordingId"`
	Data              domain.ExtractionData `json:"extractionData"`
	OverallConfidence int                   `json:"overallConfidence"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

func toExtractionResponse(ext *domain.ExtractionResult) extractionResponse {
	return extractionResponse{
		ID:                ext.ID.String(),
		RecordingID:       ext.RecordingID.String(),
		Data:              ext.Data,
		OverallConfidence: ext.OverallConfidence,
		UpdatedAt:         ext.UpdatedAt,
	}
}

type complianceResponse struct {
	ID          string                `json:"id"`
	RecordingID string                `json:"recordingId"`
	Data        domain.ComplianceData `json:"checkResults"`
	IsCompliant bool                  `json:"isCompliant"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

func toComplianceResponse(comp *domain.ComplianceResult) complianceResponse {
	return complianceResponse{
		ID:          comp.ID.String(),
		RecordingID: comp.RecordingID.String(),
		Data:        comp.Data,
		IsCompliant: comp.IsCompliant,
		UpdatedAt:   comp.UpdatedAt,
	}
}

type historyResponse struct {
	ID          string    `json:"id"`
	RecordingID string    `json:"recordingId"`
	EditorName  string    `json:"editorName"`
	ChangeType  string    `json:"changeType"`
	OldValue    string    `json:"oldValue"`
	NewValue    string    `json:"newValue"`
	Memo        *string   `json:"memo,omitempty"`
	ChangedAt   time.Time `json:"changedAt"`
}

func toHistoryResponse(entry *domain.ChangeHistory) historyResponse {
	return historyResponse{
		ID:          entry.ID.String(),
		RecordingID: entry.RecordingID.String(),
		EditorName:  entry.EditorName,
		ChangeType:  string(entry.ChangeType),
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		Memo:        entry.Memo,
		ChangedAt:   entry.ChangedAt,
	}
}

type templateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Content     string    `json:"content"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTemplateResponse(tpl *domain.IntentTemplate) templateResponse {
	return templateResponse{
		ID:          tpl.ID.String(),
		Name:        tpl.Name,
		Description: tpl.Description,
		Content:     tpl.Content,
		IsDefault:   tpl.IsDefault,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}
}

type documentResponse struct {
	ID              string           `json:"id"`
	RecordingID     string           `json:"recordingId"`
	TemplateID      string           `json:"templateId"`
	Snapshot        *domain.Snapshot `json:"snapshot,omitempty"`
	GeneratedByName string           `json:"generatedByName"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

func toDocumentResponse(doc *domain.IntentDocument) documentResponse {
	return documentResponse{
		ID:              doc.ID.String(),
		RecordingID:     doc.RecordingID.String(),
		TemplateID:      doc.TemplateID.String(),
		Snapshot:        doc.Snapshot,
		GeneratedByName: doc.GeneratedByName,
		GeneratedAt:     doc.GeneratedAt,
	}
}

type reminderResponse struct {
	ID          string     `json:"id"`
	RecordingID *string    `json:"recordingId,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toReminderResponse(rem *domain.Reminder) reminderResponse {
	out := reminderResponse{
		ID:          rem.ID.String(),
		Title:       rem.Title,
		Description: rem.Description,
		DueDate:     rem.DueDate,
		Priority:    string(rem.Priority),
		Status:      string(rem.Status),
		CreatedAt:   rem.CreatedAt,
		UpdatedAt:   rem.UpdatedAt,
	}
	if rem.RecordingID != nil {
		id := rem.RecordingID.String()
		out.RecordingID = &id
	}
	return out
}

type userResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Role  string  `json:"role"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}
