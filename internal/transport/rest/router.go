package rest

import "net/http"

// Handlers bundles every REST handler wired by the router.
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Recording  *RecordingHandler
	Extraction *ExtractionHandler
	Compliance *ComplianceHandler
	Template   *TemplateHandler
	Document   *DocumentHandler
	Reminder   *ReminderHandler
	Insight    *InsightHandler
}

// NewRouter builds the ServeMux with every route registered.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /api/auth/dev-login", h.Auth.DevLogin)
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me)

	mux.HandleFunc("POST /api/recordings", h.Recording.Upload)
	mux.HandleFunc("GET /api/recordings", h.Recording.List)
	mux.HandleFunc("GET /api/recordings/export", h.Recording.Export)
	mux.HandleFunc("GET /api/recordings/{id}", h.Recording.Get)
	mux.HandleFunc("GET /api/recordings/{id}/detail", h.Recording.GetDetail)
	mux.HandleFunc("POST /api/recordings/{id}/process", h.Recording.Process)
	mux.HandleFunc("PUT /api/recordings/{id}/transcription", h.Recording.UpdateTranscription)
	mux.HandleFunc("GET /api/recordings/{id}/history", h.Recording.History)

	mux.HandleFunc("PUT /api/recordings/{id}/extraction", h.Extraction.Update)
	mux.HandleFunc("GET /api/recordings/{id}/compliance", h.Compliance.Get)

	mux.HandleFunc("GET /api/recordings/{id}/document/preview", h.Document.Preview)
	mux.HandleFunc("GET /api/recordings/{id}/document/printable", h.Document.Printable)
	mux.HandleFunc("POST /api/recordings/{id}/document", h.Document.Save)
	mux.HandleFunc("GET /api/recordings/{id}/documents", h.Document.List)

	mux.HandleFunc("POST /api/templates", h.Template.Create)
	mux.HandleFunc("GET /api/templates", h.Template.List)
	mux.HandleFunc("GET /api/templates/default", h.Template.GetDefault)
	mux.HandleFunc("POST /api/templates/import", h.Template.Import)
	mux.HandleFunc("GET /api/templates/{id}", h.Template.Get)
	mux.HandleFunc("PUT /api/templates/{id}", h.Template.Update)
	mux.HandleFunc("DELETE /api/templates/{id}", h.Template.Delete)
	mux.HandleFunc("POST /api/templates/{id}/default", h.Template.SetDefault)

	mux.HandleFunc("POST /api/reminders", h.Reminder.Create)
	mux.HandleFunc("GET /api/reminders", h.Reminder.List)
	mux.HandleFunc("GET /api/reminders/{id}", h.Reminder.Get)
	mux.HandleFunc("PUT /api/reminders/{id}", h.Reminder.Update)
	mux.HandleFunc("POST /api/reminders/{id}/complete", h.Reminder.Complete)
	mux.HandleFunc("DELETE /api/reminders/{id}", h.Reminder.Delete)
	mux.HandleFunc("POST /api/recordings/{id}/reminders/generate", h.Reminder.Generate)

	mux.HandleFunc("POST /api/ask", h.Insight.Ask)
	mux.HandleFunc("GET /api/summary/daily", h.Insight.DailySummary)

	return mux
}
