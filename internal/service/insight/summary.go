package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/llm"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

const (
	summaryEmptyText    = "No recordings for this day."
	summaryFallbackText = "Summary generation failed."
)

const summarySystemPromptHeader = `You are an insurance sales assistant. Produce a one-day summary of the recording data below.

Respond in this JSON format:
{
  "summary": "overall summary, about 100 words",
  "keyPoints": ["point 1", "point 2", "point 3"]
}

Recording data:
`

// DailySummary is a one-day digest of sales activity.
type DailySummary struct {
	Date            time.Time
	Summary         string
	KeyPoints       []string
	TotalRecordings int
	TotalDuration   int
}

type summaryPayload struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

// Daily summarizes the caller's recent completed recordings. A zero date
// means today. LLM failures fall back to a fixed message; a model response
// that is not the requested JSON is used verbatim as the summary text.
func (s *Service) Daily(ctx context.Context, date time.Time) (*DailySummary, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if date.IsZero() {
		date = s.now()
	}

	recordings, err := s.recordings.ListCompleted(ctx, userID, summaryContextSize)
	if err != nil {
		return nil, fmt.Errorf("load completed recordings: %w", err)
	}

	out := &DailySummary{
		Date:            date,
		KeyPoints:       []string{},
		TotalRecordings: len(recordings),
	}
	for _, rec := range recordings {
		out.TotalDuration += rec.DurationSeconds
	}

	if len(recordings) == 0 {
		out.Summary = summaryEmptyText
		return out, nil
	}

	systemPrompt := summarySystemPromptHeader + recordingContext(recordings, false)
	content, err := s.chat.ChatCompletion(ctx, systemPrompt, "Summarize today's sales activity.")
	if err != nil {
		s.log.WarnContext(ctx, "daily summary failed, returning fallback", "error", err)
		out.Summary = summaryFallbackText
		return out, nil
	}

	var payload summaryPayload
	raw, found := llm.FirstJSONObject(content)
	if !found || json.Unmarshal([]byte(raw), &payload) != nil || payload.Summary == "" {
		// The model answered in prose; keep that as the summary.
		out.Summary = strings.TrimSpace(content)
		if out.Summary == "" {
			out.Summary = summaryFallbackText
		}
		return out, nil
	}

	out.Summary = payload.Summary
	if payload.KeyPoints != nil {
		out.KeyPoints = payload.KeyPoints
	}
	return out, nil
}
