// Package compliance checks transcripts against the mandatory disclosure
// checklist and the forbidden-phrase watchlist.
package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/llm"
)

// checklistItem is one mandatory disclosure the conversation must contain.
type checklistItem struct {
	Label       string
	Description string
}

// watchlistWord is one forbidden phrase pattern the model scans for.
type watchlistWord struct {
	Word        string
	Description string
}

// The checklist and watchlist are fixed by compliance policy.
var mandatoryChecklist = []checklistItem{
	{Label: "cancellation rights explanation", Description: "withdrawal of the application and cooling-off terms"},
	{Label: "personal data handling", Description: "purpose and scope of personal information use"},
	{Label: "intent confirmation", Description: "confirmation that the proposal matches the customer's needs"},
	{Label: "key facts disclosure", Description: "contract outline and warnings the customer must hear"},
}

var ngWatchlist = []watchlistWord{
	{Word: "absolutely profitable", Description: "providing a definitive judgment is prohibited"},
	{Word: "principal guaranteed", Description: "false statement prohibition (outside specific products)"},
	{Word: "guaranteed to rise", Description: "definitive claims about uncertain future performance"},
	{Word: "no loss on cancellation", Description: "concealing disadvantageous facts is prohibited"},
}

type chatClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type complianceRepo interface {
	GetByRecordingID(ctx context.Context, recordingID uuid.UUID) (*domain.ComplianceResult, error)
}

type recordingRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Recording, error)
}

// Adapter wraps the chat endpoint with the compliance-check contract.
type Adapter struct {
	chat chatClient
	log  *slog.Logger
}

// NewAdapter creates a compliance adapter.
func NewAdapter(chat chatClient, log *slog.Logger) *Adapter {
	return &Adapter{
		chat: chat,
		log:  log.With("service", "compliance"),
	}
}

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(`You are an insurance sales compliance officer.
Analyze the conversation (transcript) between the sales representative and the
customer and check the following two points.

1. **Mandatory disclosures**: whether each required item was explained.
2. **NG words**: whether any prohibited or inappropriate phrasing appears.

## Check targets
[Mandatory disclosures]
`)
	for _, item := range mandatoryChecklist {
		b.WriteString("- " + item.Label + ": " + item.Description + "\n")
	}
	b.WriteString("\n[NG word candidates]\n")
	for _, w := range ngWatchlist {
		b.WriteString("- \"" + w.Word + "\" (" + w.Description + ")\n")
	}
	b.WriteString(`
## Output format (JSON)
{
  "mandatoryItems": [
    { "item": "item label", "detected": true/false, "reason": "the detected explanation or why it was not found" }
  ],
  "ngWords": [
    { "word": "NG word", "detected": true/false, "context": "surrounding context" }
  ]
}

Flag NG words even when the phrasing only resembles a candidate, as long as it
is similarly inappropriate. Mark mandatory items true only when they are
explained explicitly.`)
	return b.String()
}

// Check runs the compliance analysis over a transcript. Transport failures
// are hard errors; an unparseable reply degrades to the pessimistic fallback
// (nothing detected, reason "parse error") so the pipeline can continue and
// mark the recording non-compliant instead of failing outright.
func (a *Adapter) Check(ctx context.Context, transcript string) (domain.ComplianceData, error) {
	userMessage := "Check the following conversation:\n\n" + transcript

	reply, err := a.chat.ChatCompletion(ctx, buildSystemPrompt(), userMessage)
	if err != nil {
		return domain.ComplianceData{}, fmt.Errorf("compliance chat call: %w", err)
	}

	raw, ok := llm.FirstJSONObject(reply)
	if !ok {
		a.log.WarnContext(ctx, "no JSON object in compliance reply, using fallback",
			slog.Int("reply_len", len(reply)))
		return fallbackData(), nil
	}

	var data domain.ComplianceData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		a.log.WarnContext(ctx, "compliance reply unmarshal failed, using fallback",
			slog.String("error", err.Error()))
		return fallbackData(), nil
	}

	if data.MandatoryItems == nil {
		data.MandatoryItems = []domain.MandatoryItem{}
	}
	if data.NGWords == nil {
		data.NGWords = []domain.NGWord{}
	}
	return data, nil
}

// fallbackData marks every mandatory item undetected so the derived
// isCompliant can only be false.
func fallbackData() domain.ComplianceData {
	items := make([]domain.MandatoryItem, len(mandatoryChecklist))
	for i, item := range mandatoryChecklist {
		items[i] = domain.MandatoryItem{
			Item:     item.Label,
			Detected: false,
			Reason:   "parse error",
		}
	}
	return domain.ComplianceData{
		MandatoryItems: items,
		NGWords:        []domain.NGWord{},
	}
}
