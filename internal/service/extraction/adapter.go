// Package extraction turns transcripts into the five structured intent
// fields and owns the audited manual-edit path for extraction data.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/llm"
)

// Fallback values written when parsing fails or a field is missing.
const (
	valueExtractionError = "extraction error"
	valueUnknown         = "unknown"
)

const extractionSystemPrompt = `You are a professional insurance sales assistant.
Extract the key information needed for an intent confirmation document from the
provided sales conversation transcript and output it in the exact JSON format below.

## Fields to extract
1. **insurancePurpose**: why insurance is being considered (e.g. death benefit, retirement funds, medical coverage)
2. **familyStructure**: the customer's household (e.g. spouse, children and their ages)
3. **incomeExpenses**: annual income, monthly spending, budget, mortgage and other financial context
4. **existingContracts**: insurance policies the customer already holds
5. **desiredConditions**: preferences on premium, coverage period, payment method and similar

## Output format (JSON)
{
  "insurancePurpose": { "value": "extracted content", "confidence": 80 },
  "familyStructure": { "value": "extracted content", "confidence": 90 },
  "incomeExpenses": { "value": "extracted content", "confidence": 70 },
  "existingContracts": { "value": "extracted content", "confidence": 85 },
  "desiredConditions": { "value": "extracted content", "confidence": 75 }
}

Rate "confidence" 0-100 by how explicitly the information is stated. If a field
is not mentioned at all, set value to "unknown" and confidence to 0.`

type chatClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Adapter wraps the chat endpoint with the extraction contract: a fixed
// prompt, defensive parsing, and normalization of the model's output.
type Adapter struct {
	chat chatClient
	log  *slog.Logger
}

// NewAdapter creates an extraction adapter.
func NewAdapter(chat chatClient, log *slog.Logger) *Adapter {
	return &Adapter{
		chat: chat,
		log:  log.With("service", "extraction"),
	}
}

// Extract runs the LLM over a transcript and returns normalized extraction
// data plus the overall confidence. Transport failures are hard errors; an
// unparseable reply degrades to a fallback result instead of failing, so a
// single bad model response cannot abort the whole pipeline.
func (a *Adapter) Extract(ctx context.Context, transcript string) (domain.ExtractionData, int, error) {
	userMessage := "Extract the information from the following conversation:\n\n" + transcript

	reply, err := a.chat.ChatCompletion(ctx, extractionSystemPrompt, userMessage)
	if err != nil {
		return nil, 0, fmt.Errorf("extraction chat call: %w", err)
	}

	raw, ok := llm.FirstJSONObject(reply)
	if !ok {
		a.log.WarnContext(ctx, "no JSON object in extraction reply, using fallback",
			slog.Int("reply_len", len(reply)))
		return fallbackData(), 0, nil
	}

	if err := validateExtractionJSON([]byte(raw)); err != nil {
		a.log.WarnContext(ctx, "extraction reply failed schema validation, using fallback",
			slog.String("error", err.Error()))
		return fallbackData(), 0, nil
	}

	var parsed map[string]extractedField
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		a.log.WarnContext(ctx, "extraction reply unmarshal failed, using fallback",
			slog.String("error", err.Error()))
		return fallbackData(), 0, nil
	}

	data := normalize(parsed)
	return data, data.OverallConfidence(), nil
}

// extractedField is the wire shape of one field in the model's reply. The
// contract says confidence is a number, not an integer, so it is decoded as
// float64 and rounded during normalization.
type extractedField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// normalize fills any missing canonical field so downstream code can assume
// all five keys are always present after adapter output. Confidences are
// rounded to the nearest integer and clamped into [0,100].
func normalize(parsed map[string]extractedField) domain.ExtractionData {
	data := make(domain.ExtractionData, len(domain.ExtractionFieldNames))
	for _, name := range domain.ExtractionFieldNames {
		f, ok := parsed[name]
		if !ok || f.Value == "" {
			data[name] = domain.ExtractionField{Value: valueUnknown, Confidence: 0}
			continue
		}
		confidence := int(math.Round(f.Confidence))
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}
		data[name] = domain.ExtractionField{Value: f.Value, Confidence: confidence}
	}
	return data
}

func fallbackData() domain.ExtractionData {
	data := make(domain.ExtractionData, len(domain.ExtractionFieldNames))
	for _, name := range domain.ExtractionFieldNames {
		data[name] = domain.ExtractionField{Value: valueExtractionError, Confidence: 0}
	}
	return data
}
