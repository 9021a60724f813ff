package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Extraction field names. These are the five fixed slots an intent
// document is populated from; they double as template placeholder tokens.
const (
	FieldInsurancePurpose  = "insurancePurpose"
	FieldFamilyStructure   = "familyStructure"
	FieldIncomeExpenses    = "incomeExpenses"
	FieldExistingContracts = "existingContracts"
	FieldDesiredConditions = "desiredConditions"
)

// ExtractionFieldNames lists the five fields in canonical order.
var ExtractionFieldNames = []string{
	FieldInsurancePurpose,
	FieldFamilyStructure,
	FieldIncomeExpenses,
	FieldExistingContracts,
	FieldDesiredConditions,
}

// ExtractionField is one extracted value with its confidence score (0-100).
type ExtractionField struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
}

// ExtractionData maps field names to extracted values. Fields the editor
// removed are absent from the map, not present with zero confidence.
type ExtractionData map[string]ExtractionField

// OverallConfidence returns round(mean) of the confidences of fields
// present in the map. Fields outside the canonical five are ignored.
// An empty map yields 0.
func (d ExtractionData) OverallConfidence() int {
	sum, n := 0, 0
	for _, name := range ExtractionFieldNames {
		f, ok := d[name]
		if !ok {
			continue
		}
		sum += f.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// Validate checks field names and confidence ranges.
func (d ExtractionData) Validate() error {
	known := make(map[string]bool, len(ExtractionFieldNames))
	for _, name := range ExtractionFieldNames {
		known[name] = true
	}
	for name, f := range d {
		if !known[name] {
			return NewValidationError("extractionData", "unknown field "+name)
		}
		if f.Confidence < 0 || f.Confidence > 100 {
			return NewValidationError(name, "confidence must be between 0 and 100")
		}
	}
	return nil
}

// ExtractionResult is the structured summary extracted from one recording.
// At most one row exists per recording; reprocessing updates it in place.
type ExtractionResult struct {
	ID                uuid.UUID
	RecordingID       uuid.UUID
	Data              ExtractionData
	OverallConfidence int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
