package domain

import (
	"time"

	"github.com/google/uuid"
)

// MandatoryItem is one required-disclosure check outcome.
type MandatoryItem struct {
	Item     string `json:"item"`
	Detected bool   `json:"detected"`
	Reason   string `json:"reason,omitempty"`
}

// NGWord is one forbidden-phrase check outcome.
type NGWord struct {
	Word     string `json:"word"`
	Detected bool   `json:"detected"`
	Context  string `json:"context,omitempty"`
}

// ComplianceData is the full outcome of a compliance check.
type ComplianceData struct {
	MandatoryItems []MandatoryItem `json:"mandatoryItems"`
	NGWords        []NGWord        `json:"ngWords"`
}

// IsCompliant reports whether every mandatory item was detected and
// no NG word was detected. An empty mandatory list is vacuously compliant
// on the mandatory side.
func (d ComplianceData) IsCompliant() bool {
	for _, item := range d.MandatoryItems {
		if !item.Detected {
			return false
		}
	}
	for _, w := range d.NGWords {
		if w.Detected {
			return false
		}
	}
	return true
}

// ComplianceResult stores the compliance check for one recording.
// At most one row exists per recording; only the pipeline writes it.
type ComplianceResult struct {
	ID          uuid.UUID
	RecordingID uuid.UUID
	Data        ComplianceData
	IsCompliant bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
