package domain

import (
	"time"

	"github.com/google/uuid"
)

// IntentDocument records one generation of an intent confirmation document.
// Rows are append-only: a new save creates a new row, nothing is mutated,
// so the full generation history per recording is preserved.
type IntentDocument struct {
	ID              uuid.UUID
	RecordingID     uuid.UUID
	TemplateID      uuid.UUID
	OutputPath      *string
	Snapshot        *Snapshot
	GeneratedBy     uuid.UUID
	GeneratedByName string
	GeneratedAt     time.Time
}

// Snapshot is the point-in-time view captured when a document is saved.
// It is display data for later audit, not a source of truth.
type Snapshot struct {
	Recording  SnapshotRecording  `json:"recording"`
	Extraction *SnapshotExtraction `json:"extraction"`
	Template   SnapshotTemplate   `json:"template"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// SnapshotRecording is the recording subset kept in a snapshot.
type SnapshotRecording struct {
	ID              uuid.UUID        `json:"id"`
	StaffName       string           `json:"staffName"`
	CustomerName    string           `json:"customerName"`
	MeetingType     MeetingType      `json:"meetingType"`
	RecordedAt      time.Time        `json:"recordedAt"`
	ProductCategory *ProductCategory `json:"productCategory"`
}

// SnapshotExtraction is the extraction subset kept in a snapshot.
type SnapshotExtraction struct {
	ID                uuid.UUID      `json:"id"`
	Data              ExtractionData `json:"extractionData"`
	OverallConfidence int            `json:"overallConfidence"`
}

// SnapshotTemplate identifies the template used for generation.
type SnapshotTemplate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
