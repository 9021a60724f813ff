package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeHistory is one append-only audit record of a manual edit to
// a recording's transcription or extraction data. Entries are immutable
// once written and are listed most-recent-first.
type ChangeHistory struct {
	ID          uuid.UUID
	RecordingID uuid.UUID
	EditorID    uuid.UUID
	EditorName  string
	ChangeType  ChangeType
	OldValue    string
	NewValue    string
	Memo        *string
	ChangedAt   time.Time
}
