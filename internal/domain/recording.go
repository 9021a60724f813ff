package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recording is one uploaded or recorded sales conversation.
// The transcript is mutable only through the audited update path;
// the status is mutated only by the processing pipeline.
type Recording struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	RecordedAt      time.Time
	StaffName       string
	CustomerName    string
	MeetingType     MeetingType
	Status          RecordingStatus
	ProductCategory *ProductCategory
	DurationSeconds int
	AudioPath       *string
	Transcription   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TranscriptText returns the transcript or "" when none has been produced.
func (r *Recording) TranscriptText() string {
	if r.Transcription == nil {
		return ""
	}
	return *r.Transcription
}

// HasAudio reports whether an audio file reference exists.
func (r *Recording) HasAudio() bool {
	return r.AudioPath != nil && *r.AudioPath != ""
}

// RecordingUpdateParams carries partial updates applied by the pipeline
// and the audited edit path. Nil fields are left unchanged.
type RecordingUpdateParams struct {
	Status        *RecordingStatus
	Transcription *string
	CustomerName  *string
	MeetingType   *MeetingType
}

// RecordingFilter narrows a recording listing. Zero values mean "no filter".
type RecordingFilter struct {
	StaffName       *string
	CustomerName    *string
	MeetingType     *MeetingType
	Status          *RecordingStatus
	ProductCategory *ProductCategory
	DateFrom        *time.Time
	DateTo          *time.Time
}

// RecordingPage is one page of a recording listing.
type RecordingPage struct {
	Data       []*Recording
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
