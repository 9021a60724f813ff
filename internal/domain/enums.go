package domain

// RecordingStatus is the lifecycle status of a recording.
// Transitions happen only inside the processing pipeline:
// pending -> processing -> completed, with processing -> error on failure.
type RecordingStatus string

const (
	StatusPending    RecordingStatus = "pending"
	StatusProcessing RecordingStatus = "processing"
	StatusCompleted  RecordingStatus = "completed"
	StatusError      RecordingStatus = "error"
)

// Valid reports whether s is a known recording status.
func (s RecordingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// MeetingType classifies a sales conversation.
type MeetingType string

const (
	MeetingInitial  MeetingType = "initial"
	MeetingFollowup MeetingType = "followup"
	MeetingProposal MeetingType = "proposal"
)

// Valid reports whether m is a known meeting type.
func (m MeetingType) Valid() bool {
	switch m {
	case MeetingInitial, MeetingFollowup, MeetingProposal:
		return true
	}
	return false
}

// Label returns the display label for the meeting type.
// Unknown values fall back to the raw string.
func (m MeetingType) Label() string {
	switch m {
	case MeetingInitial:
		return "initial meeting"
	case MeetingFollowup:
		return "follow-up"
	case MeetingProposal:
		return "proposal"
	}
	return string(m)
}

// ProductCategory classifies the insurance product under discussion.
type ProductCategory string

const (
	ProductLife       ProductCategory = "life"
	ProductMedical    ProductCategory = "medical"
	ProductSavings    ProductCategory = "savings"
	ProductInvestment ProductCategory = "investment"
)

// Valid reports whether p is a known product category.
func (p ProductCategory) Valid() bool {
	switch p {
	case ProductLife, ProductMedical, ProductSavings, ProductInvestment:
		return true
	}
	return false
}

// ChangeType identifies which field a change history entry covers.
type ChangeType string

const (
	ChangeTranscription ChangeType = "transcription"
	ChangeExtraction    ChangeType = "extraction"
)

// Valid reports whether c is a known change type.
func (c ChangeType) Valid() bool {
	return c == ChangeTranscription || c == ChangeExtraction
}

// ReminderPriority is the urgency of a follow-up reminder.
type ReminderPriority string

const (
	PriorityLow    ReminderPriority = "low"
	PriorityMedium ReminderPriority = "medium"
	PriorityHigh   ReminderPriority = "high"
)

// Valid reports whether p is a known priority.
func (p ReminderPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ReminderStatus is the completion state of a reminder.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderCompleted ReminderStatus = "completed"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Valid reports whether s is a known reminder status.
func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderCompleted, ReminderCancelled:
		return true
	}
	return false
}
