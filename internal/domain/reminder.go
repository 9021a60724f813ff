package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a follow-up task, optionally tied to a recording.
type Reminder struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RecordingID *uuid.UUID
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    ReminderPriority
	Status      ReminderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReminderUpdateParams carries partial reminder updates.
// Nil fields are left unchanged.
type ReminderUpdateParams struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *ReminderPriority
	Status      *ReminderStatus
}
