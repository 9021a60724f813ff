package domain

import (
	"time"

	"github.com/google/uuid"
)

// IntentTemplate is a reusable document template with {{token}} placeholders.
// At most one template is the default at any time; the swap is transactional.
type IntentTemplate struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Content     string
	IsDefault   bool
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TemplateUpdateParams carries partial template updates.
// Nil fields are left unchanged.
type TemplateUpdateParams struct {
	Name        *string
	Description *string
	Content     *string
}
