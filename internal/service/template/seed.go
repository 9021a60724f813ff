package template

import (
	"context"
	"fmt"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

const defaultTemplateName = "Standard intent confirmation template"

const defaultTemplateDescription = "The standard intent confirmation document used in insurance sales."

const defaultTemplateContent = `# Intent Confirmation Document

## Basic information

**Confirmation date**: {{confirmationDate}}
**Staff name**: {{staffName}}
**Customer name**: {{customerName}}
**Meeting type**: {{meetingType}}

---

## Confirmed customer intent

### 1. Purpose of insurance
{{insurancePurpose}}

### 2. Family structure
{{familyStructure}}

### 3. Income and expenses
{{incomeExpenses}}

### 4. Existing contracts
{{existingContracts}}

### 5. Desired conditions
{{desiredConditions}}

---

## Confirmation

The customer's intent regarding the above has been confirmed.

**Confirmed by**: {{staffName}}
**Confirmation date**: {{confirmationDate}}

---

*This document was produced as a record of intent confirmation for insurance solicitation.*
`

// EnsureDefault seeds the standard template when no templates exist yet.
// Called at startup and by the seeder; running it twice is a no-op.
func (s *Service) EnsureDefault(ctx context.Context) error {
	count, err := s.templates.Count(ctx)
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	desc := defaultTemplateDescription
	tpl, err := s.templates.Create(ctx, &domain.IntentTemplate{
		Name:        defaultTemplateName,
		Description: &desc,
		Content:     defaultTemplateContent,
		IsDefault:   true,
	})
	if err != nil {
		return fmt.Errorf("seed default template: %w", err)
	}

	s.log.InfoContext(ctx, "default template seeded",
		"template_id", tpl.ID.String())
	return nil
}
