// Package render implements the intent document rendering engine:
// placeholder substitution, minimal markdown-to-HTML conversion, and the
// printable document wrapper. Everything here is pure text transformation;
// no I/O, no persistence.
package render

import (
	"strings"
	"time"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

// NotFilledIn is substituted for placeholders whose extraction field is
// absent, or when no extraction exists at all.
const NotFilledIn = "(not filled in)"

// timestampLayout is used for the confirmation-date and recorded-at tokens.
const timestampLayout = "January 2, 2006 15:04"

// RenderTemplate substitutes the fixed placeholder vocabulary in tpl with
// live values from the recording and its extraction. Substitution is literal:
// braces are plain characters, every occurrence of a recognized token is
// replaced, and unrecognized tokens are left untouched. Replaced values are
// not re-scanned, so rendering already-rendered output changes nothing.
func RenderTemplate(tpl string, rec *domain.Recording, ext *domain.ExtractionResult) string {
	return RenderTemplateAt(tpl, rec, ext, time.Now())
}

// RenderTemplateAt is RenderTemplate with an explicit confirmation time.
func RenderTemplateAt(tpl string, rec *domain.Recording, ext *domain.ExtractionResult, now time.Time) string {
	var data domain.ExtractionData
	if ext != nil {
		data = ext.Data
	}

	pairs := []string{
		"{{confirmationDate}}", now.Format(timestampLayout),
		"{{staffName}}", rec.StaffName,
		"{{customerName}}", rec.CustomerName,
		"{{meetingType}}", rec.MeetingType.Label(),
		"{{recordedAt}}", rec.RecordedAt.Format(timestampLayout),
	}
	for _, name := range domain.ExtractionFieldNames {
		pairs = append(pairs, "{{"+name+"}}", fieldOr(data, name))
	}

	return strings.NewReplacer(pairs...).Replace(tpl)
}

// fieldOr returns the extracted value for name, or the sentinel when the
// field is absent or empty.
func fieldOr(data domain.ExtractionData, name string) string {
	f, ok := data[name]
	if !ok || f.Value == "" {
		return NotFilledIn
	}
	return f.Value
}

// NewSnapshot captures the point-in-time view persisted alongside a saved
// intent document. A nil extraction produces a nil extraction section.
func NewSnapshot(rec *domain.Recording, ext *domain.ExtractionResult, tpl *domain.IntentTemplate, now time.Time) *domain.Snapshot {
	snap := &domain.Snapshot{
		Recording: domain.SnapshotRecording{
			ID:              rec.ID,
			StaffName:       rec.StaffName,
			CustomerName:    rec.CustomerName,
			MeetingType:     rec.MeetingType,
			RecordedAt:      rec.RecordedAt,
			ProductCategory: rec.ProductCategory,
		},
		Template: domain.SnapshotTemplate{
			ID:   tpl.ID,
			Name: tpl.Name,
		},
		GeneratedAt: now.UTC(),
	}
	if ext != nil {
		snap.Extraction = &domain.SnapshotExtraction{
			ID:                ext.ID,
			Data:              ext.Data,
			OverallConfidence: ext.OverallConfidence,
		}
	}
	return snap
}
