package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/internal/render"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// Preview is a rendered document that has not been persisted.
type Preview struct {
	Template *domain.IntentTemplate
	Markdown string
	HTML     string
}

// Preview renders a template against the recording's current data without
// saving anything. A nil templateID selects the default template. A missing
// extraction is not an error; its placeholders render as the
// "(not filled in)" sentinel.
func (s *Service) Preview(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (*Preview, error) {
	_, preview, err := s.renderFor(ctx, recordingID, templateID)
	return preview, err
}

// PrintableHTML renders a template into a standalone printable HTML page.
// The page title carries the customer name so browser print dialogs produce
// a sensible file name.
func (s *Service) PrintableHTML(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (string, error) {
	rec, preview, err := s.renderFor(ctx, recordingID, templateID)
	if err != nil {
		return "", err
	}

	title := "Intent confirmation document: " + rec.CustomerName
	return render.PDFDocument(preview.HTML, title), nil
}

func (s *Service) renderFor(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (*domain.Recording, *Preview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}

	rec, err := s.recordings.GetByID(ctx, userID, recordingID)
	if err != nil {
		return nil, nil, fmt.Errorf("load recording: %w", err)
	}

	tpl, err := s.resolveTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	ext, err := s.loadExtraction(ctx, recordingID)
	if err != nil {
		return nil, nil, err
	}

	markdown := render.RenderTemplate(tpl.Content, rec, ext)
	return rec, &Preview{
		Template: tpl,
		Markdown: markdown,
		HTML:     render.MarkdownToHTML(markdown),
	}, nil
}

// Save renders a template, captures a point-in-time snapshot and records the
// generation. Documents are append-only; saving twice produces two rows.
func (s *Service) Save(ctx context.Context, recordingID uuid.UUID, templateID *uuid.UUID) (*domain.IntentDocument, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	rec, err := s.recordings.GetByID(ctx, userID, recordingID)
	if err != nil {
		return nil, fmt.Errorf("load recording: %w", err)
	}

	tpl, err := s.resolveTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	ext, err := s.loadExtraction(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc, err := s.documents.Create(ctx, &domain.IntentDocument{
		RecordingID:     recordingID,
		TemplateID:      tpl.ID,
		Snapshot:        render.NewSnapshot(rec, ext, tpl, now),
		GeneratedBy:     userID,
		GeneratedByName: ctxutil.UserNameFromCtx(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.log.InfoContext(ctx, "intent document saved",
		"document_id", doc.ID.String(),
		"recording_id", recordingID.String(),
		"template_id", tpl.ID.String())
	return doc, nil
}

// List returns the generation history for a recording, newest first.
func (s *Service) List(ctx context.Context, recordingID uuid.UUID) ([]*domain.IntentDocument, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.recordings.GetByID(ctx, userID, recordingID); err != nil {
		return nil, fmt.Errorf("load recording: %w", err)
	}

	docs, err := s.documents.ListByRecordingID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *Service) resolveTemplate(ctx context.Context, templateID *uuid.UUID) (*domain.IntentTemplate, error) {
	if templateID != nil {
		tpl, err := s.templates.GetByID(ctx, *templateID)
		if err != nil {
			return nil, fmt.Errorf("load template: %w", err)
		}
		return tpl, nil
	}

	tpl, err := s.templates.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("load default template: %w", err)
	}
	return tpl, nil
}

func (s *Service) loadExtraction(ctx context.Context, recordingID uuid.UUID) (*domain.ExtractionResult, error) {
	ext, err := s.extraction.GetByRecordingID(ctx, recordingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load extraction: %w", err)
	}
	return ext, nil
}
