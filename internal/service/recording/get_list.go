package recording

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// Detail bundles a recording with its enrichment results for display.
type Detail struct {
	Recording  *domain.Recording
	Extraction *domain.ExtractionResult
	Compliance *domain.ComplianceResult
}

// Get returns one recording owned by the caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Recording, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	rec, err := s.recordings.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load recording: %w", err)
	}
	return rec, nil
}

// GetDetail returns a recording with its extraction and compliance results.
// Missing enrichment rows are returned as nil, not as errors: a pending
// recording legitimately has neither.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Recording: rec}

	ext, err := s.extraction.GetByRecordingID(ctx, id)
	switch {
	case err == nil:
		detail.Extraction = ext
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("load extraction: %w", err)
	}

	comp, err := s.compliance.GetByRecordingID(ctx, id)
	switch {
	case err == nil:
		detail.Compliance = comp
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("load compliance: %w", err)
	}

	return detail, nil
}

// ListInput narrows, sorts and paginates a recording listing.
type ListInput struct {
	Filter    domain.RecordingFilter
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// List returns one page of the caller's recordings.
func (s *Service) List(ctx context.Context, input ListInput) (*domain.RecordingPage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if input.Filter.Status != nil && !input.Filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}
	if input.Filter.MeetingType != nil && !input.Filter.MeetingType.Valid() {
		return nil, domain.NewValidationError("meetingType", "unknown meeting type")
	}
	if input.Filter.ProductCategory != nil && !input.Filter.ProductCategory.Valid() {
		return nil, domain.NewValidationError("productCategory", "unknown product category")
	}

	result, err := s.recordings.List(ctx, userID, input.Filter, input.SortBy, input.SortOrder, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	return result, nil
}
