// Package export produces XLSX workbooks from recording listings so sales
// managers can review activity outside the app.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
	"github.com/altis0725/insurance-ai-backend/pkg/ctxutil"
)

// pageSize is the repository page size used while draining the listing.
const pageSize = 100

// maxRows caps an export; pathological filters should not produce an
// unbounded workbook.
const maxRows = 5000

type recordingRepo interface {
	List(ctx context.Context, userID uuid.UUID, filter domain.RecordingFilter, sortBy, sortOrder string, page, pageSize int) (*domain.RecordingPage, error)
}

// Service renders recording listings into XLSX bytes.
type Service struct {
	recordings recordingRepo
	log        *slog.Logger
}

// NewService creates the export service.
func NewService(log *slog.Logger, recordings recordingRepo) *Service {
	return &Service{
		recordings: recordings,
		log:        log.With("service", "export"),
	}
}

// RecordingsXLSX exports the caller's recordings matching the filter as an
// XLSX workbook, newest first.
func (s *Service) RecordingsXLSX(ctx context.Context, filter domain.RecordingFilter) ([]byte, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	start := time.Now()

	recordings, err := s.drain(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Recordings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := []string{
		"Recorded At",
		"Customer",
		"Staff",
		"Meeting Type",
		"Product Category",
		"Duration (min)",
		"Status",
		"Transcript",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range recordings {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, rec.RecordedAt.Format("2006-01-02 15:04"))
		write(2, rec.CustomerName)
		write(3, rec.StaffName)
		write(4, rec.MeetingType.Label())
		if rec.ProductCategory != nil {
			write(5, string(*rec.ProductCategory))
		} else {
			write(5, "")
		}
		write(6, fmt.Sprintf("%.1f", float64(rec.DurationSeconds)/60))
		write(7, string(rec.Status))
		write(8, truncate(rec.TranscriptText(), 500))
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "C", 20)
	_ = f.SetColWidth(sheet, "D", "E", 18)
	_ = f.SetColWidth(sheet, "F", "G", 14)
	_ = f.SetColWidth(sheet, "H", "H", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.InfoContext(ctx, "recordings exported",
		"rows", len(recordings),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// drain walks the listing page by page until exhausted or maxRows is hit.
func (s *Service) drain(ctx context.Context, userID uuid.UUID, filter domain.RecordingFilter) ([]*domain.Recording, error) {
	var out []*domain.Recording
	for page := 1; ; page++ {
		result, err := s.recordings.List(ctx, userID, filter, "recorded_at", "desc", page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list recordings: %w", err)
		}
		out = append(out, result.Data...)
		if len(out) >= maxRows {
			return out[:maxRows], nil
		}
		if page >= result.TotalPages || len(result.Data) == 0 {
			return out, nil
		}
	}
}

// truncate caps s at n runes, never splitting a multi-byte sequence.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
