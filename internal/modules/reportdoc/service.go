package reportdoc

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	reports  ReportSource
	items    ItemSource
	renderer *Renderer
	log      *zap.Logger
	now      func() time.Time
}

func NewService(reports ReportSource, items ItemSource, renderer *Renderer, log *zap.Logger) *Service {
	if renderer == nil {
		renderer = NewRenderer(Options{})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reports: reports, items: items, renderer: renderer, log: log, now: time.Now}
}

// Document loads the report and assembles its matrix.
func (s *Service) Document(ctx context.Context, reportID int64) (*Document, error) {
	report, err := s.reports.GetDetail(ctx, reportID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	return Build(report, items, s.now()), nil
}

// PDF renders the document. A non-nil *RenderError reports a drawing failure.
func (s *Service) PDF(ctx context.Context, reportID int64) (*Document, []byte, error) {
	return s.render(ctx, reportID, "pdf", s.renderer.PDF)
}

func (s *Service) XLSX(ctx context.Context, reportID int64) (*Document, []byte, error) {
	return s.render(ctx, reportID, "xlsx", WriteXLSX)
}

func (s *Service) render(ctx context.Context, reportID int64, format string, draw func(*bytes.Buffer, *Document) error) (*Document, []byte, error) {
	doc, err := s.Document(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := draw(&buf, doc); err != nil {
		s.log.Error("report rendering failed",
			zap.Int64("report_id", reportID),
			zap.String("format", format),
			zap.Error(err),
		)
		return nil, nil, &RenderError{Format: format, Err: err}
	}
	s.log.Debug("report rendered",
		zap.Int64("report_id", reportID),
		zap.String("format", format),
		zap.Int("bytes", buf.Len()),
	)
	return doc, buf.Bytes(), nil
}

// RenderError wraps a failure to draw an assembled document.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return "render " + e.Format + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }
