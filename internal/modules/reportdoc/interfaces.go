package reportdoc

import (
	"context"

	"equipinspect/internal/domain"
)

// ReportSource loads a report with its parties, daily data, notes and attachments.
type ReportSource interface {
	GetDetail(ctx context.Context, id int64) (*domain.InspectionReport, error)
}

// ItemSource lists every checklist item by sort order.
type ItemSource interface {
	All(ctx context.Context) ([]domain.ChecklistItem, error)
}
