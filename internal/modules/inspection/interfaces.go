package inspection

import (
	"context"

	"equipinspect/internal/domain"
	"equipinspect/internal/repository"
)

type ReportRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.InspectionReport], error)
	GetByID(ctx context.Context, id int64) (*domain.InspectionReport, error)
	GetDetail(ctx context.Context, id int64) (*domain.InspectionReport, error)
	Overlapping(ctx context.Context, from, to domain.Date) ([]domain.InspectionReport, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, r *domain.InspectionReport) error
	Update(ctx context.Context, r *domain.InspectionReport) error
	Delete(ctx context.Context, id int64) ([]string, error)
}

type DailyRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.DailyInspection], error)
	ListByReport(ctx context.Context, reportID int64) ([]domain.DailyInspection, error)
	ListByDateRange(ctx context.Context, from, to domain.Date) ([]domain.DailyInspection, error)
	GetByID(ctx context.Context, id int64) (*domain.DailyInspection, error)
	Taken(ctx context.Context, key repository.DailyKey, excludeID int64) (bool, error)
	Create(ctx context.Context, row *domain.DailyInspection) error
	BulkCreate(ctx context.Context, rows []domain.DailyInspection) error
	Update(ctx context.Context, row *domain.DailyInspection) error
	Delete(ctx context.Context, id int64) error
}

type NoteRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.ReportNote], error)
	GetByID(ctx context.Context, id int64) (*domain.ReportNote, error)
	Create(ctx context.Context, n *domain.ReportNote) error
	Update(ctx context.Context, n *domain.ReportNote) error
	Delete(ctx context.Context, id int64) error
}

type AttachmentRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.ReportAttachment], error)
	GetByID(ctx context.Context, id int64) (*domain.ReportAttachment, error)
	Create(ctx context.Context, a *domain.ReportAttachment) error
	Update(ctx context.Context, a *domain.ReportAttachment) error
	Delete(ctx context.Context, id int64) error
}

// Checker reports whether a referenced row exists.
type Checker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
