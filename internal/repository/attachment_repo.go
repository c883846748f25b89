package repository

import (
	"context"

	"gorm.io/gorm"

	"equipinspect/internal/domain"
)

var AttachmentListSpec = ListSpec{
	Filters: []FilterField{
		{Param: "report", Column: "report_attachments.report_id", Kind: FilterInt},
	},
	Search: []string{
		"LOWER(report_attachments.caption) LIKE ? ESCAPE '\\'",
		"report_attachments.report_id IN (SELECT report_id FROM inspection_reports WHERE LOWER(report_number) LIKE ? ESCAPE '\\')",
	},
	Ordering: map[string]string{
		"attachment_id": "report_attachments.attachment_id",
		"uploaded_at":   "report_attachments.uploaded_at",
	},
	DefaultOrdering: []string{"-uploaded_at"},
	PrimaryKey:      "report_attachments.attachment_id",
}

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) List(ctx context.Context, q ListQuery) (Page[domain.ReportAttachment], error) {
	return list[domain.ReportAttachment](ctx, r.db, AttachmentListSpec, q, nil)
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*domain.ReportAttachment, error) {
	var a domain.ReportAttachment
	if err := r.db.WithContext(ctx).First(&a, "attachment_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.ReportAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) Update(ctx context.Context, a *domain.ReportAttachment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.ReportAttachment{}, "attachment_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
