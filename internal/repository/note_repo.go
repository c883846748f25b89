package repository

import (
	"context"

	"gorm.io/gorm"

	"equipinspect/internal/domain"
)

var NoteListSpec = ListSpec{
	Filters: []FilterField{
		{Param: "report", Column: "report_notes.report_id", Kind: FilterInt},
	},
	Search: []string{
		"LOWER(report_notes.note_text) LIKE ? ESCAPE '\\'",
		"report_notes.report_id IN (SELECT report_id FROM inspection_reports WHERE LOWER(report_number) LIKE ? ESCAPE '\\')",
	},
	Ordering: map[string]string{
		"note_id":    "report_notes.note_id",
		"created_at": "report_notes.created_at",
	},
	DefaultOrdering: []string{"-created_at"},
	PrimaryKey:      "report_notes.note_id",
}

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) List(ctx context.Context, q ListQuery) (Page[domain.ReportNote], error) {
	return list[domain.ReportNote](ctx, r.db, NoteListSpec, q, nil)
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*domain.ReportNote, error) {
	var n domain.ReportNote
	if err := r.db.WithContext(ctx).First(&n, "note_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.ReportNote) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NoteRepository) Update(ctx context.Context, n *domain.ReportNote) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.ReportNote{}, "note_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
