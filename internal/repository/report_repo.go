package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipinspect/internal/domain"
)

var ReportListSpec = ListSpec{
	Filters: []FilterField{
		{Param: "equipment", Column: "inspection_reports.equipment_id", Kind: FilterInt},
		{Param: "operator", Column: "inspection_reports.operator_id", Kind: FilterInt},
		{Param: "supervisor", Column: "inspection_reports.supervisor_id", Kind: FilterInt},
		{Param: "start_date", Column: "inspection_reports.start_date", Kind: FilterDate},
		{Param: "end_date", Column: "inspection_reports.end_date", Kind: FilterDate},
	},
	Search: []string{
		"LOWER(inspection_reports.report_number) LIKE ? ESCAPE '\\'",
		"inspection_reports.equipment_id IN (SELECT equipment_id FROM equipment WHERE LOWER(serial_number) LIKE ? ESCAPE '\\')",
		"inspection_reports.operator_id IN (SELECT user_id FROM users WHERE LOWER(full_name) LIKE ? ESCAPE '\\')",
		"inspection_reports.supervisor_id IN (SELECT user_id FROM users WHERE LOWER(full_name) LIKE ? ESCAPE '\\')",
	},
	Ordering: map[string]string{
		"report_id":     "inspection_reports.report_id",
		"report_number": "inspection_reports.report_number",
		"start_date":    "inspection_reports.start_date",
		"end_date":      "inspection_reports.end_date",
		"created_at":    "inspection_reports.created_at",
	},
	DefaultOrdering: []string{"-created_at"},
	PrimaryKey:      "inspection_reports.report_id",
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func withParties(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Equipment").Preload("Operator").Preload("Supervisor")
}

func withChildren(tx *gorm.DB) *gorm.DB {
	return withParties(tx).
		Preload("DailyData", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(dailyByItemOrder).Select("daily_inspection_data.*")
		}).
		Preload("DailyData.Item").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("note_id ASC")
		}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC").Order("attachment_id ASC")
		})
}

// List returns a page of reports with equipment, operator and supervisor loaded.
func (r *ReportRepository) List(ctx context.Context, q ListQuery) (Page[domain.InspectionReport], error) {
	return list[domain.InspectionReport](ctx, r.db, ReportListSpec, q, nil, withParties)
}

// GetByID loads the report with its parties.
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.InspectionReport, error) {
	var rep domain.InspectionReport
	if err := r.db.WithContext(ctx).Scopes(withParties).First(&rep, "report_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetDetail loads the report with parties, daily data, notes and attachments.
func (r *ReportRepository) GetDetail(ctx context.Context, id int64) (*domain.InspectionReport, error) {
	var rep domain.InspectionReport
	if err := r.db.WithContext(ctx).Scopes(withChildren).First(&rep, "report_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

// Overlapping returns reports whose date range intersects [from, to], in detail form.
func (r *ReportRepository) Overlapping(ctx context.Context, from, to domain.Date) ([]domain.InspectionReport, error) {
	var reports []domain.InspectionReport
	err := r.db.WithContext(ctx).
		Scopes(withChildren).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("created_at DESC").
		Order("report_id ASC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, &domain.InspectionReport{}, "report_id = ?", id)
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.InspectionReport) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rep).Error
}

func (r *ReportRepository) Update(ctx context.Context, rep *domain.InspectionReport) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rep).Error
}

// Delete removes the report with its daily data, notes and attachments and
// returns the storage keys of the removed attachments.
func (r *ReportRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var files []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(ctx, tx, &domain.InspectionReport{}, "report_id = ?", id)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrRecordNotFound
		}
		files, err = deleteReports(tx, []int64{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// deleteReports removes reports and their children inside tx.
func deleteReports(tx *gorm.DB, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var files []string
	if err := tx.Model(&domain.ReportAttachment{}).
		Where("report_id IN ?", ids).
		Pluck("file_path", &files).Error; err != nil {
		return nil, err
	}

	for _, model := range []any{&domain.DailyInspection{}, &domain.ReportNote{}, &domain.ReportAttachment{}} {
		if err := tx.Where("report_id IN ?", ids).Delete(model).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Where("report_id IN ?", ids).Delete(&domain.InspectionReport{}).Error; err != nil {
		return nil, err
	}
	return files, nil
}
