package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipinspect/internal/domain"
)

var DailyListSpec = ListSpec{
	Filters: []FilterField{
		{Param: "report", Column: "daily_inspection_data.report_id", Kind: FilterInt},
		{Param: "item", Column: "daily_inspection_data.item_id", Kind: FilterInt},
		{Param: "status", Column: "daily_inspection_data.status", Allowed: []string{
			string(domain.StatusGood),
			string(domain.StatusNotGood),
		}},
		{Param: "inspection_date", Column: "daily_inspection_data.inspection_date", Kind: FilterDate},
	},
	Search: []string{
		"daily_inspection_data.report_id IN (SELECT report_id FROM inspection_reports WHERE LOWER(report_number) LIKE ? ESCAPE '\\')",
		"LOWER(checklist_items.item_description) LIKE ? ESCAPE '\\'",
	},
	Ordering: map[string]string{
		"inspection_data_id": "daily_inspection_data.inspection_data_id",
		"inspection_date":    "daily_inspection_data.inspection_date",
		"status":             "daily_inspection_data.status",
		"item__sort_order":   "checklist_items.sort_order",
	},
	DefaultOrdering: []string{"-inspection_date", "item__sort_order"},
	PrimaryKey:      "daily_inspection_data.inspection_data_id",
}

// DailyKey identifies a daily result by its natural key.
type DailyKey struct {
	ReportID int64
	ItemID   int64
	Date     domain.Date
}

type DailyInspectionRepository struct {
	db *gorm.DB
}

func NewDailyInspectionRepository(db *gorm.DB) *DailyInspectionRepository {
	return &DailyInspectionRepository{db: db}
}

func joinItems(tx *gorm.DB) *gorm.DB {
	return tx.Joins("LEFT JOIN checklist_items ON checklist_items.item_id = daily_inspection_data.item_id")
}

// dailyByItemOrder sorts by date, then by the checklist position.
func dailyByItemOrder(tx *gorm.DB) *gorm.DB {
	return joinItems(tx).
		Order("daily_inspection_data.inspection_date ASC").
		Order("checklist_items.sort_order ASC").
		Order("daily_inspection_data.inspection_data_id ASC")
}

func withItem(tx *gorm.DB) *gorm.DB {
	return tx.Select("daily_inspection_data.*").Preload("Item")
}

func (r *DailyInspectionRepository) List(ctx context.Context, q ListQuery) (Page[domain.DailyInspection], error) {
	return list[domain.DailyInspection](ctx, r.db, DailyListSpec, q, joinItems, withItem)
}

// ListByReport returns the report's results ordered by date and item position.
func (r *DailyInspectionRepository) ListByReport(ctx context.Context, reportID int64) ([]domain.DailyInspection, error) {
	var rows []domain.DailyInspection
	err := r.db.WithContext(ctx).
		Scopes(dailyByItemOrder, withItem).
		Where("daily_inspection_data.report_id = ?", reportID).
		Find(&rows).Error
	return rows, err
}

// ListByDateRange returns results dated within [from, to] inclusive.
func (r *DailyInspectionRepository) ListByDateRange(ctx context.Context, from, to domain.Date) ([]domain.DailyInspection, error) {
	var rows []domain.DailyInspection
	err := r.db.WithContext(ctx).
		Scopes(dailyByItemOrder, withItem).
		Where("daily_inspection_data.inspection_date BETWEEN ? AND ?", from, to).
		Find(&rows).Error
	return rows, err
}

func (r *DailyInspectionRepository) GetByID(ctx context.Context, id int64) (*domain.DailyInspection, error) {
	var row domain.DailyInspection
	if err := r.db.WithContext(ctx).Preload("Item").First(&row, "inspection_data_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Taken reports whether another row already holds the key.
func (r *DailyInspectionRepository) Taken(ctx context.Context, key DailyKey, excludeID int64) (bool, error) {
	return exists(ctx, r.db, &domain.DailyInspection{},
		"report_id = ? AND item_id = ? AND inspection_date = ? AND inspection_data_id <> ?",
		key.ReportID, key.ItemID, key.Date, excludeID)
}

func (r *DailyInspectionRepository) Create(ctx context.Context, row *domain.DailyInspection) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return err
	}
	return loadItem(r.db.WithContext(ctx), row)
}

// BulkCreate inserts every row or none.
func (r *DailyInspectionRepository) BulkCreate(ctx context.Context, rows []domain.DailyInspection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Omit(clause.Associations).Create(&rows[i]).Error; err != nil {
				return err
			}
			if err := loadItem(tx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DailyInspectionRepository) Update(ctx context.Context, row *domain.DailyInspection) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error; err != nil {
		return err
	}
	return loadItem(r.db.WithContext(ctx), row)
}

func loadItem(tx *gorm.DB, row *domain.DailyInspection) error {
	var item domain.ChecklistItem
	if err := tx.First(&item, "item_id = ?", row.ItemID).Error; err != nil {
		return err
	}
	row.Item = &item
	return nil
}

func (r *DailyInspectionRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.DailyInspection{}, "inspection_data_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
