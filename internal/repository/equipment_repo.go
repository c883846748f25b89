package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipinspect/internal/domain"
)

var EquipmentListSpec = ListSpec{
	Filters: []FilterField{
		{Param: "status", Column: "equipment.status", Allowed: []string{
			string(domain.EquipmentActive),
			string(domain.EquipmentMaintenance),
			string(domain.EquipmentDecommissioned),
		}},
		{Param: "equipment_type", Column: "equipment.equipment_type"},
	},
	Search: []string{
		"LOWER(equipment.serial_number) LIKE ? ESCAPE '\\'",
		"LOWER(equipment.equipment_type) LIKE ? ESCAPE '\\'",
		"LOWER(equipment.model) LIKE ? ESCAPE '\\'",
	},
	Ordering: map[string]string{
		"equipment_id":   "equipment.equipment_id",
		"serial_number":  "equipment.serial_number",
		"equipment_type": "equipment.equipment_type",
		"model":          "equipment.model",
	},
	DefaultOrdering: []string{"equipment_type", "serial_number"},
	PrimaryKey:      "equipment.equipment_id",
}

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) List(ctx context.Context, q ListQuery) (Page[domain.Equipment], error) {
	return list[domain.Equipment](ctx, r.db, EquipmentListSpec, q, nil)
}

// ListByStatus returns every unit with the status in default order.
func (r *EquipmentRepository) ListByStatus(ctx context.Context, status domain.EquipmentStatus) ([]domain.Equipment, error) {
	var items []domain.Equipment
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("equipment_type ASC").
		Order("serial_number ASC").
		Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	var e domain.Equipment
	if err := r.db.WithContext(ctx).First(&e, "equipment_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, &domain.Equipment{}, "equipment_id = ?", id)
}

// SerialNumberTaken ignores the row with excludeID so updates can keep their own value.
func (r *EquipmentRepository) SerialNumberTaken(ctx context.Context, serial string, excludeID int64) (bool, error) {
	return exists(ctx, r.db, &domain.Equipment{}, "serial_number = ? AND equipment_id <> ?", serial, excludeID)
}

func (r *EquipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EquipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

// Delete removes the unit and every report recorded for it. It returns the
// storage keys of attachments that went with those reports.
func (r *EquipmentRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var files []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reportIDs []int64
		if err := tx.Model(&domain.InspectionReport{}).
			Where("equipment_id = ?", id).
			Pluck("report_id", &reportIDs).Error; err != nil {
			return err
		}

		var err error
		if files, err = deleteReports(tx, reportIDs); err != nil {
			return err
		}

		res := tx.Delete(&domain.Equipment{}, "equipment_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func exists(ctx context.Context, db *gorm.DB, model any, cond string, args ...any) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(cond, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
