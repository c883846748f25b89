package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipinspect/internal/domain"
)

var PersonnelListSpec = ListSpec{
	Filters: []FilterField{
		{Param: "role", Column: "users.role", Allowed: []string{
			string(domain.RoleOperator),
			string(domain.RoleSupervisor),
			string(domain.RoleAdmin),
		}},
	},
	Search: []string{
		"LOWER(users.full_name) LIKE ? ESCAPE '\\'",
		"LOWER(users.employee_number) LIKE ? ESCAPE '\\'",
	},
	Ordering: map[string]string{
		"user_id":         "users.user_id",
		"full_name":       "users.full_name",
		"role":            "users.role",
		"employee_number": "users.employee_number",
	},
	DefaultOrdering: []string{"full_name"},
	PrimaryKey:      "users.user_id",
}

type PersonnelRepository struct {
	db *gorm.DB
}

func NewPersonnelRepository(db *gorm.DB) *PersonnelRepository {
	return &PersonnelRepository{db: db}
}

func (r *PersonnelRepository) List(ctx context.Context, q ListQuery) (Page[domain.Personnel], error) {
	return list[domain.Personnel](ctx, r.db, PersonnelListSpec, q, nil)
}

func (r *PersonnelRepository) ListByRole(ctx context.Context, role domain.PersonnelRole) ([]domain.Personnel, error) {
	var people []domain.Personnel
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("full_name ASC").
		Order("user_id ASC").
		Find(&people).Error
	return people, err
}

func (r *PersonnelRepository) GetByID(ctx context.Context, id int64) (*domain.Personnel, error) {
	var p domain.Personnel
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonnelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, &domain.Personnel{}, "user_id = ?", id)
}

func (r *PersonnelRepository) EmployeeNumberTaken(ctx context.Context, number string, excludeID int64) (bool, error) {
	return exists(ctx, r.db, &domain.Personnel{}, "employee_number = ? AND user_id <> ?", number, excludeID)
}

func (r *PersonnelRepository) Create(ctx context.Context, p *domain.Personnel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PersonnelRepository) Update(ctx context.Context, p *domain.Personnel) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

// Delete removes the person and every report naming them as operator or supervisor.
func (r *PersonnelRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var files []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reportIDs []int64
		if err := tx.Model(&domain.InspectionReport{}).
			Where("operator_id = ? OR supervisor_id = ?", id, id).
			Pluck("report_id", &reportIDs).Error; err != nil {
			return err
		}

		var err error
		if files, err = deleteReports(tx, reportIDs); err != nil {
			return err
		}

		res := tx.Delete(&domain.Personnel{}, "user_id = ?", id)
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
