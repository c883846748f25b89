package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipinspect/internal/domain"
)

var ChecklistListSpec = ListSpec{
	Search: []string{
		"LOWER(checklist_items.item_description) LIKE ? ESCAPE '\\'",
	},
	Ordering: map[string]string{
		"item_id":    "checklist_items.item_id",
		"sort_order": "checklist_items.sort_order",
	},
	DefaultOrdering: []string{"sort_order"},
	PrimaryKey:      "checklist_items.item_id",
}

// ItemOrder assigns a new sort position to an item.
type ItemOrder struct {
	ItemID    int64 `json:"item_id"`
	SortOrder int   `json:"sort_order"`
}

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) List(ctx context.Context, q ListQuery) (Page[domain.ChecklistItem], error) {
	return list[domain.ChecklistItem](ctx, r.db, ChecklistListSpec, q, nil)
}

// All returns every item in form order.
func (r *ChecklistRepository) All(ctx context.Context) ([]domain.ChecklistItem, error) {
	var items []domain.ChecklistItem
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Order("item_id ASC").
		Find(&items).Error
	return items, err
}

func (r *ChecklistRepository) GetByID(ctx context.Context, id int64) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	if err := r.db.WithContext(ctx).First(&item, "item_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ChecklistRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, &domain.ChecklistItem{}, "item_id = ?", id)
}

func (r *ChecklistRepository) Create(ctx context.Context, item *domain.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetOrCreate looks the item up by description and creates it with
// sortOrder when missing.
func (r *ChecklistRepository) GetOrCreate(ctx context.Context, description string, sortOrder int) (*domain.ChecklistItem, bool, error) {
	var item domain.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("item_description = ?", description).
		Order("item_id ASC").
		First(&item).Error
	if err == nil {
		return &item, false, nil
	}
	if !IsNotFound(err) {
		return nil, false, err
	}

	item = domain.ChecklistItem{Description: description, SortOrder: sortOrder}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, false, err
	}
	return &item, true, nil
}

func (r *ChecklistRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ChecklistItem{}).Count(&n).Error
	return n, err
}

func (r *ChecklistRepository) Update(ctx context.Context, item *domain.ChecklistItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// Reorder applies every order in one transaction. Unknown items are skipped;
// the number of updated items is returned.
func (r *ChecklistRepository) Reorder(ctx context.Context, orders []ItemOrder) (int, error) {
	updated := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			res := tx.Model(&domain.ChecklistItem{}).
				Where("item_id = ?", o.ItemID).
				Update("sort_order", o.SortOrder)
			if res.Error != nil {
				return res.Error
			}
			updated += int(res.RowsAffected)
		}
		return nil
	})
	return updated, err
}

// Delete removes the item together with every daily result recorded for it.
func (r *ChecklistRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&domain.DailyInspection{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.ChecklistItem{}, "item_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
