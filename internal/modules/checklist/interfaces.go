package checklist

import (
	"context"

	"equipinspect/internal/domain"
	"equipinspect/internal/repository"
)

type ChecklistRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.ChecklistItem], error)
	GetByID(ctx context.Context, id int64) (*domain.ChecklistItem, error)
	Create(ctx context.Context, item *domain.ChecklistItem) error
	GetOrCreate(ctx context.Context, description string, sortOrder int) (*domain.ChecklistItem, bool, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, item *domain.ChecklistItem) error
	Reorder(ctx context.Context, orders []repository.ItemOrder) (int, error)
	Delete(ctx context.Context, id int64) error
}
