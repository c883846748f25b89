package equipment

import (
	"context"

	"equipinspect/internal/domain"
	"equipinspect/internal/repository"
)

// EquipmentRepository defines the storage operations the service needs
type EquipmentRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.Equipment], error)
	ListByStatus(ctx context.Context, status domain.EquipmentStatus) ([]domain.Equipment, error)
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	SerialNumberTaken(ctx context.Context, serial string, excludeID int64) (bool, error)
	Create(ctx context.Context, e *domain.Equipment) error
	Update(ctx context.Context, e *domain.Equipment) error
	Delete(ctx context.Context, id int64) ([]string, error)
}
