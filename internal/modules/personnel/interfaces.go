package personnel

import (
	"context"

	"equipinspect/internal/domain"
	"equipinspect/internal/repository"
)

type PersonnelRepository interface {
	List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.Personnel], error)
	ListByRole(ctx context.Context, role domain.PersonnelRole) ([]domain.Personnel, error)
	GetByID(ctx context.Context, id int64) (*domain.Personnel, error)
	EmployeeNumberTaken(ctx context.Context, number string, excludeID int64) (bool, error)
	Create(ctx context.Context, p *domain.Personnel) error
	Update(ctx context.Context, p *domain.Personnel) error
	Delete(ctx context.Context, id int64) ([]string, error)
}
