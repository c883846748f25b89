package personnel

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
)

type Service struct {
	repo  PersonnelRepository
	files storage.Deleter
	log   *zap.Logger
}

func NewService(repo PersonnelRepository, files storage.Deleter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, files: files, log: log}
}

func (s *Service) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.Personnel], error) {
	return s.repo.List(ctx, q)
}

func (s *Service) ByRole(ctx context.Context, role domain.PersonnelRole) ([]domain.Personnel, error) {
	return s.repo.ListByRole(ctx, role)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Personnel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreatePersonnelRequest) (*domain.Personnel, error) {
	p := &domain.Personnel{}
	if err := s.apply(ctx, p, req.patch()); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req CreatePersonnelRequest) (*domain.Personnel, error) {
	return s.Patch(ctx, id, req.patch())
}

func (s *Service) Patch(ctx context.Context, id int64, req PatchPersonnelRequest) (*domain.Personnel, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Delete removes the person together with every report they operated or supervised.
func (s *Service) Delete(ctx context.Context, id int64) error {
	files, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := storage.DeleteAll(ctx, s.files, files); err != nil {
		s.log.Warn("failed to remove attachment files", zap.Int64("user_id", id), zap.Error(err))
	}
	s.log.Info("personnel deleted", zap.Int64("user_id", id), zap.Int("files", len(files)))
	return nil
}

func (s *Service) apply(ctx context.Context, p *domain.Personnel, req PatchPersonnelRequest) error {
	errs := domain.FieldErrors{}
	validator.NotBlank(errs, "full_name", req.FullName)
	validator.NotBlank(errs, "employee_number", req.EmployeeNumber)
	if err := errs.OrNil(); err != nil {
		return err
	}

	if req.EmployeeNumber != nil {
		number := strings.TrimSpace(*req.EmployeeNumber)
		taken, err := s.repo.EmployeeNumberTaken(ctx, number, p.ID)
		if err != nil {
			return fmt.Errorf("check employee number: %w", err)
		}
		if taken {
			errs.Add("employee_number", msgEmployeeNumberTaken)
			return errs
		}
		p.EmployeeNumber = number
	}
	if req.FullName != nil {
		p.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		p.Role = domain.PersonnelRole(*req.Role)
	}
	return nil
}

func translate(err error) error {
	if repository.IsDuplicate(err) {
		return domain.FieldErrors{"employee_number": msgEmployeeNumberTaken}
	}
	return fmt.Errorf("save personnel: %w", err)
}
