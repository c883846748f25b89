package equipment

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
	repo  EquipmentRepository
	files storage.Deleter
	log   *zap.Logger
}

func NewService(repo EquipmentRepository, files storage.Deleter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, files: files, log: log}
}

func (s *Service) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.Equipment], error) {
	return s.repo.List(ctx, q)
}

// Active returns all units currently in service.
func (s *Service) Active(ctx context.Context) ([]domain.Equipment, error) {
	return s.repo.ListByStatus(ctx, domain.EquipmentActive)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateEquipmentRequest) (*domain.Equipment, error) {
	e := &domain.Equipment{Status: domain.EquipmentActive}
	if err := s.apply(ctx, e, req.patch()); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Update replaces every writable field; an omitted status keeps the current one.
func (s *Service) Update(ctx context.Context, id int64, req CreateEquipmentRequest) (*domain.Equipment, error) {
	return s.Patch(ctx, id, req.patch())
}

func (s *Service) Patch(ctx context.Context, id int64, req PatchEquipmentRequest) (*domain.Equipment, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, e, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Delete removes the unit, its reports and their stored attachment files.
func (s *Service) Delete(ctx context.Context, id int64) error {
	files, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := storage.DeleteAll(ctx, s.files, files); err != nil {
		s.log.Warn("failed to remove attachment files", zap.Int64("equipment_id", id), zap.Error(err))
	}
	s.log.Info("equipment deleted", zap.Int64("equipment_id", id), zap.Int("files", len(files)))
	return nil
}

func (s *Service) apply(ctx context.Context, e *domain.Equipment, req PatchEquipmentRequest) error {
	errs := domain.FieldErrors{}
	validator.NotBlank(errs, "serial_number", req.SerialNumber)
	validator.NotBlank(errs, "equipment_type", req.EquipmentType)
	validator.NotBlank(errs, "model", req.Model)
	if err := errs.OrNil(); err != nil {
		return err
	}

	if req.SerialNumber != nil {
		serial := strings.TrimSpace(*req.SerialNumber)
		taken, err := s.repo.SerialNumberTaken(ctx, serial, e.ID)
		if err != nil {
			return fmt.Errorf("check serial number: %w", err)
		}
		if taken {
			errs.Add("serial_number", msgSerialNumberTaken)
			return errs
		}
		e.SerialNumber = serial
	}
	if req.EquipmentType != nil {
		e.EquipmentType = strings.TrimSpace(*req.EquipmentType)
	}
	if req.Model != nil {
		e.Model = strings.TrimSpace(*req.Model)
	}
	if req.Status != nil {
		e.Status = domain.EquipmentStatus(*req.Status)
	}
	return nil
}

// translate turns a duplicate insert that raced the pre-check into a field error.
func translate(err error) error {
	if repository.IsDuplicate(err) {
		return domain.FieldErrors{"serial_number": msgSerialNumberTaken}
	}
	return fmt.Errorf("save equipment: %w", err)
}
