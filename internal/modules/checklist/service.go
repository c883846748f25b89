package checklist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
)

const msgReordered = "Items reordered successfully"

type Service struct {
	repo ChecklistRepository
	log  *zap.Logger
}

func NewService(repo ChecklistRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.ChecklistItem], error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ChecklistItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*domain.ChecklistItem, error) {
	item := &domain.ChecklistItem{}
	if err := apply(item, req.patch()); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create checklist item: %w", err)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, req CreateItemRequest) (*domain.ChecklistItem, error) {
	return s.Patch(ctx, id, req.patch())
}

func (s *Service) Patch(ctx context.Context, id int64, req PatchItemRequest) (*domain.ChecklistItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update checklist item: %w", err)
	}
	return item, nil
}

// Delete removes the item and every daily result recorded against it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("checklist item deleted", zap.Int64("item_id", id))
	return nil
}

// Reorder assigns new sort positions. Ids that do not exist are skipped.
func (s *Service) Reorder(ctx context.Context, req ReorderRequest) (int, error) {
	orders := make([]repository.ItemOrder, 0, len(req.ItemOrders))
	for _, o := range req.ItemOrders {
		orders = append(orders, repository.ItemOrder{ItemID: o.ItemID, SortOrder: *o.SortOrder})
	}
	n, err := s.repo.Reorder(ctx, orders)
	if err != nil {
		return 0, fmt.Errorf("reorder checklist items: %w", err)
	}
	s.log.Debug("checklist reordered", zap.Int("requested", len(orders)), zap.Int("updated", n))
	return n, nil
}

// LoadResult reports one default item handled by LoadDefaults.
type LoadResult struct {
	Item    domain.ChecklistItem
	Created bool
}

// LoadDefaults makes sure every default item exists. Existing items keep
// their current position.
func (s *Service) LoadDefaults(ctx context.Context) ([]LoadResult, error) {
	results := make([]LoadResult, 0, len(DefaultItems))
	for i, desc := range DefaultItems {
		item, created, err := s.repo.GetOrCreate(ctx, desc, i+1)
		if err != nil {
			return results, fmt.Errorf("load checklist item %q: %w", desc, err)
		}
		results = append(results, LoadResult{Item: *item, Created: created})
	}
	return results, nil
}

// Count returns the number of checklist items.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func apply(item *domain.ChecklistItem, req PatchItemRequest) error {
	errs := domain.FieldErrors{}
	validator.NotBlank(errs, "item_description", req.Description)
	if err := errs.OrNil(); err != nil {
		return err
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	return nil
}
