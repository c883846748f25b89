package inspection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
)

type DailyService struct {
	daily   DailyRepository
	reports Checker
	items   Checker
	log     *zap.Logger
}

func NewDailyService(daily DailyRepository, reports, items Checker, log *zap.Logger) *DailyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DailyService{daily: daily, reports: reports, items: items, log: log}
}

func (s *DailyService) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.DailyInspection], error) {
	return s.daily.List(ctx, q)
}

func (s *DailyService) Get(ctx context.Context, id int64) (*domain.DailyInspection, error) {
	return s.daily.GetByID(ctx, id)
}

// ByDateRange returns results dated within [start, end]. Both bounds are
// required YYYY-MM-DD strings.
func (s *DailyService) ByDateRange(ctx context.Context, start, end string) ([]domain.DailyInspection, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, &RangeError{Message: msgRangeRequired}
	}
	from, err := domain.ParseDate(start)
	if err != nil {
		return nil, &RangeError{Message: msgRangeDateFormat}
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		return nil, &RangeError{Message: msgRangeDateFormat}
	}
	return s.daily.ListByDateRange(ctx, from, to)
}

func (s *DailyService) Create(ctx context.Context, req CreateDailyRequest) (*domain.DailyInspection, error) {
	row := &domain.DailyInspection{}
	if err := s.apply(ctx, row, req.patch()); err != nil {
		return nil, err
	}
	if err := s.daily.Create(ctx, row); err != nil {
		return nil, translateDaily(err, "create daily inspection")
	}
	return row, nil
}

func (s *DailyService) Update(ctx context.Context, id int64, req CreateDailyRequest) (*domain.DailyInspection, error) {
	return s.Patch(ctx, id, req.patch())
}

func (s *DailyService) Patch(ctx context.Context, id int64, req PatchDailyRequest) (*domain.DailyInspection, error) {
	row, err := s.daily.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, row, req); err != nil {
		return nil, err
	}
	if err := s.daily.Update(ctx, row); err != nil {
		return nil, translateDaily(err, "update daily inspection")
	}
	return row, nil
}

func (s *DailyService) Delete(ctx context.Context, id int64) error {
	return s.daily.Delete(ctx, id)
}

// BulkCreate validates every entry first and stores all of them in one
// transaction, or none when any entry fails.
func (s *DailyService) BulkCreate(ctx context.Context, entries []CreateDailyRequest) ([]domain.DailyInspection, error) {
	rows := make([]domain.DailyInspection, len(entries))
	bulk := make(BulkErrors, len(entries))
	seen := make(map[repository.DailyKey]bool, len(entries))

	for i, req := range entries {
		if err := validator.Struct(req); err != nil {
			bulk[i] = validator.Translate(err)
			continue
		}
		if err := s.apply(ctx, &rows[i], req.patch()); err != nil {
			var fe domain.FieldErrors
			if !errors.As(err, &fe) {
				return nil, err
			}
			bulk[i] = fe
			continue
		}
		key := repository.DailyKey{ReportID: rows[i].ReportID, ItemID: rows[i].ItemID, Date: rows[i].InspectionDate}
		if seen[key] {
			bulk[i] = domain.FieldErrors{validator.NonFieldErrors: msgDailyNotUnique}
			continue
		}
		seen[key] = true
		bulk[i] = domain.FieldErrors{}
	}
	if bulk.failed() {
		return nil, bulk
	}

	if err := s.daily.BulkCreate(ctx, rows); err != nil {
		return nil, translateDaily(err, "bulk create daily inspections")
	}
	s.log.Info("daily inspections created", zap.Int("count", len(rows)))
	return rows, nil
}

func (s *DailyService) apply(ctx context.Context, row *domain.DailyInspection, req PatchDailyRequest) error {
	errs := domain.FieldErrors{}
	parseDate(errs, "inspection_date", req.InspectionDate, &row.InspectionDate)
	if req.Status != nil {
		row.Status = domain.InspectionStatus(*req.Status)
	}

	if req.Report != nil {
		if err := s.reference(ctx, errs, "report", *req.Report, s.reports); err != nil {
			return err
		}
		row.ReportID = *req.Report
	}
	if req.Item != nil {
		if err := s.reference(ctx, errs, "item", *req.Item, s.items); err != nil {
			return err
		}
		row.ItemID = *req.Item
	}
	if err := errs.OrNil(); err != nil {
		return err
	}

	key := repository.DailyKey{ReportID: row.ReportID, ItemID: row.ItemID, Date: row.InspectionDate}
	taken, err := s.daily.Taken(ctx, key, row.ID)
	if err != nil {
		return fmt.Errorf("check daily inspection key: %w", err)
	}
	if taken {
		errs.Add(validator.NonFieldErrors, msgDailyNotUnique)
	}
	return errs.OrNil()
}

func (s *DailyService) reference(ctx context.Context, errs domain.FieldErrors, field string, id int64, check Checker) error {
	ok, err := check.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check %s: %w", field, err)
	}
	if !ok {
		errs.Add(field, domain.InvalidPK(id))
	}
	return nil
}

func translateDaily(err error, op string) error {
	if repository.IsDuplicate(err) {
		return domain.FieldErrors{validator.NonFieldErrors: msgDailyNotUnique}
	}
	return translateFK(err, op)
}
