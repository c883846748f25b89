package inspection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
)

type ReportService struct {
	reports   ReportRepository
	daily     DailyRepository
	equipment Checker
	personnel Checker
	files     storage.Deleter
	log       *zap.Logger
	now       func() time.Time
}

func NewReportService(
	reports ReportRepository,
	daily DailyRepository,
	equipment Checker,
	personnel Checker,
	files storage.Deleter,
	log *zap.Logger,
) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{
		reports:   reports,
		daily:     daily,
		equipment: equipment,
		personnel: personnel,
		files:     files,
		log:       log,
		now:       time.Now,
	}
}

func (s *ReportService) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.InspectionReport], error) {
	return s.reports.List(ctx, q)
}

func (s *ReportService) Get(ctx context.Context, id int64) (*domain.InspectionReport, error) {
	return s.reports.GetDetail(ctx, id)
}

// CurrentWeek returns reports overlapping the Monday to Sunday week of today.
func (s *ReportService) CurrentWeek(ctx context.Context) ([]domain.InspectionReport, error) {
	monday, sunday := WeekOf(domain.DateOf(s.now()))
	return s.reports.Overlapping(ctx, monday, sunday)
}

// WeekOf returns the Monday and Sunday around d.
func WeekOf(d domain.Date) (domain.Date, domain.Date) {
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDays(-offset)
	return monday, monday.AddDays(6)
}

// DailyData returns every result of the report, or not found when the report is missing.
func (s *ReportService) DailyData(ctx context.Context, id int64) ([]domain.DailyInspection, error) {
	if _, err := s.reports.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.daily.ListByReport(ctx, id)
}

func (s *ReportService) Create(ctx context.Context, req CreateReportRequest) (*domain.InspectionReport, error) {
	r := &domain.InspectionReport{}
	if err := s.apply(ctx, r, req.patch()); err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, translateFK(err, "create report")
	}
	s.log.Info("report created", zap.Int64("report_id", r.ID), zap.String("report_number", r.ReportNumber))
	return s.reports.GetDetail(ctx, r.ID)
}

func (s *ReportService) Update(ctx context.Context, id int64, req CreateReportRequest) (*domain.InspectionReport, error) {
	return s.Patch(ctx, id, req.patch())
}

func (s *ReportService) Patch(ctx context.Context, id int64, req PatchReportRequest) (*domain.InspectionReport, error) {
	r, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, r, req); err != nil {
		return nil, err
	}
	if err := s.reports.Update(ctx, r); err != nil {
		return nil, translateFK(err, "update report")
	}
	return s.reports.GetDetail(ctx, r.ID)
}

// Delete removes the report with its daily data, notes and attachment files.
func (s *ReportService) Delete(ctx context.Context, id int64) error {
	files, err := s.reports.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := storage.DeleteAll(ctx, s.files, files); err != nil {
		s.log.Warn("failed to remove attachment files", zap.Int64("report_id", id), zap.Error(err))
	}
	s.log.Info("report deleted", zap.Int64("report_id", id), zap.Int("files", len(files)))
	return nil
}

func (s *ReportService) apply(ctx context.Context, r *domain.InspectionReport, req PatchReportRequest) error {
	errs := domain.FieldErrors{}
	validator.NotBlank(errs, "report_number", req.ReportNumber)

	if req.ReportNumber != nil {
		r.ReportNumber = strings.TrimSpace(*req.ReportNumber)
	}
	parseDate(errs, "start_date", req.StartDate, &r.StartDate)
	parseDate(errs, "end_date", req.EndDate, &r.EndDate)
	parseClock(errs, "working_hours_from", req.WorkingHoursFrom, &r.WorkingHoursFrom)
	parseClock(errs, "working_hours_to", req.WorkingHoursTo, &r.WorkingHoursTo)

	refs := []struct {
		field string
		id    *int64
		check Checker
		dst   *int64
	}{
		{"equipment", req.Equipment, s.equipment, &r.EquipmentID},
		{"operator", req.Operator, s.personnel, &r.OperatorID},
		{"supervisor", req.Supervisor, s.personnel, &r.SupervisorID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := ref.check.Exists(ctx, *ref.id)
		if err != nil {
			return fmt.Errorf("check %s: %w", ref.field, err)
		}
		if !ok {
			errs.Add(ref.field, domain.InvalidPK(*ref.id))
			continue
		}
		*ref.dst = *ref.id
	}

	if _, bad := errs["start_date"]; !bad {
		if _, bad := errs["end_date"]; !bad && r.EndDate.Before(r.StartDate) {
			errs.Add("end_date", msgEndBeforeStart)
		}
	}
	return errs.OrNil()
}

func parseDate(errs domain.FieldErrors, field string, raw *string, dst *domain.Date) {
	if raw == nil {
		return
	}
	d, err := domain.ParseDate(*raw)
	if err != nil {
		errs.Add(field, msgDateFormat)
		return
	}
	*dst = d
}

func parseClock(errs domain.FieldErrors, field string, raw *string, dst *domain.ClockTime) {
	if raw == nil {
		return
	}
	t, err := domain.ParseClockTime(*raw)
	if err != nil {
		errs.Add(field, msgTimeFormat)
		return
	}
	*dst = t
}

// translateFK turns a foreign key failure that slipped past the existence
// checks into a field error.
func translateFK(err error, op string) error {
	if repository.IsForeignKey(err) {
		return domain.FieldErrors{validator.NonFieldErrors: "Referenced object does not exist."}
	}
	return fmt.Errorf("%s: %w", op, err)
}
