package inspection

import (
	"context"
	"fmt"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
)

type NoteService struct {
	notes   NoteRepository
	reports Checker
}

func NewNoteService(notes NoteRepository, reports Checker) *NoteService {
	return &NoteService{notes: notes, reports: reports}
}

func (s *NoteService) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.ReportNote], error) {
	return s.notes.List(ctx, q)
}

func (s *NoteService) Get(ctx context.Context, id int64) (*domain.ReportNote, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *NoteService) Create(ctx context.Context, req CreateNoteRequest) (*domain.ReportNote, error) {
	n := &domain.ReportNote{}
	if err := s.apply(ctx, n, req.patch()); err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, translateFK(err, "create note")
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, id int64, req CreateNoteRequest) (*domain.ReportNote, error) {
	return s.Patch(ctx, id, req.patch())
}

func (s *NoteService) Patch(ctx context.Context, id int64, req PatchNoteRequest) (*domain.ReportNote, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, n, req); err != nil {
		return nil, err
	}
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, translateFK(err, "update note")
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, id int64) error {
	return s.notes.Delete(ctx, id)
}

func (s *NoteService) apply(ctx context.Context, n *domain.ReportNote, req PatchNoteRequest) error {
	errs := domain.FieldErrors{}
	validator.NotBlank(errs, "note_text", req.NoteText)
	if req.Report != nil {
		ok, err := s.reports.Exists(ctx, *req.Report)
		if err != nil {
			return fmt.Errorf("check report: %w", err)
		}
		if !ok {
			errs.Add("report", domain.InvalidPK(*req.Report))
		}
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	if req.Report != nil {
		n.ReportID = *req.Report
	}
	if req.NoteText != nil {
		n.NoteText = *req.NoteText
	}
	return nil
}
