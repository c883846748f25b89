package inspection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/repository"
)

// Upload is one received file.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Download is an opened stored file. The caller closes Body.
type Download struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

type AttachmentService struct {
	attachments AttachmentRepository
	reports     Checker
	store       storage.Storage
	log         *zap.Logger
	now         func() time.Time
}

func NewAttachmentService(attachments AttachmentRepository, reports Checker, store storage.Storage, log *zap.Logger) *AttachmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttachmentService{attachments: attachments, reports: reports, store: store, log: log, now: time.Now}
}

// FileURL is the public address of a stored file.
func (s *AttachmentService) FileURL(key string) string {
	return s.store.URL(key)
}

func (s *AttachmentService) List(ctx context.Context, q repository.ListQuery) (repository.Page[domain.ReportAttachment], error) {
	return s.attachments.List(ctx, q)
}

func (s *AttachmentService) Get(ctx context.Context, id int64) (*domain.ReportAttachment, error) {
	return s.attachments.GetByID(ctx, id)
}

// Create stores the file and records it against the report.
func (s *AttachmentService) Create(ctx context.Context, req UploadAttachmentRequest, file *Upload) (*domain.ReportAttachment, error) {
	a := &domain.ReportAttachment{}
	if err := s.applyMeta(ctx, a, &req.Report, req.Caption, file == nil); err != nil {
		return nil, err
	}
	if err := s.put(ctx, a, file); err != nil {
		return nil, err
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		s.discard(ctx, a.FilePath)
		return nil, translateFK(err, "create attachment")
	}
	s.log.Info("attachment stored",
		zap.Int64("attachment_id", a.ID),
		zap.Int64("report_id", a.ReportID),
		zap.String("key", a.FilePath),
		zap.Int64("size", a.Size),
	)
	return a, nil
}

// Replace swaps the file, report and caption of an attachment. The old
// file is removed once the row points at the new one.
func (s *AttachmentService) Replace(ctx context.Context, id int64, req UploadAttachmentRequest, file *Upload) (*domain.ReportAttachment, error) {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Caption == nil {
		a.Caption = nil
	}
	if err := s.applyMeta(ctx, a, &req.Report, req.Caption, file == nil); err != nil {
		return nil, err
	}
	old := a.FilePath
	if err := s.put(ctx, a, file); err != nil {
		return nil, err
	}
	if err := s.attachments.Update(ctx, a); err != nil {
		s.discard(ctx, a.FilePath)
		return nil, translateFK(err, "update attachment")
	}
	s.discard(ctx, old)
	return a, nil
}

// Patch changes report and caption only.
func (s *AttachmentService) Patch(ctx context.Context, id int64, req PatchAttachmentRequest) (*domain.ReportAttachment, error) {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyMeta(ctx, a, req.Report, req.Caption, false); err != nil {
		return nil, err
	}
	if err := s.attachments.Update(ctx, a); err != nil {
		return nil, translateFK(err, "update attachment")
	}
	return a, nil
}

func (s *AttachmentService) Delete(ctx context.Context, id int64) error {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.attachments.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, a.FilePath)
	return nil
}

// Open returns the stored file of an attachment.
func (s *AttachmentService) Open(ctx context.Context, id int64) (*Download, error) {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := s.store.Get(ctx, a.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("attachment %d file: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("open attachment %d: %w", id, err)
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeOf(a.FilePath)
	}
	name := a.FilePath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return &Download{Name: name, ContentType: contentType, Body: body}, nil
}

func (s *AttachmentService) applyMeta(ctx context.Context, a *domain.ReportAttachment, report *int64, caption *string, missingFile bool) error {
	errs := domain.FieldErrors{}
	if missingFile {
		errs.Add("file_path", msgNoFile)
	}
	if report != nil {
		ok, err := s.reports.Exists(ctx, *report)
		if err != nil {
			return fmt.Errorf("check report: %w", err)
		}
		if !ok {
			errs.Add("report", domain.InvalidPK(*report))
		} else {
			a.ReportID = *report
		}
	}
	if caption != nil {
		c := *caption
		a.Caption = &c
	}
	return errs.OrNil()
}

// put validates and writes one upload, filling the file columns of a.
func (s *AttachmentService) put(ctx context.Context, a *domain.ReportAttachment, file *Upload) error {
	mimeType, body, err := storage.Sniff(file.Body)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := storage.Check(file.Size, mimeType); err != nil {
		return domain.FieldErrors{"file_path": uploadMessage(err)}
	}

	key := storage.NewKey(file.Filename, mimeType, s.now())
	if err := s.store.Put(ctx, key, body, file.Size, mimeType); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	a.FilePath = key
	a.ContentType = mimeType
	a.Size = file.Size
	return nil
}

func (s *AttachmentService) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("failed to remove attachment file", zap.String("key", key), zap.Error(err))
	}
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return msgFileTooLarge
	case errors.Is(err, storage.ErrInvalidMimeType):
		return msgFileTypeNotAllow
	case errors.Is(err, storage.ErrEmptyFile):
		return msgFileEmpty
	}
	return err.Error()
}
