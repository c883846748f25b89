package inspection

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/pkg/validator"
)

// fileField is the multipart field carrying the upload.
const fileField = "file_path"

func (h *Handler) attachmentView(a domain.ReportAttachment) AttachmentView {
	return NewAttachmentView(a, h.attachments.FileURL)
}

func (h *Handler) ListAttachments(c *gin.Context) {
	page, err := h.attachments.List(c.Request.Context(), request.ListQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	request.Page(c, "report_attachments", page, h.attachmentView)
}

func (h *Handler) GetAttachment(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	a, err := h.attachments.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report_attachment": h.attachmentView(*a)})
}

// bindUpload reads the multipart form. The returned close func releases the
// opened file and is never nil.
func bindUpload(c *gin.Context) (UploadAttachmentRequest, *Upload, func(), bool) {
	var req UploadAttachmentRequest
	noop := func() {}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxFileSize+1<<20)
	if err := c.ShouldBind(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Validation(c, domain.FieldErrors{fileField: msgFileTooLarge})
			return req, nil, noop, false
		}
		response.Validation(c, validator.Translate(err))
		return req, nil, noop, false
	}

	header, err := c.FormFile(fileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, noop, true
		}
		response.Validation(c, domain.FieldErrors{fileField: msgNoFile})
		return req, nil, noop, false
	}
	f, err := header.Open()
	if err != nil {
		response.HandleError(c, err)
		return req, nil, noop, false
	}
	return req, newUpload(header, f), func() { _ = f.Close() }, true
}

func newUpload(header *multipart.FileHeader, f multipart.File) *Upload {
	return &Upload{Filename: header.Filename, Size: header.Size, Body: f}
}

func (h *Handler) CreateAttachment(c *gin.Context) {
	req, file, done, ok := bindUpload(c)
	defer done()
	if !ok {
		return
	}
	a, err := h.attachments.Create(c.Request.Context(), req, file)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"report_attachment": h.attachmentView(*a)})
}

func (h *Handler) ReplaceAttachment(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	req, file, done, ok := bindUpload(c)
	defer done()
	if !ok {
		return
	}
	a, err := h.attachments.Replace(c.Request.Context(), id, req, file)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report_attachment": h.attachmentView(*a)})
}

func (h *Handler) PatchAttachment(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchAttachmentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	a, err := h.attachments.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report_attachment": h.attachmentView(*a)})
}

func (h *Handler) DeleteAttachment(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.attachments.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadAttachment streams the stored file of an attachment.
func (h *Handler) DownloadAttachment(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	file, err := h.attachments.Open(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer file.Body.Close()

	c.Header("Content-Type", file.ContentType)
	response.Attachment(c, file.Name)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file.Body)
}
